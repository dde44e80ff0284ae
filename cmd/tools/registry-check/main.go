// cmd/tools/registry-check/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"creator-pilot/internal/common/validation"
	"creator-pilot/internal/models"
	"creator-pilot/pkg/registry"
)

var registryPath string

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validateCmd.StringVar(&registryPath, "path", "configs/capability-registry.json", "Path to capability registry file")

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	listCmd.StringVar(&registryPath, "path", "configs/capability-registry.json", "Path to capability registry file")

	schemaCmd := flag.NewFlagSet("schema", flag.ExitOnError)
	schemaCmd.StringVar(&registryPath, "path", "configs/capability-registry.json", "Path to capability registry file")
	name := schemaCmd.String("name", "", "Capability name (required)")

	var err error
	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		err = runValidate()
	case "list":
		listCmd.Parse(os.Args[2:])
		err = runList()
	case "schema":
		schemaCmd.Parse(os.Args[2:])
		if *name == "" {
			fmt.Println("Error: -name is required")
			schemaCmd.PrintDefaults()
			os.Exit(1)
		}
		err = runSchema(*name)
	case "help":
		help()
		return
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		help()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func runValidate() error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := validateRegistry(reg); err != nil {
		return err
	}
	fmt.Printf("Registry validation passed. Found %d capabilities.\n", len(reg.Capabilities))
	return nil
}

// validateRegistry goes beyond registry.Check: every entry must name a
// known capability, carry a display name and a compilable output schema,
// and every known capability must be present.
func validateRegistry(reg *registry.CapabilityRegistry) error {
	if len(reg.Capabilities) == 0 {
		return fmt.Errorf("registry contains no capabilities")
	}

	for _, c := range reg.Capabilities {
		if !models.Capability(c.Name).IsValid() {
			return fmt.Errorf("unknown capability: %s", c.Name)
		}
		if c.DisplayName == "" {
			return fmt.Errorf("capability %s missing required field: displayName", c.Name)
		}
		if len(c.OutputSchema) == 0 {
			return fmt.Errorf("capability %s missing required field: outputSchema", c.Name)
		}
		if _, err := validation.Compile(c.OutputSchema); err != nil {
			return fmt.Errorf("capability %s: %w", c.Name, err)
		}
	}

	var missing []string
	for _, c := range models.AllCapabilities() {
		if _, ok := reg.Find(c.String()); !ok {
			missing = append(missing, c.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("registry is missing capabilities: %s", strings.Join(missing, ", "))
	}
	return nil
}

func runList() error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	caps := append([]registry.Capability(nil), reg.Capabilities...)
	sort.Slice(caps, func(i, j int) bool { return caps[i].Name < caps[j].Name })

	fmt.Printf("Registry %s (updated %s)\n", reg.Version, reg.LastUpdated)
	for _, c := range caps {
		agentID := c.AgentID
		if agentID == "" {
			agentID = "-"
		}
		fmt.Printf("  %-10s %-24s agent=%s fields=%s\n", c.Name, c.DisplayName, agentID, strings.Join(c.Fields, ","))
	}
	return nil
}

func runSchema(name string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	c, ok := reg.Find(name)
	if !ok {
		return fmt.Errorf("capability %s not found", name)
	}
	data, err := json.MarshalIndent(c.OutputSchema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func help() {
	fmt.Print(`
Usage: registry-check <command> [flags]

Commands:
  validate  Validate the capability registry file
  list      List the capabilities in the registry
  schema    Print the output schema of one capability
  help      Show this help message

Examples:
  registry-check validate -path configs/capability-registry.json
  registry-check list
  registry-check schema -name brainstorm

Use 'registry-check <command> -h' for more information about a command.

`)
}
