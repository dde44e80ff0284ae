// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed default_registry.json
var defaultRegistry []byte

// LoadRegistry reads a registry document from path.
func LoadRegistry(path string) (*CapabilityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Default returns the registry compiled into the binary.
func Default() *CapabilityRegistry {
	reg, err := Parse(defaultRegistry)
	if err != nil {
		panic(fmt.Sprintf("embedded capability registry is invalid: %v", err))
	}
	return reg
}

// Parse decodes and checks a registry document.
func Parse(data []byte) (*CapabilityRegistry, error) {
	var reg CapabilityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	if err := reg.Check(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Check reports duplicate or unnamed entries.
func (r *CapabilityRegistry) Check() error {
	seen := make(map[string]bool, len(r.Capabilities))
	for i, c := range r.Capabilities {
		if c.Name == "" {
			return fmt.Errorf("capability %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("capability %q is listed twice", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// Find returns the entry for name.
func (r *CapabilityRegistry) Find(name string) (*Capability, bool) {
	for i := range r.Capabilities {
		if r.Capabilities[i].Name == name {
			return &r.Capabilities[i], true
		}
	}
	return nil, false
}
