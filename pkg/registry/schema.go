// pkg/registry/schema.go
package registry

// CapabilityRegistry describes the remote capabilities the assistant can
// call and the payload shape each one is expected to return.
type CapabilityRegistry struct {
	Version      string       `json:"version"`
	LastUpdated  string       `json:"lastUpdated"`
	Capabilities []Capability `json:"capabilities"`
}

type Capability struct {
	Name         string                 `json:"name"`
	DisplayName  string                 `json:"displayName"`
	Description  string                 `json:"description"`
	AgentID      string                 `json:"agentId,omitempty"`
	Fields       []string               `json:"fields"`
	OutputSchema map[string]interface{} `json:"outputSchema"`
	Tags         []string               `json:"tags"`
}
