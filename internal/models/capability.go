package models

// Capability names one remote AI function.
type Capability string

const (
	CapabilityInsight    Capability = "insight"
	CapabilityBrainstorm Capability = "brainstorm"
	CapabilityWrite      Capability = "write"
	CapabilityTrend      Capability = "trend"
	CapabilityManager    Capability = "manager"
)

// AllCapabilities lists the fixed capability set in a stable order.
func AllCapabilities() []Capability {
	return []Capability{
		CapabilityInsight,
		CapabilityBrainstorm,
		CapabilityWrite,
		CapabilityTrend,
		CapabilityManager,
	}
}

func (c Capability) IsValid() bool {
	switch c {
	case CapabilityInsight, CapabilityBrainstorm, CapabilityWrite, CapabilityTrend, CapabilityManager:
		return true
	}
	return false
}

func (c Capability) String() string {
	return string(c)
}
