// internal/agent/config.go
package agent

import (
	"time"

	"creator-pilot/internal/common/config"
	"creator-pilot/internal/models"
)

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	AgentIDs   map[models.Capability]string
}

// ConfigFrom maps the application config onto the client config.
func ConfigFrom(cfg *config.Config) *Config {
	ids := map[models.Capability]string{
		models.CapabilityInsight:    cfg.Capabilities.Insight,
		models.CapabilityBrainstorm: cfg.Capabilities.Brainstorm,
		models.CapabilityWrite:      cfg.Capabilities.Write,
		models.CapabilityTrend:      cfg.Capabilities.Trend,
	}
	if cfg.Capabilities.Manager != "" {
		ids[models.CapabilityManager] = cfg.Capabilities.Manager
	}
	return &Config{
		BaseURL:    cfg.Agent.BaseURL,
		APIKey:     cfg.Agent.APIKey,
		Timeout:    config.GetDuration(cfg.Agent.Timeout),
		MaxRetries: cfg.Agent.MaxRetries,
		AgentIDs:   ids,
	}
}
