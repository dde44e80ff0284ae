// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Agent         AgentConfig         `mapstructure:"agent"`
	Capabilities  CapabilityIDs       `mapstructure:"capabilities"`
	Registry      RegistryConfig      `mapstructure:"registry"`
	Sequence      SequenceConfig      `mapstructure:"sequence"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Onboarding    OnboardingConfig    `mapstructure:"onboarding"`
	Prompt        PromptConfig        `mapstructure:"prompt"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// AgentConfig points at the remote AI agent service.
type AgentConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxRetries int    `mapstructure:"max_retries"`
}

// CapabilityIDs holds the opaque agent ID for each remote capability.
type CapabilityIDs struct {
	Insight    string `mapstructure:"insight"`
	Brainstorm string `mapstructure:"brainstorm"`
	Write      string `mapstructure:"write"`
	Trend      string `mapstructure:"trend"`
	Manager    string `mapstructure:"manager"`
}

type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// SequenceConfig selects where request sequence tokens live.
type SequenceConfig struct {
	Backend   string `mapstructure:"backend"` // memory | redis
	KeyPrefix string `mapstructure:"key_prefix"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port, falling back to the local default.
func (r RedisConfig) Addr() string {
	if r.Address == "" {
		return fmt.Sprintf("%s:%d", "localhost", 6379)
	}
	return r.Address
}

type OnboardingConfig struct {
	SyncDelay int `mapstructure:"sync_delay"` // milliseconds
}

type PromptConfig struct {
	MaxFieldRunes int `mapstructure:"max_field_runes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}
