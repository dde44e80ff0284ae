// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Capability agent IDs used by the source product. They are opaque to us and
// can be overridden per environment.
const (
	DefaultInsightAgentID    = "69858743e17e33c11eed19b3"
	DefaultBrainstormAgentID = "698587582237a2c55706b012"
	DefaultWriteAgentID      = "6985876eb90162af737b1ea1"
	DefaultTrendAgentID      = "6985878307ec48e3dc90a194"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on
// top, applies env overrides and defaults, then validates.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"agent.base_url", "agent.api_key", "agent.timeout", "agent.max_retries",
		"capabilities.insight", "capabilities.brainstorm", "capabilities.write",
		"capabilities.trend", "capabilities.manager",
		"sequence.backend", "database.redis.address", "database.redis.password",
		"server.address", "logging.level", "logging.format",
	} {
		_ = v.BindEnv(key)
	}
	v.SetDefault("observability.metrics_enabled", true)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values. An unset
// variable expands to "" so required-field validation can catch it.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets that are commonly provided as bare env
// vars rather than through the yaml tree.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Agent.APIKey == "" {
		if val := os.Getenv("AGENT_API_KEY"); val != "" {
			cfg.Agent.APIKey = val
		}
	}
	if cfg.Agent.BaseURL == "" {
		if val := os.Getenv("AGENT_BASE_URL"); val != "" {
			cfg.Agent.BaseURL = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "creator-pilot"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 90000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	if cfg.Agent.Timeout == 0 {
		cfg.Agent.Timeout = 60000
	}

	if cfg.Capabilities.Insight == "" {
		cfg.Capabilities.Insight = DefaultInsightAgentID
	}
	if cfg.Capabilities.Brainstorm == "" {
		cfg.Capabilities.Brainstorm = DefaultBrainstormAgentID
	}
	if cfg.Capabilities.Write == "" {
		cfg.Capabilities.Write = DefaultWriteAgentID
	}
	if cfg.Capabilities.Trend == "" {
		cfg.Capabilities.Trend = DefaultTrendAgentID
	}

	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "configs/capability-registry.json"
	}

	if cfg.Sequence.Backend == "" {
		cfg.Sequence.Backend = "memory"
	}
	if cfg.Sequence.KeyPrefix == "" {
		cfg.Sequence.KeyPrefix = "creatorpilot:seq"
	}

	if cfg.Onboarding.SyncDelay == 0 {
		cfg.Onboarding.SyncDelay = 2000
	}
	if cfg.Prompt.MaxFieldRunes == 0 {
		cfg.Prompt.MaxFieldRunes = 400
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.Agent.BaseURL == "" {
		return fmt.Errorf("agent.base_url is required")
	}
	if cfg.Agent.MaxRetries < 0 {
		return fmt.Errorf("agent.max_retries must be >= 0")
	}

	switch cfg.Sequence.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("sequence.backend must be 'memory' or 'redis', got %q", cfg.Sequence.Backend)
	}

	if cfg.Prompt.MaxFieldRunes < 16 {
		return fmt.Errorf("prompt.max_field_runes must be >= 16")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
