package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	t.Setenv("AGENT_BASE_URL", "")
	path := writeConfig(t, `
agent:
  base_url: http://agent.local
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "creator-pilot", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 60000, cfg.Agent.Timeout)
	assert.Equal(t, 0, cfg.Agent.MaxRetries)
	assert.Equal(t, DefaultInsightAgentID, cfg.Capabilities.Insight)
	assert.Equal(t, DefaultTrendAgentID, cfg.Capabilities.Trend)
	assert.Empty(t, cfg.Capabilities.Manager)
	assert.Equal(t, "memory", cfg.Sequence.Backend)
	assert.Equal(t, "creatorpilot:seq", cfg.Sequence.KeyPrefix)
	assert.Equal(t, 2000, cfg.Onboarding.SyncDelay)
	assert.Equal(t, 400, cfg.Prompt.MaxFieldRunes)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, "creator-pilot", cfg.Observability.ServiceName)
}

func TestLoadFromFile_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_AGENT_URL", "http://expanded:9000")
	t.Setenv("MANAGER_AGENT_ID", "mgr-123")
	path := writeConfig(t, `
agent:
  base_url: ${TEST_AGENT_URL}
capabilities:
  manager: ${MANAGER_AGENT_ID}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://expanded:9000", cfg.Agent.BaseURL)
	assert.Equal(t, "mgr-123", cfg.Capabilities.Manager)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("SEQUENCE_BACKEND", "redis")
	t.Setenv("DATABASE_REDIS_ADDRESS", "cache:6380")
	path := writeConfig(t, `
agent:
  base_url: http://agent.local
sequence:
  backend: memory
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Sequence.Backend)
	assert.Equal(t, "cache:6380", cfg.Database.Redis.Addr())
}

func TestLoadFromFile_Invalid(t *testing.T) {
	t.Setenv("AGENT_BASE_URL", "")

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing agent url",
			body:    "app:\n  name: x\n",
			wantErr: "agent.base_url is required",
		},
		{
			name:    "unknown backend",
			body:    "agent:\n  base_url: http://a\nsequence:\n  backend: etcd\n",
			wantErr: "sequence.backend",
		},
		{
			name:    "negative retries",
			body:    "agent:\n  base_url: http://a\n  max_retries: -1\n",
			wantErr: "max_retries",
		},
		{
			name:    "tiny prompt budget",
			body:    "agent:\n  base_url: http://a\nprompt:\n  max_field_runes: 4\n",
			wantErr: "max_field_runes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestRedisConfigAddr(t *testing.T) {
	assert.Equal(t, "localhost:6379", RedisConfig{}.Addr())
	assert.Equal(t, "redis:1", RedisConfig{Address: "redis:1"}.Addr())
}
