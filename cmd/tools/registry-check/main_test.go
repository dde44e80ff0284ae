package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-pilot/pkg/registry"
)

func TestValidateRegistry_Default(t *testing.T) {
	require.NoError(t, validateRegistry(registry.Default()))
}

func TestValidateRegistry_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*registry.CapabilityRegistry)
		wantErr string
	}{
		{
			name:    "empty",
			mutate:  func(r *registry.CapabilityRegistry) { r.Capabilities = nil },
			wantErr: "no capabilities",
		},
		{
			name:    "unknown name",
			mutate:  func(r *registry.CapabilityRegistry) { r.Capabilities[0].Name = "horoscope" },
			wantErr: "unknown capability: horoscope",
		},
		{
			name:    "missing display name",
			mutate:  func(r *registry.CapabilityRegistry) { r.Capabilities[1].DisplayName = "" },
			wantErr: "displayName",
		},
		{
			name: "broken schema",
			mutate: func(r *registry.CapabilityRegistry) {
				r.Capabilities[2].OutputSchema = map[string]interface{}{"type": 42}
			},
			wantErr: "capability write",
		},
		{
			name: "missing capability",
			mutate: func(r *registry.CapabilityRegistry) {
				r.Capabilities = r.Capabilities[:len(r.Capabilities)-1]
			},
			wantErr: "missing capabilities: manager",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.Default()
			tt.mutate(reg)
			err := validateRegistry(reg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
