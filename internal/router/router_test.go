// internal/router/router_test.go
package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-pilot/internal/agent"
	"creator-pilot/internal/agent/agenttest"
	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/common/logger"
	"creator-pilot/internal/models"
	"creator-pilot/internal/normalizer"
	"creator-pilot/internal/prompt"
	"creator-pilot/pkg/registry"
)

func newTestRouter(t *testing.T, fake *agenttest.Fake) *Router {
	t.Helper()
	n, err := normalizer.New(registry.Default(), logger.NewTestLogger(t))
	require.NoError(t, err)
	return New(fake, n, prompt.NewBuilder(0), logger.NewTestLogger(t))
}

func TestTarget_IsTotalOverIntents(t *testing.T) {
	seen := map[models.Capability]string{}
	for _, intent := range Intents() {
		target, err := Target(intent)
		require.NoError(t, err, intent)
		assert.Equal(t, models.Capability(intent), target)

		prev, dup := seen[target]
		assert.False(t, dup, "%s and %s map to the same capability", intent, prev)
		seen[target] = intent
	}
	assert.Len(t, seen, len(intentTargets))
}

func TestTarget_Unmapped(t *testing.T) {
	for _, intent := range []string{"", "manager", "summarize", "chitchat"} {
		t.Run(intent, func(t *testing.T) {
			_, err := Target(intent)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeUnmappedIntent, apperrors.CodeOf(err))
		})
	}
}

func TestStatic(t *testing.T) {
	d, err := Static(models.CapabilityBrainstorm, "Generate ideas")
	require.NoError(t, err)
	assert.Equal(t, models.CapabilityBrainstorm, d.Capability)
	assert.Nil(t, d.Classification)

	_, err = Static(models.CapabilityManager, "Generate ideas")
	assert.Equal(t, apperrors.ErrCodeUnknownCapability, apperrors.CodeOf(err))

	_, err = Static(models.CapabilityWrite, " ")
	assert.Equal(t, apperrors.ErrCodeEmptyRequest, apperrors.CodeOf(err))
}

func TestRouter_Route(t *testing.T) {
	voice := models.DefaultVoicePreset()

	tests := []struct {
		name        string
		result      map[string]interface{}
		wantTarget  models.Capability
		wantVoice   bool
		wantConfLbl string
	}{
		{
			name:        "insight",
			result:      map[string]interface{}{"intent": "insight", "confidence": "high", "interpretation": "Wants audience analysis"},
			wantTarget:  models.CapabilityInsight,
			wantConfLbl: "high",
		},
		{
			name:       "brainstorm",
			result:     map[string]interface{}{"intent": "brainstorm"},
			wantTarget: models.CapabilityBrainstorm,
		},
		{
			name:       "write carries voice settings",
			result:     map[string]interface{}{"intent": "write"},
			wantTarget: models.CapabilityWrite,
			wantVoice:  true,
		},
		{
			name:        "trend from classification key",
			result:      map[string]interface{}{"classification": "TREND", "confidence": 0.7},
			wantTarget:  models.CapabilityTrend,
			wantConfLbl: "0.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := agenttest.New().Returns(models.CapabilityManager, tt.result)
			r := newTestRouter(t, fake)

			d, err := r.Route(context.Background(), "  help me with my next post  ", voice)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTarget, d.Capability)
			require.NotNil(t, d.Classification)
			assert.Equal(t, string(tt.wantTarget), d.Classification.Intent)
			assert.Equal(t, tt.wantConfLbl, d.Classification.Confidence)
			require.NotNil(t, d.Routing)
			assert.True(t, d.Routing.Valid)
			assert.Equal(t, tt.wantVoice, strings.Contains(d.Prompt, "Voice settings: casualness=60, sharpness=50, emotional=70"))
			assert.True(t, strings.HasPrefix(d.Prompt, "help me with my next post"))

			calls := fake.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, models.CapabilityManager, calls[0].Capability)
			assert.Equal(t, "help me with my next post", calls[0].Prompt)
		})
	}
}

func TestRouter_Route_Failures(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(f *agenttest.Fake)
		message      string
		expectedCode apperrors.ErrorCode
		wantCalls    int
		wantValid    *bool // set when a Decision with a routing report comes back
	}{
		{
			name: "classifier call fails",
			setup: func(f *agenttest.Fake) {
				f.Fails(models.CapabilityManager, apperrors.NewCapabilityCallFailedError("manager", errors.New("connection refused")))
			},
			message:      "hello",
			expectedCode: apperrors.ErrCodeRoutingFailed,
			wantCalls:    1,
		},
		{
			name: "classifier non-success status",
			setup: func(f *agenttest.Fake) {
				f.On(models.CapabilityManager, func(context.Context, models.Capability, string) (*agent.Response, error) {
					return &agent.Response{Status: "error", Message: "busy"},
						apperrors.NewCapabilityStatusError("manager", "error", "busy")
				})
			},
			message:      "hello",
			expectedCode: apperrors.ErrCodeRoutingFailed,
			wantCalls:    1,
		},
		{
			name: "intent outside the table",
			setup: func(f *agenttest.Fake) {
				f.Returns(models.CapabilityManager, map[string]interface{}{"intent": "schedule"})
			},
			message:      "hello",
			expectedCode: apperrors.ErrCodeUnmappedIntent,
			wantCalls:    1,
			wantValid:    boolPtr(true),
		},
		{
			name: "no intent in payload",
			setup: func(f *agenttest.Fake) {
				f.Returns(models.CapabilityManager, map[string]interface{}{})
			},
			message:      "hello",
			expectedCode: apperrors.ErrCodeUnmappedIntent,
			wantCalls:    1,
			wantValid:    boolPtr(false),
		},
		{
			name:         "empty message",
			setup:        func(f *agenttest.Fake) {},
			message:      "   ",
			expectedCode: apperrors.ErrCodeEmptyRequest,
			wantCalls:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := agenttest.New()
			tt.setup(fake)
			r := newTestRouter(t, fake)

			d, err := r.Route(context.Background(), tt.message, models.DefaultVoicePreset())
			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, apperrors.CodeOf(err))
			if tt.wantValid == nil {
				assert.Nil(t, d)
			} else {
				require.NotNil(t, d)
				assert.Empty(t, d.Capability)
				require.NotNil(t, d.Routing)
				assert.Equal(t, models.CapabilityManager, d.Routing.Capability)
				assert.Equal(t, *tt.wantValid, d.Routing.Valid)
			}
			assert.Len(t, fake.Calls(), tt.wantCalls)
			for _, c := range fake.Calls() {
				assert.Equal(t, models.CapabilityManager, c.Capability, "nothing downstream may be invoked")
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }
