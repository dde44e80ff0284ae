// internal/router/router.go
package router

import (
	"context"
	"strings"

	"creator-pilot/internal/agent"
	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/common/logger"
	"creator-pilot/internal/common/metrics"
	"creator-pilot/internal/models"
	"creator-pilot/internal/normalizer"
	"creator-pilot/internal/prompt"
)

const (
	outcomeRouted   = "routed"
	outcomeFailed   = "failed"
	outcomeUnmapped = "unmapped"
)

// intentTargets is the complete intent table. Labels outside it are
// unmapped.
var intentTargets = map[string]models.Capability{
	"insight":    models.CapabilityInsight,
	"brainstorm": models.CapabilityBrainstorm,
	"write":      models.CapabilityWrite,
	"trend":      models.CapabilityTrend,
}

// Intents lists the classifier labels in a stable order.
func Intents() []string {
	return []string{"insight", "brainstorm", "write", "trend"}
}

// Target maps a classifier label to its capability.
func Target(intent string) (models.Capability, error) {
	c, ok := intentTargets[strings.ToLower(strings.TrimSpace(intent))]
	if !ok {
		return "", apperrors.NewUnmappedIntentError(intent)
	}
	return c, nil
}

// Decision says which capability handles a request and with what prompt.
// Classification and Routing are set only by the dynamic policy; Routing is
// the normalizer's report on the classifier payload.
type Decision struct {
	Capability     models.Capability          `json:"capability"`
	Prompt         string                     `json:"prompt"`
	Classification *normalizer.Classification `json:"classification,omitempty"`
	Routing        *normalizer.Report         `json:"routing,omitempty"`
}

// Static binds a request to a fixed capability. Screens use it.
func Static(capability models.Capability, text string) (*Decision, error) {
	if !capability.IsValid() || capability == models.CapabilityManager {
		return nil, apperrors.NewUnknownCapabilityError(string(capability))
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewEmptyRequestError(string(capability))
	}
	return &Decision{Capability: capability, Prompt: text}, nil
}

// Router is the dynamic policy: the manager capability classifies the
// message and the intent table picks the target.
type Router struct {
	invoker    agent.Invoker
	normalizer *normalizer.Normalizer
	prompts    *prompt.Builder
	logger     logger.Logger
}

func New(invoker agent.Invoker, n *normalizer.Normalizer, prompts *prompt.Builder, log logger.Logger) *Router {
	return &Router{
		invoker:    invoker,
		normalizer: n,
		prompts:    prompts,
		logger:     log.WithFields(map[string]interface{}{"component": "router"}),
	}
}

// Route classifies message. A failed classification returns ROUTING_FAILED
// and an intent outside the table returns UNMAPPED_INTENT; in both cases
// nothing downstream should be invoked. An unmapped intent still comes with
// a Decision carrying the classification and its report, but no capability.
func (r *Router) Route(ctx context.Context, message string, voice models.VoicePreset) (*Decision, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewEmptyRequestError(string(models.CapabilityManager))
	}

	resp, err := r.invoker.Invoke(ctx, models.CapabilityManager, r.prompts.Classify(message))
	if err != nil {
		metrics.RoutingDecisions.WithLabelValues("none", outcomeFailed).Inc()
		r.logger.Error("intent classification failed", map[string]interface{}{"error": err.Error()})
		return nil, apperrors.NewRoutingFailedError(err)
	}

	classification, report := r.normalizer.Classification(resp.Result)
	target, err := Target(classification.Intent)
	if err != nil {
		metrics.RoutingDecisions.WithLabelValues("unknown", outcomeUnmapped).Inc()
		r.logger.Warn("classifier returned an unmapped intent", map[string]interface{}{
			"intent":         classification.Intent,
			"interpretation": classification.Interpretation,
			"problems":       report.Problems,
		})
		return &Decision{Classification: &classification, Routing: report}, err
	}

	outgoing := message
	if target == models.CapabilityWrite {
		outgoing = prompt.WithVoice(message, voice)
	}

	metrics.RoutingDecisions.WithLabelValues(string(target), outcomeRouted).Inc()
	r.logger.Info("message routed", map[string]interface{}{
		"intent":     classification.Intent,
		"target":     string(target),
		"confidence": classification.Confidence,
	})

	return &Decision{
		Capability:     target,
		Prompt:         outgoing,
		Classification: &classification,
		Routing:        report,
	}, nil
}
