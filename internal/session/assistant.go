// internal/session/assistant.go
package session

import (
	"context"
	"strings"

	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/models"
	"creator-pilot/internal/normalizer"
	"creator-pilot/internal/router"
	"creator-pilot/internal/sequence"

	"github.com/google/uuid"
)

// ChatFallbackText is the assistant reply when routing or the routed call
// fails.
const ChatFallbackText = "Sorry, I couldn't work that out right now. Please try again."

// ChatReply is the outcome of one chat turn. ErrorCode is set when the
// reply is the fallback message.
type ChatReply struct {
	Message        models.ChatMessage         `json:"message"`
	Capability     models.Capability          `json:"capability,omitempty"`
	Classification *normalizer.Classification `json:"classification,omitempty"`
	ErrorCode      apperrors.ErrorCode        `json:"errorCode,omitempty"`
	State          State                      `json:"state"`
}

// AnalyzeInsight refreshes the daily insight from the creator's profile.
func (c *Controller) AnalyzeInsight(ctx context.Context, focus string) (State, error) {
	var text string
	req, err := c.begin(ctx, sequence.SlotInsight, func(s *State) error {
		if err := s.requireScreen(models.ScreenDashboard, models.ScreenInsightCanvas); err != nil {
			return err
		}
		text = c.prompts.Insight(s.Onboarding, focus)
		return nil
	})
	if err != nil {
		return State{}, err
	}

	resp, err := c.invoke(ctx, req, models.CapabilityInsight, text)
	if err != nil {
		return State{}, err
	}
	insight, report := c.normalizer.Insight(resp.Result)

	return c.commit(ctx, req, func(s *State) error {
		s.DailyInsight = insight.Text
		s.DailyInsightConfidence = insight.Confidence
		s.record(sequence.SlotInsight, report)
		return nil
	})
}

// LookupTrend asks the trend capability about a topic on the creator's
// platform.
func (c *Controller) LookupTrend(ctx context.Context, topic string) (State, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return State{}, apperrors.NewInvalidInputError("trend topic is required")
	}

	var text string
	req, err := c.begin(ctx, sequence.SlotTrend, func(s *State) error {
		text = c.prompts.Trend(s.Onboarding.Platform, topic)
		return nil
	})
	if err != nil {
		return State{}, err
	}

	resp, err := c.invoke(ctx, req, models.CapabilityTrend, text)
	if err != nil {
		return State{}, err
	}
	trend, report := c.normalizer.Trend(resp.Result)

	return c.commit(ctx, req, func(s *State) error {
		s.Trend = trend
		s.record(sequence.SlotTrend, report)
		return nil
	})
}

// Chat sends a free-form message through the dynamic router. Failures are
// answered with ChatFallbackText rather than returned; only a stale reply
// or an invalid message yields an error.
func (c *Controller) Chat(ctx context.Context, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewEmptyRequestError(string(models.CapabilityManager))
	}

	var voice models.VoicePreset
	req, err := c.begin(ctx, sequence.SlotChat, func(s *State) error {
		voice = s.Voice
		s.Chat = append(s.Chat, models.ChatMessage{
			ID:        uuid.New().String(),
			Role:      models.RoleUser,
			Text:      message,
			CreatedAt: c.now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	decision, err := c.router.Route(ctx, message, voice)
	if err != nil {
		return c.chatFallback(ctx, req, decision, err)
	}
	resp, err := c.invoker.Invoke(ctx, decision.Capability, decision.Prompt)
	if err != nil {
		c.logger.Error("routed capability call failed", map[string]interface{}{
			"capability": string(decision.Capability),
			"error":      err.Error(),
		})
		return c.chatFallback(ctx, req, decision, err)
	}
	text, report := c.renderReply(decision.Capability, resp.Result)

	reply := &ChatReply{
		Message: models.ChatMessage{
			ID:        uuid.New().String(),
			Role:      models.RoleAssistant,
			Text:      text,
			Mode:      string(decision.Capability),
			CreatedAt: c.now(),
		},
		Capability:     decision.Capability,
		Classification: decision.Classification,
	}
	st, err := c.commit(ctx, req, func(s *State) error {
		s.Chat = append(s.Chat, reply.Message)
		if decision.Classification != nil {
			mode := *decision.Classification
			s.ActiveMode = &mode
		}
		s.Routing = decision.Routing
		s.record(sequence.SlotChat, report)
		return nil
	})
	if err != nil {
		return nil, err
	}
	reply.State = st
	return reply, nil
}

// chatFallback commits the placeholder reply. decision is nil when
// classification itself failed.
func (c *Controller) chatFallback(ctx context.Context, req *request, decision *router.Decision, cause error) (*ChatReply, error) {
	reply := &ChatReply{
		Message: models.ChatMessage{
			ID:        uuid.New().String(),
			Role:      models.RoleAssistant,
			Text:      ChatFallbackText,
			CreatedAt: c.now(),
		},
		ErrorCode: apperrors.CodeOf(cause),
	}
	st, err := c.commit(ctx, req, func(s *State) error {
		s.Chat = append(s.Chat, reply.Message)
		if decision != nil {
			s.Routing = decision.Routing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	reply.State = st
	return reply, nil
}

// renderReply turns a routed capability's result into chat text.
func (c *Controller) renderReply(capability models.Capability, result map[string]interface{}) (string, *normalizer.Report) {
	switch capability {
	case models.CapabilityInsight:
		insight, report := c.normalizer.Insight(result)
		return insight.Text, report
	case models.CapabilityBrainstorm:
		ideas, report := c.normalizer.Ideas(result, normalizer.IdeaContext{Effort: models.EffortMedium})
		return ideas[0].Title + "\n\n" + ideas[0].WhyItWorks, report
	case models.CapabilityWrite:
		d, report := c.normalizer.Draft(result)
		return strings.Join([]string{d.Hook, d.Body, d.CTA}, "\n\n"), report
	default:
		trend, report := c.normalizer.Trend(result)
		return trend, report
	}
}
