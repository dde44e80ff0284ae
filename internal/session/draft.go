// internal/session/draft.go
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/models"
	"creator-pilot/internal/scoring"
	"creator-pilot/internal/sequence"

	"github.com/google/uuid"
)

const (
	calendarLeadTime    = 48 * time.Hour
	calendarDateLayout  = "2006-01-02"
	calendarTitleRunes  = 50
	calendarTitleSuffix = "..."
)

// TurnIntoDraft writes a draft for an idea on the board, or for the locked
// direction when ideaID is empty on the direction-lock screen.
func (c *Controller) TurnIntoDraft(ctx context.Context, ideaID string) (State, error) {
	var text string
	req, err := c.begin(ctx, sequence.SlotDraft, func(s *State) error {
		if err := s.requireScreen(models.ScreenIdeaBoard, models.ScreenDirectionLock); err != nil {
			return err
		}
		idea, err := s.draftSource(ideaID)
		if err != nil {
			return err
		}
		text = c.prompts.Draft(s.Onboarding.Platform, s.Constraints.Format, idea, s.Voice, s.MatchMyPosts)
		return nil
	})
	if err != nil {
		return State{}, err
	}

	resp, err := c.invoke(ctx, req, models.CapabilityWrite, text)
	if err != nil {
		return State{}, err
	}
	draft, report := c.normalizer.Draft(resp.Result)

	return c.commit(ctx, req, func(s *State) error {
		if err := s.moveTo(models.ScreenDraftEditor); err != nil {
			return err
		}
		s.setDraft(draft)
		s.ContextRail.IsOpen = false
		s.record(sequence.SlotDraft, report)
		return nil
	})
}

func (s *State) draftSource(ideaID string) (models.Idea, error) {
	if ideaID != "" {
		i, ok := s.findIdea(ideaID)
		if !ok {
			return models.Idea{}, apperrors.NewNotFoundError("idea", ideaID)
		}
		return s.Ideas[i], nil
	}
	if s.Screen == models.ScreenDirectionLock && s.DirectionLock != nil {
		lock := s.DirectionLock
		return models.Idea{
			ID:          lock.IdeaID,
			Title:       lock.IdeaSummary,
			WhyItWorks:  "Optimized for " + lock.Contrail,
			EffortLevel: models.EffortLevel(lock.RiskLevel),
			BasedOn:     []string{},
			Status:      models.IdeaNew,
		}, nil
	}
	if idea, ok := s.SelectedIdea(); ok {
		return idea, nil
	}
	return models.Idea{}, apperrors.NewPreconditionFailedError("no idea to draft")
}

// UpdateDraft replaces one section by hand.
func (c *Controller) UpdateDraft(section models.DraftSection, text string) (State, error) {
	if !section.IsValid() {
		return State{}, apperrors.NewInvalidInputError("unknown draft section " + string(section))
	}
	return c.update(func(s *State) error {
		if err := s.requireScreen(models.ScreenDraftEditor); err != nil {
			return err
		}
		s.setDraft(s.Draft.With(section, text))
		return nil
	})
}

// RewriteSection asks the write capability to rework one section and
// merges the answer into the current draft, keeping any other edits made
// while the call was in flight.
func (c *Controller) RewriteSection(ctx context.Context, section models.DraftSection, instruction string) (State, error) {
	if !section.IsValid() {
		return State{}, apperrors.NewInvalidInputError("unknown draft section " + string(section))
	}
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return State{}, apperrors.NewInvalidInputError("rewrite instruction is required")
	}

	var (
		text     string
		original string
	)
	req, err := c.begin(ctx, sequence.SlotRewrite, func(s *State) error {
		if err := s.requireScreen(models.ScreenDraftEditor); err != nil {
			return err
		}
		original = s.Draft.Get(section)
		text = c.prompts.Rewrite(original, instruction, s.Voice)
		return nil
	})
	if err != nil {
		return State{}, err
	}

	resp, err := c.invoke(ctx, req, models.CapabilityWrite, text)
	if err != nil {
		return State{}, err
	}
	rewritten, report := c.normalizer.Rewrite(resp.Result, original)

	return c.commit(ctx, req, func(s *State) error {
		s.setDraft(s.Draft.With(section, rewritten))
		s.record(sequence.SlotRewrite, report)
		return nil
	})
}

func (c *Controller) UpdateVoice(v models.VoicePreset) (State, error) {
	for name, val := range map[string]int{
		"casualness": v.Casualness,
		"sharpness":  v.Sharpness,
		"emotional":  v.Emotional,
	} {
		if val < 0 || val > 100 {
			return State{}, apperrors.NewInvalidInputError(fmt.Sprintf("%s %d outside 0-100", name, val))
		}
	}
	return c.update(func(s *State) error {
		if strings.TrimSpace(v.Name) == "" {
			v.Name = s.Voice.Name
		}
		s.Voice = v
		return nil
	})
}

func (c *Controller) SetMatchMyPosts(on bool) (State, error) {
	return c.update(func(s *State) error {
		s.MatchMyPosts = on
		return nil
	})
}

// PreFlight evaluates the checklist for the current draft.
func (c *Controller) PreFlight() []scoring.CheckItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return scoring.PreFlight(c.state.Draft, c.state.Contrail, c.state.MatchMyPosts)
}

func (c *Controller) SetPublishIntent(intent models.PublishIntent) (State, error) {
	if !intent.IsValid() {
		return State{}, apperrors.NewInvalidInputError("unknown publish intent " + string(intent))
	}
	return c.update(func(s *State) error {
		s.PublishIntent = intent
		return nil
	})
}

// SaveToCalendar files the draft as a calendar post two days out and
// completes the session.
func (c *Controller) SaveToCalendar() (State, error) {
	return c.update(func(s *State) error {
		if err := s.requireScreen(models.ScreenPreFlight); err != nil {
			return err
		}
		if err := s.moveTo(models.ScreenSessionComplete); err != nil {
			return err
		}
		s.CalendarPosts = append(s.CalendarPosts, models.CalendarPost{
			ID:       uuid.New().String(),
			Title:    calendarTitle(s.Draft.Hook),
			Date:     c.now().Add(calendarLeadTime).Format(calendarDateLayout),
			Format:   s.Constraints.Format,
			Status:   models.PostDraft,
			Contrail: s.Contrail,
			Intent:   s.PublishIntent,
		})
		return nil
	})
}

func calendarTitle(hook string) string {
	runes := []rune(hook)
	if len(runes) > calendarTitleRunes {
		runes = runes[:calendarTitleRunes]
	}
	return string(runes) + calendarTitleSuffix
}

func (c *Controller) SetPostStatus(id string, status models.PostStatus) (State, error) {
	if !status.IsValid() {
		return State{}, apperrors.NewInvalidInputError("unknown post status " + string(status))
	}
	return c.update(func(s *State) error {
		for i := range s.CalendarPosts {
			if s.CalendarPosts[i].ID == id {
				s.CalendarPosts[i].Status = status
				return nil
			}
		}
		return apperrors.NewNotFoundError("calendar post", id)
	})
}

// ReturnToDashboard ends a completed session and shows the reflection on
// the last post.
func (c *Controller) ReturnToDashboard() (State, error) {
	return c.update(func(s *State) error {
		if err := s.requireScreen(models.ScreenSessionComplete); err != nil {
			return err
		}
		if err := s.moveTo(models.ScreenDashboard); err != nil {
			return err
		}
		s.ShowReflection = true
		return nil
	})
}
