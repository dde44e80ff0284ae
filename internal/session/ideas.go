// internal/session/ideas.go
package session

import (
	"context"
	"fmt"
	"strings"

	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/models"
	"creator-pilot/internal/normalizer"
	"creator-pilot/internal/scoring"
	"creator-pilot/internal/sequence"
)

var validTimeAvailable = map[int]bool{15: true, 30: true, 60: true}

// ToggleInsight flips the selection of one insight. Toggling twice
// restores the previous selection.
func (c *Controller) ToggleInsight(id string) (State, error) {
	return c.update(func(s *State) error {
		for i := range s.Insights {
			if s.Insights[i].ID == id {
				s.Insights[i].Selected = !s.Insights[i].Selected
				s.refreshContrail()
				return nil
			}
		}
		return apperrors.NewNotFoundError("insight", id)
	})
}

func validateConstraints(in models.Constraints) error {
	var problems []string
	if !in.Format.IsValid() {
		problems = append(problems, fmt.Sprintf("format %q", in.Format))
	}
	if in.Effort < 0 || in.Effort > 100 {
		problems = append(problems, fmt.Sprintf("effort %d outside 0-100", in.Effort))
	}
	if !in.Tone.IsValid() {
		problems = append(problems, fmt.Sprintf("tone %q", in.Tone))
	}
	if !validTimeAvailable[in.TimeAvailable] {
		problems = append(problems, fmt.Sprintf("time available %d not one of 15, 30, 60", in.TimeAvailable))
	}
	if len(problems) > 0 {
		return apperrors.NewInvalidInputError("invalid constraints: " + strings.Join(problems, "; "))
	}
	return nil
}

func (c *Controller) UpdateConstraints(in models.Constraints) (State, error) {
	if err := validateConstraints(in); err != nil {
		return State{}, err
	}
	return c.update(func(s *State) error {
		s.Constraints = in
		return nil
	})
}

// GenerateIdeas asks the brainstorm capability for ideas built on the
// selected insights and opens the idea board with them.
func (c *Controller) GenerateIdeas(ctx context.Context) (State, error) {
	var (
		text string
		ic   normalizer.IdeaContext
	)
	req, err := c.begin(ctx, sequence.SlotIdeas, func(s *State) error {
		if err := s.requireScreen(models.ScreenDashboard, models.ScreenInsightCanvas, models.ScreenIdeaBoard); err != nil {
			return err
		}
		if !s.CanGenerateIdeas() {
			return apperrors.NewPreconditionFailedError("select at least one insight")
		}
		if !CanTransition(s.Screen, models.ScreenIdeaBoard) {
			return apperrors.NewInvalidTransitionError(string(s.Screen), string(models.ScreenIdeaBoard))
		}
		text = c.prompts.GenerateIdeas(s.Onboarding.Platform, s.Constraints, s.selectedInsightTitles())
		ic = normalizer.IdeaContext{
			Effort:  models.EffortFromSlider(s.Constraints.Effort),
			BasedOn: scoring.Labels(s.Insights),
		}
		return nil
	})
	if err != nil {
		return State{}, err
	}

	resp, err := c.invoke(ctx, req, models.CapabilityBrainstorm, text)
	if err != nil {
		return State{}, err
	}
	ideas, report := c.normalizer.Ideas(resp.Result, ic)

	return c.commit(ctx, req, func(s *State) error {
		if err := s.moveTo(models.ScreenIdeaBoard); err != nil {
			return err
		}
		s.Ideas = ideas
		s.SelectedIdeaID = ""
		s.record(sequence.SlotIdeas, report)
		return nil
	})
}

func (c *Controller) SelectIdea(id string) (State, error) {
	return c.update(func(s *State) error {
		if _, ok := s.findIdea(id); !ok {
			return apperrors.NewNotFoundError("idea", id)
		}
		s.SelectedIdeaID = id
		return nil
	})
}

func (c *Controller) ClearSelection() (State, error) {
	return c.update(func(s *State) error {
		s.SelectedIdeaID = ""
		return nil
	})
}

// SetIdeaStatus marks an idea saved, dismissed or new again.
func (c *Controller) SetIdeaStatus(id string, status models.IdeaStatus) (State, error) {
	if !status.IsValid() {
		return State{}, apperrors.NewInvalidInputError("unknown idea status " + string(status))
	}
	return c.update(func(s *State) error {
		i, ok := s.findIdea(id)
		if !ok {
			return apperrors.NewNotFoundError("idea", id)
		}
		s.Ideas[i].Status = status
		return nil
	})
}

func (c *Controller) UpdateRefinementSliders(in models.RefinementSliders) (State, error) {
	for name, v := range map[string]int{
		"personalEducational": in.PersonalEducational,
		"softBold":            in.SoftBold,
		"shortStoryLed":       in.ShortStoryLed,
	} {
		if v < 0 || v > 100 {
			return State{}, apperrors.NewInvalidInputError(fmt.Sprintf("%s %d outside 0-100", name, v))
		}
	}
	return c.update(func(s *State) error {
		s.RefinementSliders = in
		return nil
	})
}

// RefineIdea rewrites the selected idea using the refinement sliders. The
// result replaces the idea with the same ID if it still exists.
func (c *Controller) RefineIdea(ctx context.Context) (State, error) {
	var (
		text    string
		current models.Idea
	)
	req, err := c.begin(ctx, sequence.SlotRefine, func(s *State) error {
		idea, ok := s.SelectedIdea()
		if !ok {
			return apperrors.NewPreconditionFailedError("no idea selected")
		}
		current = idea
		text = c.prompts.RefineIdea(idea.Title, s.RefinementSliders)
		return nil
	})
	if err != nil {
		return State{}, err
	}

	resp, err := c.invoke(ctx, req, models.CapabilityBrainstorm, text)
	if err != nil {
		return State{}, err
	}
	refined, report := c.normalizer.Refine(resp.Result, current)

	return c.commit(ctx, req, func(s *State) error {
		i, ok := s.findIdea(current.ID)
		if !ok {
			return apperrors.NewNotFoundError("idea", current.ID)
		}
		s.Ideas[i] = refined
		s.record(sequence.SlotRefine, report)
		return nil
	})
}

// ContextAction opens the context rail for an idea with the brainstorm
// capability's answer. The rail is untouched until the answer arrives. An empty ideaID uses the selected idea,
// then the first idea on the board.
func (c *Controller) ContextAction(ctx context.Context, action models.ContextAction, ideaID string) (State, error) {
	if !action.IsValid() {
		return State{}, apperrors.NewInvalidInputError("unknown context action " + string(action))
	}

	var text, targetID string
	req, err := c.begin(ctx, sequence.SlotContext, func(s *State) error {
		idea, err := s.contextIdea(ideaID)
		if err != nil {
			return err
		}
		text, err = c.prompts.ContextAction(action, idea)
		if err != nil {
			return err
		}
		targetID = idea.ID
		return nil
	})
	if err != nil {
		return State{}, err
	}

	resp, err := c.invoke(ctx, req, models.CapabilityBrainstorm, text)
	if err != nil {
		return State{}, err
	}
	answer, report := c.normalizer.ContextAction(resp.Result)

	return c.commit(ctx, req, func(s *State) error {
		s.ContextRail = models.ContextRail{IsOpen: true, Action: action, IdeaID: targetID, Response: answer}
		s.record(sequence.SlotContext, report)
		return nil
	})
}

func (s *State) contextIdea(id string) (models.Idea, error) {
	if id == "" {
		id = s.SelectedIdeaID
	}
	if id == "" {
		if len(s.Ideas) == 0 {
			return models.Idea{}, apperrors.NewPreconditionFailedError("no ideas on the board")
		}
		return s.Ideas[0], nil
	}
	i, ok := s.findIdea(id)
	if !ok {
		return models.Idea{}, apperrors.NewNotFoundError("idea", id)
	}
	return s.Ideas[i], nil
}

func (c *Controller) CloseContextRail() (State, error) {
	return c.update(func(s *State) error {
		s.ContextRail.IsOpen = false
		return nil
	})
}

// LockDirection commits to an idea before drafting. The risk level
// follows the idea's effort level.
func (c *Controller) LockDirection(ideaID string) (State, error) {
	return c.update(func(s *State) error {
		i, ok := s.findIdea(ideaID)
		if !ok {
			return apperrors.NewNotFoundError("idea", ideaID)
		}
		if err := s.moveTo(models.ScreenDirectionLock); err != nil {
			return err
		}
		idea := s.Ideas[i]
		s.DirectionLock = &models.DirectionLock{
			Contrail:    s.Contrail,
			IdeaID:      idea.ID,
			IdeaSummary: idea.Title,
			RiskLevel:   models.RiskLevel(idea.EffortLevel),
			Approach:    models.ApproachSafe,
		}
		s.ContextRail.IsOpen = false
		return nil
	})
}

func (c *Controller) SetApproach(a models.Approach) (State, error) {
	if !a.IsValid() {
		return State{}, apperrors.NewInvalidInputError("unknown approach " + string(a))
	}
	return c.update(func(s *State) error {
		if s.DirectionLock == nil {
			return apperrors.NewPreconditionFailedError("no direction locked")
		}
		s.DirectionLock.Approach = a
		return nil
	})
}

// ApplyLearning preselects the insights matching the last post's
// reflection and reopens the insight canvas.
func (c *Controller) ApplyLearning() (State, error) {
	return c.update(func(s *State) error {
		if err := s.moveTo(models.ScreenInsightCanvas); err != nil {
			return err
		}
		for i := range s.Insights {
			title := strings.ToLower(s.Insights[i].Title)
			s.Insights[i].Selected = strings.Contains(title, "question") || strings.Contains(title, "uncertainty")
		}
		s.refreshContrail()
		s.ShowReflection = false
		return nil
	})
}

func (c *Controller) DismissReflection() (State, error) {
	return c.update(func(s *State) error {
		s.ShowReflection = false
		return nil
	})
}
