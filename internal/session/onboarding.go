// internal/session/onboarding.go
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/models"
)

const (
	firstOnboardingStep = 1
	lastOnboardingStep  = 3
)

// OnboardingInput changes the onboarding answers. Empty fields are left as
// they are.
type OnboardingInput struct {
	Platform    models.Platform    `json:"platform,omitempty"`
	CreatorType models.CreatorType `json:"creatorType,omitempty"`
	Goal        models.Goal        `json:"goal,omitempty"`
}

func (in OnboardingInput) validate() error {
	var problems []string
	if in.Platform != "" && !in.Platform.IsValid() {
		problems = append(problems, fmt.Sprintf("platform %q", in.Platform))
	}
	if in.CreatorType != "" && !in.CreatorType.IsValid() {
		problems = append(problems, fmt.Sprintf("creator type %q", in.CreatorType))
	}
	if in.Goal != "" && !in.Goal.IsValid() {
		problems = append(problems, fmt.Sprintf("goal %q", in.Goal))
	}
	if len(problems) > 0 {
		return apperrors.NewInvalidInputError("unknown " + strings.Join(problems, ", "))
	}
	return nil
}

func (c *Controller) UpdateOnboarding(in OnboardingInput) (State, error) {
	if err := in.validate(); err != nil {
		return State{}, err
	}
	return c.update(func(s *State) error {
		if err := s.requireScreen(models.ScreenOnboarding); err != nil {
			return err
		}
		if in.Platform != "" {
			s.Onboarding.Platform = in.Platform
		}
		if in.CreatorType != "" {
			s.Onboarding.CreatorType = in.CreatorType
		}
		if in.Goal != "" {
			s.Onboarding.Goal = in.Goal
		}
		return nil
	})
}

// SetOnboardingStep moves between the three onboarding steps.
func (c *Controller) SetOnboardingStep(step int) (State, error) {
	if step < firstOnboardingStep || step > lastOnboardingStep {
		return State{}, apperrors.NewInvalidInputError(fmt.Sprintf("onboarding step must be %d-%d", firstOnboardingStep, lastOnboardingStep))
	}
	return c.update(func(s *State) error {
		if err := s.requireScreen(models.ScreenOnboarding); err != nil {
			return err
		}
		if s.Onboarding.Syncing {
			return apperrors.NewPreconditionFailedError("posts are syncing")
		}
		s.Onboarding.Step = step
		return nil
	})
}

// CompleteOnboarding simulates syncing past posts for the configured delay
// and then opens the dashboard. Cancelling ctx aborts the sync.
func (c *Controller) CompleteOnboarding(ctx context.Context) (State, error) {
	_, err := c.update(func(s *State) error {
		if err := s.requireScreen(models.ScreenOnboarding); err != nil {
			return err
		}
		if s.Onboarding.Step != lastOnboardingStep {
			return apperrors.NewPreconditionFailedError("onboarding is not on its last step")
		}
		if s.Onboarding.Syncing {
			return apperrors.NewPreconditionFailedError("posts are already syncing")
		}
		s.Onboarding.Syncing = true
		return nil
	})
	if err != nil {
		return State{}, err
	}

	c.logger.Info("syncing posts", map[string]interface{}{"delayMs": c.syncDelay.Milliseconds()})

	timer := time.NewTimer(c.syncDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		_, _ = c.update(func(s *State) error {
			s.Onboarding.Syncing = false
			return nil
		})
		return State{}, ctx.Err()
	}

	return c.update(func(s *State) error {
		if err := s.moveTo(models.ScreenDashboard); err != nil {
			return err
		}
		s.Onboarding.Syncing = false
		s.Onboarding.Onboarded = true
		return nil
	})
}
