// internal/session/transitions.go
package session

import (
	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/models"
)

type edge struct {
	from, to models.Screen
}

// transitions lists every allowed screen change. Edges marked false are
// only taken by a named action (completing onboarding, generating ideas,
// locking a direction, drafting, saving to the calendar) because the
// target screen needs data that action produces.
var transitions = map[edge]bool{
	{models.ScreenOnboarding, models.ScreenDashboard}: false,

	{models.ScreenDashboard, models.ScreenInsightCanvas}:   true,
	{models.ScreenDashboard, models.ScreenContentCalendar}: true,
	{models.ScreenDashboard, models.ScreenIdeaBoard}:       false,

	{models.ScreenInsightCanvas, models.ScreenDashboard}: true,
	{models.ScreenInsightCanvas, models.ScreenIdeaBoard}: false,

	{models.ScreenIdeaBoard, models.ScreenInsightCanvas}: true,
	{models.ScreenIdeaBoard, models.ScreenIdeaBoard}:     false,
	{models.ScreenIdeaBoard, models.ScreenDirectionLock}: false,
	{models.ScreenIdeaBoard, models.ScreenDraftEditor}:   false,

	{models.ScreenDirectionLock, models.ScreenIdeaBoard}:   true,
	{models.ScreenDirectionLock, models.ScreenDraftEditor}: false,

	{models.ScreenDraftEditor, models.ScreenIdeaBoard}: true,
	{models.ScreenDraftEditor, models.ScreenPreFlight}: true,

	{models.ScreenPreFlight, models.ScreenDraftEditor}:     true,
	{models.ScreenPreFlight, models.ScreenSessionComplete}: false,

	{models.ScreenSessionComplete, models.ScreenContentCalendar}: true,
	{models.ScreenSessionComplete, models.ScreenDashboard}:       false,

	{models.ScreenContentCalendar, models.ScreenDashboard}:     true,
	{models.ScreenContentCalendar, models.ScreenInsightCanvas}: true,
}

// CanTransition reports whether from -> to is an edge at all.
func CanTransition(from, to models.Screen) bool {
	_, ok := transitions[edge{from, to}]
	return ok
}

// CanNavigate reports whether from -> to may be taken by plain navigation.
func CanNavigate(from, to models.Screen) bool {
	return transitions[edge{from, to}]
}

// moveTo changes screen along a valid edge. Caller holds the lock.
func (s *State) moveTo(to models.Screen) error {
	if !CanTransition(s.Screen, to) {
		return apperrors.NewInvalidTransitionError(string(s.Screen), string(to))
	}
	s.Screen = to
	return nil
}

// requireScreen fails unless the session is on one of screens.
func (s *State) requireScreen(screens ...models.Screen) error {
	for _, sc := range screens {
		if s.Screen == sc {
			return nil
		}
	}
	return apperrors.NewPreconditionFailedError("action not available on screen " + string(s.Screen))
}
