// internal/session/state.go
package session

import (
	"creator-pilot/internal/models"
	"creator-pilot/internal/normalizer"
	"creator-pilot/internal/scoring"
	"creator-pilot/internal/sequence"
)

// State is the whole session. Only Controller methods mutate it.
type State struct {
	Screen     models.Screen     `json:"screen"`
	Onboarding models.Onboarding `json:"onboarding"`

	DailyInsight           string                `json:"dailyInsight"`
	DailyInsightConfidence int                   `json:"dailyInsightConfidence"`
	ShowReflection         bool                  `json:"showReflection"`
	Reflection             models.PostReflection `json:"reflection"`

	Insights    []models.Insight   `json:"insights"`
	Contrail    string             `json:"contrail"`
	Constraints models.Constraints `json:"constraints"`

	Ideas             []models.Idea            `json:"ideas"`
	SelectedIdeaID    string                   `json:"selectedIdeaId,omitempty"`
	RefinementSliders models.RefinementSliders `json:"refinementSliders"`
	ContextRail       models.ContextRail       `json:"contextRail"`
	DirectionLock     *models.DirectionLock    `json:"directionLock,omitempty"`

	Draft        models.Draft                `json:"draft"`
	Confidence   models.ConfidenceIndicators `json:"confidence"`
	Voice        models.VoicePreset          `json:"voice"`
	MatchMyPosts bool                        `json:"matchMyPosts"`

	PublishIntent models.PublishIntent  `json:"publishIntent"`
	CalendarPosts []models.CalendarPost `json:"calendarPosts"`

	Trend      string                     `json:"trend,omitempty"`
	Chat       []models.ChatMessage       `json:"chat"`
	ActiveMode *normalizer.Classification `json:"activeMode,omitempty"`

	Loading     map[sequence.Slot]bool               `json:"loading"`
	Diagnostics map[sequence.Slot]*normalizer.Report `json:"diagnostics,omitempty"`
	// Routing is the report on the last classifier payload behind a chat turn.
	Routing *normalizer.Report `json:"routing,omitempty"`
}

// NewState returns the state a fresh session starts in.
func NewState() State {
	s := State{
		Screen: models.ScreenOnboarding,
		Onboarding: models.Onboarding{
			Step:        1,
			Platform:    models.PlatformInstagram,
			CreatorType: models.CreatorCreator,
			Goal:        models.GoalSaves,
		},
		DailyInsight:           models.DefaultDailyInsight,
		DailyInsightConfidence: normalizer.DefaultInsightConfidence,
		Reflection:             models.DefaultPostReflection(),
		Insights:               models.DefaultInsights(),
		Constraints:            models.DefaultConstraints(),
		Ideas:                  []models.Idea{},
		RefinementSliders:      models.DefaultRefinementSliders(),
		Draft:                  models.Draft{},
		Confidence:             models.ConfidenceIndicators{HookStrength: 3, Clarity: 3, SavePotential: 3},
		Voice:                  models.DefaultVoicePreset(),
		MatchMyPosts:           true,
		PublishIntent:          models.IntentTeach,
		CalendarPosts:          models.DefaultCalendarPosts(),
		Chat:                   []models.ChatMessage{},
		Loading:                make(map[sequence.Slot]bool),
		Diagnostics:            make(map[sequence.Slot]*normalizer.Report),
	}
	for _, slot := range sequence.Slots() {
		s.Loading[slot] = false
	}
	return s
}

// clone deep-copies everything a caller could mutate.
func (s State) clone() State {
	out := s

	out.Insights = make([]models.Insight, len(s.Insights))
	copy(out.Insights, s.Insights)
	out.Ideas = make([]models.Idea, len(s.Ideas))
	for i, idea := range s.Ideas {
		idea.BasedOn = append([]string(nil), idea.BasedOn...)
		out.Ideas[i] = idea
	}
	out.CalendarPosts = make([]models.CalendarPost, len(s.CalendarPosts))
	copy(out.CalendarPosts, s.CalendarPosts)
	out.Chat = make([]models.ChatMessage, len(s.Chat))
	copy(out.Chat, s.Chat)

	if s.DirectionLock != nil {
		lock := *s.DirectionLock
		out.DirectionLock = &lock
	}
	if s.ActiveMode != nil {
		mode := *s.ActiveMode
		out.ActiveMode = &mode
	}

	out.Loading = make(map[sequence.Slot]bool, len(s.Loading))
	for k, v := range s.Loading {
		out.Loading[k] = v
	}
	out.Diagnostics = make(map[sequence.Slot]*normalizer.Report, len(s.Diagnostics))
	for k, v := range s.Diagnostics {
		out.Diagnostics[k] = v
	}
	return out
}

func (s *State) findIdea(id string) (int, bool) {
	for i := range s.Ideas {
		if s.Ideas[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// SelectedIdea resolves the selection against the current idea list.
func (s *State) SelectedIdea() (models.Idea, bool) {
	if s.SelectedIdeaID == "" {
		return models.Idea{}, false
	}
	i, ok := s.findIdea(s.SelectedIdeaID)
	if !ok {
		return models.Idea{}, false
	}
	return s.Ideas[i], true
}

func (s *State) selectedInsightTitles() []string {
	var titles []string
	for _, in := range s.Insights {
		if in.Selected {
			titles = append(titles, in.Title)
		}
	}
	return titles
}

// CanGenerateIdeas is true iff at least one insight is selected.
func (s *State) CanGenerateIdeas() bool {
	for _, in := range s.Insights {
		if in.Selected {
			return true
		}
	}
	return false
}

func (s *State) refreshContrail() {
	s.Contrail = scoring.Contrail(s.Insights)
}

func (s *State) setDraft(d models.Draft) {
	s.Draft = d
	s.Confidence = scoring.Confidence(d)
}
