package models

type Screen string

const (
	ScreenOnboarding      Screen = "onboarding"
	ScreenDashboard       Screen = "dashboard"
	ScreenInsightCanvas   Screen = "insight-canvas"
	ScreenIdeaBoard       Screen = "idea-board"
	ScreenDirectionLock   Screen = "direction-lock"
	ScreenDraftEditor     Screen = "draft-editor"
	ScreenPreFlight       Screen = "pre-flight"
	ScreenSessionComplete Screen = "session-complete"
	ScreenContentCalendar Screen = "content-calendar"
)

func (s Screen) IsValid() bool {
	switch s {
	case ScreenOnboarding, ScreenDashboard, ScreenInsightCanvas, ScreenIdeaBoard,
		ScreenDirectionLock, ScreenDraftEditor, ScreenPreFlight,
		ScreenSessionComplete, ScreenContentCalendar:
		return true
	}
	return false
}

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
)

func (p Platform) IsValid() bool {
	return p == PlatformInstagram || p == PlatformTikTok || p == PlatformYouTube
}

// Label is the capitalized platform name used in prompts.
func (p Platform) Label() string {
	switch p {
	case PlatformTikTok:
		return "TikTok"
	case PlatformYouTube:
		return "YouTube"
	default:
		return "Instagram"
	}
}

type CreatorType string

const (
	CreatorCreator  CreatorType = "creator"
	CreatorEducator CreatorType = "educator"
	CreatorBrand    CreatorType = "brand"
	CreatorManager  CreatorType = "manager"
)

func (c CreatorType) IsValid() bool {
	switch c {
	case CreatorCreator, CreatorEducator, CreatorBrand, CreatorManager:
		return true
	}
	return false
}

type Goal string

const (
	GoalReach       Goal = "reach"
	GoalSaves       Goal = "saves"
	GoalConsistency Goal = "consistency"
	GoalBrandDeals  Goal = "brand-deals"
)

func (g Goal) IsValid() bool {
	switch g {
	case GoalReach, GoalSaves, GoalConsistency, GoalBrandDeals:
		return true
	}
	return false
}

type Onboarding struct {
	Step        int         `json:"step"` // 1-3
	Platform    Platform    `json:"platform"`
	CreatorType CreatorType `json:"creatorType"`
	Goal        Goal        `json:"goal"`
	Syncing     bool        `json:"syncing"`
	Onboarded   bool        `json:"onboarded"`
}

type Tone string

const (
	ToneRaw      Tone = "raw"
	TonePolished Tone = "polished"
	ToneBold     Tone = "bold"
)

func (t Tone) IsValid() bool {
	return t == ToneRaw || t == TonePolished || t == ToneBold
}

// Constraints are the insight-canvas settings that shape idea generation.
type Constraints struct {
	Format        ContentType `json:"format"`
	Effort        int         `json:"effort"` // 0-100
	Tone          Tone        `json:"tone"`
	FaceOn        bool        `json:"faceOn"`
	TimeAvailable int         `json:"timeAvailable"` // 15, 30, 60 minutes
}

func DefaultConstraints() Constraints {
	return Constraints{
		Format:        FormatCarousel,
		Effort:        50,
		Tone:          TonePolished,
		FaceOn:        true,
		TimeAvailable: 30,
	}
}

type RefinementSliders struct {
	PersonalEducational int  `json:"personalEducational"`
	SoftBold            int  `json:"softBold"`
	ShortStoryLed       int  `json:"shortStoryLed"`
	Vulnerability       bool `json:"vulnerability"`
	Controversy         bool `json:"controversy"`
	PracticalTakeaway   bool `json:"practicalTakeaway"`
}

func DefaultRefinementSliders() RefinementSliders {
	return RefinementSliders{
		PersonalEducational: 50,
		SoftBold:            50,
		ShortStoryLed:       50,
		PracticalTakeaway:   true,
	}
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type Approach string

const (
	ApproachSafe           Approach = "safe"
	ApproachPushBoundaries Approach = "push-boundaries"
	ApproachExperimental   Approach = "experimental"
)

func (a Approach) IsValid() bool {
	return a == ApproachSafe || a == ApproachPushBoundaries || a == ApproachExperimental
}

type DirectionLock struct {
	Contrail    string    `json:"contrail"`
	IdeaID      string    `json:"ideaId"`
	IdeaSummary string    `json:"ideaSummary"`
	RiskLevel   RiskLevel `json:"riskLevel"`
	Approach    Approach  `json:"approach"`
}

type ContextAction string

const (
	ActionWhyThisWorks ContextAction = "why-this-works"
	ActionStressTest   ContextAction = "stress-test"
	ActionMakeRiskier  ContextAction = "make-riskier"
	ActionMakeSafer    ContextAction = "make-safer"
)

func (a ContextAction) IsValid() bool {
	switch a {
	case ActionWhyThisWorks, ActionStressTest, ActionMakeRiskier, ActionMakeSafer:
		return true
	}
	return false
}

// ContextRail is the side panel that explains or stress-tests one idea.
type ContextRail struct {
	IsOpen   bool          `json:"isOpen"`
	Action   ContextAction `json:"action,omitempty"`
	Response string        `json:"response"`
	IdeaID   string        `json:"ideaId,omitempty"`
}

type PostReflection struct {
	Success    bool   `json:"success"`
	Learning   string `json:"learning"`
	Suggestion string `json:"suggestion"`
}

func DefaultPostReflection() PostReflection {
	return PostReflection{
		Success:    true,
		Learning:   "Opening with uncertainty created more engagement than expected",
		Suggestion: "Try starting with a question next time",
	}
}
