package models

type EffortLevel string

const (
	EffortLow    EffortLevel = "low"
	EffortMedium EffortLevel = "medium"
	EffortHigh   EffortLevel = "high"
)

// EffortFromSlider buckets a 0-100 slider value.
func EffortFromSlider(effort int) EffortLevel {
	switch {
	case effort > 66:
		return EffortHigh
	case effort > 33:
		return EffortMedium
	default:
		return EffortLow
	}
}

type IdeaStatus string

const (
	IdeaNew       IdeaStatus = "new"
	IdeaSaved     IdeaStatus = "saved"
	IdeaDismissed IdeaStatus = "dismissed"
)

func (s IdeaStatus) IsValid() bool {
	return s == IdeaNew || s == IdeaSaved || s == IdeaDismissed
}

type Idea struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	WhyItWorks  string      `json:"whyItWorks"`
	HookPreview string      `json:"hookPreview"`
	EffortLevel EffortLevel `json:"effortLevel"`
	BasedOn     []string    `json:"basedOn"`
	Status      IdeaStatus  `json:"status"`
}
