package models

type Draft struct {
	Hook string `json:"hook"`
	Body string `json:"body"`
	CTA  string `json:"cta"`
}

type DraftSection string

const (
	SectionHook DraftSection = "hook"
	SectionBody DraftSection = "body"
	SectionCTA  DraftSection = "cta"
)

func (s DraftSection) IsValid() bool {
	return s == SectionHook || s == SectionBody || s == SectionCTA
}

// Get returns the text of one section.
func (d Draft) Get(section DraftSection) string {
	switch section {
	case SectionHook:
		return d.Hook
	case SectionBody:
		return d.Body
	case SectionCTA:
		return d.CTA
	}
	return ""
}

// With returns a copy of d with one section replaced.
func (d Draft) With(section DraftSection, text string) Draft {
	switch section {
	case SectionHook:
		d.Hook = text
	case SectionBody:
		d.Body = text
	case SectionCTA:
		d.CTA = text
	}
	return d
}

// ConfidenceIndicators are 1-4 dot scores derived from the draft text.
type ConfidenceIndicators struct {
	HookStrength  int `json:"hookStrength"`
	Clarity       int `json:"clarity"`
	SavePotential int `json:"savePotential"`
}
