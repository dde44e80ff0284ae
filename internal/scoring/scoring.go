// internal/scoring/scoring.go
package scoring

import (
	"strings"
	"unicode/utf8"

	"creator-pilot/internal/models"
)

const (
	contrailSeparator = " + "
	contrailWords     = 3
	maxShortHookWords = 7
	maxMidHookWords   = 10
)

// HookStrength scores a hook by word count: 1-7 words is strongest, 8-10
// is decent, empty or longer than 10 is weakest.
func HookStrength(hook string) int {
	n := len(strings.Fields(hook))
	switch {
	case n >= 1 && n <= maxShortHookWords:
		return 4
	case n > maxShortHookWords && n <= maxMidHookWords:
		return 3
	default:
		return 2
	}
}

// Clarity scores the combined length of all three sections.
func Clarity(d models.Draft) int {
	total := utf8.RuneCountInString(d.Hook + d.Body + d.CTA)
	switch {
	case total > 100 && total < 1000:
		return 4
	case total > 50:
		return 3
	default:
		return 2
	}
}

func SavePotential(d models.Draft) int {
	if d.Hook != "" && d.Body != "" {
		return 3
	}
	return 2
}

// Confidence recomputes every indicator from the draft.
func Confidence(d models.Draft) models.ConfidenceIndicators {
	return models.ConfidenceIndicators{
		HookStrength:  HookStrength(d.Hook),
		Clarity:       Clarity(d),
		SavePotential: SavePotential(d),
	}
}

// Label is the first three words of an insight title.
func Label(title string) string {
	words := strings.Fields(title)
	if len(words) > contrailWords {
		words = words[:contrailWords]
	}
	return strings.Join(words, " ")
}

// Labels shortens every selected insight title.
func Labels(insights []models.Insight) []string {
	labels := []string{}
	for _, in := range insights {
		if in.Selected {
			if l := Label(in.Title); l != "" {
				labels = append(labels, l)
			}
		}
	}
	return labels
}

// Contrail joins the labels of the selected insights with " + ". It is
// empty when nothing is selected.
func Contrail(insights []models.Insight) string {
	return strings.Join(Labels(insights), contrailSeparator)
}

type CheckItem struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// PreFlight is the checklist shown before a draft is scheduled.
func PreFlight(d models.Draft, contrail string, matchMyPosts bool) []CheckItem {
	hookWords := len(strings.Fields(d.Hook))
	return []CheckItem{
		{Label: "Hook appears in first 2 seconds", Checked: hookWords > 0 && hookWords <= maxShortHookWords},
		{Label: "Matches your contrail", Checked: contrail != ""},
		{Label: "Tone consistent with past wins", Checked: matchMyPosts},
		{Label: "CTA present", Checked: strings.TrimSpace(d.CTA) != ""},
	}
}
