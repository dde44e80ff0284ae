// internal/prompt/builder.go
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/models"
)

const (
	DefaultMaxFieldRunes = 400

	ellipsis       = "..."
	titleSeparator = ", "
)

// Builder turns session state into capability instructions. Every
// interpolated state value is truncated to MaxFieldRunes.
type Builder struct {
	MaxFieldRunes int
}

func NewBuilder(maxFieldRunes int) *Builder {
	if maxFieldRunes <= 0 {
		maxFieldRunes = DefaultMaxFieldRunes
	}
	return &Builder{MaxFieldRunes: maxFieldRunes}
}

// Truncate keeps the first max runes of s and appends "..." when anything
// was cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + ellipsis
}

func (b *Builder) field(s string) string {
	return Truncate(strings.TrimSpace(s), b.MaxFieldRunes)
}

// JoinTitles joins insight titles with ", ", truncating each.
func (b *Builder) JoinTitles(titles []string) string {
	parts := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = b.field(t); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, titleSeparator)
}

// VoiceSettings renders the voice sliders the way the write capability
// expects them.
func VoiceSettings(v models.VoicePreset) string {
	return fmt.Sprintf("casualness=%d, sharpness=%d, emotional=%d", v.Casualness, v.Sharpness, v.Emotional)
}

// WithVoice appends the voice settings to a free-text message.
func WithVoice(message string, v models.VoicePreset) string {
	return sentences(strings.TrimSpace(message), "Voice settings: "+VoiceSettings(v)+".")
}

func (b *Builder) GenerateIdeas(platform models.Platform, c models.Constraints, insightTitles []string) string {
	return fmt.Sprintf(
		"Generate 3 content ideas for %s %s that align with these insights: %s. Effort level: %s. Tone: %s. Time available: %d minutes.",
		platform.Label(), c.Format, b.JoinTitles(insightTitles),
		models.EffortFromSlider(c.Effort), c.Tone, c.TimeAvailable,
	)
}

func (b *Builder) RefineIdea(title string, s models.RefinementSliders) string {
	personal := "more educational"
	if s.PersonalEducational > 50 {
		personal = "more personal"
	}
	bold := "softer"
	if s.SoftBold > 50 {
		bold = "bolder"
	}
	story := "short and punchy"
	if s.ShortStoryLed > 50 {
		story = "story-led"
	}

	parts := []string{
		fmt.Sprintf("Refine this content idea: %q. Make it %s, %s, %s.", b.field(title), personal, bold, story),
	}
	if s.Vulnerability {
		parts = append(parts, "Add vulnerability.")
	}
	if s.Controversy {
		parts = append(parts, "Add mild controversy.")
	}
	if s.PracticalTakeaway {
		parts = append(parts, "Include practical takeaway.")
	}
	return sentences(parts...)
}

// Draft asks the write capability for a full caption.
func (b *Builder) Draft(platform models.Platform, format models.ContentType, idea models.Idea, v models.VoicePreset, matchMyPosts bool) string {
	parts := []string{
		fmt.Sprintf("Write %s %s %s caption for this idea: %q.", article(platform.Label()), platform.Label(), format, b.field(idea.Title)),
		fmt.Sprintf("Why it works: %s.", strings.TrimSuffix(b.field(idea.WhyItWorks), ".")),
		"Voice settings: " + VoiceSettings(v) + ".",
	}
	if matchMyPosts {
		parts = append(parts, "Match my past posts style.")
	}
	parts = append(parts, "Make it authentic and non-AI-sounding.")
	return sentences(parts...)
}

func (b *Builder) Rewrite(text, instruction string, v models.VoicePreset) string {
	return fmt.Sprintf("Rewrite this text: %q. Instruction: %s. Voice settings: %s. Keep it authentic.",
		b.field(text), b.field(instruction), VoiceSettings(v))
}

func (b *Builder) ContextAction(action models.ContextAction, idea models.Idea) (string, error) {
	title := b.field(idea.Title)
	switch action {
	case models.ActionWhyThisWorks:
		return fmt.Sprintf("Explain in one sentence why this content idea works: %q. Based on: %s",
			title, b.field(idea.WhyItWorks)), nil
	case models.ActionStressTest:
		return fmt.Sprintf("Stress-test this content idea: %q. Identify one potential weakness and suggest how to fix it. Keep response to 2 sentences max.", title), nil
	case models.ActionMakeRiskier:
		return fmt.Sprintf("Make this content idea bolder and riskier: %q. Suggest one way to push boundaries. One sentence.", title), nil
	case models.ActionMakeSafer:
		return fmt.Sprintf("Make this content idea safer and more approachable: %q. Suggest one adjustment. One sentence.", title), nil
	}
	return "", apperrors.NewInvalidInputError(fmt.Sprintf("unknown context action %q", action))
}

// Insight asks for one emotional insight about the creator's audience.
func (b *Builder) Insight(o models.Onboarding, focus string) string {
	parts := []string{
		fmt.Sprintf("Analyze my recent %s posts. I am %s %s and my primary goal is %s.",
			o.Platform.Label(), article(string(o.CreatorType)), o.CreatorType, o.Goal),
	}
	if focus = b.field(focus); focus != "" {
		parts = append(parts, fmt.Sprintf("Focus on: %s.", strings.TrimSuffix(focus, ".")))
	}
	parts = append(parts, "Share one emotional insight about what my audience responds to and how confident you are in it.")
	return sentences(parts...)
}

func (b *Builder) Trend(platform models.Platform, topic string) string {
	return fmt.Sprintf("What is trending on %s right now for this topic: %q? Describe the trend in one or two sentences and say how certain the signal is.",
		platform.Label(), b.field(topic))
}

// Classify is the message sent to the routing capability.
func (b *Builder) Classify(message string) string {
	return b.field(message)
}

func article(word string) string {
	if word != "" && strings.ContainsRune("AEIOUaeiou", rune(word[0])) {
		return "an"
	}
	return "a"
}

func sentences(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
