// internal/prompt/builder_test.go
package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/models"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{name: "shorter than budget", input: "hello", max: 10, expected: "hello"},
		{name: "exactly the budget", input: "hello", max: 5, expected: "hello"},
		{name: "over budget", input: "hello world", max: 5, expected: "hello..."},
		{name: "counts runes not bytes", input: "héllo wörld", max: 7, expected: "héllo w..."},
		{name: "non-positive budget disables truncation", input: "hello", max: 0, expected: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.max))
		})
	}
}

func TestBuilder_GenerateIdeas(t *testing.T) {
	b := NewBuilder(0)
	c := models.DefaultConstraints()
	c.Effort = 80

	got := b.GenerateIdeas(models.PlatformInstagram, c, []string{
		"Personal POV increases saves",
		"Carousels outperform reels for advice",
	})

	assert.Equal(t,
		"Generate 3 content ideas for Instagram carousel that align with these insights: "+
			"Personal POV increases saves, Carousels outperform reels for advice. "+
			"Effort level: high. Tone: polished. Time available: 30 minutes.",
		got)
}

func TestBuilder_JoinTitles_TruncatesEachField(t *testing.T) {
	b := NewBuilder(16)
	got := b.JoinTitles([]string{"Personal POV increases saves", "  ", "Short"})
	assert.Equal(t, "Personal POV inc..., Short", got)
}

func TestBuilder_RefineIdea(t *testing.T) {
	b := NewBuilder(0)

	t.Run("default sliders", func(t *testing.T) {
		got := b.RefineIdea("My first brand deal", models.DefaultRefinementSliders())
		assert.Equal(t,
			`Refine this content idea: "My first brand deal". Make it more educational, softer, short and punchy. Include practical takeaway.`,
			got)
	})

	t.Run("all toggles on", func(t *testing.T) {
		got := b.RefineIdea("My first brand deal", models.RefinementSliders{
			PersonalEducational: 70,
			SoftBold:            90,
			ShortStoryLed:       51,
			Vulnerability:       true,
			Controversy:         true,
		})
		assert.Equal(t,
			`Refine this content idea: "My first brand deal". Make it more personal, bolder, story-led. Add vulnerability. Add mild controversy.`,
			got)
		assert.NotContains(t, got, "  ")
	})
}

func TestBuilder_Draft(t *testing.T) {
	b := NewBuilder(0)
	idea := models.Idea{Title: "Why I stopped chasing viral content", WhyItWorks: "Honesty gets saved."}

	got := b.Draft(models.PlatformInstagram, models.FormatReel, idea, models.DefaultVoicePreset(), true)
	assert.Equal(t,
		`Write an Instagram reel caption for this idea: "Why I stopped chasing viral content". `+
			`Why it works: Honesty gets saved. Voice settings: casualness=60, sharpness=50, emotional=70. `+
			`Match my past posts style. Make it authentic and non-AI-sounding.`,
		got)

	got = b.Draft(models.PlatformTikTok, models.FormatStory, idea, models.DefaultVoicePreset(), false)
	assert.True(t, strings.HasPrefix(got, "Write a TikTok story caption"))
	assert.NotContains(t, got, "Match my past posts style.")
}

func TestBuilder_Rewrite(t *testing.T) {
	b := NewBuilder(0)
	got := b.Rewrite("Stop scrolling.", "Make this punchier", models.VoicePreset{Casualness: 10, Sharpness: 20, Emotional: 30})
	assert.Equal(t,
		`Rewrite this text: "Stop scrolling.". Instruction: Make this punchier. Voice settings: casualness=10, sharpness=20, emotional=30. Keep it authentic.`,
		got)
}

func TestBuilder_ContextAction(t *testing.T) {
	b := NewBuilder(0)
	idea := models.Idea{Title: "The mistake I made", WhyItWorks: "Personal stories"}

	tests := []struct {
		action   models.ContextAction
		contains string
	}{
		{models.ActionWhyThisWorks, "Based on: Personal stories"},
		{models.ActionStressTest, "Identify one potential weakness"},
		{models.ActionMakeRiskier, "bolder and riskier"},
		{models.ActionMakeSafer, "safer and more approachable"},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			got, err := b.ContextAction(tt.action, idea)
			require.NoError(t, err)
			assert.Contains(t, got, `"The mistake I made"`)
			assert.Contains(t, got, tt.contains)
		})
	}

	_, err := b.ContextAction(models.ContextAction("make-viral"), idea)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err))
}

func TestBuilder_InsightAndTrend(t *testing.T) {
	b := NewBuilder(0)
	o := models.Onboarding{Platform: models.PlatformYouTube, CreatorType: models.CreatorEducator, Goal: models.GoalSaves}

	got := b.Insight(o, "")
	assert.True(t, strings.HasPrefix(got, "Analyze my recent YouTube posts. I am an educator and my primary goal is saves."))
	assert.NotContains(t, got, "Focus on")

	got = b.Insight(o, "hooks.")
	assert.Contains(t, got, "Focus on: hooks.")

	got = b.Trend(models.PlatformTikTok, "day in the life")
	assert.Contains(t, got, `What is trending on TikTok right now for this topic: "day in the life"?`)
}

func TestWithVoice(t *testing.T) {
	got := WithVoice("  write me a caption about burnout ", models.DefaultVoicePreset())
	assert.Equal(t, "write me a caption about burnout Voice settings: casualness=60, sharpness=50, emotional=70.", got)
}
