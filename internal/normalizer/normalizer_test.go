// internal/normalizer/normalizer_test.go
package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/common/logger"
	"creator-pilot/internal/models"
	"creator-pilot/pkg/registry"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := New(registry.Default(), logger.NewTestLogger(t))
	require.NoError(t, err)
	return n
}

func TestNew_RejectsUnknownCapability(t *testing.T) {
	reg := &registry.CapabilityRegistry{
		Capabilities: []registry.Capability{{Name: "summarize"}},
	}
	_, err := New(reg, logger.NewNoOpLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summarize")
}

// ==========================
// Placeholder Tests
// ==========================

func TestNormalizer_EmptyPayloadYieldsPlaceholders(t *testing.T) {
	n := newTestNormalizer(t)
	empty := map[string]interface{}{}

	t.Run("insight", func(t *testing.T) {
		got, report := n.Insight(empty)
		assert.Equal(t, PlaceholderInsight, got.Text)
		assert.Equal(t, DefaultInsightConfidence, got.Confidence)
		assert.False(t, report.Valid)
		assert.ElementsMatch(t, []string{"text", "confidence"}, report.Placeholders())
	})

	t.Run("brainstorm", func(t *testing.T) {
		ideas, report := n.Ideas(empty, IdeaContext{Effort: models.EffortMedium})
		require.Len(t, ideas, 1)
		assert.Equal(t, PlaceholderIdeaTitle, ideas[0].Title)
		assert.Equal(t, PlaceholderIdeaRationale, ideas[0].WhyItWorks)
		assert.Equal(t, MainHookPreview, ideas[0].HookPreview)
		assert.NotNil(t, ideas[0].BasedOn)
		assert.ElementsMatch(t, []string{"title", "whyItWorks"}, report.Placeholders())
	})

	t.Run("write", func(t *testing.T) {
		draft, report := n.Draft(empty)
		assert.Equal(t, models.Draft{Hook: PlaceholderHook, Body: PlaceholderBody, CTA: PlaceholderCTA}, draft)
		assert.ElementsMatch(t, []string{"hook", "body", "cta"}, report.Placeholders())
	})

	t.Run("trend", func(t *testing.T) {
		got, report := n.Trend(empty)
		assert.Equal(t, PlaceholderTrend, got)
		assert.Equal(t, []string{"description"}, report.Placeholders())
	})

	t.Run("context action", func(t *testing.T) {
		got, _ := n.ContextAction(empty)
		assert.Equal(t, PlaceholderContextAction, got)
	})

	t.Run("nil payload", func(t *testing.T) {
		got, report := n.Trend(nil)
		assert.Equal(t, PlaceholderTrend, got)
		assert.False(t, report.Valid)
	})
}

func TestNormalizer_BlankStringsDoNotLeak(t *testing.T) {
	n := newTestNormalizer(t)
	payload := map[string]interface{}{
		"refined_idea":  "   ",
		"original_idea": "",
		"reasoning":     42,
	}

	ideas, report := n.Ideas(payload, IdeaContext{})
	assert.Equal(t, PlaceholderIdeaTitle, ideas[0].Title)
	assert.Equal(t, PlaceholderIdeaRationale, ideas[0].WhyItWorks)
	assert.False(t, report.Valid)
	assert.Error(t, report.Err())
	assert.Equal(t, apperrors.ErrCodeShapeMismatch, apperrors.CodeOf(report.Err()))
}

// ==========================
// Fallback Chain Tests
// ==========================

func TestNormalizer_Insight(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name           string
		payload        map[string]interface{}
		wantText       string
		wantConfidence int
		wantFallback   bool
	}{
		{
			name:           "primary field",
			payload:        map[string]interface{}{"emotional_insight": "They save vulnerable posts", "confidence": float64(4)},
			wantText:       "They save vulnerable posts",
			wantConfidence: 4,
		},
		{
			name:           "observation fallback",
			payload:        map[string]interface{}{"observation": "Sunday posts get more saves", "confidence": "low"},
			wantText:       "Sunday posts get more saves",
			wantConfidence: 2,
			wantFallback:   true,
		},
		{
			name:           "probability confidence",
			payload:        map[string]interface{}{"emotional_insight": "x", "confidence": 0.6},
			wantText:       "x",
			wantConfidence: 3,
		},
		{
			name:           "percentage confidence",
			payload:        map[string]interface{}{"emotional_insight": "x", "confidence": "90%"},
			wantText:       "x",
			wantConfidence: 4,
		},
		{
			name:           "out of range confidence",
			payload:        map[string]interface{}{"emotional_insight": "x", "confidence": float64(7)},
			wantText:       "x",
			wantConfidence: DefaultInsightConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report := n.Insight(tt.payload)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
			assert.True(t, report.Valid, report.Problems)

			var fellBack bool
			for _, s := range report.Substitutions {
				if s.Field == "text" && s.Source == SourceFallback {
					fellBack = true
					assert.Equal(t, "observation", s.From)
				}
			}
			assert.Equal(t, tt.wantFallback, fellBack)
		})
	}
}

func TestNormalizer_Ideas(t *testing.T) {
	n := newTestNormalizer(t)
	long := "This validation point is definitely longer than fifty characters in total"

	payload := map[string]interface{}{
		"original_idea":     "Why I stopped chasing viral content",
		"reasoning":         "Honesty is saved more than polish",
		"validation_points": []interface{}{long, "Short point", "Third point is ignored"},
	}
	ic := IdeaContext{Effort: models.EffortHigh, BasedOn: []string{"Personal POV increases"}}

	ideas, report := n.Ideas(payload, ic)
	require.Len(t, ideas, 3)
	assert.True(t, report.Valid)

	assert.Equal(t, "Why I stopped chasing viral content", ideas[0].Title)
	assert.Equal(t, "Honesty is saved more than polish", ideas[0].WhyItWorks)
	assert.Equal(t, []Substitution{{Field: "title", Source: SourceFallback, From: "original_idea"}}, report.Substitutions)

	assert.Equal(t, long, ideas[1].Title)
	assert.Equal(t, ValidatedRationale, ideas[1].WhyItWorks)
	assert.Equal(t, long[:50]+"...", ideas[1].HookPreview)
	assert.Equal(t, "Short point...", ideas[2].HookPreview)

	seen := map[string]bool{}
	for _, idea := range ideas {
		assert.Equal(t, models.EffortHigh, idea.EffortLevel)
		assert.Equal(t, models.IdeaNew, idea.Status)
		assert.Equal(t, []string{"Personal POV increases"}, idea.BasedOn)
		assert.NotEmpty(t, idea.ID)
		assert.False(t, seen[idea.ID], "idea IDs must be unique")
		seen[idea.ID] = true
	}

	// BasedOn is copied, not shared.
	ideas[0].BasedOn[0] = "changed"
	assert.Equal(t, "Personal POV increases", ideas[1].BasedOn[0])
	assert.Equal(t, "Personal POV increases", ic.BasedOn[0])
}

func TestNormalizer_Draft(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name    string
		payload map[string]interface{}
		want    models.Draft
		derived []string
	}{
		{
			name:    "explicit sections",
			payload: map[string]interface{}{"hook": "Stop.", "body": "Read this.", "cta": "Save it."},
			want:    models.Draft{Hook: "Stop.", Body: "Read this.", CTA: "Save it."},
		},
		{
			name:    "three paragraphs split",
			payload: map[string]interface{}{"generated_content": "Stop scrolling.\n\nHere is why.\n\nFollow for more."},
			want:    models.Draft{Hook: "Stop scrolling.", Body: "Here is why.", CTA: "Follow for more."},
			derived: []string{"hook", "body", "cta"},
		},
		{
			name:    "middle paragraphs joined",
			payload: map[string]interface{}{"generated_content": "Hook\n\nOne\n\nTwo\n\nCTA"},
			want:    models.Draft{Hook: "Hook", Body: "One\n\nTwo", CTA: "CTA"},
			derived: []string{"hook", "body", "cta"},
		},
		{
			name:    "blank lines with whitespace and CRLF",
			payload: map[string]interface{}{"generated_content": "Hook\r\n  \r\nBody\n\n\n\nCTA\n"},
			want:    models.Draft{Hook: "Hook", Body: "Body", CTA: "CTA"},
			derived: []string{"hook", "body", "cta"},
		},
		{
			name:    "two paragraphs leave body to placeholder",
			payload: map[string]interface{}{"generated_content": "Hook\n\nCTA"},
			want:    models.Draft{Hook: "Hook", Body: PlaceholderBody, CTA: "CTA"},
			derived: []string{"hook", "cta"},
		},
		{
			name:    "single paragraph is hook and cta",
			payload: map[string]interface{}{"generated_content": "Just one line"},
			want:    models.Draft{Hook: "Just one line", Body: PlaceholderBody, CTA: "Just one line"},
			derived: []string{"hook", "cta"},
		},
		{
			name:    "explicit field wins over split",
			payload: map[string]interface{}{"hook": "Explicit", "generated_content": "A\n\nB\n\nC"},
			want:    models.Draft{Hook: "Explicit", Body: "B", CTA: "C"},
			derived: []string{"body", "cta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report := n.Draft(tt.payload)
			assert.Equal(t, tt.want, got)

			var derived []string
			for _, s := range report.Substitutions {
				if s.Source == SourceDerived {
					derived = append(derived, s.Field)
				}
			}
			assert.Equal(t, tt.derived, derived)
		})
	}
}

func TestNormalizer_Refine(t *testing.T) {
	n := newTestNormalizer(t)
	current := models.Idea{ID: "a", Title: "Old title", WhyItWorks: "Old why", Status: models.IdeaSaved}

	got, report := n.Refine(map[string]interface{}{"refined_idea": "New title"}, current)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, "Old why", got.WhyItWorks)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, models.IdeaSaved, got.Status)
	assert.Equal(t, []Substitution{{Field: "whyItWorks", Source: SourceCurrent}}, report.Substitutions)

	got, _ = n.Refine(map[string]interface{}{}, current)
	assert.Equal(t, "Old title", got.Title)
}

func TestNormalizer_Rewrite(t *testing.T) {
	n := newTestNormalizer(t)

	got, report := n.Rewrite(map[string]interface{}{"generated_content": "New text"}, "old")
	assert.Equal(t, "New text", got)
	assert.False(t, report.Substituted())

	got, report = n.Rewrite(map[string]interface{}{"body": "Body text"}, "old")
	assert.Equal(t, "Body text", got)
	assert.Equal(t, SourceFallback, report.Substitutions[0].Source)

	got, report = n.Rewrite(map[string]interface{}{}, "old")
	assert.Equal(t, "old", got)
	assert.Equal(t, SourceCurrent, report.Substitutions[0].Source)
}

func TestNormalizer_ContextAction(t *testing.T) {
	n := newTestNormalizer(t)

	got, _ := n.ContextAction(map[string]interface{}{"reasoning": "It is personal.", "refined_idea": "x"})
	assert.Equal(t, "It is personal.", got)

	got, report := n.ContextAction(map[string]interface{}{"refined_idea": "Bolder version"})
	assert.Equal(t, "Bolder version", got)
	assert.Equal(t, "refined_idea", report.Substitutions[0].From)
}

func TestNormalizer_Trend(t *testing.T) {
	n := newTestNormalizer(t)

	got, report := n.Trend(map[string]interface{}{"uncertainty_note": "Signals are mixed this week."})
	assert.Equal(t, "Signals are mixed this week.", got)
	assert.True(t, report.Valid)
	assert.Equal(t, SourceFallback, report.Substitutions[0].Source)
}

func TestNormalizer_Classification(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name    string
		payload map[string]interface{}
		want    Classification
		valid   bool
	}{
		{
			name:    "full verdict",
			payload: map[string]interface{}{"intent": "Write", "confidence": "high", "interpretation": "Wants a caption"},
			want:    Classification{Intent: "write", Confidence: "high", Interpretation: "Wants a caption"},
			valid:   true,
		},
		{
			name:    "classification key and numeric confidence",
			payload: map[string]interface{}{"classification": "trend", "confidence": 0.82},
			want:    Classification{Intent: "trend", Confidence: "0.82"},
			valid:   true,
		},
		{
			name:    "no intent at all",
			payload: map[string]interface{}{"interpretation": "unclear"},
			want:    Classification{Interpretation: "unclear"},
			valid:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report := n.Classification(tt.payload)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, report.Valid)
		})
	}
}
