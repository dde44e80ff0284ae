// internal/normalizer/normalizer.go
package normalizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"creator-pilot/internal/common/logger"
	"creator-pilot/internal/common/metrics"
	"creator-pilot/internal/common/validation"
	"creator-pilot/internal/models"
	"creator-pilot/pkg/registry"

	"github.com/google/uuid"
)

// Literal placeholders used when a fallback chain is exhausted.
const (
	PlaceholderInsight       = models.DefaultDailyInsight
	PlaceholderIdeaTitle     = "The mistake I made before my first brand deal"
	PlaceholderIdeaRationale = "Based on personal stories + save-heavy formats"
	PlaceholderTrend         = "No clear trend signal for this topic right now."
	PlaceholderContextAction = "This idea aligns with proven patterns from your top-performing content."
	PlaceholderHook          = "Here's what nobody tells you about this."
	PlaceholderBody          = "I learned this the hard way, and it changed how I show up online."
	PlaceholderCTA           = "Save this for later and share it with someone who needs it."

	DefaultInsightConfidence = 3

	MainHookPreview     = "I almost lost everything before I learned this..."
	ValidatedRationale  = "Validated by AI analysis"
	maxExtraIdeas       = 2
	hookPreviewRunes    = 50
	hookPreviewEllipsis = "..."
)

type InsightResult struct {
	Text       string `json:"text"`
	Confidence int    `json:"confidence"`
}

// Classification is the routing capability's verdict on a chat message.
type Classification struct {
	Intent         string `json:"intent"`
	Confidence     string `json:"confidence,omitempty"`
	Interpretation string `json:"interpretation,omitempty"`
}

// IdeaContext carries the session values stamped onto generated ideas.
type IdeaContext struct {
	Effort  models.EffortLevel
	BasedOn []string
}

type Normalizer struct {
	schemas map[models.Capability]*validation.Schema
	logger  logger.Logger
}

// New compiles the output schema of every capability in reg.
func New(reg *registry.CapabilityRegistry, log logger.Logger) (*Normalizer, error) {
	n := &Normalizer{
		schemas: make(map[models.Capability]*validation.Schema),
		logger:  log.WithFields(map[string]interface{}{"component": "normalizer"}),
	}
	if reg == nil {
		return n, nil
	}
	for _, c := range reg.Capabilities {
		capability := models.Capability(c.Name)
		if !capability.IsValid() {
			return nil, fmt.Errorf("registry lists unknown capability %q", c.Name)
		}
		if len(c.OutputSchema) == 0 {
			continue
		}
		schema, err := validation.Compile(c.OutputSchema)
		if err != nil {
			return nil, fmt.Errorf("capability %s: %w", c.Name, err)
		}
		n.schemas[capability] = schema
	}
	return n, nil
}

func (n *Normalizer) begin(capability models.Capability, result map[string]interface{}) *Report {
	if result == nil {
		result = map[string]interface{}{}
	}
	res := n.schemas[capability].Validate(result)
	return &Report{
		Capability: capability,
		Valid:      res.Valid,
		Problems:   res.GetErrorMessages(),
	}
}

func (n *Normalizer) finish(op string, report *Report) *Report {
	fields := map[string]interface{}{
		"capability": string(report.Capability),
		"operation":  op,
	}
	if !report.Valid {
		metrics.NormalizerShapeMismatches.WithLabelValues(string(report.Capability)).Inc()
		fields["problems"] = report.Problems
		n.logger.Warn("payload does not match capability schema", fields)
	}
	for _, s := range report.Substitutions {
		metrics.NormalizerSubstitutions.WithLabelValues(string(report.Capability), s.Field, string(s.Source)).Inc()
	}
	if report.Substituted() {
		fields["substitutions"] = report.Substitutions
		n.logger.Warn("normalized with substitutions", fields)
	}
	return report
}

// chain resolves field from keys, falling back to placeholder. Using any
// key but the first is recorded as a fallback.
func chain(report *Report, result map[string]interface{}, field, placeholder string, keys ...string) string {
	if v, key, ok := firstString(result, keys...); ok {
		if key != keys[0] {
			report.substitute(field, SourceFallback, key)
		}
		return v
	}
	report.substitute(field, SourcePlaceholder, "")
	return placeholder
}

func (n *Normalizer) Insight(result map[string]interface{}) (InsightResult, *Report) {
	report := n.begin(models.CapabilityInsight, result)

	out := InsightResult{
		Text: chain(report, result, "text", PlaceholderInsight, "emotional_insight", "observation"),
	}
	if dots, ok := confidenceDots(result["confidence"]); ok {
		out.Confidence = dots
	} else {
		out.Confidence = DefaultInsightConfidence
		report.substitute("confidence", SourcePlaceholder, "")
	}

	return out, n.finish("insight", report)
}

// Ideas builds the main idea and up to two extra ideas from
// validation_points.
func (n *Normalizer) Ideas(result map[string]interface{}, ic IdeaContext) ([]models.Idea, *Report) {
	report := n.begin(models.CapabilityBrainstorm, result)

	main := models.Idea{
		ID:          uuid.NewString(),
		Title:       chain(report, result, "title", PlaceholderIdeaTitle, "refined_idea", "original_idea"),
		WhyItWorks:  chain(report, result, "whyItWorks", PlaceholderIdeaRationale, "reasoning"),
		HookPreview: MainHookPreview,
		EffortLevel: ic.Effort,
		BasedOn:     copyStrings(ic.BasedOn),
		Status:      models.IdeaNew,
	}
	ideas := []models.Idea{main}

	for i, point := range stringList(result, "validation_points") {
		if i >= maxExtraIdeas {
			break
		}
		ideas = append(ideas, models.Idea{
			ID:          uuid.NewString(),
			Title:       point,
			WhyItWorks:  ValidatedRationale,
			HookPreview: hookPreview(point),
			EffortLevel: ic.Effort,
			BasedOn:     copyStrings(ic.BasedOn),
			Status:      models.IdeaNew,
		})
	}

	return ideas, n.finish("ideas", report)
}

// Refine keeps the current title and rationale for whatever the agent
// leaves out.
func (n *Normalizer) Refine(result map[string]interface{}, current models.Idea) (models.Idea, *Report) {
	report := n.begin(models.CapabilityBrainstorm, result)

	refined := current
	refined.BasedOn = copyStrings(current.BasedOn)
	if v, ok := stringField(result, "refined_idea"); ok {
		refined.Title = v
	} else {
		report.substitute("title", SourceCurrent, "")
	}
	if v, ok := stringField(result, "reasoning"); ok {
		refined.WhyItWorks = v
	} else {
		report.substitute("whyItWorks", SourceCurrent, "")
	}

	return refined, n.finish("refine", report)
}

func (n *Normalizer) ContextAction(result map[string]interface{}) (string, *Report) {
	report := n.begin(models.CapabilityBrainstorm, result)
	text := chain(report, result, "response", PlaceholderContextAction, "reasoning", "refined_idea")
	return text, n.finish("context-action", report)
}

// Draft reads hook, body and cta directly, then from the paragraphs of
// generated_content, then from placeholders.
func (n *Normalizer) Draft(result map[string]interface{}) (models.Draft, *Report) {
	report := n.begin(models.CapabilityWrite, result)

	var splitHook, splitBody, splitCTA string
	if content, ok := stringField(result, "generated_content"); ok {
		splitHook, splitBody, splitCTA = splitDraft(content)
	}

	section := func(key, derived, placeholder string) string {
		if v, ok := stringField(result, key); ok {
			return v
		}
		if derived != "" {
			report.substitute(key, SourceDerived, "generated_content")
			return derived
		}
		report.substitute(key, SourcePlaceholder, "")
		return placeholder
	}

	draft := models.Draft{
		Hook: section("hook", splitHook, PlaceholderHook),
		Body: section("body", splitBody, PlaceholderBody),
		CTA:  section("cta", splitCTA, PlaceholderCTA),
	}
	return draft, n.finish("draft", report)
}

// Rewrite falls back to the original text so a rewrite never blanks a
// section.
func (n *Normalizer) Rewrite(result map[string]interface{}, original string) (string, *Report) {
	report := n.begin(models.CapabilityWrite, result)

	text, key, ok := firstString(result, "generated_content", "body")
	switch {
	case !ok:
		report.substitute("text", SourceCurrent, "")
		text = original
	case key != "generated_content":
		report.substitute("text", SourceFallback, key)
	}
	return text, n.finish("rewrite", report)
}

func (n *Normalizer) Trend(result map[string]interface{}) (string, *Report) {
	report := n.begin(models.CapabilityTrend, result)
	text := chain(report, result, "description", PlaceholderTrend, "trend_description", "uncertainty_note")
	return text, n.finish("trend", report)
}

// Classification reads the routing verdict. The intent has no placeholder;
// an empty Intent means the classifier gave none.
func (n *Normalizer) Classification(result map[string]interface{}) (Classification, *Report) {
	report := n.begin(models.CapabilityManager, result)

	var c Classification
	if v, key, ok := firstString(result, "intent", "classification"); ok {
		c.Intent = strings.ToLower(v)
		if key != "intent" {
			report.substitute("intent", SourceFallback, key)
		}
	}
	if v, ok := labelOf(result["confidence"]); ok {
		c.Confidence = v
	}
	if v, ok := stringField(result, "interpretation"); ok {
		c.Interpretation = v
	}
	return c, n.finish("classification", report)
}

func hookPreview(s string) string {
	if utf8.RuneCountInString(s) > hookPreviewRunes {
		s = string([]rune(s)[:hookPreviewRunes])
	}
	return s + hookPreviewEllipsis
}

func copyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
