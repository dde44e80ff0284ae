// internal/normalizer/report.go
package normalizer

import (
	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/models"
)

// Source says where a normalized field came from when it was not the
// first key of its chain.
type Source string

const (
	SourceFallback    Source = "fallback"    // a later key in the chain
	SourceDerived     Source = "derived"     // computed from another field, e.g. split paragraphs
	SourceCurrent     Source = "current"     // existing state value kept
	SourcePlaceholder Source = "placeholder" // fixed literal
)

type Substitution struct {
	Field  string `json:"field"`
	Source Source `json:"source"`
	From   string `json:"from,omitempty"`
}

// Report is the diagnostic half of every normalization. Valid is the
// schema verdict; the normalized value is usable either way.
type Report struct {
	Capability    models.Capability `json:"capability"`
	Valid         bool              `json:"valid"`
	Problems      []string          `json:"problems,omitempty"`
	Substitutions []Substitution    `json:"substitutions,omitempty"`
}

func (r *Report) Substituted() bool {
	return len(r.Substitutions) > 0
}

// Placeholders lists the fields that fell back to a literal.
func (r *Report) Placeholders() []string {
	var fields []string
	for _, s := range r.Substitutions {
		if s.Source == SourcePlaceholder {
			fields = append(fields, s.Field)
		}
	}
	return fields
}

// Err returns a SHAPE_MISMATCH error when the payload failed its schema.
func (r *Report) Err() error {
	if r.Valid {
		return nil
	}
	return apperrors.NewShapeMismatchError(string(r.Capability), r.Problems)
}

func (r *Report) substitute(field string, source Source, from string) {
	r.Substitutions = append(r.Substitutions, Substitution{Field: field, Source: source, From: from})
}
