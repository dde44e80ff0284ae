// internal/normalizer/chain.go
package normalizer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var blankLine = regexp.MustCompile(`\n[ \t\r]*\n`)

// stringField returns the trimmed value of key when it is a non-empty string.
func stringField(result map[string]interface{}, key string) (string, bool) {
	raw, ok := result[key]
	if !ok || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// firstString walks keys in order and returns the first non-empty string
// along with the key it came from.
func firstString(result map[string]interface{}, keys ...string) (string, string, bool) {
	for _, k := range keys {
		if v, ok := stringField(result, k); ok {
			return v, k, true
		}
	}
	return "", "", false
}

// stringList returns the non-empty strings of an array field.
func stringList(result map[string]interface{}, key string) []string {
	items, ok := result[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// paragraphs splits text on blank lines, dropping empty pieces.
func paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range blankLine.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitDraft maps paragraphs to hook (first), body (middle) and cta (last).
// A single paragraph is both hook and cta.
func splitDraft(text string) (hook, body, cta string) {
	p := paragraphs(text)
	switch len(p) {
	case 0:
		return "", "", ""
	case 1:
		return p[0], "", p[0]
	default:
		return p[0], strings.Join(p[1:len(p)-1], "\n\n"), p[len(p)-1]
	}
}

// confidenceDots maps the shapes the insight agent uses for confidence onto
// the 1-4 dot scale: whole numbers 1-4, a 0-1 probability, or a label.
func confidenceDots(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return dotsFromNumber(v)
	case int:
		return dotsFromNumber(float64(v))
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		switch s {
		case "very high", "high":
			return 4, true
		case "medium", "moderate":
			return 3, true
		case "low":
			return 2, true
		}
		if f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64); err == nil {
			if strings.HasSuffix(s, "%") {
				f /= 100
			}
			return dotsFromNumber(f)
		}
	}
	return 0, false
}

func dotsFromNumber(f float64) (int, bool) {
	switch {
	case math.IsNaN(f) || f < 0:
		return 0, false
	case f == math.Trunc(f) && f >= 1 && f <= 4:
		return int(f), true
	case f <= 1:
		return int(math.Max(1, math.Ceil(f*4))), true
	}
	return 0, false
}

// labelOf renders a classifier confidence, which may arrive as text or a
// number, as a short label.
func labelOf(raw interface{}) (string, bool) {
	switch v := raw.(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return fmt.Sprint(v), true
	}
	return "", false
}
