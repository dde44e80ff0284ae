// internal/agent/extract.go
package agent

import (
	"encoding/json"
	"strings"
)

// coerceResult turns the wire "result" into an object. Objects pass
// through; strings are searched for an embedded JSON object; anything else
// is kept under "raw" so nothing is silently dropped.
func coerceResult(v interface{}) map[string]interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		// Some agents nest the payload one level down.
		if inner, ok := val["response"].(map[string]interface{}); ok && len(val) == 1 {
			return inner
		}
		return val
	case string:
		if obj, ok := parseEmbeddedObject(val); ok {
			return obj
		}
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return map[string]interface{}{"raw": val}
	default:
		return map[string]interface{}{"raw": val}
	}
}

func parseEmbeddedObject(s string) (map[string]interface{}, bool) {
	block := extractJSONBlock(stripCodeFences(s))
	if block == "" {
		return nil, false
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(block), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// extractJSONBlock finds the first balanced { ... } block in s.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
