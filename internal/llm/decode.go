package llm

import (
	"encoding/json"
	"strings"
)

// Model output is not contractually valid JSON, so decoding never returns an
// error: callers get a bool and substitute their documented default on false.

// DecodeObject parses the response text into v. Markdown code fences around
// the JSON are tolerated.
func DecodeObject(text string, v any) bool {
	return json.Unmarshal([]byte(stripFences(text)), v) == nil
}

// DecodeStringList accepts either a bare JSON array of strings or an object
// whose first list-valued field (in document order) holds the strings.
// Non-string elements are skipped.
func DecodeStringList(text string) ([]string, bool) {
	cleaned := stripFences(text)

	var raw []any
	if json.Unmarshal([]byte(cleaned), &raw) == nil {
		return stringsOf(raw), true
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}

	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		trimmed := strings.TrimSpace(string(value))
		if strings.HasPrefix(trimmed, "[") {
			var list []any
			if json.Unmarshal(value, &list) != nil {
				return nil, false
			}
			return stringsOf(list), true
		}
	}

	return nil, false
}

// Normalize trims, lowercases, and case-insensitively dedupes a string list,
// dropping empties and preserving first-seen order.
func Normalize(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		s := strings.ToLower(strings.TrimSpace(v))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func stringsOf(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
