package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeObject(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name string
		text string
		ok   bool
		want string
	}{
		{"plain object", `{"name": "sofa"}`, true, "sofa"},
		{"fenced object", "```json\n{\"name\": \"sofa\"}\n```", true, "sofa"},
		{"fenced without language", "```\n{\"name\": \"sofa\"}\n```", true, "sofa"},
		{"surrounding whitespace", "  \n {\"name\": \"sofa\"} \n", true, "sofa"},
		{"prose response", "Sure! Here is the JSON you asked for.", false, ""},
		{"truncated JSON", `{"name": "sof`, false, ""},
		{"empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			ok := DecodeObject(tt.text, &p)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, p.Name)
			}
		})
	}
}

func TestDecodeStringList(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
		want []string
	}{
		{"bare array", `["sofa", "couch"]`, true, []string{"sofa", "couch"}},
		{"wrapped under known key", `{"aliases": ["sofa", "couch"]}`, true, []string{"sofa", "couch"}},
		{"wrapped under arbitrary key", `{"whatever": ["a"]}`, true, []string{"a"}},
		{"first list-valued field wins", `{"count": 2, "items": ["x", "y"], "later": ["z"]}`, true, []string{"x", "y"}},
		{"non-string elements skipped", `["sofa", 3, null, "couch"]`, true, []string{"sofa", "couch"}},
		{"elements trimmed", `["  sofa  ", ""]`, true, []string{"sofa"}},
		{"fenced array", "```json\n[\"sofa\"]\n```", true, []string{"sofa"}},
		{"object with no list field", `{"name": "sofa"}`, false, nil},
		{"not JSON", "no luck", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeStringList(tt.text)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]string{" Sofa ", "sofa", "COUCH", "", "couch", "Loveseat"})
	assert.Equal(t, []string{"sofa", "couch", "loveseat"}, got)
}
