package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeImageURLs(t *testing.T) {
	tests := []struct {
		name     string
		urls     []string
		max      int
		expected []string
	}{
		{
			name: "dedupes keeping first-seen order",
			urls: []string{
				"https://cdn.example.com/a.jpg",
				"https://cdn.example.com/b.jpg",
				"https://cdn.example.com/a.jpg",
			},
			expected: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		},
		{
			name: "drops non-http schemes and relatives",
			urls: []string{
				"ftp://files.example.com/a.jpg",
				"data:image/png;base64,AAAA",
				"/images/relative.jpg",
				"javascript:alert(1)",
				"http://cdn.example.com/ok.jpg",
			},
			expected: []string{"http://cdn.example.com/ok.jpg"},
		},
		{
			name:     "trims whitespace and drops empties",
			urls:     []string{"  https://cdn.example.com/a.jpg  ", "", "   "},
			expected: []string{"https://cdn.example.com/a.jpg"},
		},
		{
			name: "cap applies after filtering",
			urls: []string{
				"not-a-url",
				"https://cdn.example.com/1.jpg",
				"https://cdn.example.com/2.jpg",
				"https://cdn.example.com/3.jpg",
			},
			max:      2,
			expected: []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"},
		},
		{
			name:     "zero cap means unlimited",
			urls:     []string{"https://a.example.com/1", "https://a.example.com/2"},
			max:      0,
			expected: []string{"https://a.example.com/1", "https://a.example.com/2"},
		},
		{
			name:     "empty input",
			urls:     nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeImageURLs(tt.urls, tt.max))
		})
	}
}
