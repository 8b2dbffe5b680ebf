package reducer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduce(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		opts     Options
		expected string
	}{
		{
			name:     "img and span kept, bare text dropped",
			html:     `<img src="a">hello<span>x</span>world`,
			expected: `<img src="a"> <span>x</span>`,
		},
		{
			name:     "table cells kept",
			html:     `<p>intro</p><td>12 x 8 x 3 inches</td>`,
			expected: `<td>12 x 8 x 3 inches</td>`,
		},
		{
			name:     "list items dropped by default",
			html:     `<li>Width: 80 cm</li><span>a</span>`,
			expected: `<span>a</span>`,
		},
		{
			name:     "list items kept for IKEA pages",
			html:     `<li>Width: 80 cm</li><span>a</span>`,
			opts:     Options{IncludeListItems: true},
			expected: `<li>Width: 80 cm</li> <span>a</span>`,
		},
		{
			name:     "self-closing img",
			html:     `<img src="b.jpg" alt="b"/>text`,
			expected: `<img src="b.jpg" alt="b"/>`,
		},
		{
			name:     "case insensitive tags",
			html:     `<IMG SRC="c"><SPAN>y</SPAN>`,
			expected: `<IMG SRC="c"> <SPAN>y</SPAN>`,
		},
		{
			name:     "nested same tag pairs innermost",
			html:     `<span>outer<span>inner</span>tail</span>`,
			expected: `<span>inner</span>`,
		},
		{
			name:     "unclosed span dropped",
			html:     `<span>never closed<td>cell</td>`,
			expected: `<td>cell</td>`,
		},
		{
			name:     "img inside span not emitted twice",
			html:     `<span>see <img src="d"> here</span>`,
			expected: `<span>see <img src="d"> here</span>`,
		},
		{
			name:     "script and prose excluded",
			html:     `<script>var x = 1;</script><p>paragraph</p><span>kept</span>`,
			expected: `<span>kept</span>`,
		},
		{
			name:     "empty input",
			html:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Reduce(tt.html, tt.opts))
		})
	}
}

func TestReduceDocumentOrder(t *testing.T) {
	html := `<span>first</span><img src="mid"><td>last</td>`
	got := Reduce(html, Options{})

	firstIdx := strings.Index(got, "first")
	midIdx := strings.Index(got, "mid")
	lastIdx := strings.Index(got, "last")

	assert.True(t, firstIdx < midIdx && midIdx < lastIdx, "fragments out of document order: %q", got)
}

func TestReduceShrinksPayload(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><head><style>body { color: red; }</style></head><body>")
	for i := 0; i < 50; i++ {
		b.WriteString("<p>long prose paragraph that the extraction model never needs</p>")
	}
	b.WriteString(`<span>Dimensions: 12.5 x 8 x 3 inches</span><img src="https://cdn.example.com/p.jpg">`)
	b.WriteString("</body></html>")

	reduced := Reduce(b.String(), Options{})

	assert.Less(t, len(reduced), b.Len()/10)
	assert.Contains(t, reduced, "12.5 x 8 x 3 inches")
	assert.Contains(t, reduced, `<img src="https://cdn.example.com/p.jpg">`)
}
