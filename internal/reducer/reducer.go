// Package reducer filters rendered page HTML down to the tag types likely to
// carry product images, dimension text, and spec rows, shrinking the payload
// sent to the extraction model. It is a pure text transform with no browser
// dependency.
package reducer

import (
	"regexp"
	"strings"
)

type Options struct {
	// IncludeListItems retains <li> elements as well. IKEA places spec
	// values in list items rather than table cells.
	IncludeListItems bool
}

// boundaryRe matches every start or end tag of the tag types we care about.
// Pairing happens in the scan below: RE2 has neither backreferences nor
// lookahead, so a "same tag, non-nested" match cannot live in one pattern.
var boundaryRe = regexp.MustCompile(`(?i)<(/?)(img|span|td|li)\b[^>]*/?>`)

type boundary struct {
	start, end int
	tag        string
	closing    bool
}

// Reduce returns the space-joined concatenation, in document order, of every
// <img> tag and every balanced <span>, <td>, and (optionally) <li> element
// in html. A pair is an open tag and the next same-named boundary when that
// boundary is a close tag; an intervening same-named open restarts the pair.
// Matched fragments are consumed left to right, so elements nested inside an
// already-emitted fragment are not emitted again.
func Reduce(html string, opts Options) string {
	var bounds []boundary
	for _, loc := range boundaryRe.FindAllStringSubmatchIndex(html, -1) {
		b := boundary{
			start:   loc[0],
			end:     loc[1],
			tag:     strings.ToLower(html[loc[4]:loc[5]]),
			closing: loc[3] > loc[2],
		}
		if b.tag == "li" && !opts.IncludeListItems {
			continue
		}
		bounds = append(bounds, b)
	}

	var fragments []string
	pos := 0

	for i, b := range bounds {
		if b.start < pos || b.closing {
			continue
		}

		if b.tag == "img" {
			fragments = append(fragments, html[b.start:b.end])
			pos = b.end
			continue
		}

		// Pair with the next same-tag boundary, close tags only.
		for _, next := range bounds[i+1:] {
			if next.tag != b.tag {
				continue
			}
			if next.closing {
				fragments = append(fragments, html[b.start:next.end])
				pos = next.end
			}
			break
		}
	}

	return strings.Join(fragments, " ")
}
