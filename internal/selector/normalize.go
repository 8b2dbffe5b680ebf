package selector

import (
	"net/url"
	"strings"
)

// NormalizeImageURLs dedupes and filters candidate image URLs: only
// well-formed absolute http/https URLs survive, first-seen order is kept,
// and max (when positive) caps the result.
func NormalizeImageURLs(urls []string, max int) []string {
	seen := make(map[string]struct{}, len(urls))
	cleaned := make([]string, 0, len(urls))

	for _, u := range urls {
		s := strings.TrimSpace(u)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}

		parsed, err := url.Parse(s)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			continue
		}

		seen[s] = struct{}{}
		cleaned = append(cleaned, s)
		if max > 0 && len(cleaned) >= max {
			break
		}
	}

	return cleaned
}
