// Package citation extracts and normalizes web citations from raw model text.
package citation

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/sells-group/perception-cli/internal/model"
)

// minURLLen rejects fragments too short to be a real link.
const minURLLen = 10

// urlPattern matches URL-shaped substrings greedily, stopping at
// whitespace, brackets, and quotes. Kept as package data so the pattern
// can be tested independently of Extract.
var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>\[\]{}()"'` + "`" + `]+`)

// trailingPunct is sentence punctuation stripped from match tails.
const trailingPunct = `.,;:!?'")]}>*`

// leadingSeps is stray separator characters stripped from match heads.
const leadingSeps = `([<'"*`

// Extract scans text for URLs and returns deduplicated, normalized
// citations in first-seen order. It is pure and total: unparsable
// candidates are silently dropped, never surfaced as errors.
func Extract(text string) []model.Citation {
	matches := urlPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	var out []model.Citation
	for _, raw := range matches {
		c, ok := normalize(raw)
		if !ok || seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		out = append(out, c)
	}
	return out
}

// Top caps a citation list after deduplication. Capping before dedup
// would bias toward early repeats, so Extract never caps internally.
func Top(citations []model.Citation, n int) []model.Citation {
	if n <= 0 || len(citations) <= n {
		return citations
	}
	return citations[:n]
}

// normalize cleans one raw match into a citation. Normalization strips
// query strings and fragments before dedup, so near-duplicate links to
// the same page collapse to one citation.
func normalize(raw string) (model.Citation, bool) {
	raw = strings.TrimLeft(raw, leadingSeps)
	raw = strings.TrimRight(raw, trailingPunct)
	if len(raw) < minURLLen {
		return model.Citation{}, false
	}

	if !strings.HasPrefix(strings.ToLower(raw), "http://") &&
		!strings.HasPrefix(strings.ToLower(raw), "https://") {
		// Bare www. match; urlPattern admits nothing else schemeless.
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return model.Citation{}, false
	}

	domain := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if domain == "" || !strings.Contains(domain, ".") {
		return model.Citation{}, false
	}

	u.RawQuery = ""
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)

	return model.Citation{
		URL:    u.String(),
		Domain: domain,
	}, true
}
