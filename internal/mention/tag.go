// Package mention tags brand and product references in generated prose
// with non-overlapping inline markers.
package mention

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sells-group/perception-cli/internal/model"
)

// Wrapper markers, kind-specific. Markers never nest or overlap.
const (
	BrandOpen    = "[brand]"
	BrandClose   = "[/brand]"
	ProductOpen  = "[product]"
	ProductClose = "[/product]"
)

// wrapperPattern locates existing markers so a second pass never
// double-wraps a span that is already tagged.
var wrapperPattern = regexp.MustCompile(`\[(brand|product)\].*?\[/(brand|product)\]`)

// Tag wraps every occurrence of each accepted mention name in text with
// its kind-specific marker. Mentions below minConfidence are ignored.
// Names are matched case-insensitively on word boundaries, longest name
// first, so a multi-word brand is tagged as a unit before any of its
// constituent words. The original casing of matched text is preserved.
// Tagging with an empty mention list is the identity function, and
// re-running Tag on its own output with the same mentions adds nothing.
func Tag(text string, mentions []model.CandidateMention, minConfidence float64) string {
	accepted := make([]model.CandidateMention, 0, len(mentions))
	for _, m := range mentions {
		if !m.Valid() || m.Confidence < minConfidence {
			continue
		}
		accepted = append(accepted, m)
	}
	if len(accepted) == 0 {
		return text
	}

	// Longest name first; ties broken by name for determinism.
	sort.SliceStable(accepted, func(i, j int) bool {
		if len(accepted[i].Name) != len(accepted[j].Name) {
			return len(accepted[i].Name) > len(accepted[j].Name)
		}
		return accepted[i].Name < accepted[j].Name
	})

	tagged := make(map[string]bool, len(accepted))
	for _, m := range accepted {
		key := strings.ToLower(m.Name)
		if tagged[key] {
			continue
		}
		tagged[key] = true
		text = wrapOccurrences(text, m.Name, m.Kind)
	}
	return text
}

// wrapOccurrences substitutes every free-standing occurrence of name in
// text with a wrapped copy, skipping occurrences inside existing markers.
func wrapOccurrences(text, name string, kind model.MentionKind) string {
	pat, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return text
	}

	matches := pat.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	protected := wrapperPattern.FindAllStringIndex(text, -1)

	openTag, closeTag := ProductOpen, ProductClose
	if kind == model.MentionBrand {
		openTag, closeTag = BrandOpen, BrandClose
	}

	var b strings.Builder
	b.Grow(len(text) + len(matches)*(len(openTag)+len(closeTag)))
	last := 0
	for _, m := range matches {
		if overlapsAny(m[0], m[1], protected) {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(openTag)
		b.WriteString(text[m[0]:m[1]]) // original casing
		b.WriteString(closeTag)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func overlapsAny(start, end int, ranges [][]int) bool {
	for _, r := range ranges {
		if start < r[1] && end > r[0] {
			return true
		}
	}
	return false
}
