// Package rating extracts a bounded five-dimension sentiment rating from
// free-form model text about a target brand.
package rating

import (
	"strconv"
	"strings"

	"github.com/sells-group/perception-cli/internal/citation"
	"github.com/sells-group/perception-cli/internal/model"
)

// neutralBaseline is the default for a dimension with no pattern match.
// 7 rather than the midpoint 5 is a deliberate slight-positive bias kept
// from observed behavior: model prose about a real company skews
// favorable, so "no evidence found" defaults favorable too.
const neutralBaseline = 7

// maxSummaryLen bounds the free-text summary.
const maxSummaryLen = 500

// maxSummaryCitations caps the domains listed in the Sources suffix.
const maxSummaryCitations = 5

// Parse extracts a RatingVector for target from text. It never fails:
// unmatched dimensions fall back to the neutral baseline, and empty text
// yields an all-baseline vector. Each dimension is independently clamped
// to [1,10] after the lexical sentiment adjustment.
func Parse(text, target string) model.RatingVector {
	var rv model.RatingVector
	for _, dl := range dimensionLabels {
		rv.Set(dl.Dim, extractDimension(text, dl.Dim))
	}

	// Lexical adjustment: shift every dimension by one when positive
	// indicators outnumber negative by more than 2:1, or vice versa.
	pos, neg := countIndicators(text)
	shift := 0
	switch {
	case pos > neg*2 && pos > 0:
		shift = 1
	case neg > pos*2 && neg > 0:
		shift = -1
	}
	if shift != 0 {
		for _, dim := range model.Dimensions {
			rv.Set(dim, rv.Get(dim)+shift)
		}
	}

	rv.Citations = citation.Top(citation.Extract(text), maxSummaryCitations)
	rv.Summary = buildSummary(text, target, rv.Citations)
	return rv
}

// extractDimension tries the dimension's label patterns in order and
// returns the first numeric match clamped to [1,10], or the baseline.
func extractDimension(text, dim string) int {
	for _, pat := range labelPatterns[dim] {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return model.ClampRating(n)
	}
	return neutralBaseline
}

func countIndicators(text string) (pos, neg int) {
	for _, w := range positiveWords {
		pos += len(wordPatterns[w].FindAllStringIndex(text, -1))
	}
	for _, w := range negativeWords {
		neg += len(wordPatterns[w].FindAllStringIndex(text, -1))
	}
	return pos, neg
}

// buildSummary takes the leading sentence of the text, appends a Sources
// suffix from the citation domains, and truncates rune-safe.
func buildSummary(text, target string, citations []model.Citation) string {
	base := firstSentence(text)
	if base == "" {
		base = "No detailed assessment of " + target + " found."
	}

	if domains := model.CitationDomains(citations, maxSummaryCitations); len(domains) > 0 {
		base += " Sources: " + strings.Join(domains, ", ")
	}
	return Truncate(base, maxSummaryLen)
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i := strings.IndexAny(line, ".!?"); i > 0 && i < len(line)-1 {
			return line[:i+1]
		}
		return line
	}
	return ""
}

// Truncate bounds s to max runes, appending an ellipsis marker. Cutting
// on rune boundaries guarantees the result is never split mid-sequence.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
