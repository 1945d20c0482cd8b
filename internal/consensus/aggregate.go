// Package consensus reconciles independent per-model ratings into one
// aggregated rating with explicit agreement classification.
package consensus

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/perception-cli/internal/model"
)

// ErrEmptyInput indicates Aggregate was called with zero rating sets.
// This is caller misuse, not a degraded-input condition.
var ErrEmptyInput = eris.New("consensus: empty rating set")

// Classification thresholds on the per-dimension population standard
// deviation.
const (
	consensusSigma = 0.5
	divergentSigma = 1.5
)

// maxProvenanceDomains caps the domains listed in the provenance line.
const maxProvenanceDomains = 5

// Aggregate combines N independent rating vectors into one synthesized
// rating. Per dimension it reports the rounded arithmetic mean and a
// Consensus/Moderate/Divergent classification from the population
// standard deviation. An outlier model is never discarded; divergence is
// reported, not suppressed. The result holds value copies only.
func Aggregate(sets []model.RatingVector) (*model.AggregatedRating, error) {
	if len(sets) == 0 {
		return nil, ErrEmptyInput
	}

	agg := &model.AggregatedRating{
		Trends:     make(map[string]model.Trend, len(model.Dimensions)),
		StdDev:     make(map[string]float64, len(model.Dimensions)),
		ModelCount: len(sets),
	}

	var lines []string
	for _, dim := range model.Dimensions {
		mean, sigma := meanStdDev(sets, dim)
		trend := classify(sigma)

		agg.Set(dim, int(math.Round(mean)))
		agg.Trends[dim] = trend
		agg.StdDev[dim] = sigma
		lines = append(lines, fmt.Sprintf("%s: %.1f avg (%s)", dim, mean, trend))
	}

	citations := unionCitations(sets)
	agg.Citations = citations
	agg.Summary = buildSummary(lines, citations, len(sets))

	return agg, nil
}

func meanStdDev(sets []model.RatingVector, dim string) (mean, sigma float64) {
	n := float64(len(sets))
	var sum float64
	for _, rv := range sets {
		sum += float64(rv.Get(dim))
	}
	mean = sum / n

	var sq float64
	for _, rv := range sets {
		d := float64(rv.Get(dim)) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / n)
}

func classify(sigma float64) model.Trend {
	switch {
	case sigma < consensusSigma:
		return model.TrendConsensus
	case sigma > divergentSigma:
		return model.TrendDivergent
	default:
		return model.TrendModerate
	}
}

// unionCitations merges citations across all contributing models,
// deduplicated by URL in first-seen order. Slices are copied so the
// aggregate retains no reference to the inputs.
func unionCitations(sets []model.RatingVector) []model.Citation {
	seen := make(map[string]bool)
	var out []model.Citation
	for _, rv := range sets {
		for _, c := range rv.Citations {
			if c.URL == "" || seen[c.URL] {
				continue
			}
			seen[c.URL] = true
			out = append(out, c)
		}
	}
	return out
}

func buildSummary(lines []string, citations []model.Citation, modelCount int) string {
	var b strings.Builder
	b.WriteString(strings.Join(lines, "; "))
	b.WriteString(".")

	domains := model.CitationDomains(citations, maxProvenanceDomains)
	if len(domains) > 0 {
		fmt.Fprintf(&b, " Sources: %s (%d contributing models).",
			strings.Join(domains, ", "), modelCount)
	} else {
		fmt.Fprintf(&b, " %d contributing models, no cited sources.", modelCount)
	}
	return b.String()
}
