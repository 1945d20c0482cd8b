package rating

import (
	"regexp"

	"github.com/sells-group/perception-cli/internal/model"
)

// dimensionLabels maps each rating dimension to its label variants, in
// match-priority order. Patterns are data so they can be tested apart
// from the parsing control flow.
var dimensionLabels = []struct {
	Dim    string
	Labels []string
}{
	{model.DimQuality, []string{"product quality", "service quality", "quality"}},
	{model.DimPriceValue, []string{"price value", "value for money", "pricing", "price"}},
	{model.DimBrandReputation, []string{"brand reputation", "reputation"}},
	{model.DimBrandTrust, []string{"brand trust", "trustworthiness", "trust"}},
	{model.DimCustomerService, []string{"customer service", "customer support", "support"}},
}

// labelPatterns holds one compiled pattern per label, keyed by dimension,
// preserving label order. Each pattern captures the first 1-2 digit number
// following the label, optionally written as "N/10" or "N out of 10".
var labelPatterns = compileLabelPatterns()

func compileLabelPatterns() map[string][]*regexp.Regexp {
	out := make(map[string][]*regexp.Regexp, len(dimensionLabels))
	for _, dl := range dimensionLabels {
		pats := make([]*regexp.Regexp, 0, len(dl.Labels))
		for _, label := range dl.Labels {
			pats = append(pats, regexp.MustCompile(
				`(?i)\b`+regexp.QuoteMeta(label)+
					`\b[^.\d]{0,30}?(\d{1,2})(?:\s*(?:/|out of)\s*10)?`))
		}
		out[dl.Dim] = pats
	}
	return out
}

// positiveWords and negativeWords are the lexical sentiment indicators
// scanned after baseline extraction.
var (
	positiveWords = []string{
		"excellent", "outstanding", "great", "reliable", "trusted",
		"leading", "innovative", "strong", "praised", "recommended",
		"best", "superior", "impressive", "loved",
	}
	negativeWords = []string{
		"poor", "bad", "unreliable", "weak", "criticized", "complaints",
		"lawsuit", "scandal", "worst", "disappointing", "overpriced",
		"declining", "failure", "distrust",
	}
)

var wordPatterns = compileWordPatterns()

func compileWordPatterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(positiveWords)+len(negativeWords))
	for _, w := range append(append([]string{}, positiveWords...), negativeWords...) {
		out[w] = regexp.MustCompile(`(?i)\b` + w + `\b`)
	}
	return out
}
