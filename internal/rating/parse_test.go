package rating

import (
	"strings"
	"testing"

	"github.com/sells-group/perception-cli/internal/model"
)

func assertBounded(t *testing.T, rv model.RatingVector) {
	t.Helper()
	for _, dim := range model.Dimensions {
		v := rv.Get(dim)
		if v < 1 || v > 10 {
			t.Errorf("%s = %d, out of [1,10]", dim, v)
		}
	}
}

func TestParse_EmptyText_AllBaseline(t *testing.T) {
	rv := Parse("", "Acme")
	assertBounded(t, rv)
	for _, dim := range model.Dimensions {
		if rv.Get(dim) != neutralBaseline {
			t.Errorf("%s = %d, want baseline %d", dim, rv.Get(dim), neutralBaseline)
		}
	}
	if !strings.Contains(rv.Summary, "Acme") {
		t.Errorf("summary should name the target: %q", rv.Summary)
	}
}

func TestParse_LabeledScores(t *testing.T) {
	text := "Acme review. Quality: 9/10. Price value: 6 out of 10. " +
		"Brand reputation is rated 8. Brand trust: 7. Customer service: 4/10."
	rv := Parse(text, "Acme")
	assertBounded(t, rv)
	if rv.Quality != 9 {
		t.Errorf("quality = %d, want 9", rv.Quality)
	}
	if rv.PriceValue != 6 {
		t.Errorf("price_value = %d, want 6", rv.PriceValue)
	}
	if rv.BrandReputation != 8 {
		t.Errorf("brand_reputation = %d, want 8", rv.BrandReputation)
	}
	if rv.BrandTrust != 7 {
		t.Errorf("brand_trust = %d, want 7", rv.BrandTrust)
	}
	if rv.CustomerService != 4 {
		t.Errorf("customer_service = %d, want 4", rv.CustomerService)
	}
}

func TestParse_ClampsOutOfRange(t *testing.T) {
	rv := Parse("Quality: 14/10. Customer service: 0.", "Acme")
	assertBounded(t, rv)
	if rv.Quality != 10 {
		t.Errorf("quality = %d, want clamped 10", rv.Quality)
	}
	if rv.CustomerService != 1 {
		t.Errorf("customer_service = %d, want clamped 1", rv.CustomerService)
	}
}

func TestParse_PositiveShift(t *testing.T) {
	text := "Acme is excellent and reliable, with outstanding support staff " +
		"and impressive products; widely praised and recommended."
	rv := Parse(text, "Acme")
	assertBounded(t, rv)
	// No labeled scores, so every dimension is baseline+1.
	if rv.Quality != neutralBaseline+1 {
		t.Errorf("quality = %d, want %d", rv.Quality, neutralBaseline+1)
	}
}

func TestParse_NegativeShift(t *testing.T) {
	text := "Acme is unreliable. Reviews cite poor support, complaints, " +
		"a lawsuit, and disappointing products from a declining brand."
	rv := Parse(text, "Acme")
	assertBounded(t, rv)
	if rv.Quality != neutralBaseline-1 {
		t.Errorf("quality = %d, want %d", rv.Quality, neutralBaseline-1)
	}
}

func TestParse_BalancedSentiment_NoShift(t *testing.T) {
	text := "Acme is reliable but support is poor."
	rv := Parse(text, "Acme")
	if rv.Quality != neutralBaseline {
		t.Errorf("quality = %d, want unshifted %d", rv.Quality, neutralBaseline)
	}
}

func TestParse_ShiftClampsAtTen(t *testing.T) {
	text := "Quality: 10/10. Acme is excellent, outstanding, impressive, praised."
	rv := Parse(text, "Acme")
	if rv.Quality != 10 {
		t.Errorf("quality = %d, want 10 after clamped shift", rv.Quality)
	}
}

func TestParse_SourcesSuffix(t *testing.T) {
	text := "Acme leads its market. See https://g2.com/acme and https://trustpilot.com/acme for reviews."
	rv := Parse(text, "Acme")
	if len(rv.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(rv.Citations))
	}
	if !strings.Contains(rv.Summary, "Sources: g2.com, trustpilot.com") {
		t.Errorf("summary missing sources suffix: %q", rv.Summary)
	}
}

func TestParse_GarbageText_StillBounded(t *testing.T) {
	for _, text := range []string{
		"quality quality quality 99999",
		strings.Repeat("??", 1000),
		"\x00\x01\x02",
	} {
		assertBounded(t, Parse(text, "Acme"))
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("got %q", got)
	}
	got := Truncate(strings.Repeat("é", 600), maxSummaryLen)
	runes := []rune(got)
	if len(runes) != maxSummaryLen {
		t.Errorf("len = %d, want %d", len(runes), maxSummaryLen)
	}
	if runes[len(runes)-1] != '…' {
		t.Errorf("missing ellipsis marker")
	}
	for _, r := range got {
		if r != 'é' && r != '…' {
			t.Errorf("mid-rune split produced %q", r)
		}
	}
}

func TestParse_SummaryBounded(t *testing.T) {
	long := "Acme " + strings.Repeat("very ", 400) + "good."
	rv := Parse(long, "Acme")
	if n := len([]rune(rv.Summary)); n > maxSummaryLen {
		t.Errorf("summary length %d exceeds %d", n, maxSummaryLen)
	}
}
