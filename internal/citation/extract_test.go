package citation

import (
	"strings"
	"testing"
)

func TestExtract_Basic(t *testing.T) {
	got := Extract("See https://example.com/reviews for details.")
	if len(got) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(got))
	}
	if got[0].URL != "https://example.com/reviews" {
		t.Errorf("url = %q", got[0].URL)
	}
	if got[0].Domain != "example.com" {
		t.Errorf("domain = %q", got[0].Domain)
	}
}

func TestExtract_QueryStringsCollapse(t *testing.T) {
	text := "Reviews at https://g2.com/x and https://g2.com/x?ref=2 both praise the product."
	got := Extract(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 citation after query-string normalization, got %d", len(got))
	}
	if got[0].Domain != "g2.com" {
		t.Errorf("domain = %q, want g2.com", got[0].Domain)
	}
	if got[0].URL != "https://g2.com/x" {
		t.Errorf("url = %q", got[0].URL)
	}
}

func TestExtract_BareWWW(t *testing.T) {
	got := Extract("Compare on www.trustpilot.com/review/acme today")
	if len(got) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(got))
	}
	if !strings.HasPrefix(got[0].URL, "https://www.trustpilot.com") {
		t.Errorf("expected https scheme prepended, got %q", got[0].URL)
	}
	if got[0].Domain != "trustpilot.com" {
		t.Errorf("domain = %q, want www stripped", got[0].Domain)
	}
}

func TestExtract_TrailingPunctuation(t *testing.T) {
	cases := []string{
		"Sources: (https://example.com/a).",
		"Read https://example.com/a, then decide.",
		"[https://example.com/a]",
		"Quote: \"https://example.com/a\"!",
	}
	for _, text := range cases {
		got := Extract(text)
		if len(got) != 1 {
			t.Fatalf("%q: expected 1 citation, got %d", text, len(got))
		}
		if got[0].URL != "https://example.com/a" {
			t.Errorf("%q: url = %q", text, got[0].URL)
		}
	}
}

func TestExtract_RejectsShortAndHostless(t *testing.T) {
	for _, text := range []string{
		"ftp://example.com/file",
		"just prose with no links at all",
		"https://x",
		"www.a.b", // under min length
		"",
	} {
		if got := Extract(text); len(got) != 0 {
			t.Errorf("%q: expected no citations, got %v", text, got)
		}
	}
}

func TestExtract_NoDuplicates_FirstSeenOrder(t *testing.T) {
	text := "https://b.com/1 then https://a.com/2 then https://b.com/1 again"
	got := Extract(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(got))
	}
	if got[0].Domain != "b.com" || got[1].Domain != "a.com" {
		t.Errorf("order not first-seen: %v", got)
	}
	seen := map[string]bool{}
	for _, c := range got {
		if seen[c.URL] {
			t.Errorf("duplicate url %q", c.URL)
		}
		seen[c.URL] = true
		if c.Domain == "" {
			t.Errorf("empty domain for %q", c.URL)
		}
	}
}

func TestTop_CapsAfterDedup(t *testing.T) {
	var b strings.Builder
	for _, u := range []string{
		"https://one.com/a", "https://one.com/a", "https://two.com/a",
		"https://three.com/a", "https://four.com/a",
	} {
		b.WriteString(u + " ")
	}
	got := Top(Extract(b.String()), 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 citations, got %d", len(got))
	}
	if got[0].Domain != "one.com" || got[1].Domain != "two.com" || got[2].Domain != "three.com" {
		t.Errorf("unexpected cap order: %v", got)
	}
}

func TestTop_NoCapNeeded(t *testing.T) {
	cs := Extract("https://one.com/a only")
	if got := Top(cs, 5); len(got) != 1 {
		t.Errorf("expected passthrough, got %v", got)
	}
	if got := Top(cs, 0); len(got) != 1 {
		t.Errorf("zero cap should mean no cap, got %v", got)
	}
}
