package mention

import (
	"strings"
	"testing"

	"github.com/sells-group/perception-cli/internal/model"
)

func TestTag_EmptyMentions_Identity(t *testing.T) {
	text := "Acme makes great widgets."
	if got := Tag(text, nil, 0.5); got != text {
		t.Errorf("expected identity, got %q", got)
	}
}

func TestTag_BelowThreshold_Untouched(t *testing.T) {
	text := "Acme makes great widgets."
	mentions := []model.CandidateMention{
		{Name: "Acme", Kind: model.MentionBrand, Confidence: 0.3},
	}
	if got := Tag(text, mentions, 0.5); got != text {
		t.Errorf("expected untouched text, got %q", got)
	}
}

func TestTag_BrandAndProduct(t *testing.T) {
	text := "Acme sells the Widget Pro to enterprises."
	mentions := []model.CandidateMention{
		{Name: "Acme", Kind: model.MentionBrand, Confidence: 0.9},
		{Name: "Widget Pro", Kind: model.MentionProduct, Confidence: 0.8},
	}
	got := Tag(text, mentions, 0.5)
	want := "[brand]Acme[/brand] sells the [product]Widget Pro[/product] to enterprises."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTag_LongestFirst_NoNestedWrap(t *testing.T) {
	text := "Slack Technologies builds Slack."
	mentions := []model.CandidateMention{
		{Name: "Slack", Kind: model.MentionProduct, Confidence: 0.9},
		{Name: "Slack Technologies", Kind: model.MentionBrand, Confidence: 0.8},
	}
	got := Tag(text, mentions, 0.5)
	want := "[brand]Slack Technologies[/brand] builds [product]Slack[/product]."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTag_PreservesCasing_CaseInsensitiveMatch(t *testing.T) {
	text := "ACME and acme are the same brand."
	mentions := []model.CandidateMention{
		{Name: "Acme", Kind: model.MentionBrand, Confidence: 0.9},
	}
	got := Tag(text, mentions, 0.5)
	want := "[brand]ACME[/brand] and [brand]acme[/brand] are the same brand."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTag_WordBoundary(t *testing.T) {
	text := "Acmeify is unrelated to Acme."
	mentions := []model.CandidateMention{
		{Name: "Acme", Kind: model.MentionBrand, Confidence: 0.9},
	}
	got := Tag(text, mentions, 0.5)
	want := "Acmeify is unrelated to [brand]Acme[/brand]."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTag_Idempotent(t *testing.T) {
	text := "Slack Technologies builds Slack for teams using Slack daily."
	mentions := []model.CandidateMention{
		{Name: "Slack", Kind: model.MentionProduct, Confidence: 0.9},
		{Name: "Slack Technologies", Kind: model.MentionBrand, Confidence: 0.8},
	}
	once := Tag(text, mentions, 0.5)
	twice := Tag(once, mentions, 0.5)
	if once != twice {
		t.Errorf("tagging is not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestTag_NoOverlappingMarkers(t *testing.T) {
	text := "Acme Cloud and Acme and Cloud appear together: Acme Cloud wins."
	mentions := []model.CandidateMention{
		{Name: "Acme Cloud", Kind: model.MentionProduct, Confidence: 0.9},
		{Name: "Acme", Kind: model.MentionBrand, Confidence: 0.9},
		{Name: "Cloud", Kind: model.MentionProduct, Confidence: 0.9},
	}
	got := Tag(text, mentions, 0.5)

	// No open marker may appear inside another wrapped span.
	for _, span := range wrapperPattern.FindAllString(got, -1) {
		inner := span[strings.Index(span, "]")+1 : strings.LastIndex(span, "[")]
		if strings.Contains(inner, "[brand]") || strings.Contains(inner, "[product]") {
			t.Errorf("nested marker in span %q", span)
		}
	}
	if !strings.Contains(got, "[product]Acme Cloud[/product]") {
		t.Errorf("longest name not tagged as a unit: %q", got)
	}
}

func TestTag_InvalidMentionSkipped(t *testing.T) {
	text := "Acme ships."
	mentions := []model.CandidateMention{
		{Name: "", Kind: model.MentionBrand, Confidence: 0.9},
		{Name: strings.Repeat("x", 101), Kind: model.MentionBrand, Confidence: 0.9},
		{Name: "Acme", Kind: model.MentionBrand, Confidence: 1.2},
	}
	if got := Tag(text, mentions, 0.5); got != text {
		t.Errorf("invalid mentions must leave text untouched, got %q", got)
	}
}

func TestTag_DuplicateNames_SingleWrapPass(t *testing.T) {
	text := "Acme leads."
	mentions := []model.CandidateMention{
		{Name: "Acme", Kind: model.MentionBrand, Confidence: 0.9},
		{Name: "acme", Kind: model.MentionProduct, Confidence: 0.95},
	}
	got := Tag(text, mentions, 0.5)
	if strings.Count(got, "[brand]")+strings.Count(got, "[product]") != 1 {
		t.Errorf("same name tagged twice: %q", got)
	}
}
