package model

import "strings"

// Brand is one watchlist entry: the brand under observation plus the
// product and competitor names the tagger should look for.
type Brand struct {
	Name        string   `json:"name" yaml:"name"`
	Products    []string `json:"products,omitempty" yaml:"products,omitempty"`
	Competitors []string `json:"competitors,omitempty" yaml:"competitors,omitempty"`
	Question    string   `json:"question,omitempty" yaml:"question,omitempty"`
}

// Normalize trims whitespace on all names and drops empties.
func (b *Brand) Normalize() {
	b.Name = strings.TrimSpace(b.Name)
	b.Products = cleanNames(b.Products)
	b.Competitors = cleanNames(b.Competitors)
	b.Question = strings.TrimSpace(b.Question)
}

func cleanNames(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
