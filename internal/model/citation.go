// Package model defines the core domain types shared across the pipeline.
package model

// Citation is a single web source referenced by a model's answer.
// URL is the normalized absolute URL and serves as the identity key;
// Domain is always derivable from URL (www-stripped, lowercased host).
type Citation struct {
	URL    string `json:"url"`
	Domain string `json:"domain"`
	Title  string `json:"title,omitempty"`
}

// CitationDomains returns the deduplicated domains of the given citations,
// preserving first-seen order, capped at max (0 = no cap).
func CitationDomains(citations []Citation, max int) []string {
	seen := make(map[string]bool, len(citations))
	var domains []string
	for _, c := range citations {
		if c.Domain == "" || seen[c.Domain] {
			continue
		}
		seen[c.Domain] = true
		domains = append(domains, c.Domain)
		if max > 0 && len(domains) >= max {
			break
		}
	}
	return domains
}
