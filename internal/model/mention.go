package model

// MentionKind classifies what a candidate mention refers to.
type MentionKind string

const (
	MentionBrand   MentionKind = "brand"
	MentionProduct MentionKind = "product"
)

// CandidateMention is a possible brand/product reference detected in
// generated prose. Produced by the entity-detection boundary; the tagger
// treats the list as read-only input.
type CandidateMention struct {
	Name       string      `json:"name"`
	Kind       MentionKind `json:"kind"`
	Confidence float64     `json:"confidence"`
	Context    string      `json:"context,omitempty"`
	Position   int         `json:"position,omitempty"`
}

// Valid reports whether the mention satisfies the schema bounds:
// a 1-100 char name and a confidence within [0,1].
func (m CandidateMention) Valid() bool {
	if len(m.Name) < 1 || len(m.Name) > 100 {
		return false
	}
	return m.Confidence >= 0 && m.Confidence <= 1
}
