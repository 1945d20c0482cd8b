// Package detect normalizes the structured mention block a model is
// asked to emit into candidate mentions. This is boundary parsing, not
// entity recognition: the model does the detecting, detect does the
// typing and bounds checking.
package detect

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/perception-cli/internal/model"
)

// mentionBlock is the JSON shape models are instructed to emit.
type mentionBlock struct {
	Mentions []rawMention `json:"mentions"`
}

type rawMention struct {
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	Confidence float64 `json:"confidence"`
	Context    string  `json:"context"`
}

// fencedJSON matches a ```json ... ``` block in model output.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Mentions extracts candidate mentions from raw model text. It degrades
// gracefully: malformed or absent mention blocks yield an empty slice,
// never an error — the tagger simply has nothing to tag.
func Mentions(text string) []model.CandidateMention {
	block, ok := findMentionBlock(text)
	if !ok {
		return nil
	}

	var parsed mentionBlock
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		zap.L().Debug("detect: mention block unparsable", zap.Error(err))
		return nil
	}

	out := make([]model.CandidateMention, 0, len(parsed.Mentions))
	for i, rm := range parsed.Mentions {
		m := model.CandidateMention{
			Name:       strings.TrimSpace(rm.Name),
			Kind:       normalizeKind(rm.Kind),
			Confidence: clampConfidence(rm.Confidence),
			Context:    rm.Context,
			Position:   i,
		}
		if !m.Valid() {
			continue
		}
		out = append(out, m)
	}
	return out
}

// findMentionBlock locates the mentions JSON object: a fenced code block
// first, then any top-level object containing a "mentions" key.
func findMentionBlock(text string) (string, bool) {
	for _, m := range fencedJSON.FindAllStringSubmatch(text, -1) {
		if strings.Contains(m[1], `"mentions"`) {
			return m[1], true
		}
	}

	// Fall back to brace matching around the "mentions" key.
	idx := strings.Index(text, `"mentions"`)
	if idx < 0 {
		return "", false
	}
	start := strings.LastIndex(text[:idx], "{")
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func normalizeKind(kind string) model.MentionKind {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "product":
		return model.MentionProduct
	default:
		return model.MentionBrand
	}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
