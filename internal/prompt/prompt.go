// Package prompt builds the provider-agnostic question payloads.
package prompt

import (
	"fmt"
	"strings"
)

// perceptionTemplate asks for a free-text assessment with labeled scores,
// cited sources, and a structured mention block the detect package parses.
const perceptionTemplate = `You are a market research analyst assessing how %s is perceived.

Question: %s

Write a concise assessment covering product quality, price value, brand reputation, brand trust, and customer service. For each of those five areas, state a score from 1 to 10 using the form "quality: 8/10". Cite the web sources you rely on as full URLs in the text.

Then append a JSON object listing every specific brand or product name your assessment referred to:
{"mentions": [{"name": "<name>", "kind": "brand|product", "confidence": <0.0-1.0>}]}`

// defaultQuestion is used when a watchlist entry has no question of its own.
const defaultQuestion = "How is %s perceived by customers and the market today?"

// Perception builds the payload for a brand perception probe.
func Perception(brand, question string) string {
	if strings.TrimSpace(question) == "" {
		question = fmt.Sprintf(defaultQuestion, brand)
	}
	return fmt.Sprintf(perceptionTemplate, brand, question)
}
