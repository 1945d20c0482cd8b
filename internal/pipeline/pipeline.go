// Package pipeline orchestrates one perception run: fan out a brand
// question to every configured provider, normalize each raw answer, and
// aggregate the per-model ratings into a consensus view.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/perception-cli/internal/cascade"
	"github.com/sells-group/perception-cli/internal/citation"
	"github.com/sells-group/perception-cli/internal/consensus"
	"github.com/sells-group/perception-cli/internal/detect"
	"github.com/sells-group/perception-cli/internal/mention"
	"github.com/sells-group/perception-cli/internal/model"
	"github.com/sells-group/perception-cli/internal/prompt"
	"github.com/sells-group/perception-cli/internal/provider"
	"github.com/sells-group/perception-cli/internal/rating"
)

// Options tunes normalization and fan-out behavior.
type Options struct {
	MinMentionConfidence float64
	MaxCitations         int
	MaxConcurrent        int
	Retry                cascade.RetryPolicy
}

func (o Options) withDefaults() Options {
	if o.MinMentionConfidence <= 0 {
		o.MinMentionConfidence = 0.6
	}
	if o.MaxCitations <= 0 {
		o.MaxCitations = 5
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 3
	}
	return o
}

// Pipeline runs perception queries across a fixed set of provider adapters.
type Pipeline struct {
	exec     *cascade.Executor
	adapters []provider.Adapter
	opts     Options
}

// New creates a Pipeline over the given adapters.
func New(adapters []provider.Adapter, opts Options) *Pipeline {
	return &Pipeline{
		exec:     cascade.NewExecutor(),
		adapters: adapters,
		opts:     opts.withDefaults(),
	}
}

// Run queries every adapter concurrently and returns the normalized,
// aggregated result. Each provider gets the full retry budget on its
// own; a provider that ultimately fails contributes an error record
// instead of aborting the run. Run errors only when no provider
// produced a usable answer.
func (p *Pipeline) Run(ctx context.Context, brand model.Brand) (*model.RunResult, error) {
	if len(p.adapters) == 0 {
		return nil, eris.New("pipeline: no providers configured")
	}

	start := time.Now()
	payload := prompt.Perception(brand.Name, brand.Question)

	records := make([]model.ModelRecord, len(p.adapters))
	tokens := make([]int, len(p.adapters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxConcurrent)
	for i, a := range p.adapters {
		g.Go(func() error {
			before := a.Usage()
			res := p.exec.Execute(gctx, cascade.Request{
				Payload:      payload,
				Capabilities: []cascade.Capability{a},
				Retry:        p.opts.Retry,
			})
			after := a.Usage()
			tokens[i] = int(after.Input + after.Output - before.Input - before.Output)

			if res.Failed() {
				zap.L().Warn("pipeline: provider failed",
					zap.String("provider", a.Name()),
					zap.Int("attempts", res.Attempts),
					zap.Error(res.Err),
				)
				records[i] = model.ModelRecord{
					Provider:  a.Name(),
					Attempts:  res.Attempts,
					ElapsedMs: res.ElapsedMs,
					Error:     res.Err.Error(),
				}
				return nil
			}

			records[i] = p.normalize(a.Name(), res, brand)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: fan out")
	}

	result := &model.RunResult{
		Brand:     brand.Name,
		Question:  brand.Question,
		Models:    records,
		ElapsedMs: time.Since(start).Milliseconds(),
	}
	for _, n := range tokens {
		result.TotalTokens += n
	}

	var ratings []model.RatingVector
	var lastErr error
	for _, rec := range records {
		if rec.Succeeded() {
			ratings = append(ratings, *rec.Rating)
		} else if rec.Error != "" {
			lastErr = eris.New(rec.Error)
		}
	}
	if len(ratings) == 0 {
		if lastErr == nil {
			lastErr = eris.New("no usable answers")
		}
		return nil, eris.Wrap(lastErr, "pipeline: all providers failed")
	}

	agg, err := consensus.Aggregate(ratings)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: aggregate")
	}
	result.Aggregate = agg

	zap.L().Info("pipeline: run complete",
		zap.String("brand", brand.Name),
		zap.Int("providers", len(p.adapters)),
		zap.Int("succeeded", len(ratings)),
		zap.Int("total_tokens", result.TotalTokens),
		zap.Int64("elapsed_ms", result.ElapsedMs),
	)
	return result, nil
}

// normalize routes one raw provider answer through citation extraction,
// mention detection, entity tagging, and rating parsing.
func (p *Pipeline) normalize(providerName string, res cascade.Result, brand model.Brand) model.ModelRecord {
	raw := res.RawText

	candidates := detect.Mentions(raw)
	candidates = append(candidates, watchlistCandidates(brand)...)

	rv := rating.Parse(raw, brand.Name)
	rv.Citations = citation.Top(citation.Extract(raw), p.opts.MaxCitations)

	return model.ModelRecord{
		Provider:   providerName,
		TaggedText: mention.Tag(raw, candidates, p.opts.MinMentionConfidence),
		Mentions:   candidates,
		Rating:     &rv,
		Attempts:   res.Attempts,
		ElapsedMs:  res.ElapsedMs,
	}
}

// watchlistCandidates seeds the tagger with the watchlist names so the
// brand and its products are tagged even when the model's own mention
// block misses them.
func watchlistCandidates(brand model.Brand) []model.CandidateMention {
	var out []model.CandidateMention
	if brand.Name != "" {
		out = append(out, model.CandidateMention{Name: brand.Name, Kind: model.MentionBrand, Confidence: 1})
	}
	for _, prod := range brand.Products {
		out = append(out, model.CandidateMention{Name: prod, Kind: model.MentionProduct, Confidence: 1})
	}
	for _, comp := range brand.Competitors {
		out = append(out, model.CandidateMention{Name: comp, Kind: model.MentionBrand, Confidence: 1})
	}
	return out
}
