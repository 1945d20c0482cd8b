// Package provider adapts concrete model clients into cascade
// capabilities. Each adapter normalizes its provider family's response
// shape into a single raw text string before it enters the core, applies
// a per-provider rate limit, and classifies retryable API failures.
package provider

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/sells-group/perception-cli/internal/resilience"
	"github.com/sells-group/perception-cli/pkg/anthropic"
	"github.com/sells-group/perception-cli/pkg/openai"
	"github.com/sells-group/perception-cli/pkg/perplexity"
)

// defaultMaxTokens bounds a single completion.
const defaultMaxTokens = 2048

// Tokens tallies usage across invocations of one adapter.
type Tokens struct {
	Input  int64
	Output int64
}

// Adapter is a cascade capability that also reports token usage.
type Adapter interface {
	Name() string
	Invoke(ctx context.Context, payload string) (string, error)
	Usage() Tokens
}

// usage is the shared atomic tally embedded in each adapter.
type usage struct {
	in  atomic.Int64
	out atomic.Int64
}

func (u *usage) add(in, out int64) {
	u.in.Add(in)
	u.out.Add(out)
}

func (u *usage) Usage() Tokens {
	return Tokens{Input: u.in.Load(), Output: u.out.Load()}
}

// Anthropic adapts the Anthropic messages API.
type Anthropic struct {
	usage
	client  anthropic.Client
	model   string
	limiter *rate.Limiter
}

// NewAnthropic creates an Anthropic capability.
func NewAnthropic(client anthropic.Client, model string, limiter *rate.Limiter) *Anthropic {
	return &Anthropic{client: client, model: model, limiter: limiter}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Invoke(ctx context.Context, payload string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: defaultMaxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: payload}},
	})
	if err != nil {
		return "", err
	}

	a.add(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return resp.Text, nil
}

// OpenAI adapts OpenAI-compatible chat completions.
type OpenAI struct {
	usage
	client  openai.Client
	model   string
	limiter *rate.Limiter
}

// NewOpenAI creates an OpenAI capability.
func NewOpenAI(client openai.Client, model string, limiter *rate.Limiter) *OpenAI {
	return &OpenAI{client: client, model: model, limiter: limiter}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Invoke(ctx context.Context, payload string) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := o.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: []openai.Message{{Role: "user", Content: payload}},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
			return "", resilience.NewTransientError(err, apiErr.StatusCode)
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices in response")
	}

	o.add(int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))
	return resp.Choices[0].Message.Content, nil
}

// Perplexity adapts Perplexity chat completions. The response's citation
// URL list is flattened into the raw text so the citation extractor sees
// it; the core only ever receives one text string per model.
type Perplexity struct {
	usage
	client  perplexity.Client
	model   string
	limiter *rate.Limiter
}

// NewPerplexity creates a Perplexity capability.
func NewPerplexity(client perplexity.Client, model string, limiter *rate.Limiter) *Perplexity {
	return &Perplexity{client: client, model: model, limiter: limiter}
}

func (p *Perplexity) Name() string { return "perplexity" }

func (p *Perplexity) Invoke(ctx context.Context, payload string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := p.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Model:    p.model,
		Messages: []perplexity.Message{{Role: "user", Content: payload}},
	})
	if err != nil {
		var apiErr *perplexity.APIError
		if errors.As(err, &apiErr) && resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
			return "", resilience.NewTransientError(err, apiErr.StatusCode)
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("perplexity: empty choices in response")
	}

	p.add(int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))

	text := resp.Choices[0].Message.Content
	if len(resp.Citations) > 0 {
		text += "\n\nSources:\n" + strings.Join(resp.Citations, "\n")
	}
	return text, nil
}

// NewLimiter builds a per-provider limiter from requests-per-second;
// rps <= 0 means unlimited.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}
