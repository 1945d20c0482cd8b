// Package cascade executes a request against an ordered list of model
// capabilities with per-capability retry and fallback.
package cascade

import (
	"context"
	"time"
)

// Capability turns a request payload into raw model text. Implementations
// wrap one provider; the executor never sees provider-specific shapes.
type Capability interface {
	Name() string
	Invoke(ctx context.Context, payload string) (string, error)
}

// RetryPolicy bounds attempts per capability and shapes the backoff.
type RetryPolicy struct {
	// MaxAttempts per capability, including the first try. Default: 3.
	MaxAttempts int

	// BackoffBase is the delay before the first retry; retry n sleeps
	// BackoffBase * Multiplier^n. Default: 500ms.
	BackoffBase time.Duration

	// Multiplier scales the backoff each retry. Default: 2.0.
	Multiplier float64

	// MaxBackoff caps a single sleep. Default: 30s.
	MaxBackoff time.Duration
}

// Request is one immutable execution request: an opaque payload plus the
// ordered capability list (primary first, then fallbacks) and the retry
// policy. The capability list arrives on the request; the executor holds
// no ambient provider registry.
type Request struct {
	Payload      string
	Capabilities []Capability
	Retry        RetryPolicy
}

// Result is the terminal outcome of one request, produced exactly once.
// Attempts is cumulative across all capabilities and retries, so any
// value above 1 signals that a retry or fallback occurred.
type Result struct {
	RawText        string `json:"raw_text,omitempty"`
	CapabilityUsed string `json:"capability_used,omitempty"`
	Attempts       int    `json:"attempts"`
	ElapsedMs      int64  `json:"elapsed_ms"`
	Err            error  `json:"-"`
}

// Failed reports whether the request exhausted every capability or was
// cut short by the caller's deadline.
func (r Result) Failed() bool {
	return r.Err != nil
}
