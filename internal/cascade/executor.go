package cascade

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/perception-cli/internal/resilience"
)

// Executor runs requests through the capability cascade. It keeps no
// per-request state; each Execute call owns its own counters, so one
// executor is safe for concurrent use across independent requests.
type Executor struct {
	sleep func(ctx context.Context, d time.Duration) error // injectable for testing
}

// NewExecutor creates an executor.
func NewExecutor() *Executor {
	return &Executor{sleep: resilience.Sleep}
}

// WithSleep overrides the backoff sleep for tests.
func (e *Executor) WithSleep(fn func(ctx context.Context, d time.Duration) error) *Executor {
	e.sleep = fn
	return e
}

// Execute tries each capability in order. A failing capability is retried
// with exponential backoff up to the policy's attempt cap, then the next
// capability takes over with its own attempt counter; the cumulative
// attempt count is never reset. A deadline or cancellation failure is
// surfaced immediately with whatever attempts had accumulated — partial
// progress is reported, not discarded.
func (e *Executor) Execute(ctx context.Context, req Request) Result {
	start := time.Now()
	result := Result{}

	if len(req.Capabilities) == 0 {
		result.Err = eris.New("cascade: no capabilities in request")
		return result
	}

	policy := req.Retry.withDefaults()
	retryCfg := resilience.RetryConfig{
		InitialBackoff: policy.BackoffBase,
		Multiplier:     policy.Multiplier,
		MaxBackoff:     policy.MaxBackoff,
	}

	var lastErr error
	for _, c := range req.Capabilities {
		for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
			result.Attempts++

			text, err := c.Invoke(ctx, req.Payload)
			if err == nil {
				result.RawText = text
				result.CapabilityUsed = c.Name()
				result.ElapsedMs = time.Since(start).Milliseconds()
				if result.Attempts > 1 {
					zap.L().Info("cascade: request satisfied after retry/fallback",
						zap.String("capability", c.Name()),
						zap.Int("attempts", result.Attempts),
					)
				}
				return result
			}
			lastErr = err

			// Deadline or cancellation: surface immediately, no retry,
			// no fallback.
			if ctx.Err() != nil || resilience.IsTimeout(err) {
				result.Err = eris.Wrap(lastErr, ctxFailure(ctx, err))
				result.ElapsedMs = time.Since(start).Milliseconds()
				return result
			}

			zap.L().Debug("cascade: capability attempt failed",
				zap.String("capability", c.Name()),
				zap.Int("attempt", attempt+1),
				zap.Int("cumulative_attempts", result.Attempts),
				zap.Error(err),
			)

			// Last attempt for this capability: advance to the next one
			// without sleeping.
			if attempt >= policy.MaxAttempts-1 {
				break
			}

			if err := e.sleep(ctx, resilience.Backoff(attempt, retryCfg)); err != nil {
				result.Err = eris.Wrap(lastErr, ctxFailure(ctx, err))
				result.ElapsedMs = time.Since(start).Milliseconds()
				return result
			}
		}

		zap.L().Debug("cascade: capability exhausted, trying next",
			zap.String("capability", c.Name()),
		)
	}

	// Exhausted: every capability failed every attempt. Carry the most
	// recent error verbatim so operators can tell "every provider is
	// down" from "one bad attempt".
	result.Err = eris.Wrap(lastErr, "cascade: all capabilities exhausted")
	result.ElapsedMs = time.Since(start).Milliseconds()
	return result
}

// ctxFailure names a context-driven abort by its cause: a cancellation
// is reported as a cancellation, not as a timeout.
func ctxFailure(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return "cascade: context canceled"
	}
	return "cascade: deadline exceeded"
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.BackoffBase <= 0 {
		p.BackoffBase = 500 * time.Millisecond
	}
	if p.Multiplier <= 0 {
		p.Multiplier = 2.0
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 30 * time.Second
	}
	return p
}
