package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	llmclient "testsmith/internal/llmclient"
)

// ExhaustedError is the terminal failure after every retry attempt has been
// consumed. Last holds the final attempt's error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("llm: service failed after %d attempts: %v", e.Attempts, e.Last)
}
func (e *ExhaustedError) Unwrap() error { return e.Last }

// attemptOutcome is the resolution of a single attempt. Every attempt lands
// in exactly one state; there is no separate backoff path for rate limits
// versus generic failures.
type attemptOutcome int

const (
	outcomeSuccess attemptOutcome = iota
	outcomeRetryable
	outcomeFatal
)

func classify(err error) attemptOutcome {
	if err == nil {
		return outcomeSuccess
	}
	var pErr *llmclient.PermanentError
	if errors.As(err, &pErr) {
		return outcomeFatal
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return outcomeFatal
	}
	// Rate limits, other non-2xx statuses, transport failures and
	// invalid-shape responses all consume one attempt slot.
	return outcomeRetryable
}

// Retry retries Generate up to maxAttempts with exponential backoff starting
// at baseDelay (baseDelay, 2*baseDelay, 4*baseDelay, ... between attempts).
// If the context is canceled, it stops immediately.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return func(next llmclient.Client) llmclient.Client {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next llmclient.Client
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) Generate(ctx context.Context, req llmclient.Request) (string, error) {
	hook := HookFrom(ctx)
	var last error
	delay := r.base
	for attempt := 1; attempt <= r.max; attempt++ {
		text, err := r.next.Generate(ctx, req)
		switch classify(err) {
		case outcomeSuccess:
			if hook != nil {
				hook.Attempt(ctx, attempt, 0, nil)
			}
			return text, nil
		case outcomeFatal:
			return "", err
		}
		last = err
		if attempt == r.max {
			break
		}
		if hook != nil {
			hook.Attempt(ctx, attempt, delay, err)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return "", &ExhaustedError{Attempts: r.max, Last: last}
}
