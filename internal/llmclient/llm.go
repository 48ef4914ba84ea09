package llmclient

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/genai"
)

// ErrInvalidResponse reports a 2xx response whose body carried no usable
// candidate text.
var ErrInvalidResponse = errors.New("llmclient: invalid response shape")

// Request is one fully-formed generation request. When Schema is non-nil the
// call asks the model for structured JSON output constrained to that shape;
// otherwise the model replies with free text.
type Request struct {
	Prompt string
	Schema *genai.Schema
}

// Client is the minimal generation surface. Cross-cutting concerns
// (rate limiting, retries, logging, attempt hooks) are applied via
// middleware in the llm package.
type Client interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
	Close() error
}

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// RateLimitError reports an HTTP 429 from the provider. The retry layer
// absorbs it; it never reaches callers of the wrapped client.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string { return fmt.Sprintf("llmclient: rate limited: %v", e.Err) }
func (e *RateLimitError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err is (or wraps) a provider rate limit.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
