package llm

import (
	"context"
	"time"
)

// Task tags an orchestration call with what the caller is asking for.
const (
	TaskSummarize = "summarize"
	TaskGenerate  = "generate"
)

// AttemptHook observes the retry loop. attempt is 1-based; wait is the delay
// scheduled before the next attempt (0 on success) and err is the attempt's
// failure (nil on success).
type AttemptHook interface {
	Attempt(ctx context.Context, attempt int, wait time.Duration, err error)
}

type ctxKeyTask struct{}
type ctxKeyHook struct{}

// WithTask attaches a task tag to the context used by Generate.
func WithTask(ctx context.Context, task string) context.Context {
	return context.WithValue(ctx, ctxKeyTask{}, task)
}

// TaskFrom returns the task tag stored in the context.
func TaskFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyTask{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}

// WithAttemptHook attaches a hook observed by the retry middleware.
func WithAttemptHook(ctx context.Context, hook AttemptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) AttemptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(AttemptHook); ok {
			return h
		}
	}
	return nil
}
