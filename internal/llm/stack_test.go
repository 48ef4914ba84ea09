package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	llmclient "testsmith/internal/llmclient"
	"testsmith/internal/tester"
)

// Full stack against a stand-in Gemini endpoint: the wrapped client retries
// real HTTP statuses, not just pre-mapped errors.

func geminiSuccess(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return string(b)
}

func TestStack_RateLimitedThenSuccess(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, `{"error":{"code":429,"message":"slow down","status":"RESOURCE_EXHAUSTED"}}`)
			return
		}
		io.WriteString(w, geminiSuccess("recovered"))
	}))
	defer ts.Close()

	base, err := llmclient.NewGeminiClient(context.Background(), "test-key", "gemini-2.5-flash",
		&llmclient.GeminiOptions{HTTPClient: ts.Client(), BaseURL: ts.URL})
	tester.NoErr(t, err)
	cli := Wrap(base, Retry(5, 5*time.Millisecond))

	text, err := cli.Generate(context.Background(), llmclient.Request{Prompt: "p"})
	tester.NoErr(t, err)
	tester.Eq(t, text, "recovered")
	tester.Eq(t, int(calls.Load()), 3)
}

func TestStack_FiveRateLimitsExhaust(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"code":429,"message":"slow down","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer ts.Close()

	base, err := llmclient.NewGeminiClient(context.Background(), "test-key", "gemini-2.5-flash",
		&llmclient.GeminiOptions{HTTPClient: ts.Client(), BaseURL: ts.URL})
	tester.NoErr(t, err)
	cli := Wrap(base, Retry(5, time.Millisecond))

	_, err = cli.Generate(context.Background(), llmclient.Request{Prompt: "p"})
	var exhausted *ExhaustedError
	tester.ErrAs(t, err, &exhausted)
	tester.Eq(t, int(calls.Load()), 5, "rate limits never end the call early; only exhaustion does")
}
