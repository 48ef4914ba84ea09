package llmclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"testsmith/internal/tester"
	genai "google.golang.org/genai"
)

func successBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": text}},
			}},
		},
	})
	return string(b)
}

const rateLimitBody = `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`

func newGeminiAgainst(t *testing.T, ts *httptest.Server) *GeminiClient {
	t.Helper()
	cli, err := NewGeminiClient(context.Background(), "test-key", "gemini-2.5-flash", &GeminiOptions{
		HTTPClient: ts.Client(),
		BaseURL:    ts.URL,
	})
	tester.NoErr(t, err)
	return cli
}

func TestGemini_SuccessExtractsText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, successBody("hello"))
	}))
	defer ts.Close()

	cli := newGeminiAgainst(t, ts)
	text, err := cli.Generate(context.Background(), Request{Prompt: "p"})
	tester.NoErr(t, err)
	tester.Eq(t, text, "hello")
}

func TestGemini_429MapsToRateLimitError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, rateLimitBody)
	}))
	defer ts.Close()

	cli := newGeminiAgainst(t, ts)
	_, err := cli.Generate(context.Background(), Request{Prompt: "p"})
	tester.True(t, IsRateLimited(err), "429 must map to RateLimitError, got %v", err)
}

func TestGemini_EmptyCandidatesIsInvalidShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[]}`)
	}))
	defer ts.Close()

	cli := newGeminiAgainst(t, ts)
	_, err := cli.Generate(context.Background(), Request{Prompt: "p"})
	tester.ErrIs(t, err, ErrInvalidResponse)
}

func TestGemini_SchemaTravelsWithRequest(t *testing.T) {
	var gotBody atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(string(body))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, successBody(`{"summaries":[]}`))
	}))
	defer ts.Close()

	cli := newGeminiAgainst(t, ts)
	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summaries": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"summaries"},
	}
	_, err := cli.Generate(context.Background(), Request{Prompt: "p", Schema: schema})
	tester.NoErr(t, err)

	body, _ := gotBody.Load().(string)
	var decoded struct {
		GenerationConfig map[string]any `json:"generationConfig"`
	}
	tester.NoErr(t, json.Unmarshal([]byte(body), &decoded))
	tester.True(t, decoded.GenerationConfig != nil, "schema request must carry generationConfig")
	_, hasSchema := decoded.GenerationConfig["responseSchema"]
	tester.True(t, hasSchema, "generationConfig must declare responseSchema, body: %s", body)
}

func TestGemini_ErrorStatusIsRetryableNotRateLimited(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`)
	}))
	defer ts.Close()

	cli := newGeminiAgainst(t, ts)
	_, err := cli.Generate(context.Background(), Request{Prompt: "p"})
	tester.True(t, err != nil)
	tester.True(t, !IsRateLimited(err), "500 is a generic failure, not a rate limit")
}
