package llmclient

import (
	"context"
	"errors"
	"net/http"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself and on mapping provider failures
// to the error kinds the retry layer understands.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// GeminiOptions carries optional transport overrides. Tests point BaseURL at
// an httptest server to simulate provider failures.
type GeminiOptions struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewGeminiClient(ctx context.Context, apiKey, model string, opts *GeminiOptions) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts != nil {
		cc.HTTPClient = opts.HTTPClient
		if opts.BaseURL != "" {
			cc.HTTPOptions.BaseURL = opts.BaseURL
		}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// Generate sends the prompt and returns the first candidate's text.
// A schema-bearing request additionally asks for application/json output
// constrained to that schema.
func (g *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: req.Prompt}}}},
		cfg,
	)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", NewPermanentError(err)
		}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			return "", &RateLimitError{Err: err}
		}
		// Other non-2xx statuses and transport failures stay retryable.
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrInvalidResponse
	}
	txt := resp.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(txt) == "" {
		return "", ErrInvalidResponse
	}
	return txt, nil
}
