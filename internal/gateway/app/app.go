package app

import (
	"context"
	"fmt"
	"log"

	"testsmith/internal/gateway/config"
	"testsmith/internal/gateway/handler"
	"testsmith/internal/gateway/server"
	"testsmith/internal/githost"
	"testsmith/internal/llm"
	"testsmith/internal/llmclient"
	"testsmith/internal/testgen"
	"testsmith/internal/wizard"
)

type App struct {
	server *server.Server
	llm    llmclient.Client
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var base llmclient.Client
	if cfg.LLM.APIKey == "" {
		log.Printf("GEMINI_API_KEY is not set; using the offline fake client")
		base = llmclient.NewFakeClient()
	} else {
		base, err = llmclient.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build gemini client: %w", err)
		}
	}

	// Retry sits outermost so every attempt passes through logging and the
	// rate limiter.
	cli := llm.Wrap(base,
		llm.Retry(cfg.LLM.MaxAttempts, cfg.LLM.RetryBase),
		llm.WithLogging(nil),
		llm.RateLimit(cfg.LLM.RPS, cfg.LLM.Burst),
	)

	repos, err := githost.NewClient(cfg.GitHub.APIURL, cfg.GitHub.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to build github client: %w", err)
	}

	gen := testgen.New(cli)
	store := wizard.NewStore()
	h := handler.New(store, repos, gen)

	mux := server.NewMux(h)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		llm:    cli,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.llm.Close(); err == nil {
		err = cerr
	}
	return err
}
