package testgen

import (
	"context"
	"errors"

	"testsmith/internal/llm"
	llmclient "testsmith/internal/llmclient"
)

// ErrNoFiles reports an orchestration call with nothing to work on.
var ErrNoFiles = errors.New("testgen: no files selected")

// Service drives the two orchestration calls. One call is in flight at a
// time per caller; attempts within a call are strictly sequential and no
// state survives the call.
type Service struct {
	llm llmclient.Client
}

func New(cli llmclient.Client) *Service {
	return &Service{llm: cli}
}

// SuggestSummaries asks for test-case summaries for the given files.
func (s *Service) SuggestSummaries(ctx context.Context, files []FileRecord) ([]TestSummary, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	ctx = llm.WithTask(ctx, llm.TaskSummarize)
	raw, err := s.llm.Generate(ctx, llmclient.Request{
		Prompt: SummarizePrompt(files),
		Schema: SummariesSchema(),
	})
	if err != nil {
		return nil, err
	}
	return ToSummaries(raw)
}

// GenerateTest asks for full test code for the selected summary.
func (s *Service) GenerateTest(ctx context.Context, files []FileRecord, pick TestSummary) (string, error) {
	if len(files) == 0 {
		return "", ErrNoFiles
	}
	ctx = llm.WithTask(ctx, llm.TaskGenerate)
	raw, err := s.llm.Generate(ctx, llmclient.Request{
		Prompt: GeneratePrompt(files, pick),
	})
	if err != nil {
		return "", err
	}
	return ToCode(raw), nil
}
