package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"testsmith/internal/githost"
	"testsmith/internal/llm"
	"testsmith/internal/llmclient"
	"testsmith/internal/testgen"
	"testsmith/internal/wizard"
)

// RepoReader is the repository-host surface the wizard needs.
type RepoReader interface {
	Tree(ctx context.Context, ref githost.RepoRef) ([]githost.TreeEntry, error)
	FileContent(ctx context.Context, ref githost.RepoRef, path string) (string, error)
}

// Generator drives the two AI orchestration calls.
type Generator interface {
	SuggestSummaries(ctx context.Context, files []testgen.FileRecord) ([]testgen.TestSummary, error)
	GenerateTest(ctx context.Context, files []testgen.FileRecord, pick testgen.TestSummary) (string, error)
}

// Handler serves the wizard's JSON and websocket endpoints.
type Handler struct {
	store *wizard.Store
	repos RepoReader
	gen   Generator
}

func New(store *wizard.Store, repos RepoReader, gen Generator) *Handler {
	return &Handler{store: store, repos: repos, gen: gen}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

type errorBody struct {
	Error errorInfo `json:"error"`
}

type errorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeError maps failure kinds onto HTTP statuses. The browser shows the
// message and offers a retry of the current step, never a full restart.
func writeError(w http.ResponseWriter, err error) {
	kind, status := classifyError(err)
	writeJSON(w, status, errorBody{Error: errorInfo{Kind: kind, Message: err.Error()}})
}

func classifyError(err error) (string, int) {
	var (
		invalidRef *githost.InvalidRepoRefError
		notFound   *githost.RepoNotFoundError
		fetchErr   *githost.FileFetchError
		exhausted  *llm.ExhaustedError
		transition *wizard.TransitionError
	)
	switch {
	case errors.As(err, &invalidRef):
		return "invalid_repository_reference", http.StatusBadRequest
	case errors.As(err, &notFound):
		return "repository_not_found", http.StatusNotFound
	case errors.As(err, &fetchErr):
		return "file_fetch_failure", http.StatusBadGateway
	case errors.As(err, &exhausted):
		return "service_exhausted", http.StatusServiceUnavailable
	case errors.Is(err, testgen.ErrMalformedSummaries):
		return "malformed_summary_response", http.StatusBadGateway
	case errors.Is(err, llmclient.ErrInvalidResponse):
		return "invalid_response_shape", http.StatusBadGateway
	case errors.As(err, &transition):
		return "invalid_step", http.StatusConflict
	case errors.Is(err, testgen.ErrNoFiles):
		return "no_files_selected", http.StatusBadRequest
	default:
		return "internal", http.StatusInternalServerError
	}
}

// session resolves the {id} path value; it writes the 404 itself.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *wizard.Session {
	s := h.store.Get(r.PathValue("id"))
	if s == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorInfo{
			Kind:    "session_not_found",
			Message: "unknown session",
		}})
		return nil
	}
	return s
}
