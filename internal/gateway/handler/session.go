package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"testsmith/internal/githost"
	"testsmith/internal/llm"
	"testsmith/internal/testgen"
	"testsmith/internal/wizard"
)

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.store.Create()
	writeJSON(w, http.StatusCreated, s.Snapshot())
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) HandleSetRepo(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	var in struct {
		Repo string `json:"repo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	ref, err := githost.ParseRepoRef(in.Repo)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.repos.Tree(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.SetRepo(ref, entries); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) HandleSelectFiles(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	var in struct {
		Paths []string `json:"paths"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if len(in.Paths) == 0 {
		writeError(w, testgen.ErrNoFiles)
		return
	}
	if step := s.Step(); step != wizard.StepSelectingFiles {
		writeError(w, &wizard.TransitionError{From: step, Action: "select files"})
		return
	}

	ref, _ := s.Repo()

	files := make([]testgen.FileRecord, 0, len(in.Paths))
	for _, p := range in.Paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		content, err := h.repos.FileContent(r.Context(), ref, p)
		if err != nil {
			writeError(w, err)
			return
		}
		files = append(files, testgen.FileRecord{Path: p, Content: content})
	}

	ctx := llm.WithAttemptHook(r.Context(), s.AttemptHook())
	summaries, err := h.gen.SuggestSummaries(ctx, files)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.SetSummaries(files, summaries); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) HandleSelectSummary(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	var in struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	files, pick, err := s.Selection(in.Title)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := llm.WithAttemptHook(r.Context(), s.AttemptHook())
	code, err := h.gen.GenerateTest(ctx, files, pick)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.SetCode(pick, code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	if err := s.Back(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}
	s.Reset()
	writeJSON(w, http.StatusOK, s.Snapshot())
}
