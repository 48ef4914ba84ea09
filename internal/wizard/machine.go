package wizard

import (
	"fmt"
	"sync"

	"testsmith/internal/githost"
	"testsmith/internal/testgen"
)

// Step names the wizard's position for one session.
type Step string

const (
	StepAwaitingRepo     Step = "awaiting_repo"
	StepSelectingFiles   Step = "selecting_files"
	StepSelectingSummary Step = "selecting_summary"
	StepShowingCode      Step = "showing_code"
)

// TransitionError reports an action applied in the wrong step.
type TransitionError struct {
	From   Step
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("wizard: cannot %s while in step %q", e.Action, e.From)
}

// Session is one browser session's wizard state. All mutation goes through
// the typed transitions below; each accepted transition emits a step event.
type Session struct {
	id     string
	events *Feed

	mu        sync.Mutex
	step      Step
	repo      githost.RepoRef
	entries   []githost.TreeEntry
	files     []testgen.FileRecord
	summaries []testgen.TestSummary
	pick      testgen.TestSummary
	code      string
}

func newSession(id string) *Session {
	return &Session{
		id:     id,
		step:   StepAwaitingRepo,
		events: NewFeed(),
	}
}

func (s *Session) ID() string    { return s.id }
func (s *Session) Events() *Feed { return s.events }

// Snapshot is a read-only copy of the session state for JSON responses.
type Snapshot struct {
	ID        string                `json:"id"`
	Step      Step                  `json:"step"`
	Repo      *githost.RepoRef      `json:"repo,omitempty"`
	Entries   []githost.TreeEntry   `json:"entries,omitempty"`
	Files     []string              `json:"files,omitempty"`
	Summaries []testgen.TestSummary `json:"summaries,omitempty"`
	Pick      *testgen.TestSummary  `json:"pick,omitempty"`
	Code      string                `json:"code,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{ID: s.id, Step: s.step}
	if s.step != StepAwaitingRepo {
		repo := s.repo
		snap.Repo = &repo
		snap.Entries = append([]githost.TreeEntry(nil), s.entries...)
	}
	for _, f := range s.files {
		snap.Files = append(snap.Files, f.Path)
	}
	snap.Summaries = append([]testgen.TestSummary(nil), s.summaries...)
	if s.step == StepShowingCode {
		pick := s.pick
		snap.Pick = &pick
		snap.Code = s.code
	}
	return snap
}

// SetRepo moves AwaitingRepo -> SelectingFiles.
func (s *Session) SetRepo(repo githost.RepoRef, entries []githost.TreeEntry) error {
	s.mu.Lock()
	if s.step != StepAwaitingRepo {
		defer s.mu.Unlock()
		return &TransitionError{From: s.step, Action: "set repository"}
	}
	s.repo = repo
	s.entries = entries
	s.step = StepSelectingFiles
	s.mu.Unlock()

	s.events.Publish(Event{Type: EventStep, Step: StepSelectingFiles})
	return nil
}

// Repo returns the selected repository; ok is false before SetRepo.
func (s *Session) Repo() (githost.RepoRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo, s.step != StepAwaitingRepo
}

// SetSummaries moves SelectingFiles -> SelectingSummary, recording the
// fetched files and the suggested summaries.
func (s *Session) SetSummaries(files []testgen.FileRecord, summaries []testgen.TestSummary) error {
	s.mu.Lock()
	if s.step != StepSelectingFiles {
		defer s.mu.Unlock()
		return &TransitionError{From: s.step, Action: "set summaries"}
	}
	s.files = files
	s.summaries = summaries
	s.step = StepSelectingSummary
	s.mu.Unlock()

	s.events.Publish(Event{Type: EventStep, Step: StepSelectingSummary})
	return nil
}

// Selection returns the files and the summary matching title; it is only
// valid in SelectingSummary.
func (s *Session) Selection(title string) ([]testgen.FileRecord, testgen.TestSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepSelectingSummary {
		return nil, testgen.TestSummary{}, &TransitionError{From: s.step, Action: "pick summary"}
	}
	for _, sum := range s.summaries {
		if sum.Title == title {
			return append([]testgen.FileRecord(nil), s.files...), sum, nil
		}
	}
	return nil, testgen.TestSummary{}, fmt.Errorf("wizard: unknown summary %q", title)
}

// SetCode moves SelectingSummary -> ShowingCode.
func (s *Session) SetCode(pick testgen.TestSummary, code string) error {
	s.mu.Lock()
	if s.step != StepSelectingSummary {
		defer s.mu.Unlock()
		return &TransitionError{From: s.step, Action: "set code"}
	}
	s.pick = pick
	s.code = code
	s.step = StepShowingCode
	s.mu.Unlock()

	s.events.Publish(Event{Type: EventStep, Step: StepShowingCode})
	return nil
}

// Back steps one state backwards, discarding that step's data.
func (s *Session) Back() error {
	s.mu.Lock()
	var to Step
	switch s.step {
	case StepSelectingFiles:
		s.repo = githost.RepoRef{}
		s.entries = nil
		to = StepAwaitingRepo
	case StepSelectingSummary:
		s.files = nil
		s.summaries = nil
		to = StepSelectingFiles
	case StepShowingCode:
		s.pick = testgen.TestSummary{}
		s.code = ""
		to = StepSelectingSummary
	default:
		defer s.mu.Unlock()
		return &TransitionError{From: s.step, Action: "go back"}
	}
	s.step = to
	s.mu.Unlock()

	s.events.Publish(Event{Type: EventStep, Step: to})
	return nil
}

// Reset discards everything and returns to AwaitingRepo.
func (s *Session) Reset() {
	s.mu.Lock()
	s.repo = githost.RepoRef{}
	s.entries = nil
	s.files = nil
	s.summaries = nil
	s.pick = testgen.TestSummary{}
	s.code = ""
	s.step = StepAwaitingRepo
	s.mu.Unlock()

	s.events.Publish(Event{Type: EventStep, Step: StepAwaitingRepo})
}

// Step returns the current step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}
