package wizard

import (
	"testing"
	"time"

	"testsmith/internal/githost"
	"testsmith/internal/tester"
	"testsmith/internal/testgen"
)

func TestSession_HappyPath(t *testing.T) {
	st := NewStore()
	s := st.Create()
	tester.Eq(t, s.Step(), StepAwaitingRepo)

	ref := githost.RepoRef{Owner: "octocat", Name: "hello-world"}
	entries := []githost.TreeEntry{{Path: "src/app.js"}}
	tester.NoErr(t, s.SetRepo(ref, entries))
	tester.Eq(t, s.Step(), StepSelectingFiles)

	files := []testgen.FileRecord{{Path: "src/app.js", Content: "x"}}
	sums := []testgen.TestSummary{{Title: "t", Description: "d"}}
	tester.NoErr(t, s.SetSummaries(files, sums))
	tester.Eq(t, s.Step(), StepSelectingSummary)

	gotFiles, pick, err := s.Selection("t")
	tester.NoErr(t, err)
	tester.Eq(t, pick.Description, "d")
	tester.Eq(t, gotFiles, files)

	tester.NoErr(t, s.SetCode(pick, "CODE"))
	tester.Eq(t, s.Step(), StepShowingCode)

	snap := s.Snapshot()
	tester.Eq(t, snap.Code, "CODE")
	tester.Eq(t, snap.Pick.Title, "t")
	tester.Eq(t, snap.Repo.Owner, "octocat")
}

func TestSession_IllegalTransitions(t *testing.T) {
	s := NewStore().Create()

	err := s.SetSummaries(nil, nil)
	var tErr *TransitionError
	tester.ErrAs(t, err, &tErr)
	tester.Eq(t, tErr.From, StepAwaitingRepo)

	tester.ErrAs(t, s.SetCode(testgen.TestSummary{}, ""), &tErr)
	tester.ErrAs(t, s.Back(), &tErr, "cannot go back from the first step")
}

func TestSession_BackDiscardsStepData(t *testing.T) {
	s := NewStore().Create()
	tester.NoErr(t, s.SetRepo(githost.RepoRef{Owner: "o", Name: "r"}, nil))
	tester.NoErr(t, s.SetSummaries(
		[]testgen.FileRecord{{Path: "a.js"}},
		[]testgen.TestSummary{{Title: "t", Description: "d"}},
	))

	tester.NoErr(t, s.Back())
	tester.Eq(t, s.Step(), StepSelectingFiles)
	snap := s.Snapshot()
	tester.Eq(t, len(snap.Summaries), 0, "back must discard the summaries")

	// repo survives one back step
	tester.Eq(t, snap.Repo.Owner, "o")
}

func TestSession_ResetReturnsToStart(t *testing.T) {
	s := NewStore().Create()
	tester.NoErr(t, s.SetRepo(githost.RepoRef{Owner: "o", Name: "r"}, nil))
	s.Reset()
	tester.Eq(t, s.Step(), StepAwaitingRepo)
	_, ok := s.Repo()
	tester.True(t, !ok, "reset must forget the repository")
}

func TestSession_UnknownSummary(t *testing.T) {
	s := NewStore().Create()
	tester.NoErr(t, s.SetRepo(githost.RepoRef{Owner: "o", Name: "r"}, nil))
	tester.NoErr(t, s.SetSummaries(nil, []testgen.TestSummary{{Title: "t", Description: "d"}}))
	_, _, err := s.Selection("missing")
	tester.True(t, err != nil)
}

func TestFeed_PublishSubscribe(t *testing.T) {
	s := NewStore().Create()
	events, cancel := s.Events().Subscribe()
	defer cancel()

	tester.NoErr(t, s.SetRepo(githost.RepoRef{Owner: "o", Name: "r"}, nil))

	select {
	case ev := <-events:
		tester.Eq(t, ev.Type, EventStep)
		tester.Eq(t, ev.Step, StepSelectingFiles)
	case <-time.After(time.Second):
		t.Fatal("expected a step event")
	}
}

func TestFeed_SlowSubscriberDoesNotBlock(t *testing.T) {
	f := NewFeed()
	_, cancel := f.Subscribe()
	defer cancel()
	// channel capacity is 32; publishing more must not deadlock
	for i := 0; i < 100; i++ {
		f.Publish(Event{Type: EventStep})
	}
}

func TestStore_GetDelete(t *testing.T) {
	st := NewStore()
	s := st.Create()
	tester.True(t, st.Get(s.ID()) == s)
	st.Delete(s.ID())
	tester.True(t, st.Get(s.ID()) == nil)
}
