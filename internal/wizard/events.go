package wizard

import (
	"context"
	"sync"
	"time"

	"testsmith/internal/llm"
)

// Event types pushed to the browser.
const (
	EventStep    = "step"
	EventAttempt = "attempt"
)

// Event is one wizard notification. Step events carry the new step; attempt
// events mirror the retry loop's progress so the UI can show "retrying in
// 4s" instead of a frozen spinner.
type Event struct {
	Type    string `json:"type"`
	Step    Step   `json:"step,omitempty"`
	Task    string `json:"task,omitempty"`
	Attempt int    `json:"attempt,omitempty"`
	WaitMS  int64  `json:"waitMs,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Feed fans events out to websocket subscribers. Publish never blocks; a
// slow subscriber drops events rather than stalling the orchestration.
type Feed struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[chan Event]struct{})}
}

// Subscribe returns a receive channel and a cancel func. Cancel closes the
// channel and detaches the subscriber.
func (f *Feed) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (f *Feed) Publish(ev Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- ev:
		default:
			// subscriber backed up; drop
		}
	}
}

// AttemptHook adapts a session's feed to the retry middleware's hook.
func (s *Session) AttemptHook() llm.AttemptHook {
	return &feedHook{feed: s.events}
}

type feedHook struct {
	feed *Feed
}

func (h *feedHook) Attempt(ctx context.Context, attempt int, wait time.Duration, err error) {
	ev := Event{
		Type:    EventAttempt,
		Task:    llm.TaskFrom(ctx),
		Attempt: attempt,
		WaitMS:  wait.Milliseconds(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	h.feed.Publish(ev)
}
