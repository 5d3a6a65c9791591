package session

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recorder is an Observer that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) phases() []CycleState {
	var out []CycleState
	for _, ev := range r.snapshot() {
		if pc, ok := ev.(PhaseChanged); ok {
			out = append(out, pc.State)
		}
	}
	return out
}

// sleepCall is one pending Sleep on a fakeSleeper. The test decides how it
// ends by sending on reply.
type sleepCall struct {
	d     time.Duration
	reply chan error
}

// fakeSleeper hands each Sleep call to the test instead of waiting.
type fakeSleeper struct {
	calls chan sleepCall
}

func newFakeSleeper() *fakeSleeper {
	return &fakeSleeper{calls: make(chan sleepCall)}
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	c := sleepCall{d: d, reply: make(chan error, 1)}
	select {
	case f.calls <- c:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-c.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// next waits for the session to suspend.
func (f *fakeSleeper) next(t *testing.T) sleepCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sleep")
		return sleepCall{}
	}
}

// elapseAll lets every sleep finish until done is closed.
func (f *fakeSleeper) elapseAll(done <-chan struct{}) {
	for {
		select {
		case c := <-f.calls:
			c.reply <- nil
		case <-done:
			return
		}
	}
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session to finish")
	}
}

func mustAcquire(t *testing.T, r *Registry, owner OwnerID, kind Kind) *Handle {
	t.Helper()
	h, err := r.TryAcquire(owner, kind)
	if err != nil {
		t.Fatalf("TryAcquire(%q, %s): %v", owner, kind, err)
	}
	return h
}
