package study

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/session"
	"github.com/abhisek/studybuddy/internal/speech"
	"github.com/abhisek/studybuddy/internal/store"
)

// fakeContent is a scripted content.Provider. When gate is set, every
// generation call signals entered and then waits for gate or ctx.
type fakeContent struct {
	cards       []session.ReviewItem
	questions   []session.QuizQuestion
	explanation string
	err         error

	gate    chan struct{}
	entered chan struct{}

	mu    sync.Mutex
	calls int
}

func (f *fakeContent) wait(ctx context.Context) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.gate == nil {
		return f.err
	}
	f.entered <- struct{}{}
	select {
	case <-f.gate:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeContent) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeContent) GenerateExplanation(ctx context.Context, _ string) (string, error) {
	if err := f.wait(ctx); err != nil {
		return "", err
	}
	return f.explanation, nil
}

func (f *fakeContent) GenerateFlashcards(ctx context.Context, _ string, _ int) ([]session.ReviewItem, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.cards, nil
}

func (f *fakeContent) GenerateQuizQuestions(ctx context.Context, _ string, _ int) ([]session.QuizQuestion, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.questions, nil
}

// presenter records every event it is notified of.
type presenter struct {
	mu     sync.Mutex
	events []session.Event
}

func (p *presenter) Notify(ev session.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *presenter) snapshot() []session.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]session.Event(nil), p.events...)
}

func testLimits() config.Limits {
	return config.Limits{MinCards: 3, MaxCards: 20, MinQuestions: 3, MaxQuestions: 10}
}

type fixture struct {
	svc       *Service
	content   *fakeContent
	presenter *presenter
	events    store.EventRepo
	synth     *speech.MockSynthesizer
}

func newFixture(t *testing.T, fc *fakeContent) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "study.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f := &fixture{
		content:   fc,
		presenter: &presenter{},
		events:    st.EventRepo(),
		synth:     &speech.MockSynthesizer{},
	}
	f.svc = New(Options{
		Content:          fc,
		Synthesizer:      f.synth,
		Events:           f.events,
		Presenter:        f.presenter,
		Sleeper:          session.SleeperFunc(func(ctx context.Context, _ time.Duration) error { return ctx.Err() }),
		Limits:           testLimits(),
		ExplanationLimit: 1900,
	})
	t.Cleanup(f.svc.Shutdown)
	return f
}

func (f *fixture) sessionEvents(t *testing.T, owner string) []store.SessionEventRecord {
	t.Helper()
	evs, err := f.events.QuerySessionEvents(context.Background(), store.QueryOpts{Owner: owner})
	require.NoError(t, err)
	// Oldest first.
	for i, j := 0, len(evs)-1; i < j; i, j = i+1, j-1 {
		evs[i], evs[j] = evs[j], evs[i]
	}
	return evs
}

func actions(evs []store.SessionEventRecord) []string {
	out := make([]string, len(evs))
	for i, e := range evs {
		out[i] = e.Action
	}
	return out
}

func threeCards() []session.ReviewItem {
	return []session.ReviewItem{
		{Front: "Q1", Back: "A1", ReviewTopic: "T0"},
		{Front: "Q2", Back: "A2", ReviewTopic: "T1"},
		{Front: "Q3", Back: "A3", ReviewTopic: "T2"},
	}
}

func question(prompt string, correct session.Letter) session.QuizQuestion {
	return session.QuizQuestion{
		Prompt: prompt,
		Options: map[session.Letter]string{
			session.LetterA: "a", session.LetterB: "b", session.LetterC: "c", session.LetterD: "d",
		},
		Correct:     correct,
		Rationale:   "because",
		ReviewTopic: "topic " + prompt,
	}
}
