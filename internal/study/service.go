// Package study orchestrates study sessions: it reserves registry slots,
// fills them with generated content, routes user input to the live session
// and records lifecycle events.
package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/content"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/session"
	"github.com/abhisek/studybuddy/internal/speech"
	"github.com/abhisek/studybuddy/internal/store"
)

// ErrSpeechUnavailable is returned by audio operations when no synthesizer
// is configured.
var ErrSpeechUnavailable = errors.New("speech synthesis not configured")

// ErrContentUnavailable is returned by generated sessions and explanations
// when no content provider is configured.
var ErrContentUnavailable = errors.New("content generation not configured")

type unavailableContent struct{}

func (unavailableContent) GenerateExplanation(context.Context, string) (string, error) {
	return "", ErrContentUnavailable
}

func (unavailableContent) GenerateFlashcards(context.Context, string, int) ([]session.ReviewItem, error) {
	return nil, ErrContentUnavailable
}

func (unavailableContent) GenerateQuizQuestions(context.Context, string, int) ([]session.QuizQuestion, error) {
	return nil, ErrContentUnavailable
}

// Options holds the dependencies of a Service.
type Options struct {
	Content     content.Provider   // nil disables generated sessions
	Synthesizer speech.Synthesizer // nil disables audio
	Events      store.EventRepo    // nil disables history
	Presenter   session.Observer   // receives every session event
	Sleeper     session.Sleeper    // nil uses the runtime timer
	Registry    *session.Registry  // nil creates a fresh one
	Logger      *slog.Logger

	Limits           config.Limits
	ExplanationLimit int
}

// Service is the transport-independent entry point for study features.
// It is safe for concurrent use.
type Service struct {
	reg       *session.Registry
	content   content.Provider
	synth     speech.Synthesizer
	presenter session.Observer
	sleeper   session.Sleeper
	limits    config.Limits
	explain   int
	logger    *slog.Logger
	recorder  *recorder

	mu      sync.Mutex
	results map[session.OwnerID]*session.ResultView
}

// New creates a Service.
func New(opts Options) *Service {
	reg := opts.Registry
	if reg == nil {
		reg = session.NewRegistry()
	}
	logger := logging.OrDiscard(opts.Logger)
	var gen content.Provider = unavailableContent{}
	if opts.Content != nil {
		gen = opts.Content
	}

	s := &Service{
		reg:       reg,
		content:   gen,
		synth:     opts.Synthesizer,
		presenter: opts.Presenter,
		sleeper:   opts.Sleeper,
		limits:    opts.Limits,
		explain:   opts.ExplanationLimit,
		logger:    logger,
		results:   make(map[session.OwnerID]*session.ResultView),
	}
	s.recorder = newRecorder(opts.Events, logger, s.storeResults)
	return s
}

// Registry returns the session registry.
func (s *Service) Registry() *session.Registry { return s.reg }

// Limits returns the configured item-count limits.
func (s *Service) Limits() config.Limits { return s.limits }

func (s *Service) observer() session.Observer {
	return session.Observers{s.recorder, s.presenter}
}

// StartFocus starts a timed focus cycle for owner on its own goroutine.
func (s *Service) StartFocus(ctx context.Context, owner session.OwnerID, cfg session.CycleConfig) (*session.TimedCycle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h, err := s.reg.TryAcquire(owner, session.KindTimedCycle)
	if err != nil {
		return nil, err
	}
	s.recorder.begin(h, "")

	t, err := session.NewTimedCycle(h, cfg, s.sleeper, s.observer())
	if err != nil {
		s.abort(h)
		return nil, err
	}

	s.recorder.started(ctx, h, cfg.Cycles)
	s.logger.Info("focus started", "owner", owner, "session", h.ID, "cycles", cfg.Cycles)
	t.Start()
	return t, nil
}

// StartReview reserves the flash-card slot for owner, generates count
// cards about topic and starts the deck. On any failure the slot is
// released and no session is attached.
func (s *Service) StartReview(ctx context.Context, owner session.OwnerID, topic string, count int) (*session.ReviewDeck, error) {
	topic, err := s.checkRequest(topic, count, s.limits.MinCards, s.limits.MaxCards, "card")
	if err != nil {
		return nil, err
	}

	h, err := s.reg.TryAcquire(owner, session.KindReviewDeck)
	if err != nil {
		return nil, err
	}
	s.recorder.begin(h, topic)

	var items []session.ReviewItem
	err = s.populate(ctx, h, func(ctx context.Context) error {
		var gerr error
		items, gerr = s.content.GenerateFlashcards(ctx, topic, count)
		return gerr
	})
	if err != nil {
		s.abort(h)
		s.logger.Warn("flashcards generation failed", "owner", owner, "topic", topic, "error", err)
		return nil, err
	}

	deck := session.NewReviewDeck(h, items, s.observer())
	s.recorder.started(ctx, h, len(items))
	s.logger.Info("review started", "owner", owner, "session", h.ID, "topic", topic, "cards", len(items))
	deck.Start()
	return deck, nil
}

// StartQuiz reserves the quiz slot for owner, generates count questions
// about topic and starts the quiz. On any failure the slot is released and
// no session is attached.
func (s *Service) StartQuiz(ctx context.Context, owner session.OwnerID, topic string, count int) (*session.Quiz, error) {
	topic, err := s.checkRequest(topic, count, s.limits.MinQuestions, s.limits.MaxQuestions, "question")
	if err != nil {
		return nil, err
	}

	h, err := s.reg.TryAcquire(owner, session.KindQuiz)
	if err != nil {
		return nil, err
	}
	s.recorder.begin(h, topic)

	var questions []session.QuizQuestion
	err = s.populate(ctx, h, func(ctx context.Context) error {
		var gerr error
		questions, gerr = s.content.GenerateQuizQuestions(ctx, topic, count)
		return gerr
	})
	if err != nil {
		s.abort(h)
		s.logger.Warn("quiz generation failed", "owner", owner, "topic", topic, "error", err)
		return nil, err
	}

	quiz := session.NewQuiz(h, questions, s.observer())
	s.recorder.started(ctx, h, len(questions))
	s.logger.Info("quiz started", "owner", owner, "session", h.ID, "topic", topic, "questions", len(questions))
	quiz.Start()
	return quiz, nil
}

func (s *Service) checkRequest(topic string, count, lo, hi int, noun string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("topic is empty: %w", session.ErrInvalidInput)
	}
	if count < lo || count > hi {
		return "", fmt.Errorf("%s count %d outside %d-%d: %w", noun, count, lo, hi, session.ErrInvalidInput)
	}
	return topic, nil
}

// populate runs gen with a context that is also cancelled when the slot is
// cancelled, so a Cancel during generation aborts the provider call.
func (s *Service) populate(ctx context.Context, h *session.Handle, gen func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(h.Context(), cancel)
	defer stop()

	if err := gen(ctx); err != nil {
		if h.Context().Err() != nil {
			return fmt.Errorf("%s for %s: %w", h.Kind, h.Owner, session.ErrSessionClosed)
		}
		return err
	}
	if h.Context().Err() != nil {
		return fmt.Errorf("%s for %s: %w", h.Kind, h.Owner, session.ErrSessionClosed)
	}
	return nil
}

// abort releases a slot that never got a session.
func (s *Service) abort(h *session.Handle) {
	h.Release()
	s.recorder.forget(h.ID)
}

// Shutdown cancels every live session and returns once each attached one
// has reached its terminal state and recorded it. Slots still generating
// content abort on their own.
func (s *Service) Shutdown() {
	handles := s.reg.Handles()
	for _, h := range handles {
		h.Cancel()
	}
	for _, h := range handles {
		switch sess := h.Session().(type) {
		case *session.TimedCycle:
			<-sess.Done()
		case *session.ReviewDeck:
			sess.Cancel()
		case *session.Quiz:
			sess.Cancel()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for owner, v := range s.results {
		v.Close()
		delete(s.results, owner)
	}
}
