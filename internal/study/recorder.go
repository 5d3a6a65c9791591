package study

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/studybuddy/internal/session"
	"github.com/abhisek/studybuddy/internal/store"
)

const persistTimeout = 5 * time.Second

// recorder persists session lifecycle transitions and hands finished quiz
// results to the service. It runs under the emitting session's lock.
type recorder struct {
	events    store.EventRepo
	logger    *slog.Logger
	onResults func(session.OwnerID, *session.ResultView)

	mu     sync.Mutex
	topics map[string]string // session ID -> topic
}

func newRecorder(events store.EventRepo, logger *slog.Logger, onResults func(session.OwnerID, *session.ResultView)) *recorder {
	return &recorder{
		events:    events,
		logger:    logger,
		onResults: onResults,
		topics:    make(map[string]string),
	}
}

func (r *recorder) begin(h *session.Handle, topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics[h.ID] = topic
}

func (r *recorder) forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.topics, id)
}

func (r *recorder) topic(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.topics[id]
}

func (r *recorder) started(ctx context.Context, h *session.Handle, total int) {
	r.persist(ctx, store.SessionEventData{
		SessionID: h.ID,
		Owner:     string(h.Owner),
		Kind:      h.Kind.String(),
		Action:    store.ActionStart,
		Topic:     r.topic(h.ID),
		Total:     total,
	})
}

func (r *recorder) Notify(ev session.Event) {
	ref := ev.EventRef()
	data := store.SessionEventData{
		SessionID: ref.SessionID,
		Owner:     string(ref.Owner),
		Kind:      ref.Kind.String(),
		Topic:     r.topic(ref.SessionID),
	}

	switch e := ev.(type) {
	case session.CycleCompleted:
		data.Action = store.ActionCompleted
		data.Total = e.FocusPhases
	case session.ReviewCompleted:
		data.Action = store.ActionCompleted
		data.Total = e.Summary.Total
		data.Correct = e.Summary.Correct
		data.Detail = strings.Join(e.Summary.TopicsToReview, "; ")
	case session.QuizCompleted:
		if r.onResults != nil && e.Results != nil {
			r.onResults(ref.Owner, e.Results)
		}
		data.Action = store.ActionCompleted
		data.Total = e.Total
		data.Correct = e.Score
	case session.SessionCancelled:
		data.Action = store.ActionCancelled
		data.Detail = e.Reason
	default:
		return
	}

	r.forget(ref.SessionID)
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	r.persist(ctx, data)
	r.logger.Info("session "+data.Action, "owner", data.Owner, "kind", data.Kind, "session", data.SessionID)
}

func (r *recorder) persist(ctx context.Context, data store.SessionEventData) {
	if r.events == nil {
		return
	}
	if err := r.events.AppendSessionEvent(ctx, data); err != nil {
		r.logger.Warn("failed to record session event",
			"session", data.SessionID, "action", data.Action, "error", err)
	}
}
