package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/store"
)

// LLMRecorder persists LLM request events.
type LLMRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner    Provider
	provider string
	recorder LLMRecorder
	logger   *slog.Logger
}

// WithLogging wraps a Provider with event logging. A nil recorder skips
// persistence and a nil logger discards diagnostics.
func WithLogging(p Provider, providerName string, rec LLMRecorder, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LoggingProvider{inner: p, provider: providerName, recorder: rec, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	tag := TagFrom(ctx)
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	ev := l.event(tag, req, resp, err, time.Since(start))

	log := l.logger.With("provider", l.provider, "model", ev.Model,
		"purpose", tag.Purpose, "topic", tag.Topic, "latency_ms", ev.LatencyMs)
	if err != nil {
		log.Warn("llm request failed", "error", err)
	} else {
		log.Debug("llm request", "input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens)
	}

	// A lost audit row never fails the study request.
	if l.recorder != nil {
		if recErr := l.recorder.AppendLLMRequest(ctx, ev); recErr != nil {
			l.logger.Warn("record llm request", "error", recErr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) event(tag Tag, req Request, resp *Response, err error, latency time.Duration) store.LLMRequestEventData {
	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     tag.Purpose,
		Topic:       tag.Topic,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens, ev.OutputTokens = resp.Usage.InputTokens, resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	return ev
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders the prompt the way "studybuddy llm view"
// prints it: one [role] block per message, then the schema if any.
func serializeRequest(req Request) string {
	var b strings.Builder
	block := func(label, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", label, body)
	}
	if req.System != "" {
		block("system", req.System)
	}
	for _, m := range req.Messages {
		block(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			block("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
