package study

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/session"
	"github.com/abhisek/studybuddy/internal/speech"
)

// Explain returns a plain-text explanation of topic, truncated to the
// configured limit.
func (s *Service) Explain(ctx context.Context, topic string) (string, error) {
	raw, err := s.explanation(ctx, topic)
	if err != nil {
		return "", err
	}
	return speech.Truncate(speech.StripMarkup(raw), s.explain), nil
}

// ExplainAudio returns a narrated explanation of topic.
func (s *Service) ExplainAudio(ctx context.Context, topic string) (*speech.Audio, error) {
	_, audio, err := s.Narrate(ctx, topic)
	return audio, err
}

// Narrate generates one explanation and returns both its display text and
// its audio. Synthesis is attempted once.
func (s *Service) Narrate(ctx context.Context, topic string) (string, *speech.Audio, error) {
	if s.synth == nil {
		return "", nil, ErrSpeechUnavailable
	}
	raw, err := s.explanation(ctx, topic)
	if err != nil {
		return "", nil, err
	}
	text := speech.Truncate(speech.StripMarkup(raw), s.explain)

	audio, err := s.synth.Synthesize(ctx, speech.Prepare(s.synth, raw))
	if err != nil {
		s.logger.Warn("speech synthesis failed", "topic", topic, "backend", s.synth.Name(), "error", err)
		return text, nil, err
	}
	return text, audio, nil
}

func (s *Service) explanation(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("topic is empty: %w", session.ErrInvalidInput)
	}
	return s.content.GenerateExplanation(ctx, topic)
}
