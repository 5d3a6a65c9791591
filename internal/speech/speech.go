// Package speech turns explanation text into audio.
package speech

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize makes one synthesis attempt for text.
	Synthesize(ctx context.Context, text string) (*Audio, error)

	// Name identifies the backend, e.g. "gemini".
	Name() string
}

// SSMLSynthesizer is implemented by synthesizers that accept SSML input.
type SSMLSynthesizer interface {
	Synthesizer
	AcceptsSSML() bool
}

// Audio is a synthesized clip.
type Audio struct {
	Data       []byte
	MIMEType   string // "audio/wav" or "audio/mpeg"
	SampleRate int    // 0 when the container carries it
}

// Ext returns the file extension for the clip's container.
func (a *Audio) Ext() string {
	switch a.MIMEType {
	case "audio/wav":
		return ".wav"
	case "audio/mpeg":
		return ".mp3"
	default:
		return ".bin"
	}
}

// SynthesisError reports a failed synthesis attempt.
type SynthesisError struct {
	Backend string
	Err     error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s speech synthesis failed: %v", e.Backend, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Prepare shapes text for s: SSML-capable synthesizers get a <speak>
// document, everything else gets plain text.
func Prepare(s Synthesizer, text string) string {
	if ss, ok := s.(SSMLSynthesizer); ok && ss.AcceptsSSML() {
		return WrapSSML(text)
	}
	return StripMarkup(text)
}

// Config holds speech synthesis settings.
type Config struct {
	Provider string `env:"STUDYBUDDY_SPEECH_PROVIDER" envDefault:"gemini"`
	APIKey   string `env:"STUDYBUDDY_SPEECH_API_KEY"`
	Model    string `env:"STUDYBUDDY_SPEECH_MODEL"`
	Voice    string `env:"STUDYBUDDY_SPEECH_VOICE"`
	Language string `env:"STUDYBUDDY_SPEECH_LANGUAGE" envDefault:"en-US"`
}

// ConfigFromEnv reads speech settings from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse speech env: %w", err)
	}
	return cfg, nil
}

// WithKeys fills a missing API key from the text-generation keys of the
// matching provider.
func (c Config) WithKeys(geminiKey, openaiKey string) Config {
	if c.APIKey != "" {
		return c
	}
	switch c.Provider {
	case "gemini":
		c.APIKey = geminiKey
	case "openai":
		c.APIKey = openaiKey
	}
	return c
}

// New creates the Synthesizer selected by cfg.Provider.
func New(ctx context.Context, cfg Config) (Synthesizer, error) {
	switch cfg.Provider {
	case "gemini":
		s, err := NewGeminiSynthesizer(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "openai":
		s, err := NewOpenAISynthesizer(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "mock":
		return &MockSynthesizer{}, nil
	default:
		return nil, fmt.Errorf("unknown speech provider: %q", cfg.Provider)
	}
}
