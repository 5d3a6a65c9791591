// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/abhisek/studybuddy/internal/session"
)

// Config holds application-wide settings. LLM and speech settings live in
// their own packages; the database path is resolved by the store.
type Config struct {
	LogLevel  string `env:"STUDYBUDDY_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"STUDYBUDDY_LOG_FORMAT" envDefault:"text"`

	Limits Limits
	Focus  Focus

	ExplanationLimit int `env:"STUDYBUDDY_EXPLANATION_LIMIT" envDefault:"1900"`
}

// Limits bounds how many items one session may request.
type Limits struct {
	MinCards     int `env:"STUDYBUDDY_MIN_CARDS" envDefault:"3"`
	MaxCards     int `env:"STUDYBUDDY_MAX_CARDS" envDefault:"20"`
	MinQuestions int `env:"STUDYBUDDY_MIN_QUESTIONS" envDefault:"3"`
	MaxQuestions int `env:"STUDYBUDDY_MAX_QUESTIONS" envDefault:"10"`
}

// Focus holds the default focus-cycle durations.
type Focus struct {
	Work       time.Duration `env:"STUDYBUDDY_FOCUS" envDefault:"25m"`
	ShortBreak time.Duration `env:"STUDYBUDDY_SHORT_BREAK" envDefault:"5m"`
	LongBreak  time.Duration `env:"STUDYBUDDY_LONG_BREAK" envDefault:"15m"`
	Cycles     int           `env:"STUDYBUDDY_CYCLES" envDefault:"4"`
}

// CycleConfig converts the focus defaults to a session cycle config.
func (f Focus) CycleConfig() session.CycleConfig {
	return session.CycleConfig{
		Focus:      f.Work,
		ShortBreak: f.ShortBreak,
		LongBreak:  f.LongBreak,
		Cycles:     f.Cycles,
	}
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the limits are coherent.
func (c Config) Validate() error {
	l := c.Limits
	if l.MinCards < 1 || l.MaxCards < l.MinCards {
		return fmt.Errorf("card limits %d-%d are invalid", l.MinCards, l.MaxCards)
	}
	if l.MinQuestions < 1 || l.MaxQuestions < l.MinQuestions {
		return fmt.Errorf("question limits %d-%d are invalid", l.MinQuestions, l.MaxQuestions)
	}
	if c.ExplanationLimit < 0 {
		return fmt.Errorf("explanation limit must not be negative")
	}
	if err := c.Focus.CycleConfig().Validate(); err != nil {
		return fmt.Errorf("focus defaults: %w", err)
	}
	return nil
}
