package llm

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config selects and configures the model provider. Every field can be set
// from a STUDYBUDDY_* variable; the envDefault tags are the defaults.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter or mock.
	Provider string `env:"STUDYBUDDY_LLM_PROVIDER" envDefault:"anthropic"`

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including its retries. Quizzes with
	// rationales are the slowest requests.
	Timeout time.Duration `env:"STUDYBUDDY_LLM_TIMEOUT" envDefault:"60s"`
}

type AnthropicConfig struct {
	APIKey string `env:"STUDYBUDDY_ANTHROPIC_API_KEY"`
	Model  string `env:"STUDYBUDDY_ANTHROPIC_MODEL" envDefault:"claude-haiku"`
}

type OpenAIConfig struct {
	APIKey string `env:"STUDYBUDDY_OPENAI_API_KEY"`
	Model  string `env:"STUDYBUDDY_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	// BaseURL points the client at an OpenAI-compatible server.
	BaseURL string `env:"STUDYBUDDY_OPENAI_BASE_URL"`
}

type GeminiConfig struct {
	APIKey string `env:"STUDYBUDDY_GEMINI_API_KEY"`
	Model  string `env:"STUDYBUDDY_GEMINI_MODEL" envDefault:"gemini-flash"`
}

type OpenRouterConfig struct {
	APIKey  string `env:"STUDYBUDDY_OPENROUTER_API_KEY"`
	Model   string `env:"STUDYBUDDY_OPENROUTER_MODEL" envDefault:"google/gemini-2.0-flash-exp"`
	BaseURL string `env:"STUDYBUDDY_OPENROUTER_BASE_URL"`
}

// RetryConfig is exponential backoff for transient provider failures.
type RetryConfig struct {
	MaxAttempts int           `env:"STUDYBUDDY_LLM_RETRY_ATTEMPTS" envDefault:"3"`
	InitialWait time.Duration `env:"STUDYBUDDY_LLM_RETRY_INITIAL_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"STUDYBUDDY_LLM_RETRY_MAX_WAIT" envDefault:"10s"`
	Multiplier  float64       `env:"STUDYBUDDY_LLM_RETRY_MULTIPLIER" envDefault:"2"`
}

// DefaultConfig is the configuration of an empty environment.
func DefaultConfig() Config {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("llm: bad default config: %v", err))
	}
	return cfg
}

// ConfigFromEnv reads STUDYBUDDY_* variables over the defaults.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse llm env: %w", err)
	}
	return cfg, nil
}

// VendorKeys are the vendors' own key variables, used when no
// STUDYBUDDY_* key is configured.
type VendorKeys struct {
	Gemini     string `env:"GEMINI_API_KEY"`
	OpenAI     string `env:"OPENAI_API_KEY"`
	Anthropic  string `env:"ANTHROPIC_API_KEY"`
	OpenRouter string `env:"OPENROUTER_API_KEY"`
}

func VendorKeysFromEnv() (VendorKeys, error) {
	var k VendorKeys
	if err := env.Parse(&k); err != nil {
		return VendorKeys{}, fmt.Errorf("parse vendor keys: %w", err)
	}
	return k, nil
}

// DiscoverConfig picks the first provider with a vendor key, probing
// Gemini, OpenAI, Anthropic, then OpenRouter. It reports false when none
// is set.
func DiscoverConfig() (Config, bool) {
	keys, err := VendorKeysFromEnv()
	if err != nil {
		return Config{}, false
	}
	cfg := DefaultConfig()
	switch {
	case keys.Gemini != "":
		cfg.Provider, cfg.Gemini.APIKey = "gemini", keys.Gemini
	case keys.OpenAI != "":
		cfg.Provider, cfg.OpenAI.APIKey = "openai", keys.OpenAI
	case keys.Anthropic != "":
		cfg.Provider, cfg.Anthropic.APIKey = "anthropic", keys.Anthropic
	case keys.OpenRouter != "":
		cfg.Provider, cfg.OpenRouter.APIKey = "openrouter", keys.OpenRouter
	default:
		return Config{}, false
	}
	return cfg, true
}

// Resolve prefers the STUDYBUDDY_* configuration and falls back to
// DiscoverConfig when its provider has no key. Timeout and retry settings
// always come from the environment.
func Resolve() (Config, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return Config{}, err
	}
	if cfg.Validate() == nil {
		return cfg, nil
	}
	if discovered, ok := DiscoverConfig(); ok {
		discovered.Timeout = cfg.Timeout
		discovered.Retry = cfg.Retry
		return discovered, nil
	}
	return cfg, cfg.Validate()
}

// Validate checks that the selected provider has its API key. A missing
// key wraps ErrMissingAPIKey and names the variable to set.
func (c Config) Validate() error {
	keys := map[string]struct{ key, envVar string }{
		"anthropic":  {c.Anthropic.APIKey, "STUDYBUDDY_ANTHROPIC_API_KEY"},
		"openai":     {c.OpenAI.APIKey, "STUDYBUDDY_OPENAI_API_KEY"},
		"gemini":     {c.Gemini.APIKey, "STUDYBUDDY_GEMINI_API_KEY"},
		"openrouter": {c.OpenRouter.APIKey, "STUDYBUDDY_OPENROUTER_API_KEY"},
	}
	if c.Provider == "mock" {
		return nil
	}
	k, ok := keys[c.Provider]
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if k.key == "" {
		return fmt.Errorf("%s provider: set %s: %w", c.Provider, k.envVar, ErrMissingAPIKey)
	}
	return nil
}
