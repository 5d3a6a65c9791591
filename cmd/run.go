package cmd

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/app"
	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/content"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/session"
	"github.com/abhisek/studybuddy/internal/speech"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/study"
)

// studyRuntime holds the dependencies shared by the study commands.
type studyRuntime struct {
	cfg     config.Config
	store   *store.Store
	service *study.Service
	logger  *slog.Logger
	owner   session.OwnerID
}

func (r *studyRuntime) Close() {
	r.service.Shutdown()
	r.store.Close()
}

// setup loads configuration, opens the store and builds the study service.
// presenter receives every session event.
func setup(cmd *cobra.Command, presenter session.Observer) (*studyRuntime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	eventRepo := st.EventRepo()

	opts := study.Options{
		Events:           eventRepo,
		Presenter:        presenter,
		Logger:           logger,
		Limits:           cfg.Limits,
		ExplanationLimit: cfg.ExplanationLimit,
	}

	llmCfg, err := llm.Resolve()
	if err == nil {
		var provider llm.Provider
		provider, err = llm.NewProvider(ctx, llmCfg, eventRepo, logger)
		if err == nil {
			opts.Content = content.New(provider, content.DefaultConfig())
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		if errors.Is(err, llm.ErrMissingAPIKey) {
			fmt.Fprintln(os.Stderr, "Set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY to enable them.")
		}
		fmt.Fprintln(os.Stderr, "Flash cards, quizzes and explanations will be unavailable.")
	}

	synth, err := newSynthesizer(ctx, llmCfg)
	if err != nil {
		logger.Info("speech synthesis unavailable", "error", err)
	} else {
		opts.Synthesizer = synth
	}

	owner, _ := cmd.Flags().GetString("owner")
	return &studyRuntime{
		cfg:     cfg,
		store:   st,
		service: study.New(opts),
		logger:  logger,
		owner:   session.OwnerID(owner),
	}, nil
}

// newSynthesizer builds the speech backend, reusing the LLM keys when no
// speech key is set.
func newSynthesizer(ctx context.Context, llmCfg llm.Config) (speech.Synthesizer, error) {
	cfg, err := speech.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	vendor, err := llm.VendorKeysFromEnv()
	if err != nil {
		return nil, err
	}
	geminiKey := cmp.Or(llmCfg.Gemini.APIKey, vendor.Gemini)
	openaiKey := cmp.Or(llmCfg.OpenAI.APIKey, vendor.OpenAI)
	cfg = cfg.WithKeys(geminiKey, openaiKey)
	return speech.New(ctx, cfg)
}

// runApp builds the service and launches the TUI.
func runApp(cmd *cobra.Command) error {
	bridge := app.NewBridge()
	rt, err := setup(cmd, bridge)
	if err != nil {
		return err
	}
	defer rt.Close()

	return app.Run(app.Options{
		Service: rt.service,
		Events:  rt.store.EventRepo(),
		Owner:   rt.owner,
		Focus:   rt.cfg.Focus.CycleConfig(),
		Bridge:  bridge,
	})
}
