// Package content generates study material (explanations, flash cards and
// quiz questions) from an LLM provider.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/session"
)

// LLM purposes recorded with every request.
const (
	PurposeExplanation = "explanation"
	PurposeFlashcards  = "flashcards"
	PurposeQuiz        = "quiz"
)

// Provider produces study material for a topic.
type Provider interface {
	GenerateExplanation(ctx context.Context, topic string) (string, error)
	GenerateFlashcards(ctx context.Context, topic string, count int) ([]session.ReviewItem, error)
	GenerateQuizQuestions(ctx context.Context, topic string, count int) ([]session.QuizQuestion, error)
}

// Generator implements Provider using an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

var _ Provider = (*Generator)(nil)

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

type flashcardsOutput struct {
	Cards []session.ReviewItem `json:"cards"`
}

type quizOutput struct {
	Questions []session.QuizQuestion `json:"questions"`
}

// GenerateExplanation returns the raw explanation text. It may contain
// speech markup; callers strip it for display.
func (g *Generator) GenerateExplanation(ctx context.Context, topic string) (string, error) {
	ctx = llm.WithTag(ctx, llm.Tag{Purpose: PurposeExplanation, Topic: topic})

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: explanationSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildExplanationMessage(topic)},
		},
		MaxTokens:   g.config.ExplanationMaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return "", &ProviderError{Op: PurposeExplanation, Topic: topic, Err: err}
	}

	text := resp.Text()
	if text == "" {
		return "", &ProviderError{Op: PurposeExplanation, Topic: topic, Err: errors.New("empty explanation")}
	}
	return text, nil
}

// GenerateFlashcards returns exactly count review items for topic.
func (g *Generator) GenerateFlashcards(ctx context.Context, topic string, count int) ([]session.ReviewItem, error) {
	var out flashcardsOutput
	if err := g.generate(ctx, PurposeFlashcards, topic, FlashcardsSchema, "cards",
		flashcardsSystemPrompt, buildFlashcardsMessage(topic, count), g.config.FlashcardsMaxTokens, &out); err != nil {
		return nil, err
	}
	if out.Cards == nil {
		out.Cards = []session.ReviewItem{}
	}
	for i := range out.Cards {
		out.Cards[i].Front = strings.TrimSpace(out.Cards[i].Front)
		out.Cards[i].Back = strings.TrimSpace(out.Cards[i].Back)
		out.Cards[i].ReviewTopic = strings.TrimSpace(out.Cards[i].ReviewTopic)
	}

	b := &Batch{Topic: topic, Requested: count, Cards: out.Cards}
	if err := g.validate(b); err != nil {
		return nil, &ProviderError{Op: PurposeFlashcards, Topic: topic, Err: err}
	}
	return b.Cards, nil
}

// GenerateQuizQuestions returns exactly count questions for topic.
func (g *Generator) GenerateQuizQuestions(ctx context.Context, topic string, count int) ([]session.QuizQuestion, error) {
	var out quizOutput
	if err := g.generate(ctx, PurposeQuiz, topic, QuizSchema, "questions",
		quizSystemPrompt, buildQuizMessage(topic, count), g.config.QuizMaxTokens, &out); err != nil {
		return nil, err
	}
	if out.Questions == nil {
		out.Questions = []session.QuizQuestion{}
	}
	for i := range out.Questions {
		out.Questions[i].Prompt = strings.TrimSpace(out.Questions[i].Prompt)
	}

	b := &Batch{Topic: topic, Requested: count, Questions: out.Questions}
	if err := g.validate(b); err != nil {
		return nil, &ProviderError{Op: PurposeQuiz, Topic: topic, Err: err}
	}
	return b.Questions, nil
}

// generate runs one structured request and decodes the validated payload
// into out.
func (g *Generator) generate(ctx context.Context, purpose, topic string, schema *llm.Schema, key, system, user string, maxTokens int, out any) error {
	ctx = llm.WithTag(ctx, llm.Tag{Purpose: purpose, Topic: topic})

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: user},
		},
		Schema:      schema,
		MaxTokens:   maxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return &ProviderError{Op: purpose, Topic: topic, Err: err}
	}

	payload, err := extractJSON(resp.Content, key)
	if err != nil {
		return &ProviderError{Op: purpose, Topic: topic, Err: err}
	}
	if err := llm.ValidateContent(schema, payload); err != nil {
		return &ProviderError{Op: purpose, Topic: topic, Err: err}
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &ProviderError{Op: purpose, Topic: topic, Err: err}
	}
	return nil
}

func (g *Generator) validate(b *Batch) error {
	for _, v := range g.config.Validators {
		if verr := v.Validate(b); verr != nil {
			return verr
		}
	}
	return nil
}
