package content

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/session"
)

func cardsJSON(n int) json.RawMessage {
	type card struct {
		Front       string `json:"front"`
		Back        string `json:"back"`
		ReviewTopic string `json:"review_topic"`
	}
	out := struct {
		Cards []card `json:"cards"`
	}{}
	for i := 0; i < n; i++ {
		out.Cards = append(out.Cards, card{
			Front:       "What is organelle " + string(rune('A'+i)) + "?",
			Back:        "A part of the cell",
			ReviewTopic: "organelles",
		})
	}
	b, _ := json.Marshal(out)
	return b
}

const oneQuestion = `{
	"prompt": "Which organelle produces ATP?",
	"subject_area": "biology",
	"axis": "cells",
	"options": {"A": "Nucleus", "B": "Mitochondrion", "C": "Ribosome", "D": "Golgi body"},
	"correct": "B",
	"rationale": "Mitochondria run cellular respiration.",
	"source": "",
	"review_topic": "cellular respiration"
}`

func questionsJSON(n int) json.RawMessage {
	s := `{"questions": [`
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		s += oneQuestion
	}
	return json.RawMessage(s + `]}`)
}

func TestGenerateFlashcards(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: cardsJSON(3)})
	gen := New(mock, DefaultConfig())

	cards, err := gen.GenerateFlashcards(context.Background(), "cells", 3)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "organelles", cards[0].ReviewTopic)
	assert.Equal(t, "A part of the cell", cards[2].Back)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Same(t, FlashcardsSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "cells")
	assert.Contains(t, req.Messages[0].Content, "Number of cards: 3")
}

func TestGenerateFlashcards_Purpose(t *testing.T) {
	var tag llm.Tag
	p := providerFunc(func(ctx context.Context, _ llm.Request) (*llm.Response, error) {
		tag = llm.TagFrom(ctx)
		return &llm.Response{Content: cardsJSON(3)}, nil
	})

	_, err := New(p, DefaultConfig()).GenerateFlashcards(context.Background(), "cells", 3)
	require.NoError(t, err)
	assert.Equal(t, llm.Tag{Purpose: PurposeFlashcards, Topic: "cells"}, tag)
}

func TestGenerateFlashcards_TruncatesExtra(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: cardsJSON(5)})

	cards, err := New(mock, DefaultConfig()).GenerateFlashcards(context.Background(), "cells", 3)
	require.NoError(t, err)
	assert.Len(t, cards, 3)
}

func TestGenerateFlashcards_ShortIsProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: cardsJSON(2)})

	_, err := New(mock, DefaultConfig()).GenerateFlashcards(context.Background(), "cells", 3)
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, PurposeFlashcards, perr.Op)
	assert.Equal(t, "cells", perr.Topic)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "count", verr.Validator)
}

func TestGenerateFlashcards_FencedOutput(t *testing.T) {
	fenced := "Here are your cards:\n```json\n" + string(cardsJSON(3)) + "\n```\nGood luck!"
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(fenced)})

	cards, err := New(mock, DefaultConfig()).GenerateFlashcards(context.Background(), "cells", 3)
	require.NoError(t, err)
	assert.Len(t, cards, 3)
}

func TestGenerateFlashcards_BareArray(t *testing.T) {
	raw := `Sure! [{"front": "Q1", "back": "A1", "review_topic": "t"},
		{"front": "Q2", "back": "A2", "review_topic": "t"},
		{"front": "Q3", "back": "A3", "review_topic": ""}]`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(raw)})

	cards, err := New(mock, DefaultConfig()).GenerateFlashcards(context.Background(), "cells", 3)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "Q3", cards[2].Front)
}

func TestGenerateFlashcards_ProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})

	_, err := New(mock, DefaultConfig()).GenerateFlashcards(context.Background(), "cells", 3)
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	var rl *llm.ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestGenerateFlashcards_Garbage(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("I cannot help with that.")})

	_, err := New(mock, DefaultConfig()).GenerateFlashcards(context.Background(), "cells", 3)
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, errNoJSON)
}

func TestGenerateFlashcards_EmptyBack(t *testing.T) {
	raw := `{"cards": [
		{"front": "Q1", "back": "A1", "review_topic": "t"},
		{"front": "Q2", "back": "  ", "review_topic": "t"},
		{"front": "Q3", "back": "A3", "review_topic": "t"}]}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(raw)})

	_, err := New(mock, DefaultConfig()).GenerateFlashcards(context.Background(), "cells", 3)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "structural", verr.Validator)
}

func TestGenerateQuizQuestions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: questionsJSON(4)})

	qs, err := New(mock, DefaultConfig()).GenerateQuizQuestions(context.Background(), "cells", 4)
	require.NoError(t, err)
	require.Len(t, qs, 4)
	assert.Equal(t, session.LetterB, qs[0].Correct)
	assert.Equal(t, "Mitochondrion", qs[0].Options[session.LetterB])
	assert.Equal(t, "cellular respiration", qs[3].ReviewTopic)
	assert.Same(t, QuizSchema, mock.Calls[0].Schema)
}

func TestGenerateQuizQuestions_BadAnswerKey(t *testing.T) {
	raw := `{"questions": [{
		"prompt": "p", "subject_area": "s", "axis": "a",
		"options": {"A": "1", "B": "2", "C": "3", "D": "4"},
		"correct": "E", "rationale": "r", "source": "", "review_topic": ""
	}]}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(raw)})

	_, err := New(mock, DefaultConfig()).GenerateQuizQuestions(context.Background(), "cells", 1)
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	var invalid *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid, "schema rejects letters outside A-D")
}

func TestGenerateExplanation(t *testing.T) {
	text := "<speak>Cells are the unit of life.<break time=\"500ms\"/>They divide.</speak>"

	tests := []struct {
		name    string
		content json.RawMessage
	}{
		{"raw text", json.RawMessage(text)},
		{"json string", mustMarshal(t, text)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: tt.content})
			got, err := New(mock, DefaultConfig()).GenerateExplanation(context.Background(), "cells")
			require.NoError(t, err)
			assert.Equal(t, text, got)
			assert.Nil(t, mock.Calls[0].Schema)
		})
	}
}

func TestGenerateExplanation_Empty(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("   ")})

	_, err := New(mock, DefaultConfig()).GenerateExplanation(context.Background(), "cells")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, PurposeExplanation, perr.Op)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		err  error
	}{
		{"object", `{"cards": []}`, `{"cards": []}`, nil},
		{"fenced", "```json\n{\"cards\": []}\n```", `{"cards": []}`, nil},
		{"fenced no tag", "```\n[1]\n```", `{"cards":[1]}`, nil},
		{"bare array", `text [1, 2] more`, `{"cards":[1, 2]}`, nil},
		{"nothing", `no json here`, "", errNoJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON([]byte(tt.raw), "cards")
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ProviderError{Op: "quiz", Topic: "cells", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, `generate quiz for "cells": boom`, err.Error())
}

type providerFunc func(ctx context.Context, req llm.Request) (*llm.Response, error)

func (f providerFunc) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

func (f providerFunc) ModelID() string { return "func" }

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
