package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

var quizSchema = &Schema{
	Name: "test-quiz",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"questions"},
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"prompt", "options", "correct"},
					"properties": map[string]any{
						"prompt": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "object",
							"required": []any{"A", "B", "C", "D"},
						},
						"correct": map[string]any{"type": "string", "enum": []any{"A", "B", "C", "D"}},
					},
				},
			},
		},
	},
}

const validQuestion = `{"prompt":"What does the mitochondrion produce?","options":{"A":"ATP","B":"DNA","C":"Starch","D":"Light"},"correct":"A"}`

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		where   string
	}{
		{name: "valid", raw: `{"questions":[` + validQuestion + `]}`},
		{name: "empty question list", raw: `{"questions":[]}`},
		{name: "missing questions", raw: `{"cards":[]}`, wantErr: true},
		{name: "bad letter", raw: `{"questions":[{"prompt":"p","options":{"A":"","B":"","C":"","D":""},"correct":"E"}]}`,
			wantErr: true, where: "/questions/0/correct"},
		{name: "missing option", raw: `{"questions":[` + validQuestion + `,{"prompt":"p","options":{"A":"","B":"","C":""},"correct":"A"}]}`,
			wantErr: true, where: "/questions/1/options"},
		{name: "prompt not a string", raw: `{"questions":[{"prompt":7,"options":{"A":"","B":"","C":"","D":""},"correct":"A"}]}`,
			wantErr: true, where: "/questions/0/prompt"},
		{name: "prose", raw: `Here are your questions!`, wantErr: true},
		{name: "empty", raw: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(quizSchema, json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var invalid *ErrInvalidResponse
			if !errors.As(err, &invalid) {
				t.Fatalf("got %T (%v), want ErrInvalidResponse", err, err)
			}
			if string(invalid.Content) != tt.raw {
				t.Errorf("content = %q", invalid.Content)
			}
			if tt.where != "" && !strings.Contains(err.Error(), tt.where) {
				t.Errorf("error %q does not point at %s", err, tt.where)
			}
		})
	}
}

func TestValidateContent_NilSchema(t *testing.T) {
	if err := ValidateContent(nil, json.RawMessage(`Mitosis is cell division.`)); err != nil {
		t.Fatalf("nil schema rejected free text: %v", err)
	}
}

func TestCompileSchema_Cached(t *testing.T) {
	first, err := compileSchema(quizSchema)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := compileSchema(quizSchema)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if first != second {
		t.Fatal("schema compiled twice")
	}
}

func TestCompileSchema_Broken(t *testing.T) {
	broken := &Schema{Name: "test-broken", Definition: map[string]any{"type": 42}}
	err := ValidateContent(broken, json.RawMessage(`{}`))
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) || !strings.Contains(err.Error(), "test-broken") {
		t.Fatalf("got %v", err)
	}
}
