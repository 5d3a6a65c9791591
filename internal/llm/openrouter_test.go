package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenRouterProvider_SendsAttribution(t *testing.T) {
	var (
		header http.Header
		model  string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		var body struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		model = body.Model
		openAIJSON(http.StatusOK, chatCompletion(`"Osmosis is water moving across a membrane."`, "stop"))(w, r)
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "google/gemini-2.0-flash-exp",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}

	if _, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "Explain osmosis"}},
		MaxTokens: 128,
	}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if model != "google/gemini-2.0-flash-exp" {
		t.Errorf("model sent = %q, want vendor-qualified name unchanged", model)
	}
	if header.Get("X-Title") != "studybuddy" || header.Get("HTTP-Referer") == "" {
		t.Errorf("attribution headers missing: %v", header)
	}
	if header.Get("Authorization") != "Bearer sk-or-test" {
		t.Errorf("authorization = %q", header.Get("Authorization"))
	}
}

func TestOpenRouterProvider_RateLimitNamesProvider(t *testing.T) {
	server := httptest.NewServer(openAIJSON(http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"message": "Rate limit exceeded", "code": 429},
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "openai/gpt-4o-mini", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}
	_, err = p.Generate(context.Background(), Request{MaxTokens: 16})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) || rl.Provider != "openrouter" {
		t.Fatalf("got %T (%v)", err, err)
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "openai/gpt-4o-mini"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("empty key: got %v", err)
	}

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "mini"})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}
	if p.ModelID() != "mini" {
		t.Errorf("model = %q, friendly names apply to OpenAI only", p.ModelID())
	}
}
