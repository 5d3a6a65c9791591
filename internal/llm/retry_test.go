package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var (
	okReply   = MockResponse{Content: json.RawMessage(`{"cards":[]}`)}
	downReply = MockResponse{Err: &ErrProviderUnavailable{Provider: "mock", Err: errors.New("down")}}
	badReply  = MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`Sure! Here are`), Err: errors.New("not JSON")}}
)

func TestRetry_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		replies   []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first try", []MockResponse{okReply}, false, 1},
		{"transient then ok", []MockResponse{downReply, okReply}, false, 2},
		{"rate limited then ok", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, okReply}, false, 2},
		{"gives up after max attempts", []MockResponse{downReply, downReply, downReply, okReply}, true, 3},
		{"invalid output retried once", []MockResponse{badReply, okReply}, false, 2},
		{"invalid output twice", []MockResponse{badReply, badReply, okReply}, true, 2},
		{"truncation is final", []MockResponse{{Err: &ErrMaxTokensExceeded{Limit: 10}}, okReply}, true, 1},
		{"missing key is final", []MockResponse{{Err: fmt.Errorf("gemini: %w", ErrMissingAPIKey)}, okReply}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.replies...)
			_, err := WithRetry(mock, retryConfig(), nil).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_ReturnsLastError(t *testing.T) {
	mock := NewMockProvider(downReply, badReply, badReply)
	_, err := WithRetry(mock, retryConfig(), nil).Generate(context.Background(), Request{})

	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("got %T (%v), want the final ErrInvalidResponse", err, err)
	}
}

// cancelOnCall cancels the request context as soon as the wrapped provider
// returns.
type cancelOnCall struct {
	Provider
	cancel context.CancelFunc
}

func (c cancelOnCall) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.Provider.Generate(ctx, req)
	c.cancel()
	return resp, err
}

func TestRetry_ContextCancellation(t *testing.T) {
	t.Run("before the first attempt", func(t *testing.T) {
		mock := NewMockProvider(downReply, downReply, okReply)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := WithRetry(mock, retryConfig(), nil).Generate(ctx, Request{})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got: %v", err)
		}
		if mock.CallCount() != 0 {
			t.Fatalf("cancelled request reached the provider: %d calls", mock.CallCount())
		}
	})

	t.Run("during backoff", func(t *testing.T) {
		mock := NewMockProvider(downReply, downReply, okReply)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cfg := retryConfig()
		cfg.InitialWait = time.Minute
		cfg.MaxWait = time.Minute
		_, err := WithRetry(cancelOnCall{Provider: mock, cancel: cancel}, cfg, nil).Generate(ctx, Request{})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got: %v", err)
		}
		if mock.CallCount() != 1 {
			t.Fatalf("cancelled request was retried: %d calls", mock.CallCount())
		}
	})
}

func TestRetry_StopsWhenDeadlineTooClose(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Minute}},
		okReply,
	)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	_, err := WithRetry(mock, retryConfig(), nil).Generate(ctx, Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("got %v, want the rate limit error", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("waited for a retry that could not finish before the deadline")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d", mock.CallCount())
	}
}

func TestRetry_Backoff(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 2}}

	within := func(got, want time.Duration) bool {
		return got >= want*8/10 && got <= want*12/10
	}
	if got := r.backoff(1, downReply.Err); !within(got, 100*time.Millisecond) {
		t.Errorf("attempt 1 wait = %s", got)
	}
	if got := r.backoff(3, downReply.Err); !within(got, 400*time.Millisecond) {
		t.Errorf("attempt 3 wait = %s", got)
	}
	if got := r.backoff(10, downReply.Err); !within(got, time.Second) {
		t.Errorf("capped wait = %s", got)
	}
	if got := r.backoff(1, &ErrRateLimit{RetryAfter: 3 * time.Second}); got != 3*time.Second {
		t.Errorf("retry-after wait = %s", got)
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	mock := NewMockProvider()
	mock.Model = "mock-haiku"
	if got := WithRetry(mock, retryConfig(), nil).ModelID(); got != "mock-haiku" {
		t.Fatalf("ModelID = %q", got)
	}
}
