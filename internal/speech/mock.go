package speech

import (
	"context"
	"sync"
)

// MockSynthesizer is a deterministic Synthesizer for testing. It records
// every input and returns Audio or Err.
type MockSynthesizer struct {
	Audio *Audio
	Err   error
	SSML  bool

	mu    sync.Mutex
	Calls []string
}

func (m *MockSynthesizer) Name() string { return "mock" }

func (m *MockSynthesizer) AcceptsSSML() bool { return m.SSML }

func (m *MockSynthesizer) Synthesize(_ context.Context, text string) (*Audio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, text)
	if m.Err != nil {
		return nil, &SynthesisError{Backend: m.Name(), Err: m.Err}
	}
	if m.Audio != nil {
		return m.Audio, nil
	}
	return &Audio{Data: []byte("mock"), MIMEType: "audio/wav"}, nil
}

// CallCount returns the number of Synthesize calls made.
func (m *MockSynthesizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
