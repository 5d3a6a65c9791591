package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one scripted reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
	// Truncated makes a structured request fail with ErrMaxTokensExceeded
	// the way a real provider does when output hits the limit.
	Truncated bool
}

// MockProvider replays scripted responses and records every request.
// Replies registered with OnSchema are consumed by requests for that schema
// first; everything else draws from the shared FIFO queue.
type MockProvider struct {
	// Model is reported by ModelID and in responses. Defaults to "mock".
	Model string

	mu       sync.Mutex
	queue    []MockResponse
	bySchema map[string][]MockResponse
	Calls    []Request
}

var errNoScript = errors.New("mock: no scripted response left")

// NewMockProvider returns a MockProvider whose shared queue holds responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses, bySchema: make(map[string][]MockResponse)}
}

// AddResponse appends to the shared queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

// OnSchema queues replies for requests whose schema is named name.
func (m *MockProvider) OnSchema(name string, responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bySchema[name] = append(m.bySchema[name], responses...)
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	resp, ok := m.next(req)
	m.mu.Unlock()

	if !ok {
		return nil, &ErrProviderUnavailable{Provider: "mock", Err: errNoScript}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	if resp.Truncated && req.Schema != nil {
		return nil, &ErrMaxTokensExceeded{Limit: req.MaxTokens, Content: resp.Content}
	}

	stop := StopEnd
	if resp.Truncated {
		stop = StopMaxTokens
	}
	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      m.ModelID(),
		StopReason: stop,
	}, nil
}

// next pops the reply for req. Callers hold m.mu.
func (m *MockProvider) next(req Request) (MockResponse, bool) {
	if req.Schema != nil {
		if q := m.bySchema[req.Schema.Name]; len(q) > 0 {
			m.bySchema[req.Schema.Name] = q[1:]
			return q[0], true
		}
	}
	if len(m.queue) == 0 {
		return MockResponse{}, false
	}
	resp := m.queue[0]
	m.queue = m.queue[1:]
	return resp, true
}

func (m *MockProvider) ModelID() string {
	if m.Model == "" {
		return "mock"
	}
	return m.Model
}

// CallCount returns how many requests were made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastRequest returns the most recent request.
func (m *MockProvider) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}
