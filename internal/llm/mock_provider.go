package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockProvider implements Provider with configurable responses for testing.
// ErrFunc and MatchFunc allow per-request behavior (e.g. failing only the
// baseline path while the identity paths succeed).
type MockProvider struct {
	mu               sync.Mutex
	Responses        []*CompletionResponse
	Errors           []error
	CallCount        int
	LastRequest      *CompletionRequest
	RequestHistory   []CompletionRequest
	ReplayMode       bool
	SimulatedLatency time.Duration
	MatchFunc        func(*CompletionRequest) *CompletionResponse
	ErrFunc          func(*CompletionRequest) error
}

// NewMockProvider creates a MockProvider cycling through the given responses.
// Errors are consumed by call index; a nil entry means that call succeeds.
func NewMockProvider(responses []*CompletionResponse, errors []error) *MockProvider {
	return &MockProvider{Responses: responses, Errors: errors}
}

// NewReplayProvider creates a MockProvider that uses responses exactly once
// in order and errors once all responses are consumed.
func NewReplayProvider(responses []*CompletionResponse) *MockProvider {
	return &MockProvider{Responses: responses, ReplayMode: true}
}

// NewEchoProvider creates a MockProvider whose response content is derived
// from the last user message, prefixed with the given tag. Useful for
// round-trip tests that need distinct leg outputs.
func NewEchoProvider(tag string) *MockProvider {
	return &MockProvider{
		MatchFunc: func(req *CompletionRequest) *CompletionResponse {
			last := ""
			if n := len(req.Messages); n > 0 {
				last = req.Messages[n-1].Content
			}
			return &CompletionResponse{Content: tag + ":" + last, Model: "mock-model"}
		},
	}
}

func (m *MockProvider) Name() string         { return "mock" }
func (m *MockProvider) DefaultModel() string { return "mock-model" }

func (m *MockProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	latency := m.SimulatedLatency
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.CallCount
	m.CallCount++
	m.LastRequest = req
	m.RequestHistory = append(m.RequestHistory, *req)

	if m.ErrFunc != nil {
		if err := m.ErrFunc(req); err != nil {
			return nil, err
		}
	}

	if idx < len(m.Errors) && m.Errors[idx] != nil {
		return nil, m.Errors[idx]
	}

	// MatchFunc takes priority over index-based selection.
	if m.MatchFunc != nil {
		if resp := m.MatchFunc(req); resp != nil {
			return resp, nil
		}
	}

	if m.ReplayMode {
		if idx >= len(m.Responses) {
			return nil, fmt.Errorf("mock provider: all %d responses exhausted at call %d", len(m.Responses), idx)
		}
		return m.Responses[idx], nil
	}

	if len(m.Responses) > 0 {
		return m.Responses[idx%len(m.Responses)], nil
	}

	return &CompletionResponse{
		Content:      "default mock translation",
		Model:        "mock-model",
		InputTokens:  10,
		OutputTokens: 10,
		DurationMS:   50,
	}, nil
}

// GetCallCount returns the number of times Complete has been called.
func (m *MockProvider) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// GetRequestHistory returns a copy of all requests made to this provider.
func (m *MockProvider) GetRequestHistory() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CompletionRequest(nil), m.RequestHistory...)
}
