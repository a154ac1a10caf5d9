package llm

import (
	"context"
	"sync"
)

// MockProvider is a deterministic Provider for tests. Replies are returned
// in order; once exhausted, the last reply repeats.
type MockProvider struct {
	mu      sync.Mutex
	Replies []string
	Err     error

	// Calls records every message slice Complete received
	Calls [][]Message

	next int
}

// NewMockProvider creates a mock provider with no canned replies
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, messages)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) == 0 {
		return "{}", nil
	}

	reply := m.Replies[m.next]
	if m.next < len(m.Replies)-1 {
		m.next++
	}
	return reply, nil
}

func (m *MockProvider) Name() string {
	return "Mock"
}

func (m *MockProvider) ValidateConfig() error {
	return nil
}
