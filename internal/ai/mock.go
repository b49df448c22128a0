package ai

import (
	"context"
	"sync"
)

// MockGenerator returns canned replies and records every prompt it sees.
// Replies are consumed in order; the last one repeats.
type MockGenerator struct {
	Replies []string
	Err     error
	Models  []string

	mu      sync.Mutex
	prompts []string
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) == 0 {
		return "", ErrEmptyResponse
	}
	i := len(m.prompts) - 1
	if i >= len(m.Replies) {
		i = len(m.Replies) - 1
	}
	return m.Replies[i], nil
}

func (m *MockGenerator) ListModels(ctx context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Models, nil
}

func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
