package providers

import (
	"context"
	"sync/atomic"
)

// mockLLM is a scriptable provider for orchestrator tests.
type mockLLM struct {
	name        string
	pingErr     error
	response    string
	completeErr error
	pingCalls   atomic.Int64
	invokeCalls atomic.Int64
}

func (m *mockLLM) Name() string { return m.name }

func (m *mockLLM) Ping(ctx context.Context) error {
	m.pingCalls.Add(1)
	return m.pingErr
}

func (m *mockLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.invokeCalls.Add(1)
	if m.completeErr != nil {
		return "", m.completeErr
	}
	return m.response, nil
}
