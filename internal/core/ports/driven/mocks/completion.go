package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// CompletionCall records one Complete invocation
type CompletionCall struct {
	Messages  []domain.Message
	MaxTokens int
}

// MockCompletionService is a scripted CompletionService for testing
type MockCompletionService struct {
	mu     sync.Mutex
	answer string
	err    error
	calls  []CompletionCall

	// CompleteFn overrides the scripted answer when set
	CompleteFn func(ctx context.Context, messages []domain.Message, maxTokens int) (string, error)
}

// NewMockCompletionService creates a MockCompletionService returning answer
func NewMockCompletionService(answer string) *MockCompletionService {
	return &MockCompletionService{answer: answer}
}

func (m *MockCompletionService) Complete(ctx context.Context, messages []domain.Message, maxTokens int) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, CompletionCall{Messages: messages, MaxTokens: maxTokens})
	fn := m.CompleteFn
	answer, err := m.answer, m.err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages, maxTokens)
	}
	if err != nil {
		return "", err
	}
	return answer, nil
}

func (m *MockCompletionService) Model() string {
	return "mock-completion-model"
}

func (m *MockCompletionService) Ping(ctx context.Context) error {
	return nil
}

func (m *MockCompletionService) Close() error {
	return nil
}

// Helper methods for testing

// SetAnswer changes the scripted answer
func (m *MockCompletionService) SetAnswer(answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answer = answer
}

// SetError makes every call fail with err
func (m *MockCompletionService) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the recorded invocations
func (m *MockCompletionService) Calls() []CompletionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastCall returns the most recent invocation, or nil
func (m *MockCompletionService) LastCall() *CompletionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	c := m.calls[len(m.calls)-1]
	return &c
}
