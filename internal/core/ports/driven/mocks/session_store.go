package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// MockSessionStore is a mock implementation of SessionStore for testing
type MockSessionStore struct {
	mu        sync.RWMutex
	filenames map[string][]string
	history   map[string][]domain.Exchange
	err       error
}

// NewMockSessionStore creates a new MockSessionStore
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		filenames: make(map[string][]string),
		history:   make(map[string][]domain.Exchange),
	}
}

func (m *MockSessionStore) RegisterUpload(ctx context.Context, sessionID string, filenames []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.filenames[sessionID] = append(m.filenames[sessionID], filenames...)
	return nil
}

func (m *MockSessionStore) OwnedFilenames(ctx context.Context, sessionID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]string, len(m.filenames[sessionID]))
	copy(out, m.filenames[sessionID])
	return out, nil
}

func (m *MockSessionStore) AppendExchange(ctx context.Context, sessionID string, exchange domain.Exchange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.history[sessionID] = append(m.history[sessionID], exchange)
	return nil
}

func (m *MockSessionStore) History(ctx context.Context, sessionID string) ([]domain.Exchange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Exchange, len(m.history[sessionID]))
	copy(out, m.history[sessionID])
	return out, nil
}

// Helper methods for testing

// SetError makes every call fail with err
func (m *MockSessionStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
