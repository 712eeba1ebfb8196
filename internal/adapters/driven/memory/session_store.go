package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore keeps session filenames and history in process memory.
// Sessions are never evicted.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewSessionStore creates an empty SessionStore
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
	}
}

// RegisterUpload appends filenames to the session's owned list
func (s *SessionStore) RegisterUpload(ctx context.Context, sessionID string, filenames []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getOrCreate(sessionID)
	session.OwnedFilenames = append(session.OwnedFilenames, filenames...)
	return nil
}

// OwnedFilenames returns the owned filenames in upload order
func (s *SessionStore) OwnedFilenames(ctx context.Context, sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return []string{}, nil
	}
	out := make([]string, len(session.OwnedFilenames))
	copy(out, session.OwnedFilenames)
	return out, nil
}

// AppendExchange records an answered query
func (s *SessionStore) AppendExchange(ctx context.Context, sessionID string, exchange domain.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getOrCreate(sessionID)
	session.History = append(session.History, exchange)
	return nil
}

// History returns the full history, oldest first
func (s *SessionStore) History(ctx context.Context, sessionID string) ([]domain.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return []domain.Exchange{}, nil
	}
	out := make([]domain.Exchange, len(session.History))
	copy(out, session.History)
	return out, nil
}

// getOrCreate must be called with the write lock held
func (s *SessionStore) getOrCreate(sessionID string) *domain.Session {
	session, ok := s.sessions[sessionID]
	if !ok {
		session = &domain.Session{ID: sessionID}
		s.sessions[sessionID] = session
	}
	return session
}
