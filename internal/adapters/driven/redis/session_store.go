package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

const (
	// Key prefixes for Redis
	sessionFilesPrefix   = "docqa:session:files:"
	sessionHistoryPrefix = "docqa:session:history:"
)

// SessionStore implements driven.SessionStore using Redis lists.
// Sessions carry no TTL; they live until the keys are removed externally.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new Redis-backed SessionStore
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// RegisterUpload appends filenames to the session's owned list
func (s *SessionStore) RegisterUpload(ctx context.Context, sessionID string, filenames []string) error {
	if len(filenames) == 0 {
		return nil
	}

	values := make([]interface{}, len(filenames))
	for i, name := range filenames {
		values[i] = name
	}

	if err := s.client.RPush(ctx, sessionFilesPrefix+sessionID, values...).Err(); err != nil {
		return fmt.Errorf("failed to register upload: %w", err)
	}
	return nil
}

// OwnedFilenames returns the owned filenames in upload order
func (s *SessionStore) OwnedFilenames(ctx context.Context, sessionID string) ([]string, error) {
	names, err := s.client.LRange(ctx, sessionFilesPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get owned filenames: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// AppendExchange records an answered query
func (s *SessionStore) AppendExchange(ctx context.Context, sessionID string, exchange domain.Exchange) error {
	data, err := json.Marshal(exchange)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange: %w", err)
	}

	if err := s.client.RPush(ctx, sessionHistoryPrefix+sessionID, data).Err(); err != nil {
		return fmt.Errorf("failed to append exchange: %w", err)
	}
	return nil
}

// History returns the session's history, oldest first
func (s *SessionStore) History(ctx context.Context, sessionID string) ([]domain.Exchange, error) {
	raw, err := s.client.LRange(ctx, sessionHistoryPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return decodeExchanges(raw)
}

func decodeExchanges(raw []string) ([]domain.Exchange, error) {
	history := make([]domain.Exchange, 0, len(raw))
	for _, item := range raw {
		var ex domain.Exchange
		if err := json.Unmarshal([]byte(item), &ex); err != nil {
			return nil, fmt.Errorf("failed to unmarshal exchange: %w", err)
		}
		history = append(history, ex)
	}
	return history, nil
}
