package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore implements driven.SessionStore using PostgreSQL
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// RegisterUpload appends filenames to the session's owned list
func (s *SessionStore) RegisterUpload(ctx context.Context, sessionID string, filenames []string) error {
	if len(filenames) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO session_files (session_id, filename)
			VALUES ($1, $2)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, name := range filenames {
			if _, err := stmt.ExecContext(ctx, sessionID, name); err != nil {
				return fmt.Errorf("failed to register %s: %w", name, err)
			}
		}
		return nil
	})
}

// OwnedFilenames returns the owned filenames in upload order
func (s *SessionStore) OwnedFilenames(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename FROM session_files
		WHERE session_id = $1
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owned filenames: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AppendExchange records an answered query
func (s *SessionStore) AppendExchange(ctx context.Context, sessionID string, exchange domain.Exchange) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_history (session_id, query, answer)
		VALUES ($1, $2, $3)
	`, sessionID, exchange.Query, exchange.Answer)
	if err != nil {
		return fmt.Errorf("failed to append exchange: %w", err)
	}
	return nil
}

// History returns the session's history, oldest first
func (s *SessionStore) History(ctx context.Context, sessionID string) ([]domain.Exchange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT query, answer FROM session_history
		WHERE session_id = $1
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	history := []domain.Exchange{}
	for rows.Next() {
		var ex domain.Exchange
		if err := rows.Scan(&ex.Query, &ex.Answer); err != nil {
			return nil, err
		}
		history = append(history, ex)
	}
	return history, rows.Err()
}
