package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore persists sessions as a single JSONB document per ID.
// The upsert rewrites the whole aggregate, which keeps the documented
// last-write-wins semantics.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	query := `SELECT data FROM sessions WHERE session_id = $1`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	return &s, nil
}

func (r *PostgresStore) Put(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (session_id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO UPDATE SET
			data = $2,
			updated_at = $4
	`
	_, err = r.db.ExecContext(ctx, query, s.SessionID, data, s.CreatedAt, s.UpdatedAt)
	return err
}
