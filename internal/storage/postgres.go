package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epavlenko/openclaw-youtube/internal/core/ports"
)

// PostgresRepliedSet keeps the replied-set in Postgres. Adds are written
// immediately, so Flush is a no-op; the in-memory mirror exists only to
// answer Has/IDs without a round trip per comment.
type PostgresRepliedSet struct {
	Pool *pgxpool.Pool

	mu        sync.RWMutex
	ids       map[string]struct{}
	updatedAt time.Time
}

func NewPostgresRepliedSet(ctx context.Context, connStr string) (*PostgresRepliedSet, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	s := &PostgresRepliedSet{Pool: pool, ids: make(map[string]struct{})}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

var _ ports.RepliedStore = (*PostgresRepliedSet)(nil)

func (s *PostgresRepliedSet) initSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS replied_comments (
			comment_id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

func (s *PostgresRepliedSet) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

func (s *PostgresRepliedSet) Add(id string) error {
	_, err := s.Pool.Exec(context.Background(),
		"INSERT INTO replied_comments (comment_id) VALUES ($1) ON CONFLICT DO NOTHING", id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ids[id] = struct{}{}
	s.updatedAt = time.Now().UTC()
	s.mu.Unlock()
	return nil
}

func (s *PostgresRepliedSet) Flush() error { return nil }

func (s *PostgresRepliedSet) Reload() error {
	rows, err := s.Pool.Query(context.Background(),
		"SELECT comment_id, created_at FROM replied_comments")
	if err != nil {
		return err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	var latest time.Time
	for rows.Next() {
		var id string
		var created time.Time
		if err := rows.Scan(&id, &created); err != nil {
			return err
		}
		ids[id] = struct{}{}
		if created.After(latest) {
			latest = created
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.ids = ids
	s.updatedAt = latest
	s.mu.Unlock()
	return nil
}

func (s *PostgresRepliedSet) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *PostgresRepliedSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

func (s *PostgresRepliedSet) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
