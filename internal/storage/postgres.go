package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Store backed by the draft_snapshots table.
func NewPostgres(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) SaveDraft(ctx context.Context, kind, id string, data []byte) error {
	const q = `
INSERT INTO draft_snapshots (kind, id, data, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (kind, id) DO UPDATE
SET data = EXCLUDED.data,
    updated_at = now()
`
	_, err := s.pool.Exec(ctx, q, kind, id, data)
	return err
}

func (s *postgresStore) LoadDraft(ctx context.Context, kind, id string) ([]byte, error) {
	const q = `
SELECT data
FROM draft_snapshots
WHERE kind = $1 AND id = $2
`
	var data []byte
	if err := s.pool.QueryRow(ctx, q, kind, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *postgresStore) DeleteDraft(ctx context.Context, kind, id string) error {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM draft_snapshots WHERE kind = $1 AND id = $2`, kind, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *postgresStore) ListDraftIDs(ctx context.Context, kind string) ([]string, error) {
	const q = `
SELECT id
FROM draft_snapshots
WHERE kind = $1
ORDER BY updated_at DESC
`
	rows, err := s.pool.Query(ctx, q, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
