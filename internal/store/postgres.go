package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS autosave (
    slot     TEXT PRIMARY KEY,
    document JSONB NOT NULL,
    saved_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps slots in a shared Postgres database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres applies the schema and returns a store over pool. The caller
// owns the pool.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Save(ctx context.Context, slot string, data []byte) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO autosave (slot, document, saved_at)
        VALUES ($1, $2, now())
        ON CONFLICT (slot) DO UPDATE SET document = EXCLUDED.document, saved_at = EXCLUDED.saved_at
    `, slot, data)
	if err != nil {
		return fmt.Errorf("save slot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, slot string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT document FROM autosave WHERE slot = $1`, slot).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load slot: %w", err)
	}
	return data, nil
}

func (s *PostgresStore) Delete(ctx context.Context, slot string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM autosave WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT slot, saved_at, octet_length(document::text)
        FROM autosave
        ORDER BY saved_at DESC, slot
    `)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.Slot, &e.SavedAt, &e.Size)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
