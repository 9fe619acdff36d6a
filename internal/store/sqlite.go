package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS autosave (
    slot     TEXT PRIMARY KEY,
    document BLOB NOT NULL,
    saved_at INTEGER NOT NULL
)`

// SQLiteStore keeps slots in a local SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at dbPath and applies
// the schema.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, slot string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO autosave (slot, document, saved_at)
        VALUES (?, ?, ?)
        ON CONFLICT (slot) DO UPDATE SET document = excluded.document, saved_at = excluded.saved_at
    `, slot, data, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save slot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, slot string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM autosave WHERE slot = ?`, slot).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load slot: %w", err)
	}
	return data, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, slot string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM autosave WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT slot, saved_at, length(document)
        FROM autosave
        ORDER BY saved_at DESC, slot
    `)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var millis int64
		if err := rows.Scan(&e.Slot, &millis, &e.Size); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		e.SavedAt = time.UnixMilli(millis).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
