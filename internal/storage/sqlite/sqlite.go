// Package sqlite is the local SequenceStore backed by a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
	"github.com/AaronLay10/nina-sequence-editor/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS sequences (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    items      INTEGER NOT NULL DEFAULT 0,
    payload    TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sequences_updated ON sequences(updated_at DESC);
`

// Store implements storage.SequenceStore on SQLite in WAL mode.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ storage.SequenceStore = (*Store)(nil)

// Open opens (or creates) the database at path and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// SaveSequence upserts the snapshot for s.ID.
func (st *Store) SaveSequence(ctx context.Context, s *sequence.Sequence) error {
	payload, err := sequence.Marshal(s)
	if err != nil {
		return err
	}
	items := sequence.ComputeStats(s).TotalItems

	const q = `
		INSERT INTO sequences (id, title, items, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title      = excluded.title,
			items      = excluded.items,
			payload    = excluded.payload,
			updated_at = excluded.updated_at`
	if _, err := st.db.ExecContext(ctx, q, s.ID, s.Title, items, string(payload), st.now().UnixNano()); err != nil {
		return fmt.Errorf("sqlite: save sequence %q: %w", s.ID, err)
	}
	return nil
}

// LoadSequence returns the stored sequence or storage.ErrNotFound.
func (st *Store) LoadSequence(ctx context.Context, id string) (*sequence.Sequence, error) {
	var payload string
	err := st.db.QueryRowContext(ctx, "SELECT payload FROM sequences WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load sequence %q: %w", id, err)
	}
	return sequence.Unmarshal([]byte(payload))
}

// LatestSequence returns the most recently saved sequence, or nil.
func (st *Store) LatestSequence(ctx context.Context) (*sequence.Sequence, error) {
	var payload string
	err := st.db.QueryRowContext(ctx,
		"SELECT payload FROM sequences ORDER BY updated_at DESC LIMIT 1").Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest sequence: %w", err)
	}
	return sequence.Unmarshal([]byte(payload))
}

// ListSequences returns summaries, newest first.
func (st *Store) ListSequences(ctx context.Context) ([]storage.Summary, error) {
	rows, err := st.db.QueryContext(ctx,
		"SELECT id, title, items, updated_at FROM sequences ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list sequences: %w", err)
	}
	defer rows.Close()

	var out []storage.Summary
	for rows.Next() {
		var sum storage.Summary
		var updated int64
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Items, &updated); err != nil {
			return nil, fmt.Errorf("sqlite: scan sequence: %w", err)
		}
		sum.UpdatedAt = time.Unix(0, updated).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteSequence removes the snapshot. Returns storage.ErrNotFound if absent.
func (st *Store) DeleteSequence(ctx context.Context, id string) error {
	res, err := st.db.ExecContext(ctx, "DELETE FROM sequences WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete sequence %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete sequence %q: %w", id, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Close closes the database.
func (st *Store) Close() error {
	return st.db.Close()
}
