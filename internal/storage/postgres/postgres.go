package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	_ "github.com/lib/pq"

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
	"github.com/AaronLay10/nina-sequence-editor/internal/storage"
)

// EventRow represents an event stored in Postgres.
type EventRow struct {
	EventID   int64                  `json:"event_id"`
	Timestamp time.Time              `json:"ts"`
	Level     string                 `json:"level"`
	Event     string                 `json:"event"`
	Message   *string                `json:"msg,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	EditorID  string                 `json:"editor_id"`
}

// Client manages the Postgres connection for the event log and the shared
// sequence store.
type Client struct {
	db       *sql.DB
	editorID string

	mu          sync.Mutex
	errorLogged bool
}

var _ storage.SequenceStore = (*Client)(nil)

// New creates a new Postgres client using environment variables.
// Returns nil if connection fails (caller should handle gracefully).
func New(editorID string) (*Client, error) {
	db, err := sql.Open("postgres", ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	client := &Client{
		db:       db,
		editorID: editorID,
	}

	if err := client.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return client, nil
}

// ConnString builds a lib/pq connection string from the PG* environment.
func ConnString() string {
	host := getEnv("PGHOST", "127.0.0.1")
	port := getEnv("PGPORT", "5432")
	user := getEnv("PGUSER", "ninaseq")
	dbname := getEnv("PGDATABASE", "ninaseq")
	password := os.Getenv("PGPASSWORD")

	if password != "" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable",
		host, port, user, dbname)
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func (c *Client) createTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			event_id   BIGSERIAL PRIMARY KEY,
			ts         TIMESTAMPTZ NOT NULL,
			level      TEXT NOT NULL,
			event      TEXT NOT NULL,
			msg        TEXT,
			fields     JSONB,
			editor_id  TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts DESC);
		CREATE INDEX IF NOT EXISTS idx_events_editor_id ON events(editor_id);

		CREATE TABLE IF NOT EXISTS sequences (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			items      INTEGER NOT NULL DEFAULT 0,
			payload    JSONB NOT NULL,
			editor_id  TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sequences_updated ON sequences(editor_id, updated_at DESC);
	`
	_, err := c.db.Exec(query)
	return err
}

// Ping checks the connection. Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Append writes one event row for this editor.
func (c *Client) Append(ts time.Time, level, event, msg string, fields map[string]interface{}) error {
	var fieldsJSON []byte
	if fields != nil {
		b, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("postgres: encode fields of %s: %w", event, err)
		}
		fieldsJSON = b
	}
	_, err := c.db.Exec(`
		INSERT INTO events (ts, level, event, msg, fields, editor_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
	`, ts, level, event, msg, fieldsJSON, c.editorID)
	return err
}

// EventQuery selects rows of this editor's event log.
type EventQuery struct {
	// Prefix restricts event names, e.g. "sequence.". Empty matches all.
	Prefix string
	// Limit defaults to 200 and is capped at 10000.
	Limit int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Query returns matching events, newest first.
func (c *Client) Query(ctx context.Context, q EventQuery) ([]EventRow, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 200
	}
	limit = min(limit, 10000)

	rows, err := c.db.QueryContext(ctx, `
		SELECT event_id, ts, level, event, msg, fields, editor_id
		FROM events
		WHERE editor_id = $1 AND event LIKE $2
		ORDER BY event_id DESC
		LIMIT $3
	`, c.editorID, likeEscaper.Replace(q.Prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: query events: %w", err)
	}
	defer rows.Close()

	var out []EventRow
	for rows.Next() {
		var e EventRow
		var fieldsJSON []byte
		var msg sql.NullString
		if err := rows.Scan(&e.EventID, &e.Timestamp, &e.Level, &e.Event, &msg, &fieldsJSON, &e.EditorID); err != nil {
			return nil, err
		}
		if msg.Valid {
			e.Message = &msg.String
		}
		if len(fieldsJSON) > 0 {
			if err := json.Unmarshal(fieldsJSON, &e.Fields); err != nil {
				return nil, fmt.Errorf("postgres: event %d fields: %w", e.EventID, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SaveSequence upserts the snapshot for s.ID.
func (c *Client) SaveSequence(ctx context.Context, s *sequence.Sequence) error {
	payload, err := sequence.Marshal(s)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sequences (id, title, items, payload, editor_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			items = EXCLUDED.items,
			payload = EXCLUDED.payload,
			editor_id = EXCLUDED.editor_id,
			updated_at = EXCLUDED.updated_at
	`
	_, err = c.db.ExecContext(ctx, query, s.ID, s.Title, sequence.ComputeStats(s).TotalItems,
		payload, c.editorID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save sequence %s: %w", s.ID, err)
	}
	return nil
}

// LoadSequence returns the stored sequence or storage.ErrNotFound.
func (c *Client) LoadSequence(ctx context.Context, id string) (*sequence.Sequence, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM sequences WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sequence %s: %w", id, err)
	}
	return sequence.Unmarshal(payload)
}

// LatestSequence returns this editor's most recently saved sequence, or nil.
func (c *Client) LatestSequence(ctx context.Context) (*sequence.Sequence, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx, `
		SELECT payload FROM sequences
		WHERE editor_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`, c.editorID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest sequence: %w", err)
	}
	return sequence.Unmarshal(payload)
}

// ListSequences returns summaries of every stored sequence, newest first.
func (c *Client) ListSequences(ctx context.Context) ([]storage.Summary, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, items, updated_at FROM sequences ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.Summary
	for rows.Next() {
		var s storage.Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Items, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSequence removes a stored sequence.
func (c *Client) DeleteSequence(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM sequences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sequence %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// MarkErrorLogged marks that an error has been logged (to avoid spam).
func (c *Client) MarkErrorLogged() {
	c.mu.Lock()
	c.errorLogged = true
	c.mu.Unlock()
}

// HasLoggedError returns true if an error has been logged.
func (c *Client) HasLoggedError() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorLogged
}
