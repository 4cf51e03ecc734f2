// Package events is the editor's structured event log. Every mutation,
// persistence step and observatory message is emitted here, kept in a ring
// buffer, pushed to live subscribers and optionally appended to Postgres.
package events

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"

	"github.com/AaronLay10/nina-sequence-editor/internal/storage/postgres"
)

const bufferSize = 256

var buffer = NewRing(bufferSize)

// seq numbers events; it is never reset, so it doubles as the emit total.
var seq atomic.Int64

// recordMu keeps Seq order, ring order and broadcast order identical.
var recordMu sync.Mutex

var (
	pgMu     sync.RWMutex
	pgClient *postgres.Client
)

// SetPostgresClient enables persistence of every emitted event.
func SetPostgresClient(client *postgres.Client) {
	pgMu.Lock()
	pgClient = client
	pgMu.Unlock()
}

// GetPostgresClient returns the persistence client, or nil.
func GetPostgresClient() *postgres.Client {
	pgMu.RLock()
	defer pgMu.RUnlock()
	return pgClient
}

type Event struct {
	Seq       int64                  `json:"seq"`
	Timestamp string                 `json:"ts"`
	Level     string                 `json:"level"`
	Name      string                 `json:"event"`
	Message   string                 `json:"msg,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Emit records a registered event and returns it encoded as one JSON line.
func Emit(level, name, msg string, fields map[string]interface{}) ([]byte, error) {
	if err := Validate(name); err != nil {
		return nil, err
	}

	ts := time.Now().UTC()
	e := record(Event{
		Timestamp: ts.Format(time.RFC3339Nano),
		Level:     level,
		Name:      name,
		Message:   msg,
		Fields:    fields,
	})
	persist(ts, e)

	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return b, nil
}

// record numbers e, buffers it and fans it out.
func record(e Event) Event {
	recordMu.Lock()
	defer recordMu.Unlock()

	e.Seq = seq.Add(1)
	buffer.Add(e)
	broadcast(e)
	return e
}

// persist appends e to Postgres. The first failure is reported as a
// system.error that is recorded but never persisted, so a dead database
// cannot recurse through Emit.
func persist(ts time.Time, e Event) {
	client := GetPostgresClient()
	if client == nil {
		return
	}
	err := client.Append(ts, e.Level, e.Name, e.Message, e.Fields)
	if err == nil || client.HasLoggedError() {
		return
	}
	client.MarkErrorLogged()
	record(Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     "error",
		Name:      "system.error",
		Message:   "postgres append failed",
		Fields: map[string]interface{}{
			"error":    err.Error(),
			"dropped":  e.Name,
			"event_ts": e.Timestamp,
		},
	})
}

// Snapshot returns every buffered event, oldest first.
func Snapshot() []Event {
	return buffer.Events()
}

// TotalCount returns the number of events emitted since startup. It is also
// the Seq of the latest event.
func TotalCount() int64 {
	return seq.Load()
}

// Clear empties the buffer. Seq keeps counting. Used by tests.
func Clear() {
	buffer.Clear()
}
