package session

import (
	"context"
	"errors"

	"github.com/AaronLay10/nina-sequence-editor/internal/events"
	"github.com/AaronLay10/nina-sequence-editor/internal/storage"
	"github.com/AaronLay10/nina-sequence-editor/internal/storage/postgres"
)

// DefaultRestoreLimit is the default number of events scanned for restore.
const DefaultRestoreLimit = 1000

// RestoredState is what the event log says about the last editing session.
type RestoredState struct {
	SequenceID string
	Saves      int
}

// RestoreFromEvents scans the sequence.* part of the event log for the last
// saved sequence. Returns nil if the client is nil or nothing was saved.
func RestoreFromEvents(ctx context.Context, client *postgres.Client, limit int) (*RestoredState, int, error) {
	if client == nil {
		return nil, 0, nil
	}
	if limit <= 0 {
		limit = DefaultRestoreLimit
	}

	rows, err := client.Query(ctx, postgres.EventQuery{Prefix: "sequence.", Limit: limit})
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}

	// Query returns newest first.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	state := &RestoredState{}
	for _, row := range rows {
		switch row.Event {
		case "sequence.saved":
			if id, ok := row.Fields["sequence_id"].(string); ok {
				state.SequenceID = id
				state.Saves++
			}
		case "sequence.created":
			state.SequenceID = ""
		}
	}
	if state.SequenceID == "" {
		return nil, len(rows), nil
	}
	return state, len(rows), nil
}

// Restore loads the sequence the previous run was editing: the one named by
// state when given and still stored, otherwise the most recently saved one.
// It reports whether anything was restored.
func (s *Session) Restore(ctx context.Context, state *RestoredState) (bool, error) {
	if s.repo == nil {
		return false, nil
	}

	if state != nil && state.SequenceID != "" {
		err := s.Load(ctx, state.SequenceID)
		if err == nil {
			EmitStartupRestore(state.SequenceID, "events")
			return true, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return false, err
		}
	}

	seq, err := s.repo.LatestSequence(ctx)
	if err != nil {
		return false, err
	}
	if seq == nil {
		return false, nil
	}
	s.mu.Lock()
	s.store.LoadSequence(seq)
	s.path = ""
	s.mu.Unlock()
	EmitStartupRestore(seq.ID, "latest")
	return true, nil
}

// EmitStartupRestore emits the system.startup_restore event.
func EmitStartupRestore(sequenceID, source string) {
	events.Emit("info", "system.startup_restore", "", map[string]interface{}{
		"sequence_id": sequenceID,
		"source":      source,
	})
}
