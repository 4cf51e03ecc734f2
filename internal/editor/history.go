package editor

import (
	"time"

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// DefaultHistoryLimit caps the number of snapshots kept for undo.
const DefaultHistoryLimit = 50

// HistoryEntry is one snapshot of the whole sequence.
type HistoryEntry struct {
	Sequence  *sequence.Sequence `json:"sequence"`
	Timestamp time.Time          `json:"timestamp"`
}

// History is a linear snapshot stack with a cursor.
//
// Mutations push the pre-mutation state and leave the cursor one past the
// last entry, meaning the live sequence is not stored yet. The first undo
// from that position stores the live sequence as well so redo can return
// to it.
type History struct {
	entries []HistoryEntry
	index   int
	limit   int
	now     func() time.Time
}

func newHistory(limit int) *History {
	if limit < 2 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit, now: time.Now}
}

// push records a clone of s, dropping any redo entries and evicting the
// oldest entry past the limit.
func (h *History) push(s *sequence.Sequence) {
	h.entries = h.entries[:h.index]
	h.append(s)
	h.index = len(h.entries)
}

func (h *History) append(s *sequence.Sequence) {
	h.entries = append(h.entries, HistoryEntry{Sequence: s.Clone(), Timestamp: h.now()})
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append([]HistoryEntry(nil), h.entries[over:]...)
	}
}

// undo returns the state to restore, or nil at the boundary.
func (h *History) undo(live *sequence.Sequence) *sequence.Sequence {
	if len(h.entries) == 0 {
		return nil
	}
	if h.index >= len(h.entries) {
		h.append(live)
		h.index = len(h.entries) - 1
	}
	if h.index == 0 {
		return nil
	}
	h.index--
	return h.entries[h.index].Sequence.Clone()
}

// redo returns the state to restore, or nil at the boundary.
func (h *History) redo() *sequence.Sequence {
	if h.index >= len(h.entries)-1 {
		return nil
	}
	h.index++
	return h.entries[h.index].Sequence.Clone()
}

func (h *History) reset() {
	h.entries = nil
	h.index = 0
}

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.entries) }

// Index returns the cursor position.
func (h *History) Index() int { return h.index }

// Limit returns the snapshot cap.
func (h *History) Limit() int { return h.limit }

// CanUndo reports whether undo would change the sequence.
func (h *History) CanUndo() bool {
	return len(h.entries) > 0 && (h.index >= len(h.entries) || h.index > 0)
}

// CanRedo reports whether redo would change the sequence.
func (h *History) CanRedo() bool {
	return h.index < len(h.entries)-1
}

// Entries returns the timestamps of stored snapshots, oldest first.
func (h *History) Entries() []time.Time {
	out := make([]time.Time, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.Timestamp
	}
	return out
}
