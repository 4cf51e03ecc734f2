// Package editor implements the in-memory sequence editing model: tree
// mutations over the three sequence areas, selection and clipboard,
// snapshot-based undo/redo and derived queries.
//
// A Store is not safe for concurrent use. Every mutation runs to completion
// before the next one starts; see package session for a locked wrapper.
package editor

import (
	"github.com/AaronLay10/nina-sequence-editor/internal/catalog"
	"github.com/AaronLay10/nina-sequence-editor/internal/events"
	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// End as an insert index appends to the list.
const End = -1

// Store owns the live sequence and all editor state around it.
type Store struct {
	seq       *sequence.Sequence
	catalog   *catalog.Catalog
	history   *History
	selection Selection
	clipboard *Clipboard
	view      View
	dirty     bool
}

// NewStore creates a store holding an empty sequence.
// A nil catalog uses the built-in definitions; a limit below 2 uses
// DefaultHistoryLimit.
func NewStore(cat *catalog.Catalog, historyLimit int) *Store {
	if cat == nil {
		cat = catalog.Builtin()
	}
	return &Store{
		seq:       sequence.New(""),
		catalog:   cat,
		history:   newHistory(historyLimit),
		selection: emptySelection(),
		view:      defaultView(),
	}
}

// Catalog returns the entity catalog used by the factory operations.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// Sequence returns a deep copy of the live sequence.
func (s *Store) Sequence() *sequence.Sequence {
	return s.seq.Clone()
}

// NewSequence replaces the live sequence with an empty one and resets
// history, selection and clipboard.
func (s *Store) NewSequence(title string) *sequence.Sequence {
	s.replace(sequence.New(title))
	s.emit("sequence.created", map[string]interface{}{
		"sequence_id": s.seq.ID,
		"title":       s.seq.Title,
	})
	return s.seq.Clone()
}

// LoadSequence replaces the live sequence with a copy of seq. No history
// snapshot is seeded, so undo is unavailable until the next mutation.
func (s *Store) LoadSequence(seq *sequence.Sequence) bool {
	if seq == nil {
		s.warn("loadSequence", "", "sequence is nil")
		return false
	}
	s.replace(seq.Clone())
	s.emit("sequence.loaded", map[string]interface{}{
		"sequence_id": s.seq.ID,
		"title":       s.seq.Title,
	})
	return true
}

func (s *Store) replace(seq *sequence.Sequence) {
	s.seq = seq
	s.history.reset()
	s.selection = emptySelection()
	s.clipboard = nil
	s.dirty = false
}

// SetTitle renames the sequence.
func (s *Store) SetTitle(title string) bool {
	s.record()
	if title == "" {
		s.warn("setTitle", s.seq.ID, "title is empty")
		return false
	}
	s.seq.Title = title
	s.emit("sequence.renamed", map[string]interface{}{
		"sequence_id": s.seq.ID,
		"title":       title,
	})
	return true
}

// Dirty reports whether the sequence changed since the last MarkSaved.
func (s *Store) Dirty() bool {
	return s.dirty
}

// MarkSaved clears the dirty flag.
func (s *Store) MarkSaved() {
	s.dirty = false
}

// History exposes the undo stack for inspection.
func (s *Store) History() *History {
	return s.history
}

// Undo restores the previous snapshot. Returns false at the boundary.
func (s *Store) Undo() bool {
	prev := s.history.undo(s.seq)
	if prev == nil {
		return false
	}
	s.seq = prev
	s.dirty = true
	s.pruneSelection()
	s.emit("history.undo", map[string]interface{}{
		"index":  s.history.Index(),
		"length": s.history.Len(),
	})
	return true
}

// Redo re-applies the next snapshot. Returns false at the boundary.
func (s *Store) Redo() bool {
	next := s.history.redo()
	if next == nil {
		return false
	}
	s.seq = next
	s.dirty = true
	s.pruneSelection()
	s.emit("history.redo", map[string]interface{}{
		"index":  s.history.Index(),
		"length": s.history.Len(),
	})
	return true
}

// record snapshots the live sequence before a structural mutation.
func (s *Store) record() {
	s.history.push(s.seq)
	s.dirty = true
}

func (s *Store) emit(name string, fields map[string]interface{}) {
	events.Emit("info", name, "", fields)
}

func (s *Store) warn(op, id, reason string) {
	events.Emit("warning", "editor.warning", reason, map[string]interface{}{
		"op":     op,
		"id":     id,
		"reason": reason,
	})
}
