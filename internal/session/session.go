// Package session serialises access to a single editor store and connects it
// to persistence: a sequence store, an opened JSON file and autosave.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AaronLay10/nina-sequence-editor/internal/editor"
	"github.com/AaronLay10/nina-sequence-editor/internal/events"
	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
	"github.com/AaronLay10/nina-sequence-editor/internal/storage"
)

// ErrNoTarget is returned by Save when neither a store nor a file is attached.
var ErrNoTarget = errors.New("no storage or file configured")

// Session owns an editor.Store and guards it with a mutex.
type Session struct {
	mu    sync.Mutex
	store *editor.Store
	repo  storage.SequenceStore
	path  string

	// onDisk is the encoded sequence last written to or read from path.
	onDisk  []byte
	savedAt time.Time
}

// New wraps store. repo may be nil.
func New(store *editor.Store, repo storage.SequenceStore) *Session {
	return &Session{store: store, repo: repo}
}

// Do runs fn with exclusive access to the store.
func (s *Session) Do(fn func(st *editor.Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.store)
}

// Sequence returns a copy of the current sequence.
func (s *Session) Sequence() *sequence.Sequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Sequence()
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Dirty()
}

// Path returns the file the sequence was opened from, if any.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// LastSaved returns the time of the last successful Save, or the zero time.
func (s *Session) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedAt
}

// HasStorage reports whether a sequence store is attached.
func (s *Session) HasStorage() bool {
	return s.repo != nil
}

// Save writes the current sequence to the attached store and to the opened
// file, then clears the dirty flag.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	seq := s.store.Sequence()
	path := s.path
	s.mu.Unlock()

	if s.repo == nil && path == "" {
		return ErrNoTarget
	}
	if s.repo != nil {
		if err := s.repo.SaveSequence(ctx, seq); err != nil {
			return fmt.Errorf("save sequence: %w", err)
		}
	}
	if path != "" {
		if err := sequence.SaveFile(path, seq); err != nil {
			return fmt.Errorf("save sequence: %w", err)
		}
	}

	s.mu.Lock()
	// A mutation between snapshot and here keeps the store dirty.
	if sameSnapshot(s.store.Sequence(), seq) {
		s.store.MarkSaved()
	}
	if path != "" && path == s.path {
		s.onDisk = encode(seq)
	}
	s.savedAt = time.Now()
	s.mu.Unlock()

	events.Emit("info", "sequence.saved", "", map[string]interface{}{
		"sequence_id": seq.ID,
		"title":       seq.Title,
		"file":        path,
	})
	return nil
}

// Load replaces the current sequence with a stored one.
func (s *Session) Load(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrNoTarget
	}
	seq, err := s.repo.LoadSequence(ctx, id)
	if err != nil {
		return fmt.Errorf("load sequence %s: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.LoadSequence(seq)
	s.path = ""
	s.onDisk = nil
	return nil
}

// List returns the stored sequences.
func (s *Session) List(ctx context.Context) ([]storage.Summary, error) {
	if s.repo == nil {
		return nil, ErrNoTarget
	}
	return s.repo.ListSequences(ctx)
}

// OpenFile loads a sequence file and remembers its path for Save and Reload.
func (s *Session) OpenFile(path string) error {
	seq, err := sequence.LoadFile(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.LoadSequence(seq)
	s.path = path
	s.onDisk = encode(seq)
	return nil
}

// ReloadFile re-reads the opened file after an external change. History and
// selection are reset. Content equal to the last save or load is ignored, and
// a real change is not applied over unsaved edits: an editor.warning reports
// the conflict and the next Save overwrites the file.
func (s *Session) ReloadFile() error {
	s.mu.Lock()
	path := s.path
	s.mu.Unlock()
	if path == "" {
		return errors.New("no file opened")
	}

	seq, err := sequence.LoadFile(path)
	if err != nil {
		return err
	}

	data := encode(seq)

	s.mu.Lock()
	defer s.mu.Unlock()
	if path != s.path || bytes.Equal(data, s.onDisk) {
		return nil
	}
	if s.store.Dirty() {
		events.Emit("warning", "editor.warning", "sequence file changed with unsaved edits", map[string]interface{}{
			"op":     "reloadFile",
			"id":     path,
			"reason": "file changed on disk while the sequence has unsaved edits",
		})
		return nil
	}
	s.store.LoadSequence(seq)
	s.onDisk = data
	events.Emit("info", "sequence.reloaded", "", map[string]interface{}{
		"sequence_id": seq.ID,
		"file":        path,
	})
	return nil
}

// encode returns the canonical encoding of seq, or nil if it cannot be
// encoded.
func encode(seq *sequence.Sequence) []byte {
	b, err := sequence.Marshal(seq)
	if err != nil {
		return nil
	}
	return b
}

func sameSnapshot(a, b *sequence.Sequence) bool {
	x, y := encode(a), encode(b)
	return x != nil && bytes.Equal(x, y)
}
