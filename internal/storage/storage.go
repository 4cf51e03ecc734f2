// Package storage defines persistence of whole sequence snapshots.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// ErrNotFound is returned when a sequence id has no stored snapshot.
var ErrNotFound = errors.New("sequence not found")

// Summary describes a stored sequence without its tree.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Items     int       `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SequenceStore saves and loads whole sequences keyed by sequence id.
type SequenceStore interface {
	SaveSequence(ctx context.Context, s *sequence.Sequence) error
	LoadSequence(ctx context.Context, id string) (*sequence.Sequence, error)
	// LatestSequence returns the most recently saved sequence, or nil when
	// the store is empty.
	LatestSequence(ctx context.Context) (*sequence.Sequence, error)
	ListSequences(ctx context.Context) ([]Summary, error)
	DeleteSequence(ctx context.Context, id string) error
	Close() error
}
