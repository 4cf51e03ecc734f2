package session

import (
	"context"
	"time"

	"github.com/AaronLay10/nina-sequence-editor/internal/events"
)

// DefaultAutosaveInterval applies when the configured interval is unset.
const DefaultAutosaveInterval = 5 * time.Minute

// RunAutosave saves the sequence every interval while it is dirty, until ctx
// is cancelled. A non-positive interval disables autosave.
func (s *Session) RunAutosave(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.autosave(ctx)
		}
	}
}

func (s *Session) autosave(ctx context.Context) bool {
	if !s.Dirty() {
		return false
	}
	if err := s.Save(ctx); err != nil {
		events.Emit("error", "autosave.failed", err.Error(), nil)
		return false
	}
	events.Emit("info", "autosave.completed", "", map[string]interface{}{
		"sequence_id": s.Sequence().ID,
	})
	return true
}
