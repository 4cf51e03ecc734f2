package sequence

import "github.com/google/uuid"

// NewID returns a fresh random identifier for a sequence entity.
func NewID() string {
	return uuid.NewString()
}
