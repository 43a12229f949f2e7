package random

import (
	"github.com/google/uuid"
)

// Random generates document identifiers and can be mocked for testing
type Random interface {
	// NewID returns a fresh identifier. Identifiers from the same source
	// sort in generation order.
	NewID() string
}

// UUIDRandom issues version 7 UUIDs, which embed a millisecond timestamp
// ahead of the random bits and therefore sort chronologically
type UUIDRandom struct{}

// New creates a new UUIDRandom
func New() *UUIDRandom {
	return &UUIDRandom{}
}

// NewID returns a new time-ordered UUID string
func (r *UUIDRandom) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the system entropy source does
		return uuid.NewString()
	}
	return id.String()
}
