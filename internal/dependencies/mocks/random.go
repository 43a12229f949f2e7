package mocks

import (
	"fmt"

	"github.com/mcoot/gamenight/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IDResults is a queue of results to return from NewID
	IDResults []string
	idIndex   int

	// counter backs generated ids once the queue is exhausted
	counter int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// NewID returns the next queued id, or a sequential "id-0001" style id if
// none remain. Sequential ids keep append order stable in tests.
func (r *MockRandom) NewID() string {
	if r.idIndex < len(r.IDResults) {
		result := r.IDResults[r.idIndex]
		r.idIndex++
		return result
	}
	r.counter++
	return fmt.Sprintf("id-%04d", r.counter)
}

// QueueID adds values to the NewID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.IDResults = append(r.IDResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IDResults = nil
	r.idIndex = 0
	r.counter = 0
}
