package factory

import (
	"context"
	"time"

	"github.com/mcoot/gamenight/internal/dependencies/mocks"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/auth"
	"github.com/mcoot/gamenight/internal/services/rating"
	"github.com/mcoot/gamenight/internal/storage/memory"
	"github.com/mcoot/gamenight/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
// and an in-memory store
func NewTestApp(scheme model.RatingScheme, authCfg auth.Config) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	store := memory.NewWithRandom(mockRandom)

	if authCfg.SessionDuration == 0 {
		authCfg.SessionDuration = auth.DefaultConfig().SessionDuration
	}

	app := newWithDependencies(store, mockClock, mockRandom, scheme, rating.ModeSequential, authCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// WaitFor polls cond until it holds or a second passes. Writes reach the
// feed asynchronously, so tests use this before reading derived state.
func (t *TestApp) WaitFor(cond func() bool) bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		if cond() {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
