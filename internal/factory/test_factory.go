package factory

import (
	"time"

	"github.com/mcoot/baseballgame-go/internal/dependencies/mocks"
	"github.com/mcoot/baseballgame-go/internal/storage/memory"
	"github.com/mcoot/baseballgame-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp(cfg Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	logger := cfg.Logger
	if logger == nil {
		logger = testutil.NopLogger()
	}
	app, err := newWithDependencies(store, mockClock, mockRandom, cfg, logger)
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// QueueSecrets makes the next game deal the given secret permutations in
// order, one per player or team
func (t *TestApp) QueueSecrets(perms ...[]int) {
	for _, p := range perms {
		t.MockRandom.QueuePerm(p...)
	}
}
