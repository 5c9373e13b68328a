package factory

import (
	"time"

	"github.com/mcoot/bvzombies/internal/dependencies/mocks"
	"github.com/mcoot/bvzombies/internal/services/auth"
	"github.com/mcoot/bvzombies/internal/storage/memory"
	"github.com/mcoot/bvzombies/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App with a mocked clock, talking to the API at apiBaseURL
func NewTestApp(apiBaseURL string) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	app := newWithDependencies(memory.New(), mockClock, Config{
		APIBaseURL:    apiBaseURL,
		RedirectDelay: time.Millisecond,
	}, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}

// TestAPI extends API with test-specific helpers
type TestAPI struct {
	*API

	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestAPI creates an API with mocked dependencies and in-memory storage
func NewTestAPI(authCfg auth.Config) *TestAPI {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	return &TestAPI{
		API:        newAPIWithDependencies(memory.New(), mockClock, mockRandom, authCfg),
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
