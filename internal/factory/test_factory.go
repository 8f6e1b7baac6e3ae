package factory

import (
	"time"

	"github.com/m4dpr0f/cjsr-sub004/internal/dependencies/clock"
	"github.com/m4dpr0f/cjsr-sub004/internal/dependencies/random"
	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage/memory"
	"github.com/m4dpr0f/cjsr-sub004/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App
}

// NewTestApp creates an App configured for testing: in-memory storage and
// fast race timers so full races complete in well under a second of
// countdown plus run time.
func NewTestApp() *TestApp {
	cfg := model.DefaultRaceConfig()
	cfg.TickInterval = 10 * time.Millisecond
	cfg.TimeLimit = 30 * time.Second

	app := newWithDependencies(memory.New(), clock.New(), random.New(), cfg, testutil.NopLogger())

	return &TestApp{App: app}
}

// LoadTestPrompts loads a small prompt pool for testing
func (t *TestApp) LoadTestPrompts() error {
	return t.PromptService.LoadPrompts([]string{
		"the rooster sprints across the dusty track",
		"keep your eyes on the words not the other racers",
		"a steady pace wins more races than a frantic burst",
	})
}
