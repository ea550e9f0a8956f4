package helpers

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"github.com/0STG0T/t1-solution-2/internal/config"
	"github.com/0STG0T/t1-solution-2/internal/flow"
	"github.com/0STG0T/t1-solution-2/pkg/api"
)

// TestEnv holds the components needed for editor and server testing
type TestEnv struct {
	Registry *flow.Registry
	Redis    *miniredis.Miniredis
	Config   *config.Config
	Cleanup  func()
}

// NewTestConfig creates a default configuration with debug logging and
// predictable item IDs
func NewTestConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.LogLevel = "debug"
	cfg.IDScheme = flow.IDSchemeCounter
	cfg.EditorCacheSize = 16
	return cfg
}

// NewTestEnv creates a registry configured from NewTestConfig plus an
// in-memory Redis server for the chat relay
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	server, err := miniredis.Run()
	assert.NoError(t, err)

	cfg := NewTestConfig()
	cfg.ChatRedis.Addr = server.Addr()
	cfg.ChatRedis.Prefix = "test-chat"

	reg, err := flow.NewRegistry(cfg.FlowOptions())
	assert.NoError(t, err)

	return &TestEnv{
		Registry: reg,
		Redis:    server,
		Config:   cfg,
		Cleanup: func() {
			reg.CloseAll()
			server.Close()
		},
	}
}

// Editor opens an editor on the environment's registry
func (e *TestEnv) Editor(t *testing.T, flowID api.FlowID) *flow.Editor {
	t.Helper()
	ed, err := e.Registry.Editor(flowID)
	assert.NoError(t, err)
	return ed
}

// WithTestEnv creates a test environment, executes the provided function
// with it, and ensures cleanup happens automatically
func WithTestEnv(t *testing.T, fn func(*TestEnv)) {
	t.Helper()
	env := NewTestEnv(t)
	defer env.Cleanup()
	fn(env)
}

// WithRegistry creates a test registry, executes the provided function with
// it, and ensures cleanup happens automatically
func WithRegistry(t *testing.T, fn func(*flow.Registry)) {
	t.Helper()
	WithTestEnv(t, func(env *TestEnv) {
		fn(env.Registry)
	})
}

// NewTestEditor creates a standalone editor seeded with the default items,
// minting counter IDs so the seed reads "1", "2", "3"
func NewTestEditor(t *testing.T, flowID api.FlowID) *flow.Editor {
	t.Helper()
	ed, err := flow.NewEditor(
		flowID, flow.NewBus(), flow.NewCounterMinter(0), flow.DefaultSeed(),
	)
	assert.NoError(t, err)
	t.Cleanup(ed.Close)
	return ed
}
