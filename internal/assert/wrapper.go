package assert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/0STG0T/t1-solution-2/internal/config"
	"github.com/0STG0T/t1-solution-2/pkg/api"
)

// Wrapper wraps testify assertions with flow editor helpers
type Wrapper struct {
	*testing.T
	*assert.Assertions
	Require *assert.Assertions
}

// DefaultRetryInterval is the default polling interval for Eventually checks
const DefaultRetryInterval = 10 * time.Millisecond

// New creates a new test assertion wrapper with both assert and require from
// testify plus flow editor helpers
func New(t *testing.T) *Wrapper {
	return &Wrapper{
		T:          t,
		Assertions: assert.New(t),
		Require:    assert.New(t),
	}
}

// SequenceValid asserts that every item is valid and that no two items
// share an ID
func (w *Wrapper) SequenceValid(items []api.FlowItem) {
	w.Helper()
	seen := make(map[api.ItemID]bool, len(items))
	for _, item := range items {
		w.NoError(item.Validate())
		w.False(seen[item.ID], "duplicate item ID: %s", item.ID)
		seen[item.ID] = true
	}
}

// ItemOrder asserts the IDs of a sequence, in order
func (w *Wrapper) ItemOrder(items []api.FlowItem, ids ...api.ItemID) {
	w.Helper()
	got := make([]api.ItemID, len(items))
	for i, item := range items {
		got[i] = item.ID
	}
	if ids == nil {
		ids = []api.ItemID{}
	}
	w.Equal(ids, got)
}

// SameItems asserts that two sequences hold the same items, ignoring order
func (w *Wrapper) SameItems(expected, actual []api.FlowItem) {
	w.Helper()
	w.ElementsMatch(expected, actual)
}

// ConfigValid asserts that a configuration is valid
func (w *Wrapper) ConfigValid(cfg *config.Config) {
	w.Helper()
	w.NoError(cfg.Validate())
	w.True(cfg.APIPort > 0 && cfg.APIPort <= 65535)
	w.True(cfg.EditorCacheSize > 0)
}

// ConfigInvalid asserts that a configuration is invalid
func (w *Wrapper) ConfigInvalid(cfg *config.Config, contains string) {
	w.Helper()
	err := cfg.Validate()
	w.Error(err)
	if err != nil && contains != "" {
		w.Contains(err.Error(), contains)
	}
}

// Eventually runs a condition repeatedly until it passes or times out
func (w *Wrapper) Eventually(
	condition func() bool, timeout time.Duration, msg string, args ...any,
) {
	w.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(DefaultRetryInterval)
	}
	w.Fail(msg, args...)
}

// EventuallyWithError runs a condition that returns an error until it succeeds
// or times out
func (w *Wrapper) EventuallyWithError(
	condition func() error, timeout time.Duration, msg string, args ...any,
) {
	w.Helper()
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		err := condition()
		if err == nil {
			return
		}
		lastErr = err
		time.Sleep(DefaultRetryInterval)
	}
	if lastErr != nil {
		w.Fail(msg+": last error: "+lastErr.Error(), args...)
		return
	}
	w.Fail(msg, args...)
}
