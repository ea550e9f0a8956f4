package api_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0STG0T/t1-solution-2/pkg/api"
)

func TestFlowIDValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, api.FlowID("my-flow").Validate())
	})

	t.Run("empty", func(t *testing.T) {
		assert.ErrorIs(t, api.FlowID("").Validate(), api.ErrFlowIDEmpty)
	})

	t.Run("invalid", func(t *testing.T) {
		assert.ErrorIs(t,
			api.FlowID("my:flow").Validate(), api.ErrFlowIDInvalid,
		)
	})

	t.Run("too long", func(t *testing.T) {
		id := api.FlowID(strings.Repeat("a", api.MaxFlowIDLen+1))
		assert.ErrorIs(t, id.Validate(), api.ErrFlowIDTooLong)
	})
}
