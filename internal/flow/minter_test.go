package flow_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/0STG0T/t1-solution-2/internal/flow"
	"github.com/0STG0T/t1-solution-2/pkg/api"
)

func TestCounterMinter(t *testing.T) {
	m := flow.NewCounterMinter(3)
	assert.Equal(t, api.ItemID("4"), m.Mint())
	assert.Equal(t, api.ItemID("5"), m.Mint())
}

func TestUUIDMinter(t *testing.T) {
	m := flow.UUIDMinter{}
	a := m.Mint()
	b := m.Mint()
	assert.NotEqual(t, a, b)

	_, err := uuid.Parse(string(a))
	assert.NoError(t, err)
}

func TestNewMinter(t *testing.T) {
	m, err := flow.NewMinter(flow.IDSchemeCounter)
	assert.NoError(t, err)
	assert.Equal(t, api.ItemID("1"), m.Mint())

	m, err = flow.NewMinter("")
	assert.NoError(t, err)
	assert.IsType(t, flow.UUIDMinter{}, m)

	_, err = flow.NewMinter("snowflake")
	assert.ErrorIs(t, err, flow.ErrUnknownIDScheme)
	assert.False(t, flow.IDScheme("snowflake").Valid())
	assert.True(t, flow.IDSchemeUUID.Valid())
}
