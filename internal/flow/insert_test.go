package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0STG0T/t1-solution-2/internal/flow"
	"github.com/0STG0T/t1-solution-2/pkg/api"
)

type fixedMinter struct {
	ids []api.ItemID
}

func (m *fixedMinter) Mint() api.ItemID {
	id := m.ids[0]
	m.ids = m.ids[1:]
	return id
}

func TestInsertAppends(t *testing.T) {
	s := seededStore(t)
	g := flow.NewGateway(s, flow.NewCounterMinter(3))

	item, err := g.Insert(api.ItemProcess, "Summarize")
	assert.NoError(t, err)
	assert.Equal(t, api.FlowItem{
		ID: "4", Type: api.ItemProcess, Label: "Summarize",
	}, item)

	items := s.Read()
	assert.Len(t, items, 4)
	assert.Equal(t, item, items[3])
	assert.Equal(t, seedItems(), items[:3])
}

func TestInsertKeepsLabelAsTyped(t *testing.T) {
	s := flow.NewStore("label", nil)
	g := flow.NewGateway(s, flow.NewCounterMinter(0))

	item, err := g.Insert(api.ItemOutput, "  padded ")
	assert.NoError(t, err)
	assert.Equal(t, "  padded ", item.Label)
}

func TestInsertRejectsEmptyLabel(t *testing.T) {
	s := seededStore(t)
	g := flow.NewGateway(s, flow.NewCounterMinter(3))

	for _, label := range []string{"", "   ", "\t\n"} {
		_, err := g.Insert(api.ItemInput, label)
		assert.ErrorIs(t, err, flow.ErrLabelRequired)
		assert.True(t, flow.IsValidationError(err))
	}
	assert.Equal(t, seedItems(), s.Read())
	assert.Equal(t, int64(1), s.Sequence())
}

func TestInsertRejectsInvalidType(t *testing.T) {
	s := seededStore(t)
	g := flow.NewGateway(s, flow.NewCounterMinter(3))

	_, err := g.Insert("decision", "Branch")
	assert.ErrorIs(t, err, api.ErrInvalidItemType)
	assert.True(t, flow.IsValidationError(err))
	assert.Len(t, s.Read(), 3)
}

func TestInsertRemintsCollidingID(t *testing.T) {
	s := seededStore(t)
	g := flow.NewGateway(s, &fixedMinter{ids: []api.ItemID{"2", "3", "x"}})

	item, err := g.Insert(api.ItemInput, "Fresh")
	assert.NoError(t, err)
	assert.Equal(t, api.ItemID("x"), item.ID)
}

func TestInsertIDSpaceExceeded(t *testing.T) {
	s := seededStore(t)
	repeat := make([]api.ItemID, 16)
	for i := range repeat {
		repeat[i] = "1"
	}
	g := flow.NewGateway(s, &fixedMinter{ids: repeat})

	_, err := g.Insert(api.ItemInput, "Never")
	assert.ErrorIs(t, err, flow.ErrIDSpaceExceeded)
	assert.Len(t, s.Read(), 3)
}

func TestInsertIDsStayUniqueAfterReorder(t *testing.T) {
	s := seededStore(t)
	g := flow.NewGateway(s, flow.NewCounterMinter(3))

	_, err := flow.Reorder(s, flow.Gesture{ActiveID: "3", OverID: "1"})
	assert.NoError(t, err)
	for range 5 {
		_, err := g.Insert(api.ItemProcess, "step")
		assert.NoError(t, err)
	}

	seen := map[api.ItemID]bool{}
	for _, item := range s.Read() {
		assert.False(t, seen[item.ID])
		seen[item.ID] = true
	}
	assert.Len(t, seen, 8)
}

func TestFormLifecycle(t *testing.T) {
	s := seededStore(t)
	g := flow.NewGateway(s, flow.NewCounterMinter(3))

	form := g.Form()
	assert.False(t, form.Open)
	assert.Equal(t, api.ItemInput, form.Type)

	_, err := g.Submit()
	assert.ErrorIs(t, err, flow.ErrFormClosed)

	g.OpenForm()
	assert.False(t, g.CanSubmit())
	g.SetDraft(api.ItemOutput, "Reply")
	assert.True(t, g.CanSubmit())

	item, err := g.Submit()
	assert.NoError(t, err)
	assert.Equal(t, api.ItemOutput, item.Type)
	assert.Equal(t, "Reply", item.Label)

	form = g.Form()
	assert.False(t, form.Open)
	assert.Empty(t, form.Label)
	assert.Len(t, s.Read(), 4)
}

func TestFormSubmitFailureKeepsDraft(t *testing.T) {
	s := seededStore(t)
	g := flow.NewGateway(s, flow.NewCounterMinter(3))

	g.OpenForm()
	g.SetDraft(api.ItemProcess, "   ")
	_, err := g.Submit()
	assert.ErrorIs(t, err, flow.ErrLabelRequired)

	form := g.Form()
	assert.True(t, form.Open)
	assert.Equal(t, "   ", form.Label)
	assert.Len(t, s.Read(), 3)
}

func TestFormCancel(t *testing.T) {
	s := seededStore(t)
	g := flow.NewGateway(s, flow.NewCounterMinter(3))

	g.OpenForm()
	g.SetDraft(api.ItemProcess, "Draft")
	g.CancelForm()

	assert.False(t, g.Form().Open)
	assert.Equal(t, seedItems(), s.Read())
}
