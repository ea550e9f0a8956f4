package wait_test

import (
	"testing"

	"github.com/kode4food/caravan"
	"github.com/kode4food/caravan/message"
	"github.com/kode4food/timebox"
	"github.com/stretchr/testify/assert"

	"github.com/0STG0T/t1-solution-2/internal/assert/wait"
	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/events"
)

func newEvent(
	t *testing.T, flowID api.FlowID, seq int64, typ api.EventType,
) *timebox.Event {
	t.Helper()
	ev, err := events.NewFlowEvent(events.FlowKey(flowID), seq, typ, struct{}{})
	assert.NoError(t, err)
	return ev
}

func TestTypesFilter(t *testing.T) {
	filter := wait.Types(api.EventTypeItemMoved, api.EventTypeItemInserted)
	assert.False(t, filter(nil))
	assert.True(t, filter(newEvent(t, "a", 1, api.EventTypeItemMoved)))
	assert.False(t, filter(newEvent(t, "a", 1, api.EventTypeItemsReplaced)))
	assert.False(t, wait.Types()(newEvent(t, "a", 1, api.EventTypeItemMoved)))
}

func TestFlowEventFilter(t *testing.T) {
	filter := wait.FlowEvent("a", api.EventTypeItemsReplaced)
	assert.True(t, filter(newEvent(t, "a", 1, api.EventTypeItemsReplaced)))
	assert.False(t, filter(newEvent(t, "b", 1, api.EventTypeItemsReplaced)))
	assert.False(t, filter(newEvent(t, "a", 1, api.EventTypeItemMoved)))
}

func TestEditorFilter(t *testing.T) {
	current := events.EditorKey("a", "current")
	ev, err := events.NewFlowEvent(current, 1, api.EventTypeItemMoved, nil)
	assert.NoError(t, err)
	stale, err := events.NewFlowEvent(
		events.EditorKey("a", "stale"), 1, api.EventTypeItemMoved, nil,
	)
	assert.NoError(t, err)

	filter := wait.Editor(current)
	assert.True(t, filter(ev))
	assert.False(t, filter(stale))
	assert.True(t, wait.Flow("a")(stale))
}

func TestAfterFilter(t *testing.T) {
	filter := wait.After(2)
	assert.False(t, filter(newEvent(t, "a", 2, api.EventTypeItemMoved)))
	assert.True(t, filter(newEvent(t, "a", 3, api.EventTypeItemMoved)))
	assert.False(t, filter(nil))
}

func TestWaitForEvents(t *testing.T) {
	top := caravan.NewTopic[*timebox.Event]()
	prod := top.NewProducer()
	defer prod.Close()
	cons := top.NewConsumer()
	defer cons.Close()

	message.Send(prod, newEvent(t, "b", 1, api.EventTypeItemsReplaced))
	message.Send(prod, newEvent(t, "a", 1, api.EventTypeItemsReplaced))
	message.Send(prod, newEvent(t, "a", 2, api.EventTypeItemsReplaced))

	evs := wait.On(t, cons).ForEvents(2,
		wait.FlowEvent("a", api.EventTypeItemsReplaced),
	)
	assert.Len(t, evs, 2)
	assert.Equal(t, int64(1), evs[0].Sequence)
	assert.Equal(t, int64(2), evs[1].Sequence)
}
