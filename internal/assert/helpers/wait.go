package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/kode4food/caravan/topic"
	"github.com/kode4food/timebox"

	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/events"
)

// EventWaiter waits for an event matching a filter and decodes its payload.
// Create before triggering the action
type EventWaiter[T any] struct {
	consumer topic.Consumer[*timebox.Event]
	filter   events.EventFilter
	desc     string
}

// Wait blocks until a matching event arrives and returns its payload
func (w *EventWaiter[T]) Wait(
	t *testing.T, ctx context.Context, timeout time.Duration,
) T {
	t.Helper()
	defer w.consumer.Close()

	deadline := time.After(timeout)
	for {
		select {
		case event := <-w.consumer.Receive():
			if event != nil && w.filter(event) {
				res, err := events.Decode[T](event)
				if err != nil {
					t.Fatalf("decode %s: %v", w.desc, err)
				}
				return res
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s", w.desc)
		case <-ctx.Done():
			t.FailNow()
		}
	}
}

// SubscribeToReplace creates a waiter for the next replacement of a flow
func (e *TestEnv) SubscribeToReplace(
	flowID api.FlowID,
) *EventWaiter[api.ItemsReplacedEvent] {
	return subscribe[api.ItemsReplacedEvent](
		e, flowID, api.EventTypeItemsReplaced, "items replaced",
	)
}

// SubscribeToInsert creates a waiter for the next insert into a flow
func (e *TestEnv) SubscribeToInsert(
	flowID api.FlowID,
) *EventWaiter[api.ItemInsertedEvent] {
	return subscribe[api.ItemInsertedEvent](
		e, flowID, api.EventTypeItemInserted, "item inserted",
	)
}

// SubscribeToMove creates a waiter for the next reorder of a flow
func (e *TestEnv) SubscribeToMove(
	flowID api.FlowID,
) *EventWaiter[api.ItemMovedEvent] {
	return subscribe[api.ItemMovedEvent](
		e, flowID, api.EventTypeItemMoved, "item moved",
	)
}

// subscribe scopes the waiter to the open editor of a flow, if any, so events
// the bus still holds from earlier editors of the flow never match
func subscribe[T any](
	e *TestEnv, flowID api.FlowID, typ api.EventType, desc string,
) *EventWaiter[T] {
	consumer := e.Registry.Bus().Subscribe()
	var seq int64
	scope := events.FilterFlow(flowID)
	if ed, ok := e.Registry.Lookup(flowID); ok {
		_, seq = ed.Snapshot()
		scope = events.FilterAggregate(ed.Key())
	}
	return &EventWaiter[T]{
		consumer: consumer,
		filter: events.AndFilters(
			scope,
			events.FilterEvents(typ),
			func(ev *timebox.Event) bool { return ev.Sequence > seq },
		),
		desc: desc + " for " + string(flowID),
	}
}
