package wait

import (
	"testing"
	"time"

	"github.com/kode4food/caravan/topic"
	"github.com/kode4food/timebox"

	"github.com/0STG0T/t1-solution-2/internal/util"
	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/events"
)

type (
	Wait struct {
		t        *testing.T
		consumer topic.Consumer[*timebox.Event]
		timeout  time.Duration
	}

	Predicate[T any] func(T) bool

	EventFilter Predicate[*timebox.Event]
)

const DefaultTimeout = time.Second * 5

func On(t *testing.T, consumer topic.Consumer[*timebox.Event]) *Wait {
	return &Wait{
		t:        t,
		consumer: consumer,
		timeout:  DefaultTimeout,
	}
}

func (w *Wait) WithTimeout(timeout time.Duration) *Wait {
	res := *w
	res.timeout = timeout
	return &res
}

// ForEvents waits for matching events from the consumer and returns them
func (w *Wait) ForEvents(count int, filter EventFilter) []*timebox.Event {
	w.t.Helper()

	deadline := time.NewTimer(w.timeout)
	defer deadline.Stop()

	res := make([]*timebox.Event, 0, count)
	for len(res) < count {
		select {
		case ev, ok := <-w.consumer.Receive():
			if !ok {
				w.t.Fatalf(
					"event consumer closed before receiving %d events", count,
				)
			}
			if !filter(ev) {
				continue
			}
			res = append(res, ev)
		case <-deadline.C:
			w.t.Fatalf("timeout waiting for %d events", count)
		}
	}
	return res
}

// ForEvent waits for a single matching event
func (w *Wait) ForEvent(filter EventFilter) *timebox.Event {
	w.t.Helper()
	return w.ForEvents(1, filter)[0]
}

// And composes event filters and returns true when all match
func And(filters ...EventFilter) EventFilter {
	return func(ev *timebox.Event) bool {
		for _, filter := range filters {
			if !filter(ev) {
				return false
			}
		}
		return true
	}
}

// Type creates a filter for a single event type
func Type(eventType api.EventType) EventFilter {
	return Types(eventType)
}

// Types creates a filter for the given event types
func Types(eventTypes ...api.EventType) EventFilter {
	if len(eventTypes) == 0 {
		return func(*timebox.Event) bool { return false }
	}
	lookup := make(util.Set[timebox.EventType], len(eventTypes))
	for _, et := range eventTypes {
		lookup.Add(timebox.EventType(et))
	}
	return func(ev *timebox.Event) bool {
		return ev != nil && lookup.Contains(ev.Type)
	}
}

// Flow matches events raised by any editor of one flow
func Flow(flowID api.FlowID) EventFilter {
	return EventFilter(events.FilterFlow(flowID))
}

// Editor matches events raised by one editor instance
func Editor(key timebox.AggregateID) EventFilter {
	return EventFilter(events.FilterAggregate(key))
}

// FlowEvent matches events of the given types raised by one flow editor
func FlowEvent(flowID api.FlowID, eventTypes ...api.EventType) EventFilter {
	return And(Flow(flowID), Types(eventTypes...))
}

// After matches events raised after the given store sequence
func After(seq int64) EventFilter {
	return func(ev *timebox.Event) bool {
		return ev != nil && ev.Sequence > seq
	}
}
