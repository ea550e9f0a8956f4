package events

import (
	"slices"

	"github.com/kode4food/timebox"

	"github.com/0STG0T/t1-solution-2/pkg/api"
)

// EventFilter reports whether a change event is of interest
type EventFilter func(*timebox.Event) bool

// FilterEvents matches events of any of the given types
func FilterEvents(eventTypes ...api.EventType) EventFilter {
	lookup := map[timebox.EventType]bool{}
	for _, et := range eventTypes {
		lookup[timebox.EventType(et)] = true
	}
	return func(ev *timebox.Event) bool {
		return ev != nil && lookup[ev.Type]
	}
}

// FilterAggregate matches events raised for exactly the given aggregate
func FilterAggregate(id timebox.AggregateID) EventFilter {
	return func(ev *timebox.Event) bool {
		return ev != nil && slices.Equal(ev.AggregateID, id)
	}
}

// FilterFlow matches events raised by any editor instance of a flow
func FilterFlow(flowID api.FlowID) EventFilter {
	return func(ev *timebox.Event) bool {
		if ev == nil {
			return false
		}
		id, ok := FlowIDOf(ev)
		return ok && id == flowID
	}
}

// AndFilters matches when every filter matches
func AndFilters(filters ...EventFilter) EventFilter {
	return func(ev *timebox.Event) bool {
		for _, filter := range filters {
			if !filter(ev) {
				return false
			}
		}
		return true
	}
}

// OrFilters matches when any filter matches
func OrFilters(filters ...EventFilter) EventFilter {
	return func(ev *timebox.Event) bool {
		for _, filter := range filters {
			if filter(ev) {
				return true
			}
		}
		return false
	}
}
