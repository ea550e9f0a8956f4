package events

import (
	"encoding/json"
	"time"

	"github.com/kode4food/timebox"

	"github.com/0STG0T/t1-solution-2/pkg/api"
)

const FlowPrefix = "flow"

// FlowKey returns the aggregate ID for a flow editor
func FlowKey[T ~string](flowID T) timebox.AggregateID {
	return timebox.NewAggregateID(FlowPrefix, timebox.ID(flowID))
}

// EditorKey returns the aggregate ID of one editor instance of a flow. A
// flow that is closed and reopened gets a fresh instance
func EditorKey[T ~string](flowID T, instance string) timebox.AggregateID {
	return timebox.NewAggregateID(
		FlowPrefix, timebox.ID(flowID), timebox.ID(instance),
	)
}

// IsFlowEvent returns true if the event belongs to a flow aggregate
func IsFlowEvent(ev *timebox.Event) bool {
	return len(ev.AggregateID) >= 2 && ev.AggregateID[0] == FlowPrefix
}

// FlowIDOf extracts the flow ID an event was raised for
func FlowIDOf(ev *timebox.Event) (api.FlowID, bool) {
	if !IsFlowEvent(ev) {
		return "", false
	}
	return api.FlowID(ev.AggregateID[1]), true
}

// NewFlowEvent marshals data into a change event envelope raised by the
// editor with the given aggregate key
func NewFlowEvent(
	key timebox.AggregateID, seq int64, typ api.EventType, data any,
) (*timebox.Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &timebox.Event{
		Type:        timebox.EventType(typ),
		AggregateID: key,
		Sequence:    seq,
		Timestamp:   time.Now(),
		Data:        payload,
	}, nil
}

// Decode unmarshals the payload of a change event
func Decode[T any](ev *timebox.Event) (T, error) {
	var res T
	err := json.Unmarshal(ev.Data, &res)
	return res, err
}
