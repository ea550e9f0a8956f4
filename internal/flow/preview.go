package flow

import (
	"context"
	"log/slog"

	"github.com/kode4food/timebox"

	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/events"
	"github.com/0STG0T/t1-solution-2/pkg/log"
)

// Preview is one read-only rendering of the collection, tagged with the
// store sequence it was projected from
type Preview struct {
	FlowID   api.FlowID         `json:"flow_id"`
	Sequence int64              `json:"sequence"`
	Entries  []api.PreviewEntry `json:"entries"`
}

var previewEvents = events.FilterEvents(
	api.EventTypeItemsReplaced,
	api.EventTypeEditorClosed,
)

// Project maps each item, in order, to its preview entry
func Project(items []api.FlowItem) []api.PreviewEntry {
	res := make([]api.PreviewEntry, len(items))
	for i, item := range items {
		res[i] = item.Preview()
	}
	return res
}

// ProjectStore renders the current contents of a store
func ProjectStore(s *Store) Preview {
	items, seq := s.Snapshot()
	return Preview{
		FlowID:   s.FlowID(),
		Sequence: seq,
		Entries:  Project(items),
	}
}

// WatchPreview emits the current preview and then a fresh one after every
// replacement of the store. The channel closes when ctx is done or the
// editor owning the store is closed
func WatchPreview(ctx context.Context, s *Store) <-chan Preview {
	out := make(chan Preview, 1)
	if s.bus == nil {
		out <- ProjectStore(s)
		close(out)
		return out
	}

	cons := s.bus.Subscribe()
	first := ProjectStore(s)
	filter := events.AndFilters(events.FilterAggregate(s.Key()), previewEvents)

	go func() {
		defer close(out)
		defer cons.Close()

		if !sendPreview(ctx, out, first) {
			return
		}
		last := first.Sequence
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-cons.Receive():
				if !ok {
					return
				}
				if !filter(ev) {
					continue
				}
				if ev.Type == timebox.EventType(api.EventTypeEditorClosed) {
					return
				}
				if ev.Sequence <= last {
					continue
				}
				p, err := previewFromEvent(ev)
				if err != nil {
					slog.Error("Failed to decode replacement event",
						log.FlowID(s.FlowID()),
						log.Error(err))
					continue
				}
				last = p.Sequence
				if !sendPreview(ctx, out, p) {
					return
				}
			}
		}
	}()
	return out
}

func previewFromEvent(ev *timebox.Event) (Preview, error) {
	data, err := events.Decode[api.ItemsReplacedEvent](ev)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		FlowID:   data.FlowID,
		Sequence: ev.Sequence,
		Entries:  Project(data.Items),
	}, nil
}

func sendPreview(ctx context.Context, out chan<- Preview, p Preview) bool {
	select {
	case out <- p:
		return true
	case <-ctx.Done():
		return false
	}
}
