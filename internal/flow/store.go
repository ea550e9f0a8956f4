package flow

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/kode4food/timebox"

	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/events"
	"github.com/0STG0T/t1-solution-2/pkg/log"
)

// Store holds the authoritative ordered collection of one editor. Replace
// is the only mutation entry point
type Store struct {
	bus    *Bus
	flowID api.FlowID
	key    timebox.AggregateID
	items  []api.FlowItem
	seq    int64
	mu     sync.RWMutex
}

// ErrInvariantViolation is returned when a replacement sequence would break
// the collection invariants. The stored sequence is left untouched
var ErrInvariantViolation = errors.New("flow invariant violation")

// NewStore creates an empty store raising change events on bus. A nil bus
// disables change events. Each store raises its events under its own
// aggregate key, so a reopened flow never sees those of an earlier editor
func NewStore(flowID api.FlowID, bus *Bus) *Store {
	return &Store{
		flowID: flowID,
		key:    events.EditorKey(flowID, uuid.NewString()),
		bus:    bus,
		items:  []api.FlowItem{},
	}
}

// FlowID returns the editor the store belongs to
func (s *Store) FlowID() api.FlowID {
	return s.flowID
}

// Key returns the aggregate ID the store raises its change events under
func (s *Store) Key() timebox.AggregateID {
	return s.key
}

// Read returns a copy of the current sequence
func (s *Store) Read() []api.FlowItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Snapshot returns a copy of the current sequence together with the number
// of replacements applied so far
func (s *Store) Snapshot() ([]api.FlowItem, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items), s.seq
}

// Sequence returns the number of replacements applied so far
func (s *Store) Sequence() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// Len returns the number of live items
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// IndexOf returns the position of an item, or -1 if it is not present
func (s *Store) IndexOf(id api.ItemID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.items, id)
}

// Replace swaps in a complete new sequence. The sequence must hold valid
// items with pairwise distinct IDs
func (s *Store) Replace(items []api.FlowItem) error {
	if err := CheckSequence(items); err != nil {
		slog.Warn("Rejected flow replacement",
			log.FlowID(s.flowID),
			log.Error(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]api.FlowItem{}, items...)
	s.seq++
	s.raise(api.EventTypeItemsReplaced, api.ItemsReplacedEvent{
		FlowID: s.flowID,
		Items:  slices.Clone(items),
	})
	return nil
}

// Raise publishes an auxiliary change event stamped with the current
// sequence
func (s *Store) Raise(typ api.EventType, data any) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.raise(typ, data)
}

func (s *Store) raise(typ api.EventType, data any) {
	if s.bus == nil {
		return
	}
	ev, err := events.NewFlowEvent(s.key, s.seq, typ, data)
	if err != nil {
		slog.Error("Failed to build change event",
			log.FlowID(s.flowID),
			slog.String("event_type", string(typ)),
			log.Error(err))
		return
	}
	s.bus.Publish(ev)
}

// CheckSequence verifies the collection invariants for a full sequence
func CheckSequence(items []api.FlowItem) error {
	seen := make(map[api.ItemID]struct{}, len(items))
	for idx := range items {
		if err := items[idx].Validate(); err != nil {
			return fmt.Errorf("%w: item %d: %w", ErrInvariantViolation, idx, err)
		}
		id := items[idx].ID
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %w: %s",
				ErrInvariantViolation, api.ErrDuplicateItemID, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func indexOf(items []api.FlowItem, id api.ItemID) int {
	return slices.IndexFunc(items, func(i api.FlowItem) bool {
		return i.ID == id
	})
}
