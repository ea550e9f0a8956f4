package flow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kode4food/timebox"

	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/log"
)

type (
	// Editor owns one flow under edit: its store, its insertion gateway and
	// the loop that serializes every mutation
	Editor struct {
		store     *Store
		gateway   *Gateway
		loop      *Loop
		closeOnce sync.Once
	}

	// Candidate is an item that has not been given an ID yet
	Candidate struct {
		Type  api.ItemType
		Label string
	}
)

// NewEditor creates a running editor seeded with the given candidates.
// Seed items are minted like any other insert
func NewEditor(
	flowID api.FlowID, bus *Bus, mint IDMinter, seed []Candidate,
) (*Editor, error) {
	if err := flowID.Validate(); err != nil {
		return nil, err
	}
	store := NewStore(flowID, bus)
	e := &Editor{
		store:   store,
		gateway: NewGateway(store, mint),
		loop:    NewLoop(),
	}
	if err := e.seed(seed); err != nil {
		return nil, err
	}
	e.loop.Start()
	slog.Debug("Editor opened",
		log.FlowID(flowID),
		slog.Int("items", store.Len()))
	return e, nil
}

func (e *Editor) seed(seed []Candidate) error {
	if len(seed) == 0 {
		return nil
	}
	items := make([]api.FlowItem, 0, len(seed))
	for _, c := range seed {
		if err := Validate(c.Type, c.Label); err != nil {
			return err
		}
		id, err := e.gateway.mintUnused(items)
		if err != nil {
			return err
		}
		items = append(items, api.FlowItem{ID: id, Type: c.Type, Label: c.Label})
	}
	return e.store.Replace(items)
}

// FlowID returns the flow this editor owns
func (e *Editor) FlowID() api.FlowID {
	return e.store.FlowID()
}

// Key returns the aggregate ID this editor raises its change events under
func (e *Editor) Key() timebox.AggregateID {
	return e.store.Key()
}

// Items returns a copy of the current sequence
func (e *Editor) Items() []api.FlowItem {
	return e.store.Read()
}

// Snapshot returns the current sequence and its store sequence number
func (e *Editor) Snapshot() ([]api.FlowItem, int64) {
	return e.store.Snapshot()
}

// Preview projects the current sequence
func (e *Editor) Preview() Preview {
	return ProjectStore(e.store)
}

// Watch streams previews until ctx is done or the editor closes
func (e *Editor) Watch(ctx context.Context) <-chan Preview {
	return WatchPreview(ctx, e.store)
}

// Insert appends a new item built from a candidate
func (e *Editor) Insert(typ api.ItemType, label string) (api.FlowItem, error) {
	var item api.FlowItem
	var err error
	if derr := e.loop.Do(func() {
		item, err = e.gateway.Insert(typ, label)
	}); derr != nil {
		return api.FlowItem{}, derr
	}
	return item, err
}

// DragEnd applies the drop report of a drag gesture
func (e *Editor) DragEnd(g Gesture) (ReorderResult, error) {
	var res ReorderResult
	var err error
	if derr := e.loop.Do(func() {
		res, err = e.reorder(g)
	}); derr != nil {
		return ReorderResult{}, derr
	}
	return res, err
}

// MoveBy moves an item delta positions, as the keyboard sensor does. Steps
// past either end are clamped
func (e *Editor) MoveBy(id api.ItemID, delta int) (ReorderResult, error) {
	var res ReorderResult
	var err error
	if derr := e.loop.Do(func() {
		items := e.store.Read()
		over, ok := NeighborTarget(items, id, delta)
		if !ok {
			res = ReorderResult{Items: items}
			return
		}
		res, err = e.reorder(Gesture{ActiveID: id, OverID: over})
	}); derr != nil {
		return ReorderResult{}, derr
	}
	return res, err
}

func (e *Editor) reorder(g Gesture) (ReorderResult, error) {
	res, err := Reorder(e.store, g)
	if err != nil || !res.Moved {
		return res, err
	}
	e.store.Raise(api.EventTypeItemMoved, api.ItemMovedEvent{
		FlowID: e.FlowID(),
		ItemID: res.Move.ItemID,
		From:   res.Move.From,
		To:     res.Move.To,
	})
	slog.Debug("Item moved",
		log.FlowID(e.FlowID()),
		log.ItemID(res.Move.ItemID),
		slog.Int("from", res.Move.From),
		slog.Int("to", res.Move.To))
	return res, nil
}

// OpenForm shows the add-item form
func (e *Editor) OpenForm() error {
	return e.loop.Do(e.gateway.OpenForm)
}

// CancelForm hides the add-item form without changing the collection
func (e *Editor) CancelForm() error {
	return e.loop.Do(e.gateway.CancelForm)
}

// SetDraft records what the user typed into the form
func (e *Editor) SetDraft(typ api.ItemType, label string) error {
	return e.loop.Do(func() {
		e.gateway.SetDraft(typ, label)
	})
}

// Form returns the add-item form state
func (e *Editor) Form() (FormState, error) {
	var res FormState
	err := e.loop.Do(func() {
		res = e.gateway.Form()
	})
	return res, err
}

// Submit inserts the form's draft
func (e *Editor) Submit() (api.FlowItem, error) {
	var item api.FlowItem
	var err error
	if derr := e.loop.Do(func() {
		item, err = e.gateway.Submit()
	}); derr != nil {
		return api.FlowItem{}, derr
	}
	return item, err
}

// Close drains pending work and tells preview watchers the editor is gone
func (e *Editor) Close() {
	e.closeOnce.Do(func() {
		e.loop.Flush()
		e.store.Raise(api.EventTypeEditorClosed, api.EditorClosedEvent{
			FlowID: e.FlowID(),
		})
		slog.Debug("Editor closed",
			log.FlowID(e.FlowID()))
	})
}

// Restore replaces the whole collection, as loading a saved flow does
func (e *Editor) Restore(items []api.FlowItem) error {
	var err error
	if derr := e.loop.Do(func() {
		err = e.store.Replace(items)
	}); derr != nil {
		return derr
	}
	return err
}
