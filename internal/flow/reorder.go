package flow

import (
	"slices"

	"github.com/0STG0T/t1-solution-2/pkg/api"
)

type (
	// Gesture is the drop report of a drag interaction, whatever input
	// device produced it. An empty OverID means the item was released
	// outside every droppable target
	Gesture struct {
		ActiveID api.ItemID
		OverID   api.ItemID
	}

	// Move describes a single-element relocation within a sequence
	Move struct {
		ItemID api.ItemID
		From   int
		To     int
	}

	// ReorderResult reports what a gesture did to the collection
	ReorderResult struct {
		Items []api.FlowItem
		Move  Move
		Moved bool
	}
)

// GestureFromRequest converts a wire drag report into a Gesture
func GestureFromRequest(req api.DragEndRequest) Gesture {
	return Gesture{ActiveID: req.ActiveID, OverID: req.OverID}
}

// Cancelled reports whether the gesture resolves to a no-op before any
// lookup happens
func (g Gesture) Cancelled() bool {
	return g.OverID == "" || g.OverID == g.ActiveID
}

// PlanMove resolves a gesture against a sequence. It returns false when the
// gesture is cancelled or either item is no longer present
func PlanMove(items []api.FlowItem, g Gesture) (Move, bool) {
	if g.Cancelled() {
		return Move{}, false
	}
	from := indexOf(items, g.ActiveID)
	to := indexOf(items, g.OverID)
	if from < 0 || to < 0 {
		return Move{}, false
	}
	return Move{ItemID: g.ActiveID, From: from, To: to}, true
}

// MoveItem returns a new slice with the element at from removed and then
// reinserted at to. Elements in between shift by one position. The input is
// never modified
func MoveItem[T any](items []T, from, to int) []T {
	res := slices.Clone(items)
	if from == to || from < 0 || to < 0 || from >= len(res) || to >= len(res) {
		return res
	}
	moved := res[from]
	res = slices.Delete(res, from, from+1)
	return slices.Insert(res, to, moved)
}

// Reorder applies a gesture to the store as one atomic replacement. A
// cancelled gesture or one naming a missing item leaves the store untouched
func Reorder(s *Store, g Gesture) (ReorderResult, error) {
	items := s.Read()
	mv, ok := PlanMove(items, g)
	if !ok {
		return ReorderResult{Items: items}, nil
	}

	next := MoveItem(items, mv.From, mv.To)
	if err := s.Replace(next); err != nil {
		return ReorderResult{Items: items}, err
	}
	return ReorderResult{Items: next, Move: mv, Moved: true}, nil
}

// NeighborTarget resolves a keyboard step of delta positions into the ID of
// the item the active item should be dropped over
func NeighborTarget(
	items []api.FlowItem, id api.ItemID, delta int,
) (api.ItemID, bool) {
	from := indexOf(items, id)
	if from < 0 || delta == 0 {
		return "", false
	}
	to := min(max(from+delta, 0), len(items)-1)
	if to == from {
		return "", false
	}
	return items[to].ID, true
}
