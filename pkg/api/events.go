package api

type (
	// EventType identifies the kind of change event raised by an editor
	EventType string

	// ItemsReplacedEvent is raised after every successful store replace. It
	// carries the full sequence so listeners never need a second read
	ItemsReplacedEvent struct {
		FlowID FlowID     `json:"flow_id"`
		Items  []FlowItem `json:"items"`
	}

	// ItemInsertedEvent is raised when the insertion gateway appends an item
	ItemInsertedEvent struct {
		FlowID FlowID   `json:"flow_id"`
		Item   FlowItem `json:"item"`
	}

	// ItemMovedEvent is raised when a drag gesture reorders the sequence
	ItemMovedEvent struct {
		FlowID FlowID `json:"flow_id"`
		ItemID ItemID `json:"item_id"`
		From   int    `json:"from"`
		To     int    `json:"to"`
	}

	// EditorClosedEvent is raised when an editor is released
	EditorClosedEvent struct {
		FlowID FlowID `json:"flow_id"`
	}
)

const (
	EventTypeItemsReplaced EventType = "items_replaced"
	EventTypeItemInserted  EventType = "item_inserted"
	EventTypeItemMoved     EventType = "item_moved"
	EventTypeEditorClosed  EventType = "editor_closed"
)
