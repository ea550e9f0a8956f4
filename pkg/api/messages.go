package api

type (
	// InsertItemRequest is the add-item form submission
	InsertItemRequest struct {
		Type  ItemType `json:"type"`
		Label string   `json:"label"`
	}

	// DragEndRequest reports a finished drag gesture. OverID is empty when
	// the pointer was released outside any droppable item
	DragEndRequest struct {
		ActiveID ItemID `json:"active_id"`
		OverID   ItemID `json:"over_id,omitempty"`
	}

	// MoveItemRequest moves an item by a number of positions, as keyboard
	// reordering does
	MoveItemRequest struct {
		Delta int `json:"delta"`
	}

	// FlowResponse contains the current ordered collection of an editor
	FlowResponse struct {
		FlowID   FlowID     `json:"flow_id"`
		Items    []FlowItem `json:"items"`
		Count    int        `json:"count"`
		Sequence int64      `json:"sequence"`
	}

	// ItemInsertedResponse is returned when an insert succeeds
	ItemInsertedResponse struct {
		Item    FlowItem `json:"item"`
		Message string   `json:"message"`
	}

	// ReorderResponse reports the outcome of a drag gesture
	ReorderResponse struct {
		Items []FlowItem `json:"items"`
		Moved bool       `json:"moved"`
	}

	// PreviewResponse contains the read-only projection of a flow
	PreviewResponse struct {
		FlowID  FlowID         `json:"flow_id"`
		Entries []PreviewEntry `json:"entries"`
		Count   int            `json:"count"`
	}

	// ExportResponse names the object a flow snapshot was written to
	ExportResponse struct {
		Key   string `json:"key"`
		Count int    `json:"count"`
	}

	// HealthResponse provides service health information
	HealthResponse struct {
		Service string `json:"service"`
		Version string `json:"version"`
		Status  string `json:"status"`
		Editors int    `json:"editors"`
	}

	// MessageResponse contains a simple message string
	MessageResponse struct {
		Message string `json:"message"`
	}

	// ErrorResponse contains error details for failed requests
	ErrorResponse struct {
		Error  string `json:"error"`
		Status int    `json:"status,omitempty"`
	}
)
