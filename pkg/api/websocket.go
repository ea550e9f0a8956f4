package api

import "encoding/json"

type (
	// WebSocketEvent is a change event sent to preview stream clients
	WebSocketEvent struct {
		Type        EventType       `json:"type"`
		Data        json.RawMessage `json:"data"`
		AggregateID []string        `json:"id"`
		Timestamp   int64           `json:"timestamp"`
		Sequence    int64           `json:"sequence"`
	}

	// ClientMessage is any message a preview stream client sends. The Data
	// shape depends on Type
	ClientMessage struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data,omitempty"`
	}

	// SubscribedResult is sent to clients with the current preview when
	// they subscribe
	SubscribedResult struct {
		Type        string          `json:"type"`
		AggregateID []string        `json:"id"`
		Data        json.RawMessage `json:"data"`
		Sequence    int64           `json:"sequence"`
	}

	// CommandResult acknowledges a gesture command sent over the stream
	CommandResult struct {
		Type    string `json:"type"`
		Command string `json:"command"`
		Ok      bool   `json:"ok"`
		Error   string `json:"error,omitempty"`
	}
)

const (
	MessageSubscribe  = "subscribe"
	MessageSubscribed = "subscribed"
	MessageDragEnd    = "drag_end"
	MessageInsert     = "insert"
	MessageResult     = "result"

	// EventTypePreviewChanged carries a re-derived preview projection
	EventTypePreviewChanged EventType = "preview_changed"
)
