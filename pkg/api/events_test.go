package api_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0STG0T/t1-solution-2/pkg/api"
)

func TestWebSocketEventMarshaling(t *testing.T) {
	data := json.RawMessage(`{"entries":[]}`)
	in := &api.WebSocketEvent{
		Type:        api.EventTypePreviewChanged,
		Data:        data,
		Timestamp:   1234567890,
		Sequence:    42,
		AggregateID: []string{"flow", "demo"},
	}

	jsonBytes, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"id":["flow","demo"]`)

	var out api.WebSocketEvent
	err = json.Unmarshal(jsonBytes, &out)
	require.NoError(t, err)

	assert.Equal(t, in.Type, out.Type)
	assert.Equal(t, in.Timestamp, out.Timestamp)
	assert.Equal(t, in.Sequence, out.Sequence)
	assert.JSONEq(t, string(in.Data), string(out.Data))
}

func TestCommandResultOmitsEmptyError(t *testing.T) {
	ok, err := json.Marshal(api.CommandResult{
		Type: api.MessageResult, Command: api.MessageInsert, Ok: true,
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"result","command":"insert","ok":true}`, string(ok),
	)
}

func TestEventTypes(t *testing.T) {
	eventTypes := []api.EventType{
		api.EventTypeItemsReplaced,
		api.EventTypeItemInserted,
		api.EventTypeItemMoved,
		api.EventTypeEditorClosed,
		api.EventTypePreviewChanged,
	}

	seen := map[api.EventType]bool{}
	for _, et := range eventTypes {
		assert.NotEmpty(t, string(et))
		assert.False(t, seen[et])
		seen[et] = true
	}
}
