package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0STG0T/t1-solution-2/internal/chat"
	"github.com/0STG0T/t1-solution-2/pkg/api"
)

func TestTransitions(t *testing.T) {
	assert.True(t, chat.CanTransition(chat.StateConnecting, chat.StateOpen))
	assert.True(t, chat.CanTransition(chat.StateConnecting, chat.StateErrored))
	assert.True(t, chat.CanTransition(chat.StateOpen, chat.StateClosed))
	assert.True(t, chat.CanTransition(chat.StateOpen, chat.StateErrored))

	assert.False(t, chat.CanTransition(chat.StateOpen, chat.StateConnecting))
	assert.False(t, chat.CanTransition(chat.StateClosed, chat.StateOpen))
	assert.False(t, chat.CanTransition(chat.StateErrored, chat.StateOpen))
	assert.False(t, chat.CanTransition(chat.StateErrored, chat.StateClosed))
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, chat.StateClosed.IsTerminal())
	assert.True(t, chat.StateErrored.IsTerminal())
	assert.False(t, chat.StateOpen.IsTerminal())
	assert.False(t, chat.StateConnecting.IsTerminal())
}

func TestTranscriptIsAppendOnly(t *testing.T) {
	tr := chat.NewTranscript()
	assert.NotNil(t, tr.Messages())

	tr.Append(userMsg("a"))
	tr.Append(userMsg("b"))

	msgs := tr.Messages()
	msgs[0].Text = "changed"
	assert.Equal(t, "a", tr.Messages()[0].Text)
	assert.Equal(t, 2, tr.Len())
}

func userMsg(text string) api.ChatMessage {
	return api.ChatMessage{Text: text, Sender: api.SenderUser}
}
