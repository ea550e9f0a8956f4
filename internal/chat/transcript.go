package chat

import (
	"slices"
	"sync"

	"github.com/0STG0T/t1-solution-2/pkg/api"
)

// Transcript is the append-only record of messages exchanged in a session.
// Entries are never changed or removed
type Transcript struct {
	msgs []api.ChatMessage
	mu   sync.RWMutex
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{msgs: []api.ChatMessage{}}
}

// Append adds a message to the end of the transcript
func (t *Transcript) Append(msg api.ChatMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.msgs = append(t.msgs, msg)
}

// Messages returns a copy of the transcript in order
func (t *Transcript) Messages() []api.ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.msgs)
}

// Len returns the number of messages
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.msgs)
}
