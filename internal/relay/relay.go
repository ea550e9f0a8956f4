package relay

import (
	"context"
	"errors"
	"sync"

	"github.com/kode4food/caravan"
	"github.com/kode4food/caravan/message"
	"github.com/kode4food/caravan/topic"

	"github.com/0STG0T/t1-solution-2/pkg/api"
)

type (
	// Backend produces assistant replies for chat sessions
	Backend interface {
		Open(context.Context, api.SessionID) (Conversation, error)
		Close() error
	}

	// Conversation carries prompts for one session to the backend and its
	// replies back
	Conversation interface {
		Send(ctx context.Context, text string) error
		Replies() <-chan string
		Close() error
	}

	// EchoBackend answers every prompt with the prompt itself
	EchoBackend struct{}

	// echoConversation queues replies on a topic so Send never waits for
	// the reader
	echoConversation struct {
		prod   topic.Producer[string]
		cons   topic.Consumer[string]
		mu     sync.RWMutex
		closed bool
	}
)

const replyBufferSize = 16

var ErrConversationClosed = errors.New("conversation closed")

var _ Backend = EchoBackend{}

func (EchoBackend) Open(context.Context, api.SessionID) (Conversation, error) {
	t := caravan.NewTopic[string]()
	return &echoConversation{
		prod: t.NewProducer(),
		cons: t.NewConsumer(),
	}, nil
}

func (EchoBackend) Close() error {
	return nil
}

func (c *echoConversation) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConversationClosed
	}
	message.Send(c.prod, text)
	return nil
}

func (c *echoConversation) Replies() <-chan string {
	return c.cons.Receive()
}

func (c *echoConversation) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.prod.Close()
	c.cons.Close()
	return nil
}
