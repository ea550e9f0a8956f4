package flow

import (
	"sync"

	"github.com/kode4food/caravan"
	"github.com/kode4food/caravan/message"
	"github.com/kode4food/caravan/topic"
	"github.com/kode4food/timebox"
)

// Bus fans change events out to every subscribed consumer
type Bus struct {
	topic  topic.Topic[*timebox.Event]
	prod   topic.Producer[*timebox.Event]
	mu     sync.RWMutex
	closed bool
}

// NewBus creates an open change event bus
func NewBus() *Bus {
	t := caravan.NewTopic[*timebox.Event]()
	return &Bus{
		topic: t,
		prod:  t.NewProducer(),
	}
}

// Publish sends an event to all consumers. Events published after Close
// are dropped
func (b *Bus) Publish(ev *timebox.Event) {
	if ev == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	message.Send(b.prod, ev)
}

// Subscribe returns a consumer of the bus. The topic may still hold events
// published before the call, so consumers filter by aggregate key and
// sequence. Callers must Close it
func (b *Bus) Subscribe() topic.Consumer[*timebox.Event] {
	return b.topic.NewConsumer()
}

// Close stops accepting events
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.prod.Close()
}
