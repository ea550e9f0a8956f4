package flow

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/kode4food/caravan"
	"github.com/kode4food/caravan/message"
	"github.com/kode4food/caravan/topic"
)

type (
	// Loop executes queued tasks one at a time, in arrival order. Every
	// mutation of an editor runs on its loop, so gestures and inserts
	// never interleave
	Loop struct {
		queue    topic.Topic[Task]
		prod     topic.Producer[Task]
		cons     topic.Consumer[Task]
		stop     chan struct{}
		stopOnce sync.Once
		started  sync.Once
		runWG    sync.WaitGroup
		mu       sync.RWMutex
		closed   bool
	}

	Task func()
)

// ErrEditorClosed is returned for work submitted after an editor closed
var ErrEditorClosed = errors.New("editor closed")

// NewLoop creates a stopped task loop
func NewLoop() *Loop {
	queue := caravan.NewTopic[Task]()
	return &Loop{
		queue: queue,
		prod:  queue.NewProducer(),
		cons:  queue.NewConsumer(),
		stop:  make(chan struct{}),
	}
}

// Start begins processing queued tasks
func (l *Loop) Start() {
	l.started.Do(func() {
		l.runWG.Go(func() {
			for {
				select {
				case <-l.stop:
					return
				case fn, ok := <-l.cons.Receive():
					if !ok {
						return
					}
					l.runTask(fn)
				}
			}
		})
	})
}

// Enqueue adds a task to the queue without waiting for it
func (l *Loop) Enqueue(fn Task) error {
	if fn == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrEditorClosed
	}
	message.Send(l.prod, fn)
	return nil
}

// Do runs fn on the loop and waits for it to finish
func (l *Loop) Do(fn Task) error {
	done := make(chan struct{})
	err := l.Enqueue(func() {
		defer close(done)
		fn()
	})
	if err != nil {
		return err
	}
	<-done
	return nil
}

// Flush runs the tasks still queued and stops the loop. Later submissions
// fail with ErrEditorClosed
func (l *Loop) Flush() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	flushed := make(chan struct{})
	message.Send(l.prod, Task(func() { close(flushed) }))
	l.mu.Unlock()

	l.stopOnce.Do(func() {
		close(l.stop)
	})
	l.runWG.Wait()
	defer func() {
		l.prod.Close()
		l.cons.Close()
	}()
	for {
		select {
		case <-flushed:
			return
		case fn, ok := <-l.cons.Receive():
			if !ok {
				return
			}
			l.runTask(fn)
		}
	}
}

func (l *Loop) runTask(fn Task) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Editor task panic",
				slog.Any("panic", r))
		}
	}()
	fn()
}
