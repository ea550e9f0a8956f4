package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/0STG0T/t1-solution-2/internal/chat"
	"github.com/0STG0T/t1-solution-2/pkg/api"
)

// console drives one chat session from line-oriented input. Each line is
// submitted as it is entered
type console struct {
	in    io.Reader
	out   io.Writer
	quiet bool
	mu    sync.Mutex
}

var ErrConnectionLost = errors.New("chat connection lost")

var errSessionClosed = errors.New("chat session closed")

var (
	userColor      = color.New(color.FgCyan, color.Bold)
	assistantColor = color.New(color.FgMagenta, color.Bold)
	successColor   = color.New(color.FgGreen)
	failureColor   = color.New(color.FgRed)
	hintColor      = color.New(color.Faint)
)

func (c *console) run(ctx context.Context, endpoint string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess, err := chat.Mount(ctx, chat.Config{
		Endpoint:  endpoint,
		Notifier:  chat.NotifierFunc(c.notify),
		OnMessage: c.message,
	})
	if err != nil {
		return err
	}
	defer sess.Unmount()

	lines := make(chan string)
	go c.readLines(lines)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					cancel()
					return nil
				}
				c.submit(sess, line)
			}
		}
	})
	g.Go(func() error {
		select {
		case <-sess.Done():
			if sess.State() == chat.StateErrored {
				return ErrConnectionLost
			}
			return errSessionClosed
		case <-gctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errSessionClosed) {
		return err
	}
	return nil
}

// readLines never returns on a blocked reader. The goroutine is abandoned
// when the session ends first
func (c *console) readLines(lines chan<- string) {
	defer close(lines)
	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		lines <- sc.Text()
	}
}

func (c *console) submit(sess *chat.Session, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if !sess.SendMessage(line) {
		c.print(hintColor, "(not connected, message not sent)\n")
	}
}

func (c *console) message(msg api.ChatMessage) {
	switch msg.Sender {
	case api.SenderAssistant:
		c.line(assistantColor, "assistant> ", msg.Text)
	case api.SenderUser:
		c.line(userColor, "you> ", msg.Text)
	}
}

func (c *console) notify(n chat.Notification) {
	if c.quiet {
		return
	}
	col := successColor
	if n.Kind == chat.NotifyFailure {
		col = failureColor
	}
	c.print(col, fmt.Sprintf("* %s: %s\n", n.Title, n.Description))
}

func (c *console) line(col *color.Color, prefix, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = col.Fprint(c.out, prefix)
	_, _ = fmt.Fprintln(c.out, text)
}

func (c *console) print(col *color.Color, s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = col.Fprint(c.out, s)
}
