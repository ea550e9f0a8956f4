package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/0STG0T/t1-solution-2/internal/assert/helpers"
	"github.com/0STG0T/t1-solution-2/internal/server"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

const consoleTimeout = 2 * time.Second

func init() {
	color.NoColor = true
	gin.SetMode(gin.TestMode)
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func chatServer(t *testing.T) string {
	t.Helper()
	env := helpers.NewTestEnv(t)
	srv := server.NewServer(env.Registry, nil, nil)
	hs := httptest.NewServer(srv.SetupRoutes())
	t.Cleanup(func() {
		srv.CloseWebSockets()
		hs.Close()
		env.Cleanup()
	})
	return "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws"
}

func TestConsoleRoundTrip(t *testing.T) {
	endpoint := chatServer(t)
	in, feed := io.Pipe()
	out := &syncBuffer{}

	c := &console{in: in, out: out}
	done := make(chan error, 1)
	go func() {
		done <- c.run(context.Background(), endpoint)
	}()

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "* Connected")
	}, consoleTimeout, 10*time.Millisecond)

	_, err := io.WriteString(feed, "   \nhello there\n")
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "assistant> hello there")
	}, consoleTimeout, 10*time.Millisecond)
	assert.Contains(t, out.String(), "you> hello there")
	assert.Equal(t, 1, strings.Count(out.String(), "you> "))

	_ = feed.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(consoleTimeout):
		t.Fatal("console did not stop after input ended")
	}
}

func TestConsoleConnectionError(t *testing.T) {
	out := &syncBuffer{}
	in, feed := io.Pipe()
	defer func() { _ = feed.Close() }()

	c := &console{in: in, out: out}
	err := c.run(context.Background(), "ws://127.0.0.1:1/ws")
	assert.ErrorIs(t, err, ErrConnectionLost)
	assert.Contains(t, out.String(), "* Connection error")
}

func TestConsoleQuiet(t *testing.T) {
	out := &syncBuffer{}
	in, feed := io.Pipe()
	defer func() { _ = feed.Close() }()

	c := &console{in: in, out: out, quiet: true}
	err := c.run(context.Background(), "ws://127.0.0.1:1/ws")
	assert.ErrorIs(t, err, ErrConnectionLost)
	assert.Empty(t, out.String())
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()
	assert.NoError(t, cmd.ParseFlags([]string{"-e", "ws://example/ws", "-q"}))

	endpoint, err := cmd.Flags().GetString("endpoint")
	assert.NoError(t, err)
	assert.Equal(t, "ws://example/ws", endpoint)

	quiet, err := cmd.Flags().GetBool("quiet")
	assert.NoError(t, err)
	assert.True(t, quiet)
}
