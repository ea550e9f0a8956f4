package chat_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/0STG0T/t1-solution-2/internal/chat"
	"github.com/0STG0T/t1-solution-2/pkg/api"
)

type recorder struct {
	mu    sync.Mutex
	notes []chat.Notification
}

const (
	chatTimeout  = 2 * time.Second
	chatInterval = 10 * time.Millisecond
)

var testUpgrader = websocket.Upgrader{}

func (r *recorder) Notify(n chat.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) kinds() []chat.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []chat.NotificationKind
	for _, n := range r.notes {
		res = append(res, n.Kind)
	}
	return res
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			conn, err := testUpgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer func() { _ = conn.Close() }()
			for {
				mt, data, err := conn.ReadMessage()
				if err != nil {
					return
				}
				reply := append([]byte("echo: "), data...)
				if err := conn.WriteMessage(mt, reply); err != nil {
					return
				}
			}
		},
	))
	t.Cleanup(srv.Close)
	return srv
}

func mount(
	t *testing.T, endpoint string, rec *recorder,
) *chat.Session {
	t.Helper()
	s, err := chat.Mount(context.Background(), chat.Config{
		Endpoint: endpoint,
		Notifier: rec,
	})
	assert.NoError(t, err)
	t.Cleanup(s.Unmount)

	select {
	case <-s.Ready():
	case <-time.After(chatTimeout):
		assert.Fail(t, "session never left connecting")
	}
	return s
}

func waitDone(t *testing.T, s *chat.Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(chatTimeout):
		assert.Fail(t, "session never ended")
	}
}

func TestMountRequiresEndpoint(t *testing.T) {
	_, err := chat.Mount(context.Background(), chat.Config{})
	assert.ErrorIs(t, err, chat.ErrEndpointRequired)
}

func TestSessionOpens(t *testing.T) {
	rec := &recorder{}
	s := mount(t, wsURL(echoServer(t)), rec)

	assert.Equal(t, chat.StateOpen, s.State())
	assert.True(t, s.CanSend())
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, []chat.NotificationKind{chat.NotifySuccess}, rec.kinds())
}

func TestSendAppendsImmediately(t *testing.T) {
	s := mount(t, wsURL(echoServer(t)), &recorder{})

	assert.True(t, s.SendMessage("hello"))
	msgs := s.Transcript().Messages()
	assert.NotEmpty(t, msgs)
	assert.Equal(t, api.ChatMessage{
		Text: "hello", Sender: api.SenderUser,
	}, msgs[0])

	assert.Eventually(t, func() bool {
		return s.Transcript().Len() == 2
	}, chatTimeout, chatInterval)
	assert.Equal(t, api.ChatMessage{
		Text: "echo: hello", Sender: api.SenderAssistant,
	}, s.Transcript().Messages()[1])
}

func TestSendKeepsTextAsTyped(t *testing.T) {
	s := mount(t, wsURL(echoServer(t)), &recorder{})

	assert.True(t, s.SendMessage("  spaced  "))
	assert.Eventually(t, func() bool {
		return s.Transcript().Len() == 2
	}, chatTimeout, chatInterval)
	assert.Equal(t, "echo:   spaced  ", s.Transcript().Messages()[1].Text)
}

func TestSendIgnoresBlank(t *testing.T) {
	s := mount(t, wsURL(echoServer(t)), &recorder{})

	assert.False(t, s.SendMessage(""))
	assert.False(t, s.SendMessage("  \t"))
	assert.Equal(t, 0, s.Transcript().Len())
}

func TestConnectFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	rec := &recorder{}
	s := mount(t, wsURL(srv), rec)
	waitDone(t, s)

	assert.Equal(t, chat.StateErrored, s.State())
	assert.False(t, s.SendMessage("hello"))
	assert.Equal(t, 0, s.Transcript().Len())
	assert.Equal(t, []chat.NotificationKind{chat.NotifyFailure}, rec.kinds())
}

func TestServerDropIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			conn, err := testUpgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			_ = conn.Close()
		},
	))
	defer srv.Close()

	rec := &recorder{}
	s := mount(t, wsURL(srv), rec)
	waitDone(t, s)

	assert.Equal(t, chat.StateErrored, s.State())
	assert.False(t, s.CanSend())
	assert.Equal(t,
		[]chat.NotificationKind{chat.NotifySuccess, chat.NotifyFailure},
		rec.kinds(),
	)
}

func TestServerNormalClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			conn, err := testUpgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer func() { _ = conn.Close() }()
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			_, _, _ = conn.ReadMessage()
		},
	))
	defer srv.Close()

	rec := &recorder{}
	s := mount(t, wsURL(srv), rec)
	waitDone(t, s)

	assert.Equal(t, chat.StateClosed, s.State())
	assert.Equal(t, []chat.NotificationKind{chat.NotifySuccess}, rec.kinds())
}

func TestUnmount(t *testing.T) {
	rec := &recorder{}
	s := mount(t, wsURL(echoServer(t)), rec)

	s.Unmount()
	assert.Equal(t, chat.StateClosed, s.State())
	assert.False(t, s.SendMessage("late"))
	s.Unmount()
	assert.Equal(t, []chat.NotificationKind{chat.NotifySuccess}, rec.kinds())
}

func TestOnMessageHook(t *testing.T) {
	var mu sync.Mutex
	var seen []api.ChatMessage

	s, err := chat.Mount(context.Background(), chat.Config{
		Endpoint: wsURL(echoServer(t)),
		Notifier: chat.NotifierFunc(func(chat.Notification) {}),
		OnMessage: func(m api.ChatMessage) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, m)
		},
	})
	assert.NoError(t, err)
	defer s.Unmount()
	<-s.Ready()

	assert.True(t, s.SendMessage("ping"))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, chatTimeout, chatInterval)
}
