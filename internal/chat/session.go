package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/log"
)

type (
	// Config describes how a session connects and reports
	Config struct {
		Endpoint         string
		Notifier         Notifier
		Dialer           *websocket.Dialer
		HandshakeTimeout time.Duration

		// OnMessage, if set, is called after each transcript append
		OnMessage func(api.ChatMessage)
	}

	// Session holds exactly one connection to the chat endpoint for the
	// lifetime of a mount
	Session struct {
		cfg        Config
		id         api.SessionID
		transcript *Transcript
		conn       *websocket.Conn
		state      State
		ready      chan struct{}
		done       chan struct{}
		cancel     context.CancelFunc
		readyOnce  sync.Once
		doneOnce   sync.Once
		mu         sync.RWMutex
		writeMu    sync.Mutex
	}
)

const (
	DefaultEndpoint         = "ws://localhost:8000/ws"
	DefaultHandshakeTimeout = 10 * time.Second

	chatWriteWait = 10 * time.Second
)

var ErrEndpointRequired = errors.New("chat endpoint is required")

// Mount creates a session and starts connecting in the background. The
// session is Connecting until Ready is closed
func Mount(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if cfg.Notifier == nil {
		cfg.Notifier = LogNotifier{}
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if cfg.Dialer == nil {
		cfg.Dialer = &websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		cfg:        cfg,
		id:         api.SessionID(uuid.NewString()),
		transcript: NewTranscript(),
		state:      StateConnecting,
		ready:      make(chan struct{}),
		done:       make(chan struct{}),
		cancel:     cancel,
	}
	go s.connect(ctx)
	return s, nil
}

// ID returns the session identifier used in logs
func (s *Session) ID() api.SessionID {
	return s.id
}

// State returns the current connection state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CanSend reports whether SendMessage would transmit right now
func (s *Session) CanSend() bool {
	return s.State() == StateOpen
}

// Transcript returns the session transcript
func (s *Session) Transcript() *Transcript {
	return s.transcript
}

// Ready is closed once the session leaves the Connecting state
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Done is closed once the session reaches a terminal state
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// SendMessage transmits text as typed and appends it to the transcript
// without waiting for any reply. It does nothing and returns false when the
// trimmed text is empty or the session is not open
func (s *Session) SendMessage(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	s.mu.RLock()
	conn := s.conn
	open := s.state == StateOpen
	s.mu.RUnlock()
	if !open {
		return false
	}

	s.appendMessage(api.ChatMessage{Text: text, Sender: api.SenderUser})

	s.writeMu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
	err := conn.WriteMessage(websocket.TextMessage, []byte(text))
	s.writeMu.Unlock()
	if err != nil {
		s.fail(err)
	}
	return true
}

// Unmount closes the connection. The session ends in Closed unless it had
// already failed
func (s *Session) Unmount() {
	s.cancel()
	s.transition(StateClosed, func(conn *websocket.Conn) {
		if conn == nil {
			return
		}
		s.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(chatWriteWait))
		s.writeMu.Unlock()
		_ = conn.Close()
	})
	<-s.done
}

func (s *Session) connect(ctx context.Context) {
	conn, _, err := s.cfg.Dialer.DialContext(ctx, s.cfg.Endpoint, nil)
	if err != nil {
		if ctx.Err() != nil {
			s.transition(StateClosed, nil)
			return
		}
		s.fail(err)
		return
	}

	s.mu.Lock()
	if s.state != StateConnecting {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.conn = conn
	s.state = StateOpen
	s.mu.Unlock()

	slog.Info("Chat session open",
		log.Session(s.id),
		log.Endpoint(s.cfg.Endpoint))
	s.cfg.Notifier.Notify(ConnectedNotification)
	s.markReady()

	s.readMessages(conn)
}

func (s *Session) readMessages(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				s.transition(StateClosed, closeConn)
				return
			}
			s.fail(err)
			return
		}
		s.appendMessage(api.ChatMessage{
			Text:   string(data),
			Sender: api.SenderAssistant,
		})
	}
}

func (s *Session) appendMessage(msg api.ChatMessage) {
	s.transcript.Append(msg)
	if s.cfg.OnMessage != nil {
		s.cfg.OnMessage(msg)
	}
}

// fail moves the session to Errored and notifies the user. Failures after
// the session already ended are ignored
func (s *Session) fail(err error) {
	s.transition(StateErrored, func(conn *websocket.Conn) {
		if conn != nil {
			_ = conn.Close()
		}
		slog.Warn("Chat session failed",
			log.Session(s.id),
			log.Endpoint(s.cfg.Endpoint),
			log.Error(err))
		s.cfg.Notifier.Notify(ConnectionErrorNotification)
	})
}

// transition moves to another state if allowed. The effect runs with the
// current connection before waiters on Ready and Done are released
func (s *Session) transition(to State, effect func(*websocket.Conn)) bool {
	s.mu.Lock()
	if !CanTransition(s.state, to) {
		s.mu.Unlock()
		return false
	}
	from := s.state
	s.state = to
	conn := s.conn
	s.mu.Unlock()

	slog.Debug("Chat session state changed",
		log.Session(s.id),
		slog.String("from", string(from)),
		log.State(to))

	if effect != nil {
		effect(conn)
	}
	s.markReady()
	if to.IsTerminal() {
		s.doneOnce.Do(func() { close(s.done) })
	}
	return true
}

func (s *Session) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

func closeConn(conn *websocket.Conn) {
	if conn != nil {
		_ = conn.Close()
	}
}
