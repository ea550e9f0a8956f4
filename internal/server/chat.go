package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/0STG0T/t1-solution-2/internal/relay"
	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/log"
)

// ChatClient relays raw text frames between one chat connection and a
// conversation on the chat backend
type ChatClient struct {
	id        api.SessionID
	conn      *websocket.Conn
	conv      relay.Conversation
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

const maxChatMessageSize = 64 * 1024

func (s *Server) handleChat(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed",
			log.Error(err))
		return
	}

	id := api.SessionID(uuid.NewString())
	ctx, cancel := context.WithCancel(context.Background())
	conv, err := s.chat.Open(ctx, id)
	if err != nil {
		cancel()
		slog.Error("Failed to open chat conversation",
			log.Session(id),
			log.Error(err))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseInternalServerErr, "chat backend unavailable",
			),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	client := &ChatClient{
		id:     id,
		conn:   conn,
		conv:   conv,
		ctx:    ctx,
		cancel: cancel,
	}

	s.registerSocket(client)
	go func() {
		defer s.unregisterSocket(client)
		client.run()
	}()
}

// Close ends the chat connection and its conversation
func (c *ChatClient) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.conv.Close()
		_ = closeConn(c.conn)
		slog.Debug("Chat connection closed",
			log.Session(c.id))
	})
}

func (c *ChatClient) run() {
	defer c.Close()

	slog.Debug("Chat connection open",
		log.Session(c.id))

	c.conn.SetReadLimit(maxChatMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	incoming := make(chan []byte, incomingBufferSize)
	go c.readMessages(incoming)

	replies := c.conv.Replies()
	for {
		select {
		case message, ok := <-incoming:
			if !ok {
				return
			}
			if err := c.conv.Send(c.ctx, string(message)); err != nil {
				slog.Error("Failed to relay chat message",
					log.Session(c.id),
					log.Error(err))
				return
			}

		case reply, ok := <-replies:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteMessage(websocket.TextMessage, []byte(reply))
			if err != nil {
				slog.Error("WebSocket write failed",
					log.Session(c.id),
					log.Error(err))
				return
			}

		case <-ticker.C:
			if !c.sendPing() {
				return
			}
		}
	}
}

func (c *ChatClient) readMessages(incoming chan<- []byte) {
	defer close(incoming)
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		select {
		case incoming <- message:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *ChatClient) sendPing() bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := c.conn.WriteMessage(websocket.PingMessage, nil)
	return err == nil
}
