package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	"github.com/0STG0T/t1-solution-2/internal/flow"
	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/events"
	"github.com/0STG0T/t1-solution-2/pkg/log"
)

// Client is a WebSocket connection streaming live previews of one flow. It
// also accepts drag and insert commands, so a remote list view can drive
// the editor over the same connection
type Client struct {
	editor    *flow.Editor
	conn      *websocket.Conn
	ctx       context.Context
	cancel    context.CancelFunc
	previews  <-chan flow.Preview
	subscribe bool
	closeOnce sync.Once
}

const (
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxMessageSize     = 4096
	wsBufferSize       = 1024
	incomingBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  wsBufferSize,
	WriteBufferSize: wsBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handlePreviewSocket(c *gin.Context) {
	ed, ok := s.editor(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed",
			log.FlowID(ed.FlowID()),
			log.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		editor: ed,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
	}

	s.registerSocket(client)
	go func() {
		defer s.unregisterSocket(client)
		client.run()
	}()
}

// Close ends the stream
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = closeConn(c.conn)
	})
}

func (c *Client) run() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	incoming := make(chan []byte, incomingBufferSize)
	go c.readMessages(incoming)

	for {
		select {
		case message, ok := <-incoming:
			if !ok {
				return
			}
			if !c.handleMessage(message) {
				return
			}

		case p, ok := <-c.previews:
			if !ok {
				return
			}
			if !c.sendPreview(p) {
				return
			}

		case <-ticker.C:
			if !c.sendPing() {
				return
			}
		}
	}
}

func (c *Client) readMessages(incoming chan<- []byte) {
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

func (c *Client) handleMessage(message []byte) bool {
	typ := gjson.GetBytes(message, "type")
	if !typ.Exists() {
		slog.Error("Failed to parse WebSocket message",
			log.FlowID(c.editor.FlowID()),
			log.ErrorString("missing message type"))
		return true
	}

	data := []byte(gjson.GetBytes(message, "data").Raw)
	switch typ.String() {
	case api.MessageSubscribe:
		c.handleSubscribe()
		return true
	case api.MessageDragEnd:
		return c.handleDragEnd(data)
	case api.MessageInsert:
		return c.handleInsert(data)
	default:
		return true
	}
}

func (c *Client) handleSubscribe() {
	if c.previews != nil {
		return
	}
	c.subscribe = true
	c.previews = c.editor.Watch(c.ctx)
}

func (c *Client) handleDragEnd(data []byte) bool {
	var req api.DragEndRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return c.sendResult(api.MessageDragEnd, err)
	}
	_, err := c.editor.DragEnd(flow.GestureFromRequest(req))
	return c.sendResult(api.MessageDragEnd, err)
}

func (c *Client) handleInsert(data []byte) bool {
	var req api.InsertItemRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return c.sendResult(api.MessageInsert, err)
	}
	_, err := c.editor.Insert(req.Type, req.Label)
	return c.sendResult(api.MessageInsert, err)
}

func (c *Client) sendResult(command string, err error) bool {
	res := api.CommandResult{Type: api.MessageResult, Command: command, Ok: true}
	if err != nil {
		res.Ok = false
		res.Error = err.Error()
	}
	return c.write(res, api.MessageResult)
}

func (c *Client) sendPreview(p flow.Preview) bool {
	data, err := json.Marshal(p)
	if err != nil {
		slog.Error("Failed to marshal preview",
			log.FlowID(c.editor.FlowID()),
			log.Error(err))
		return true
	}

	id := events.FlowKey(p.FlowID)
	parts := make([]string, len(id))
	for i, part := range id {
		parts[i] = string(part)
	}

	if c.subscribe {
		c.subscribe = false
		return c.write(api.SubscribedResult{
			Type:        api.MessageSubscribed,
			AggregateID: parts,
			Data:        data,
			Sequence:    p.Sequence,
		}, api.MessageSubscribed)
	}

	return c.write(api.WebSocketEvent{
		Type:        api.EventTypePreviewChanged,
		Data:        data,
		AggregateID: parts,
		Timestamp:   time.Now().UnixMilli(),
		Sequence:    p.Sequence,
	}, string(api.EventTypePreviewChanged))
}

func (c *Client) write(msg any, label string) bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		slog.Error("WebSocket write failed",
			slog.String("context", label),
			log.Error(err))
		return false
	}
	return true
}

func (c *Client) sendPing() bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := c.conn.WriteMessage(websocket.PingMessage, nil)
	return err == nil
}

func closeConn(conn *websocket.Conn) error {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	return conn.Close()
}
