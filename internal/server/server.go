package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"

	"github.com/0STG0T/t1-solution-2/internal/flow"
	"github.com/0STG0T/t1-solution-2/internal/relay"
	"github.com/0STG0T/t1-solution-2/internal/util"
	"github.com/0STG0T/t1-solution-2/pkg/api"
)

type (
	// Server implements the HTTP API server for the flow editor
	Server struct {
		registry *flow.Registry
		chat     relay.Backend
		exporter Exporter
		sockets  util.Set[socket]
		mu       sync.Mutex
	}

	// Exporter writes and reads flow snapshots
	Exporter interface {
		Export(context.Context, api.FlowID, []api.FlowItem) (string, error)
		Read(context.Context, api.FlowID) ([]api.FlowItem, error)
	}

	socket interface {
		Close()
	}
)

var ErrInvalidJSON = errors.New("invalid JSON")

// NewServer creates a new HTTP API server. A nil exporter disables the
// export endpoints and a nil chat backend answers with echoes
func NewServer(
	reg *flow.Registry, chat relay.Backend, exp Exporter,
) *Server {
	if chat == nil {
		chat = relay.EchoBackend{}
	}
	return &Server{
		registry: reg,
		chat:     chat,
		exporter: exp,
		sockets:  util.Set[socket]{},
	}
}

// SetupRoutes configures and returns the HTTP router with all API endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default()
		}),
	))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set(
			"Access-Control-Allow-Methods",
			"GET, POST, PUT, DELETE, OPTIONS",
		)
		c.Writer.Header().Set(
			"Access-Control-Allow-Headers",
			"Content-Type, Authorization",
		)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", s.handleHealth)

	// Chat relay
	router.GET("/ws", s.handleChat)

	// Flow editor endpoints
	fl := router.Group("/flow/:flowID")
	{
		fl.GET("", s.getFlow)
		fl.DELETE("", s.closeFlow)
		fl.POST("/items", s.insertItem)
		fl.POST("/items/:itemID/move", s.moveItem)
		fl.POST("/reorder", s.reorder)
		fl.GET("/preview", s.getPreview)
		fl.POST("/export", s.exportFlow)
		fl.POST("/restore", s.restoreFlow)

		// WebSocket
		fl.GET("/ws", s.handlePreviewSocket)
	}

	return router
}

func (s *Server) registerSocket(c socket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets.Add(c)
}

func (s *Server) unregisterSocket(c socket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets.Remove(c)
}

// CloseWebSockets closes all active WebSocket connections
func (s *Server) CloseWebSockets() {
	s.mu.Lock()
	conns := make([]socket, 0, len(s.sockets))
	for c := range s.sockets {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}

func writeError(c *gin.Context, status int, err error) {
	c.JSON(status, api.ErrorResponse{
		Error:  err.Error(),
		Status: status,
	})
}
