package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/0STG0T/t1-solution-2"
	"github.com/0STG0T/t1-solution-2/pkg/api"
)

const StatusHealthy = "healthy"

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Service: app.Name,
		Version: app.Version,
		Status:  StatusHealthy,
		Editors: s.registry.Len(),
	})
}
