package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kode4food/flowdesk"
	"github.com/kode4food/flowdesk/pkg/api"
)

const statusHealthy = "healthy"

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Service: flowdesk.Name,
		Version: flowdesk.Version,
		Status:  statusHealthy,
		Rules:   len(s.router.Rules()),
	})
}
