package server

import (
	"log/slog"
	"net/http"
	"sync"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"

	"github.com/kode4food/flowdesk/internal/i18n"
	"github.com/kode4food/flowdesk/internal/mock"
	"github.com/kode4food/flowdesk/internal/settings"
	"github.com/kode4food/flowdesk/pkg/api"
	"github.com/kode4food/flowdesk/pkg/util"
)

// Server implements the HTTP front of the mock console
type Server struct {
	router    *mock.Router
	settings  *settings.Store
	localizer *i18n.Localizer
	sockets   util.Set[*Client]
	mu        sync.Mutex
}

// NewServer creates a server that answers console API calls from router
func NewServer(
	router *mock.Router, prefs *settings.Store, locale *i18n.Store,
) *Server {
	return &Server{
		router:    router,
		settings:  prefs,
		localizer: i18n.NewLocalizer(locale, prefs),
		sockets:   util.Set[*Client]{},
	}
}

// SetupRoutes configures and returns the HTTP router. Anything not matched
// by a local route is handed to the mock router
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

	// Preferences
	prefs := router.Group("/settings")
	{
		prefs.GET("", s.listSettings)
		prefs.GET("/ws", s.handleWebSocket)
		prefs.GET("/:key", s.getSetting)
		prefs.PUT("/:key", s.putSetting)
	}

	// Locale
	locale := router.Group("/locale")
	{
		locale.GET("/languages", s.listLanguages)
		locale.GET("/translations", s.getTranslations)
		locale.GET("/translations/:lang", s.getTranslations)
	}

	// Mock inspection
	mk := router.Group("/mock")
	{
		mk.GET("/rules", s.listRules)
		mk.GET("/calls", s.listCalls)
		mk.POST("/reset", s.resetMock)
	}

	// Console API
	router.NoRoute(gin.WrapH(s.router))

	return router
}

func (s *Server) listRules(c *gin.Context) {
	c.JSON(http.StatusOK, api.RulesResponse{Rules: s.router.Rules()})
}

func (s *Server) listCalls(c *gin.Context) {
	calls := s.router.Calls()
	res := api.CallsResponse{
		Calls: make([]api.MockCall, 0, len(calls)),
		Count: len(calls),
	}
	for _, call := range calls {
		res.Calls = append(res.Calls, api.MockCall{
			ID:      call.ID,
			Method:  call.Method,
			Path:    call.Path,
			Query:   call.Query,
			Rule:    call.Rule,
			Handled: call.Handled,
		})
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) resetMock(c *gin.Context) {
	s.router.Reset()
	c.Status(http.StatusNoContent)
}

func (s *Server) registerWebSocket(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets.Add(c)
}

func (s *Server) unregisterWebSocket(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets.Remove(c)
}

// CloseWebSockets closes all active WebSocket connections
func (s *Server) CloseWebSockets() {
	s.mu.Lock()
	conns := make([]*Client, 0, len(s.sockets))
	for c := range s.sockets {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}
