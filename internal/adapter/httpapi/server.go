// Package httpapi exposes the analysis session to the dashboard frontend as
// a JSON API, alongside health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wraps the gin engine and the underlying http.Server.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	logger     *slog.Logger
}

// NewServer creates the API server and registers all routes.
func NewServer(addr string, sess SessionAPI, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine: engine,
		logger: logger,
	}

	h := &handlers{session: sess, logger: logger}

	engine.GET("/healthz", h.health)
	engine.GET("/readyz", h.ready)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")
	{
		api.POST("/dataset", h.loadDataset)
		api.POST("/festivals/refresh", h.refreshFestivals)
		api.GET("/view", h.view)
		api.GET("/kpis", h.kpis)
		api.GET("/series/daily", h.seriesDaily)
		api.GET("/series/hourly", h.seriesHourly)
		api.GET("/categories", h.categories)
		api.GET("/festivals", h.festivals)
		api.GET("/festivals/significant", h.significant)
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the gin engine, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}
