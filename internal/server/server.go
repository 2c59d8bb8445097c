// Package server exposes the categorization and recommendation engines to
// the rest of the application over HTTP.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/centavo-app/centavo/internal/engine"
	"github.com/centavo-app/centavo/internal/recommend"
	"github.com/centavo-app/centavo/internal/service"
)

// Server wires the engines into an echo HTTP server.
type Server struct {
	echo        *echo.Echo
	categorizer *engine.Engine
	recommender *recommend.Engine
	storage     service.Storage
	logger      *slog.Logger
	addr        string
}

// New creates a server listening on addr.
func New(addr string, categorizer *engine.Engine, recommender *recommend.Engine, storage service.Storage) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:        e,
		categorizer: categorizer,
		recommender: recommender,
		storage:     storage,
		addr:        addr,
		logger:      slog.Default().With("component", "server"),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64K"))
	e.Use(s.requestLogger())

	e.POST("/categorize", s.handleCategorize)
	e.POST("/recommend-category", s.handleRecommend)
	e.GET("/merchants/:name/confidence", s.handleMerchantConfidence)
	e.GET("/healthz", s.handleHealth)

	return s
}

// Start begins serving and blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.addr)
	return s.echo.Start(s.addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// requestLogger emits one structured log line per request.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			s.logger.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(start),
				"error", err)

			return err
		}
	}
}
