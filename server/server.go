package server

import (
	"context"
	"net/http"

	"github.com/existflow/journal/internal/db"
	"github.com/existflow/journal/internal/notes"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options tunes a Server
type Options struct {
	TokenHash    string // bcrypt hash of the bearer token; empty disables auth
	PeriodicDays int    // default span of POST /updates
}

// Server exposes the journal store and note generation as a JSON API
type Server struct {
	db           *db.DB
	generator    *notes.Generator
	tokenHash    string
	periodicDays int
	echo         *echo.Echo
}

// New creates a new server
func New(database *db.DB, generator *notes.Generator, opts Options) *Server {
	if opts.PeriodicDays < 1 {
		opts.PeriodicDays = 7
	}
	s := &Server{
		db:           database,
		generator:    generator,
		tokenHash:    opts.TokenHash,
		periodicDays: opts.PeriodicDays,
	}

	s.setupEcho()

	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API v1
	api := e.Group("/api/v1")
	api.Use(s.authMiddleware)

	api.GET("/projects", s.handleListProjects)
	api.POST("/projects", s.handleCreateProject)
	api.GET("/projects/:id", s.handleGetProject)
	api.PATCH("/projects/:id", s.handleUpdateProject)
	api.DELETE("/projects/:id", s.handleDeleteProject)

	api.GET("/projects/:id/entries", s.handleListEntries)
	api.POST("/projects/:id/entries", s.handleCreateEntry)
	api.GET("/projects/:id/entries/:eid", s.handleGetEntry)
	api.PUT("/projects/:id/entries/:eid", s.handleUpdateEntry)
	api.DELETE("/projects/:id/entries/:eid", s.handleDeleteEntry)

	api.GET("/status", s.handleListAllStatus)
	api.GET("/projects/:id/status", s.handleListStatus)
	api.POST("/projects/:id/status", s.handleCreateStatus)
	api.GET("/projects/:id/status/current", s.handleCurrentStatus)
	api.PUT("/projects/:id/status/:sid", s.handleUpdateStatus)
	api.DELETE("/projects/:id/status/:sid", s.handleDeleteStatus)

	api.GET("/settings/:key", s.handleGetSetting)
	api.PUT("/settings/:key", s.handleSetSetting)

	api.POST("/projects/:id/notes", s.handleProjectNotes)
	api.POST("/updates", s.handlePeriodicUpdate)

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	if err := s.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "driver": s.db.Driver()})
}
