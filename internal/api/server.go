// Package api exposes the workflows over HTTP. It replaces the web UI of a
// hosted deployment: one JSON endpoint per workflow, plus model and branch
// listings and a download affordance for the last response.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/devassist/internal/groq"
	"github.com/devassist/internal/workflow"
)

// Server represents the API server
type Server struct {
	echo      *echo.Echo
	port      int
	ctrl      *workflow.Controller
	sessions  *SessionStore
	newClient func(apiKey string) *groq.Client
}

// NewServer creates a new API server
func NewServer(port int, ctrl *workflow.Controller, newClient func(apiKey string) *groq.Client) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server := &Server{
		echo:      e,
		port:      port,
		ctrl:      ctrl,
		sessions:  NewSessionStore(),
		newClient: newClient,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 group
	v1 := s.echo.Group("/api/v1")

	v1.GET("/models", s.listModels)
	v1.GET("/branches", s.listBranches)

	v1.POST("/audit", s.runAudit)
	v1.POST("/review", s.runReview)
	v1.POST("/merge-request", s.runMergeRequest)

	v1.GET("/sessions/:id/response", s.getResponse)
	v1.GET("/sessions/:id/response/download", s.downloadResponse)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start begins the API server and blocks until an interrupt arrives.
func (s *Server) Start() error {
	// Start server in a goroutine
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			s.echo.Logger.Fatal("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}
