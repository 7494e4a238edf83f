// Package http provides the API server, the metrics server, and the shared
// gin middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accessHTTP "github.com/eventdesk/accessd/internal/access/http"
)

// RouterOptions carries the configuration SetupRouter needs beyond the
// handlers themselves.
type RouterOptions struct {
	CORSEnabled                 bool
	CORSAllowOrigins            string
	RateLimitSendEnabled        bool
	RateLimitSendRequestsPerSec float64
	RateLimitSendBurst          int

	// MetricsMiddleware instruments every request when non-nil.
	MetricsMiddleware gin.HandlerFunc
}

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The database handle is only used by
// the readiness probe and may be nil in tests.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin router and registers all routes.
func (s *Server) SetupRouter(
	accessHandler *accessHTTP.AccessHandler,
	permissionsHandler *accessHTTP.PermissionsHandler,
	opts RouterOptions,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(opts.CORSEnabled, opts.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if opts.MetricsMiddleware != nil {
		router.Use(opts.MetricsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	{
		access := v1.Group("/access")
		{
			access.POST("/authorize", accessHandler.AuthorizeHandler)
			access.POST("/verification/callback", accessHandler.CallbackVerificationHandler)
			access.GET("/permissions/languages", permissionsHandler.LanguagesHandler)

			send := access.Group("")
			if opts.RateLimitSendEnabled {
				send.Use(accessHTTP.SendRateLimitMiddleware(
					opts.RateLimitSendRequestsPerSec,
					opts.RateLimitSendBurst,
					s.logger,
				))
			}
			send.POST("/verification/send", accessHandler.SendVerificationHandler)
		}
	}

	s.router = router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic. The database
// must be reachable for the coordinator to make any decision.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server. SetupRouter must have been called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured: call SetupRouter before Start")
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
