// Package http provides the HTTP server, routing, and base middleware.
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
	otelmetric "go.opentelemetry.io/otel/metric"

	accountHTTP "github.com/banksec/apiguard/internal/account/http"
	authDomain "github.com/banksec/apiguard/internal/auth/domain"
	authHTTP "github.com/banksec/apiguard/internal/auth/http"
	authService "github.com/banksec/apiguard/internal/auth/service"
	"github.com/banksec/apiguard/internal/config"
	"github.com/banksec/apiguard/internal/metrics"
	"github.com/banksec/apiguard/internal/ratelimit"
	userHTTP "github.com/banksec/apiguard/internal/user/http"
)

// Server represents the HTTP server
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. Routes are not registered until
// SetupRoutes is called.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
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

// RouterDeps carries the handlers and middleware collaborators used to build
// the route table.
type RouterDeps struct {
	Config          *config.Config
	MeterProvider   otelmetric.MeterProvider
	Limiter         *ratelimit.Limiter
	SecurityMetrics metrics.SecurityMetrics
	TokenService    authService.TokenService
	LoginHandler    *authHTTP.LoginHandler
	UserHandler     *userHTTP.UserHandler
	AccountHandler  *accountHTTP.AccountHandler
}

// SetupRoutes builds the Gin engine and registers all routes.
//
// Request pipeline order on /api routes: rate limiting runs first so abusive
// traffic is rejected before any token verification work, then bearer
// authentication resolves the auth context, then per-route role and
// ownership gates apply.
func (s *Server) SetupRoutes(deps RouterDeps) {
	router := gin.New()

	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	router.Use(gin.Recovery())

	if deps.MeterProvider != nil && deps.Config.MetricsEnabled {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MeterProvider, deps.Config.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(
		deps.Config.CORSEnabled, deps.Config.CORSAllowOrigins, s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	// Probes stay outside the rate limit and authentication pipeline.
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	if deps.Limiter != nil {
		router.Use(authHTTP.RateLimitMiddleware(deps.Limiter, deps.SecurityMetrics, s.logger))
	}
	router.Use(authHTTP.AuthenticationMiddleware(deps.TokenService, deps.SecurityMetrics, s.logger))

	requireAuth := authHTTP.RequireAuthentication(s.logger)
	requireAdmin := authHTTP.RequireRole(authDomain.RoleAdmin, s.logger)

	api := router.Group("/api")
	{
		api.POST("/auth/login", deps.LoginHandler.Login)

		api.POST("/users", deps.UserHandler.RegisterHandler)
		api.GET("/users", requireAdmin, deps.UserHandler.ListHandler)
		api.GET("/users/search", requireAdmin, deps.UserHandler.SearchHandler)
		api.GET("/users/:id", requireAuth, deps.UserHandler.GetHandler)
		api.DELETE("/users/:id", requireAdmin, deps.UserHandler.DeleteHandler)

		api.GET("/accounts/mine", requireAuth, deps.AccountHandler.MineHandler)
		api.GET("/accounts/:id/balance", requireAuth, deps.AccountHandler.BalanceHandler)
		api.POST("/accounts/:id/transfer", requireAuth, deps.AccountHandler.TransferHandler)
	}

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server. SetupRoutes must have been called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("routes are not registered")
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic. The database
// is the only hard dependency.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}

	ready := true
	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else if err := s.db.PingContext(c.Request.Context()); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
		ready = false
	} else {
		components["database"] = "ok"
	}

	if !ready {
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
