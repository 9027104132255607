// Package http provides the HTTP servers for the compliance engine: the API
// server carrying the compliance endpoints and a separate metrics server for
// Prometheus scraping.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	complianceHTTP "github.com/healplus/compliance/internal/compliance/http"
	"github.com/healplus/compliance/internal/metrics"
)

// Server represents the compliance API server.
type Server struct {
	server            *http.Server
	logger            *slog.Logger
	complianceHandler *complianceHTTP.ComplianceHandler

	meterProvider    metric.MeterProvider
	metricsNamespace string
	corsMiddleware   gin.HandlerFunc
	rateLimit        gin.HandlerFunc
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics enables HTTP request metrics on the router.
func WithMetrics(meterProvider metric.MeterProvider, namespace string) Option {
	return func(s *Server) {
		s.meterProvider = meterProvider
		s.metricsNamespace = namespace
	}
}

// WithCORS enables CORS for the configured origins.
func WithCORS(enabled bool, allowOrigins string) Option {
	return func(s *Server) {
		s.corsMiddleware = createCORSMiddleware(enabled, allowOrigins, s.logger)
	}
}

// WithRateLimit enables per-actor rate limiting.
func WithRateLimit(enabled bool, rps float64, burst int) Option {
	return func(s *Server) {
		if enabled {
			s.rateLimit = RateLimitMiddleware(rps, burst, s.logger)
		}
	}
}

// NewServer creates the API server.
func NewServer(
	host string,
	port int,
	logger *slog.Logger,
	complianceHandler *complianceHTTP.ComplianceHandler,
	opts ...Option,
) *Server {
	s := &Server{
		logger:            logger,
		complianceHandler: complianceHandler,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.server.Handler = s.SetupRouter()
	return s
}

// SetupRouter builds the gin engine with all middleware and routes.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	if s.meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(s.meterProvider, s.metricsNamespace))
	}
	if s.corsMiddleware != nil {
		router.Use(s.corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1/compliance")
	v1.Use(complianceHTTP.ActorMiddleware(s.logger))
	if s.rateLimit != nil {
		v1.Use(s.rateLimit)
	}
	s.complianceHandler.RegisterRoutes(v1)

	return router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server accepts traffic.
func (s *Server) readinessHandler(c *gin.Context) {
	select {
	case <-c.Request.Context().Done():
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// Start starts the API server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
