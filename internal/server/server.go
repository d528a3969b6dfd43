// Package server implements the metrics API that the dashboard polls.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rileyhilliard/sysinsight/internal/errors"
	"github.com/rileyhilliard/sysinsight/internal/logger"
	"github.com/rs/cors"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "sysinsight"

// DefaultReadyLimit is the usage percent at which the host is not ready.
const DefaultReadyLimit = 95

// shutdownTimeout bounds graceful shutdown in Run.
const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Collector    Collector
	EnableAlerts bool
	Thresholds   Thresholds
	CORSOrigins  []string
	ReadyLimit   float64
	Version      string
	Logger       logger.Logger
	Clock        func() time.Time
}

// Server serves the metrics API.
type Server struct {
	collector    Collector
	enableAlerts bool
	thresholds   Thresholds
	origins      []string
	readyLimit   float64
	version      string
	log          logger.Logger
	now          func() time.Time

	engine    *gin.Engine
	telemetry *telemetry
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	if opts.Collector == nil {
		opts.Collector = NewSystemCollector(0, opts.Logger)
	}
	if opts.Thresholds == nil {
		opts.Thresholds = DefaultThresholds()
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.ReadyLimit <= 0 {
		opts.ReadyLimit = DefaultReadyLimit
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	s := &Server{
		collector:    opts.Collector,
		enableAlerts: opts.EnableAlerts,
		thresholds:   opts.Thresholds,
		origins:      opts.CORSOrigins,
		readyLimit:   opts.ReadyLimit,
		version:      opts.Version,
		log:          opts.Logger,
		now:          opts.Clock,
		engine:       gin.New(),
		telemetry:    newTelemetry(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery(), s.requestLogger())

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/metrics/cpu", s.getCPU)
		apiGroup.GET("/metrics/memory", s.getMemory)
		apiGroup.GET("/metrics/disk", s.getDisk)
		apiGroup.GET("/metrics/all", s.getAll)
	}

	for _, path := range []string{"/health", "/healthz"} {
		r.GET(path, s.health)
	}
	for _, path := range []string{"/ready", "/readyz"} {
		r.GET(path, s.ready)
	}

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.telemetry.registry, promhttp.HandlerOpts{})))

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

// requestLogger records every request in the log and in Prometheus.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		s.telemetry.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		s.telemetry.requestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())
		s.log.Info("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, elapsed.Round(time.Microsecond))
	}
}

// Handler returns the HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         600,
	})
	return c.Handler(s.engine)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("metrics API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.WrapWithCode(err, errors.ErrServer,
				fmt.Sprintf("Metrics API failed on %s", addr),
				"Check the address is free, or pick another with --listen")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WrapWithCode(err, errors.ErrServer, "Metrics API did not shut down cleanly", "")
	}
	s.log.Info("metrics API stopped")
	return nil
}
