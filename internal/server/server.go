package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osa911/contact-api/internal/api/handlers"
	"github.com/osa911/contact-api/internal/api/middleware"
	"github.com/osa911/contact-api/internal/api/validation"
	"github.com/osa911/contact-api/internal/config"
	"github.com/osa911/contact-api/internal/logging"
	"github.com/osa911/contact-api/internal/server/routes"
)

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a new server instance with the global middleware and
// route table installed
func NewServer(cfg *config.Config, deps Deps) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	// Create a new engine without default middleware
	router := gin.New()
	router.HandleMethodNotAllowed = false

	logger := logging.GetLogger()

	// Forwarding headers only count when the peer is a configured proxy
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("Invalid trusted proxies %v, trusting none: %v", cfg.TrustedProxies, err)
		_ = router.SetTrustedProxies(nil)
	}

	routes.SetupGlobalMiddleware(router, routes.GlobalOptions{
		Logger:         logger,
		Metrics:        deps.Metrics,
		TracerProvider: deps.TracerProvider,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		Production:     cfg.IsProduction(),
	})

	h := &routes.Handlers{
		Contact: handlers.NewContactHandler(deps.Processor),
		Health:  handlers.NewHealthHandler(deps.Store),
	}
	if deps.Gatherer != nil {
		h.Metrics = promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})
	}

	m := &routes.Middleware{
		Validation: middleware.NewValidationMiddleware(validation.StrictPolicy),
		ContactRateLimit: middleware.RateLimitMiddleware(middleware.RateLimitConfig{
			RPS:   cfg.ContactRateRPS,
			Burst: cfg.ContactRateBurst,
		}, deps.Metrics),
	}

	routes.Setup(router, h, m)

	return &Server{
		cfg:    cfg,
		router: router,
		httpServer: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds the configured port
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start binds the port and serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	return s.Serve(ctx)
}

// Serve serves on the bound listener until ctx is cancelled, then shuts down
// within the configured timeout
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}
	logger := logging.GetLogger()

	port := s.cfg.Port
	if tcpAddr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}
	logger.Info("Server running on http://localhost:%d", port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	<-errCh
	logger.Info("Server stopped")
	return nil
}
