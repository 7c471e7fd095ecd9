package webui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/polyflowrobotics/robot-console/internal/console"
	"github.com/polyflowrobotics/robot-console/internal/logging"
	"github.com/polyflowrobotics/robot-console/internal/wificonfig"
)

// shutdownTimeout bounds how long in-flight requests may take to finish
const shutdownTimeout = 10 * time.Second

// Config holds the web UI configuration
type Config struct {
	// Listen is the address to bind, e.g. "127.0.0.1:8080"
	Listen string

	// APIURL is the robot API base the page talks to and /api proxies to
	APIURL string

	// Timeout bounds each robot API request made by the page
	Timeout time.Duration

	// AllowedOrigins enables CORS on /api when non-empty
	AllowedOrigins []string

	// RobotID is shown in the page header
	RobotID string
}

// Server serves the connection page and proxies /api to the robot
type Server struct {
	config  *Config
	page    *console.Page
	handler http.Handler

	httpServer *http.Server
}

// New creates a server whose page uses a wificonfig client for cfg.APIURL
func New(cfg *Config) (*Server, error) {
	client := wificonfig.NewClient(cfg.APIURL)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return NewWithAPI(cfg, client)
}

// NewWithAPI creates a server whose page talks to api
func NewWithAPI(cfg *Config, api console.API) (*Server, error) {
	if cfg.Listen == "" {
		return nil, fmt.Errorf("listen address is required")
	}
	proxy, err := newAPIProxy(cfg.APIURL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config: cfg,
		page:   console.NewPage(api),
	}
	s.handler = s.routes(proxy)

	return s, nil
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Page returns the page the server renders
func (s *Server) Page() *console.Page {
	return s.page
}

// Start listens on the configured address and serves until ctx is done or
// SIGINT/SIGTERM is received, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Start on an existing listener
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logging.Info("Starting robot console web UI",
		zap.String("addr", listener.Addr().String()),
		zap.String("api_url", s.config.APIURL),
		zap.Strings("allowed_origins", s.config.AllowedOrigins),
	)

	// Seed the form without blocking startup
	go s.page.Mount(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
	case <-ctx.Done():
		logging.Info("Context done, stopping server...")
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully shuts down the server and closes the page so late
// robot API responses are dropped.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.page.Close()

	var err error
	if s.httpServer != nil {
		if err = s.httpServer.Shutdown(ctx); err != nil {
			logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
			_ = s.httpServer.Close()
		}
	}

	logging.Sync()
	return err
}
