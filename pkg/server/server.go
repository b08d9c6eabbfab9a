package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/telemetry/metrics"
	"mercator-hq/callisto/pkg/watchitems"
)

// Server is the agent's HTTP status server.
type Server struct {
	config     config.ServerConfig
	items      *watchitems.WatchItems
	collector  *metrics.Collector
	logger     *slog.Logger
	httpServer *http.Server

	mu        sync.Mutex
	isRunning bool
}

// statusResponse is the /status payload.
type statusResponse struct {
	Generation     uint64   `json:"generation"`
	PolicyCount    int      `json:"policy_count"`
	MonitoredPaths []string `json:"monitored_paths"`

	LastReload *reloadStatusResponse `json:"last_reload,omitempty"`
}

type reloadStatusResponse struct {
	At         time.Time `json:"at"`
	DurationMS int64     `json:"duration_ms"`
	Changed    bool      `json:"changed"`
	Error      string    `json:"error,omitempty"`
}

// NewServer creates a status server. The collector may be nil, in which
// case /metrics is not registered.
func NewServer(cfg config.ServerConfig, items *watchitems.WatchItems, collector *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:    cfg,
		items:     items,
		collector: collector,
		logger:    logger.With("component", "server"),
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
// or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting status server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("status server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting for in-flight
// requests up to a short deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	httpServer := s.httpServer
	s.mu.Unlock()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down status server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("status server shutdown failed: %w", err)
	}
	return nil
}

// Handler returns the server's route handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	if s.collector != nil {
		mux.Handle("/metrics", s.collector.Handler())
	}
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"status":"ok"}`)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		MonitoredPaths: []string{},
	}

	if snap := s.items.CurrentSnapshot(); snap != nil {
		resp.Generation = snap.Generation()
		resp.PolicyCount = snap.PolicyCount()
		resp.MonitoredPaths = snap.MonitoredPaths()
	}

	if status, ok := s.items.LastReload(); ok {
		lr := &reloadStatusResponse{
			At:         status.At,
			DurationMS: status.Duration.Milliseconds(),
			Changed:    status.Changed,
		}
		if status.Err != nil {
			lr.Error = status.Err.Error()
		}
		resp.LastReload = lr
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode status response", "error", err)
	}
}
