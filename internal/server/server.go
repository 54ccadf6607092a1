// Package server hosts a rotator registry behind HTTP so that stateless
// pollers share rotation state for the life of the process.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/systmms/lcdrotator/internal/handler"
	"github.com/systmms/lcdrotator/internal/logging"
	"github.com/systmms/lcdrotator/internal/metrics"
	"github.com/systmms/lcdrotator/internal/request"
	"github.com/systmms/lcdrotator/pkg/rotator"
)

// RequestPath accepts a request string as the POST body or the q parameter
const RequestPath = "/v1/request"

// RotatorsPath lists the state of every rotator as JSON
const RotatorsPath = "/v1/rotators"

// maxRequestBytes bounds a POSTed request string
const maxRequestBytes = 64 << 10

// Config holds configuration for the HTTP server.
type Config struct {
	// Listen is the TCP address to listen on.
	Listen string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration

	// MetricsEnabled mounts the Prometheus handler at MetricsPath.
	MetricsEnabled bool

	// MetricsPath is the path to serve metrics on.
	MetricsPath string
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Listen:       "127.0.0.1:7468",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		MetricsPath:  "/metrics",
	}
}

// Server serves rotator requests over HTTP.
type Server struct {
	config   Config
	handler  *handler.Handler
	logger   *logging.Logger
	server   *http.Server
	listener net.Listener
}

// New creates a new server for h.
func New(config Config, h *handler.Handler, logger *logging.Logger) *Server {
	return &Server{
		config:  config,
		handler: h,
		logger:  logger,
	}
}

// Routes returns the HTTP handler with every endpoint mounted.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(RequestPath, s.handleRequest)
	mux.HandleFunc(RotatorsPath, s.handleRotators)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if s.config.MetricsEnabled {
		mux.Handle(s.config.MetricsPath, metrics.Handler())
	}
	return mux
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return err
	}
	s.listener = ln

	s.server = &http.Server{
		Handler:           s.Routes(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error: %v", err)
		}
	}()

	s.logger.Info("Serving rotators on http://%s", ln.Addr())
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	var input string
	switch r.Method {
	case http.MethodGet:
		input = r.URL.Query().Get("q")
	case http.MethodPost:
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err != nil {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		input = string(body)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	out, err := s.handler.Handle(input)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

func (s *Server) handleRotators(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.handler.Snapshots()); err != nil {
		s.logger.Error("failed to encode rotators: %v", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, request.ErrParse):
		return http.StatusBadRequest
	case errors.Is(err, rotator.ErrLookup), errors.Is(err, rotator.ErrExhausted):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
