package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/wit/internal/gaze"
	"github.com/louisbranch/wit/internal/platform/id"
	"github.com/louisbranch/wit/internal/platform/timeouts"
	"github.com/louisbranch/wit/internal/services/gaze/storage"
	"github.com/louisbranch/wit/internal/services/gaze/storage/sqlite"
)

const (
	defaultMaxFrameBytes      = 16 * 1024
	defaultMaxFramesPerSecond = 2000
	maxDecodeErrorsPerConn    = 3
)

// Config defines the inputs for the gaze transport boundary.
type Config struct {
	HTTPAddr string
	// LedgerPath enables the SQLite session ledger when non-empty.
	LedgerPath string
	// Session holds the defaults every new session starts with and that
	// config messages fall back to for absent fields.
	Session            gaze.Config
	Tuning             gaze.Tuning
	IdleTimeout        time.Duration
	MaxFrameBytes      int
	MaxFramesPerSecond int
	ReadHeaderTimeout  time.Duration
	ShutdownTimeout    time.Duration
}

func (c Config) withDefaults() Config {
	if c.Session == (gaze.Config{}) {
		c.Session = gaze.DefaultConfig()
	}
	if c.Tuning == (gaze.Tuning{}) {
		c.Tuning = gaze.DefaultTuning()
	}
	c.Session = c.Session.Clamp(c.Tuning.BufferCapacity)
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = timeouts.IdleRead
	}
	if c.MaxFrameBytes <= 0 {
		c.MaxFrameBytes = defaultMaxFrameBytes
	}
	if c.MaxFramesPerSecond <= 0 {
		c.MaxFramesPerSecond = defaultMaxFramesPerSecond
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = timeouts.Shutdown
	}
	return c
}

// Server hosts the gaze HTTP/WebSocket process.
type Server struct {
	httpAddr        string
	shutdownTimeout time.Duration
	httpServer      *http.Server
	hub             *gazeHub
	ledger          *sqlite.Store
}

// NewServer builds a configured gaze server.
func NewServer(config Config) (*Server, error) {
	return NewServerWithContext(context.Background(), config)
}

// NewServerWithContext builds a configured gaze server with an explicit context.
func NewServerWithContext(ctx context.Context, config Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	config = config.withDefaults()

	var ledger *sqlite.Store
	var sessions storage.SessionStore
	if path := strings.TrimSpace(config.LedgerPath); path != "" {
		store, err := sqlite.OpenContext(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open session ledger: %w", err)
		}
		ledger = store
		sessions = store
		log.Printf("gaze: session ledger at %s", path)
	}

	hub := newGazeHub(config, sessions, id.NewID)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           newHandler(hub),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	return &Server{
		httpAddr:        httpAddr,
		shutdownTimeout: config.ShutdownTimeout,
		httpServer:      httpServer,
		hub:             hub,
		ledger:          ledger,
	}, nil
}

// Run creates and serves a gaze server until the context ends.
func Run(ctx context.Context, config Config) error {
	server, err := NewServerWithContext(ctx, config)
	if err != nil {
		return fmt.Errorf("init gaze server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve gaze: %w", err)
	}
	return nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("gaze server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("gaze server listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		s.hub.shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.ledger != nil {
		if err := s.ledger.Close(); err != nil {
			log.Printf("close session ledger: %v", err)
		}
	}
}
