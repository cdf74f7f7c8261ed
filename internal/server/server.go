package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/worldpos/internal/core/models"
	"github.com/zeusync/worldpos/internal/core/observability/log"
	"github.com/zeusync/worldpos/internal/core/systems/movement"
	"github.com/zeusync/worldpos/internal/core/world"
	"github.com/zeusync/worldpos/pkg/generic"
)

// World is the part of the simulation the server exposes
type World interface {
	Snapshot() *world.Snapshot
	SetControls(id models.EntityID, controls movement.Controls) error
}

var bufferPool = generic.NewPool(func() *bytes.Buffer {
	return new(bytes.Buffer)
}, (*bytes.Buffer).Reset)

// Server streams world snapshots to websocket clients and answers
// snapshot and control requests over HTTP.
type Server struct {
	world  World
	config Config
	logger log.Log

	httpServer *http.Server
	listener   net.Listener

	clientsMu   sync.RWMutex
	clients     map[*client]struct{}
	clientCount int64 // atomic

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool

	workerGroup sync.WaitGroup
}

// Config holds server configuration
type Config struct {
	Addr         string        `json:"addr" yaml:"addr"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	PingInterval time.Duration `json:"ping_interval" yaml:"ping_interval"`
	MaxClients   int           `json:"max_clients" yaml:"max_clients"`
	// SendBuffer is the number of snapshots queued per client before
	// older ones are dropped.
	SendBuffer int `json:"send_buffer" yaml:"send_buffer"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
		MaxClients:   64,
		SendBuffer:   16,
	}
}

// Validate validates the server configuration
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is empty: %w", ErrInvalidConfig)
	}
	if c.MaxClients <= 0 {
		return fmt.Errorf("max_clients %d must be positive: %w", c.MaxClients, ErrInvalidConfig)
	}
	if c.WriteTimeout <= 0 || c.PingInterval <= 0 {
		return fmt.Errorf("timeouts must be positive: %w", ErrInvalidConfig)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("send_buffer %d must be positive: %w", c.SendBuffer, ErrInvalidConfig)
	}
	return nil
}

// NewServer creates a diagnostics server for w
func NewServer(config Config, w World, logger log.Log) *Server {
	if logger == nil {
		logger = log.Nop()
	}
	s := &Server{
		world:   w,
		config:  config,
		logger:  logger.With(log.String("component", "server")),
		clients: make(map[*client]struct{}),
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /entities/{id}", s.handleEntity)
	mux.HandleFunc("PUT /entities/{id}/controls", s.handleControls)
	return mux
}

// Start listens on the configured address and serves in the background
func (s *Server) Start(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.config.Addr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}
	s.listener = listener

	s.workerGroup.Add(1)
	go func() {
		defer s.workerGroup.Done()
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server stopped unexpectedly", log.Error(err))
		}
	}()

	s.logger.Info("Server listening", log.String("addr", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once started
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts the HTTP server down and disconnects every client
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}
	s.logger.Info("Stopping server")

	err := s.httpServer.Shutdown(ctx)

	s.clientsMu.Lock()
	for c := range s.clients {
		c.close()
	}
	s.clientsMu.Unlock()

	s.workerGroup.Wait()
	s.logger.Info("Server stopped")
	return err
}

// Close stops the server if needed and prevents restarts
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	if atomic.LoadInt32(&s.running) == 1 {
		return s.Stop(context.Background())
	}
	return nil
}

// Broadcast queues a snapshot for every connected client. Slow clients
// lose their oldest queued snapshot instead of blocking the caller.
func (s *Server) Broadcast(snap *world.Snapshot) {
	if atomic.LoadInt64(&s.clientCount) == 0 {
		return
	}

	buf := bufferPool.Get()
	defer bufferPool.Put(buf)
	if err := json.NewEncoder(buf).Encode(snap); err != nil {
		s.logger.Error("Failed to encode snapshot", log.Tick(snap.Tick), log.Error(err))
		return
	}
	data := bytes.Clone(buf.Bytes())

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for c := range s.clients {
		c.enqueue(data)
	}
}

// GetStats returns server statistics
func (s *Server) GetStats() Stats {
	return Stats{
		ClientCount: atomic.LoadInt64(&s.clientCount),
		Running:     atomic.LoadInt32(&s.running) == 1,
	}
}

// Stats contains server statistics
type Stats struct {
	ClientCount int64 `json:"client_count"`
	Running     bool  `json:"running"`
}

// register admits a client and reserves the worker slots of its read and
// write pumps. Stop flips running before taking the lock, so no client is
// admitted once it is draining.
func (s *Server) register(c *client) error {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if atomic.LoadInt32(&s.running) == 0 {
		return ErrServerNotRunning
	}
	if len(s.clients) >= s.config.MaxClients {
		return ErrMaxClientsReached
	}
	s.clients[c] = struct{}{}
	atomic.AddInt64(&s.clientCount, 1)
	s.workerGroup.Add(2)
	return nil
}

func (s *Server) unregister(c *client) {
	s.clientsMu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		atomic.AddInt64(&s.clientCount, -1)
	}
	s.clientsMu.Unlock()
}
