// HTTP server initialization and lifecycle management.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/mercurylabs/mercury/internal/api"
	"github.com/mercurylabs/mercury/internal/infra/config"
)

// Timeouts for the HTTP server. WriteTimeout is generous: a chat turn against
// a slow backend or a long TTS render can take minutes.
const (
	readTimeout  = 15 * time.Second
	writeTimeout = 10 * time.Minute
	idleTimeout  = 60 * time.Second
)

// Server wraps the HTTP server and database.
type Server struct {
	cfg  config.Config
	db   *sql.DB
	http *http.Server

	cancelWorkers context.CancelFunc
}

// NewServer builds the router from cfg and db and wraps it in an http.Server.
func NewServer(cfg config.Config, db *sql.DB) *Server {
	workerCtx, cancel := context.WithCancel(context.Background())

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(workerCtx, cfg, db),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return &Server{
		cfg:           cfg,
		db:            db,
		http:          httpServer,
		cancelWorkers: cancel,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	fmt.Printf("Mercury listening on %s\n", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests, stops the background consumers, and
// closes the database.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.cancelWorkers()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("database close error: %w", err)
	}
	return nil
}
