// Package server exposes the ingestion triggers and scoreboard reads over
// HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/johnny-papercut/fantasy/internal/ingest"
	"github.com/johnny-papercut/fantasy/internal/pkg/config"
	"github.com/johnny-papercut/fantasy/internal/pkg/storage"
	"github.com/johnny-papercut/fantasy/internal/scoreboard"
)

// Server wires the HTTP surface to the ingestor, assembler and store.
type Server struct {
	ingestor  *ingest.Ingestor
	assembler *scoreboard.Assembler
	store     storage.Store
	cfg       *config.Config
}

func New(ingestor *ingest.Ingestor, assembler *scoreboard.Assembler, store storage.Store, cfg *config.Config) *Server {
	return &Server{ingestor: ingestor, assembler: assembler, store: store, cfg: cfg}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/health", s.handleHealth)

	// Update endpoints stay method-agnostic so plain cron curl hits work.
	mux.HandleFunc("/update/all", s.handleUpdateAll)
	mux.HandleFunc("/update/scores", s.handleUpdateScores)

	mux.HandleFunc("GET /scoreboard/{profile}", s.handleScoreboard)
	mux.HandleFunc("GET /changes", s.handleChanges)

	return mux
}

// Run starts the listener and shuts it down when ctx is cancelled.
func (s *Server) Run(ctx context.Context, service string) {
	readHeaderTimeout := s.cfg.Server.ReadHeaderTimeout
	if readHeaderTimeout <= 0 {
		slog.Error("read_header_timeout must be specified in config")
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              AddrFor(s.cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("HTTP server listening", "service", service, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "service", service, "error", err)
		}
	}()
}

func AddrFor(port int) string {
	if port <= 0 {
		slog.Error("port must be greater than 0")
		os.Exit(1)
	}
	return fmt.Sprintf(":%d", port)
}
