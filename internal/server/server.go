// Package server exposes the aggregator over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/news"
)

// Aggregator produces one merged news batch per invocation.
type Aggregator interface {
	Aggregate(ctx context.Context, limit int) (news.Response, error)
}

// Server routes HTTP requests to the aggregator.
type Server struct {
	agg Aggregator
	mux *http.ServeMux
	log *slog.Logger
}

// New creates a Server around the given aggregator.
func New(agg Aggregator, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{agg: agg, mux: http.NewServeMux(), log: log}
	s.routes()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()
	return httpSrv.ListenAndServe()
}
