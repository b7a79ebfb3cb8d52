// Package server exposes a small read-only HTTP view of the stop
// collection and the schedule index. It never mutates the session; all
// writes go through the CLI.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/urbansurvey/stopsync/schedule"
	"github.com/urbansurvey/stopsync/stops"
)

// Server serves the stop collection and departure queries.
type Server struct {
	http    *http.Server
	session *stops.Session
	sched   *schedule.Index
}

// New builds a server on the given port. sched may be nil when no feed is
// loaded; departure queries then return an error.
func New(port int, session *stops.Session, sched *schedule.Index) *Server {
	s := &Server{session: session, sched: sched}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/stops", s.handleStops)
	mux.HandleFunc("/api/departures", s.handleDepartures)
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server error", zap.Error(err))
		}
	}()
	zap.L().Info("server listening", zap.String("addr", s.http.Addr))
}

// WaitForShutdown blocks until SIGINT/SIGTERM, then drains the server.
func (s *Server) WaitForShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	zap.L().Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		zap.L().Warn("server shutdown error", zap.Error(err))
	}
}
