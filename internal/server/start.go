package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Start runs the HTTP server until an interrupt or terminate signal, then
// shuts down gracefully: stop accepting requests, stop the modules, close
// the bus and the database.
func (s *Server) Start() {
	go func() {
		if err := s.E.Start(s.Cfg.AppAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.E.Shutdown(ctx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	s.shutdownModules(ctx)
	if err := s.bus.Close(); err != nil {
		slog.Warn("Bus close failed", "error", err)
	}
	s.DB.Close(ctx)
	slog.Info("Server stopped")
}
