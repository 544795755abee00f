package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Boot runs the two-phase module lifecycle: every module registers its
// services first, then every module boots against the complete registry.
// All module routes hang off the /api group.
func (s *Server) Boot(ctx context.Context) error {
	for _, m := range s.modules {
		if err := m.Register(s.Reg); err != nil {
			return fmt.Errorf("module %s failed to register: %w", m.Name(), err)
		}
		slog.Debug("Module registered", "module", m.Name())
	}

	api := s.E.Group("/api")
	for _, m := range s.modules {
		if err := m.Boot(ctx, api, s.Reg); err != nil {
			return fmt.Errorf("module %s failed to boot: %w", m.Name(), err)
		}
		slog.Info("Module booted", "module", m.Name())
	}

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	return nil
}

// shutdownModules gives each module a chance to stop its background work,
// in reverse boot order.
func (s *Server) shutdownModules(ctx context.Context) {
	for i := len(s.modules) - 1; i >= 0; i-- {
		m := s.modules[i]
		if err := m.Shutdown(ctx); err != nil {
			slog.Warn("Module shutdown failed", "module", m.Name(), "error", err)
		}
	}
}
