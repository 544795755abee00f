package main

import (
	"context"
	"log/slog"
	"os"

	"linkup/internal/server"
)

func main() {
	s := server.New()

	if err := s.Boot(context.Background()); err != nil {
		slog.Error("Failed to boot application", "error", err)
		os.Exit(1)
	}

	s.Start()
}
