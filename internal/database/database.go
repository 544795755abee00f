package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/surrealdb/surrealdb.go"

	"linkup/internal/config"
)

// NewDB dials SurrealDB, signs in with root credentials and selects the
// configured namespace and database. The returned handle is shared by every
// repository and by the live query manager.
func NewDB(ctx context.Context, cfg *config.Config) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("connecting to surrealdb: %w", err)
	}

	if _, err := db.SignIn(ctx, &surrealdb.Auth{
		Username: cfg.DBUser,
		Password: cfg.DBPass,
	}); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("signing in to surrealdb: %w", err)
	}

	if err := db.Use(ctx, cfg.DBNs, cfg.DBDb); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("selecting namespace %q database %q: %w", cfg.DBNs, cfg.DBDb, err)
	}

	slog.Info("Connected to SurrealDB", "ns", cfg.DBNs, "db", cfg.DBDb)
	return db, nil
}
