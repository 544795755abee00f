package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/surrealdb/surrealdb.go"

	"linkup/internal/config"
	"linkup/internal/database"
	"linkup/internal/logging"
	"linkup/internal/middleware"
	"linkup/internal/module"
	"linkup/internal/pubsub"
	"linkup/internal/registry"
	"linkup/internal/storage"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E   *echo.Echo
	DB  *surrealdb.DB
	Cfg *config.Config
	Reg *registry.Registry

	bus     *pubsub.WatermillBridge
	modules []module.Module
}

// New creates a new Server instance with all core services wired into the
// registry. Feature modules bind their own services during Register.
func New() *Server {
	logging.New()
	cfg := config.New()

	db, err := database.NewDB(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	auth, err := middleware.NewAuthenticator(cfg.AuthJWTSecret, cfg.AuthJWTPublicKey)
	if err != nil {
		slog.Error("Failed to configure authentication", "error", err)
		os.Exit(1)
	}

	bus := pubsub.NewWatermillBridge()

	reg := registry.New(cfg)
	registry.Set(reg, registry.KeyDB, db)
	registry.Set[pubsub.Publisher](reg, registry.KeyPublisher, bus)
	registry.Set[pubsub.Subscriber](reg, registry.KeySubscriber, bus)
	registry.Set[database.LiveQueryService](reg, registry.KeyLiveQuery, database.NewSurrealLiveQueryService(db))
	registry.Set(reg, registry.KeyAuthenticator, auth)
	registry.Set[storage.Store](reg, registry.KeyBlobStore, storage.NewOSStore(cfg.StorageRoot))
	registry.Set(reg, registry.KeyImageCDN, storage.NewImageCDN(cfg.CDNBaseURL))

	e := echo.New()
	e.HideBanner = true
	e.Validator = newRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)

	// Cookie sessions authenticate the live stream, where the browser's
	// EventSource cannot send headers.
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
	}
	e.Use(session.Middleware(store))

	// Serve stored uploads directly in development setups where no real CDN
	// fronts the storage root. The transformation segment in CDN-style URLs
	// is stripped; the original file is served untransformed.
	e.Pre(echomw.RewriteWithConfig(echomw.RewriteConfig{
		Rules: map[string]string{"/static/tr:*/*": "/static/$2"},
	}))
	e.Static("/static", cfg.StorageRoot)

	return &Server{
		E:       e,
		DB:      db,
		Cfg:     cfg,
		Reg:     reg,
		bus:     bus,
		modules: AppModules,
	}
}
