package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/stash-api/internal/config"
	"github.com/phrazzld/stash-api/internal/platform/cache"
	"github.com/phrazzld/stash-api/internal/platform/postgres"
	"github.com/phrazzld/stash-api/internal/service"
	"github.com/phrazzld/stash-api/internal/service/auth"
	"github.com/phrazzld/stash-api/internal/store"
)

// application holds the shared application dependencies so wiring and
// cleanup live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Optional Redis cache; nil when no Redis URL is configured. Kept
	// alive for operational tooling and future read paths; request
	// handling never depends on it.
	cache *cache.Cache

	userStore store.UserStore
	itemStore store.ItemStore

	jwtService  auth.JWTService
	userService service.UserService
	itemService service.ItemService
}

// newApplication wires stores, services, and the optional cache from an
// established database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.userStore = postgres.NewUserStore(db, logger)
	app.itemStore = postgres.NewItemStore(db, logger)

	app.userService = service.NewUserService(
		app.userStore,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
		db,
		logger,
	)
	app.itemService = service.NewItemService(app.itemStore, logger)

	if cfg.Redis.URL != "" {
		app.cache, err = cache.New(cfg.Redis.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("Redis cache connected")
	} else {
		logger.Info("Redis cache disabled, no URL configured")
	}

	return app, nil
}

// cleanup closes the application's external connections. Errors are
// logged rather than returned since cleanup runs on the way out.
func (app *application) cleanup() {
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("failed to close Redis connection", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
