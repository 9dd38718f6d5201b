package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/stash-api/internal/api"
	apimiddleware "github.com/phrazzld/stash-api/internal/api/middleware"
)

// setupRouter builds the chi router with the full middleware chain and
// all API routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(apimiddleware.RequestLogger(app.logger))
	r.Use(apimiddleware.ProcessTime)

	if app.config.RateLimit.Enabled {
		limiter := apimiddleware.NewRateLimiter(app.config.RateLimit)
		r.Use(limiter.Limit)
		app.logger.Info("rate limiting enabled",
			"max_requests", app.config.RateLimit.MaxRequests,
			"window_seconds", app.config.RateLimit.WindowSeconds)
	}

	authHandler := api.NewAuthHandler(app.userService, app.jwtService)
	userHandler := api.NewUserHandler(app.userService)
	itemHandler := api.NewItemHandler(app.itemService)
	healthHandler := api.NewHealthHandler(version)

	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService, app.userStore)

	r.Get("/health", healthHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Public authentication endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Endpoints for the authenticated user
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/users/me", userHandler.Me)
			r.Put("/users/me", userHandler.UpdateMe)

			r.Post("/items", itemHandler.Create)
			r.Get("/items", itemHandler.List)
			r.Get("/items/{itemID}", itemHandler.Get)
			r.Put("/items/{itemID}", itemHandler.Update)
			r.Delete("/items/{itemID}", itemHandler.Delete)
		})

		// Administrative endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(authMiddleware.RequireSuperuser)

			r.Get("/users", userHandler.List)
			r.Get("/users/{userID}", userHandler.Get)
			r.Delete("/users/{userID}", userHandler.Delete)
		})
	})

	return r
}
