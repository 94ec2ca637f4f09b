package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/api/http/handlers"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Shifts         *handlers.ShiftsHandler
	Trust          *handlers.TrustHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())

	shifts := protected.Group("/shifts")
	shifts.Get("/:id/transitions", cfg.Shifts.AvailableTransitions)
	shifts.Post("/:id/transitions", cfg.Shifts.Transition)
	shifts.Get("/:id/history", cfg.Shifts.History)

	trustGroup := protected.Group("/trust")
	trustGroup.Get("/users/:id/score", cfg.Trust.Score)
	trustGroup.Get("/users/:id/history", cfg.Trust.History)
	trustGroup.Get("/me/recommendations", cfg.Trust.Recommendations)
	trustGroup.Get("/me/actions/:action", cfg.Trust.CanPerform)
	trustGroup.Post("/events", auth.RequireAdmin(), cfg.Trust.CreateEvent)

	moderation := protected.Group("/moderation", auth.RequireAdmin())
	moderation.Get("/suspicious", cfg.Trust.Suspicious)
	moderation.Post("/users/:id/clear-suspicious", cfg.Trust.ClearSuspicious)
	moderation.Post("/users/:id/unblock", cfg.Trust.Unblock)

	protected.Get("/admin/metrics", auth.RequireAdmin(), cfg.Metrics.Snapshot)
}
