package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hotel-staff-service/internal/api/http/handlers"
	"github.com/spec-kit/hotel-staff-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Reconciliation *handlers.ReconciliationHandler
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	app.Post("/create-staff", cfg.Staff.CreateStaff)

	reconciliation := app.Group("/reconciliation")
	reconciliation.Get("/orphans", cfg.Reconciliation.ListOrphans)
	reconciliation.Post("/orphans/:id/complete", cfg.Reconciliation.CompleteOrphan)
}
