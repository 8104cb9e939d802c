package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finbudd/cfa-tracker-api/internal/config"
	"github.com/finbudd/cfa-tracker-api/internal/handler"
	"github.com/finbudd/cfa-tracker-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	CatalogHandler   *handler.CatalogHandler
	DashboardHandler *handler.DashboardHandler
	ProgressHandler  *handler.ProgressHandler
	AdminHandler     *handler.AdminHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Auth endpoints are public: the session probe and credential exchange
	// must work without an existing session.
	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	if deps.CatalogHandler != nil {
		deps.CatalogHandler.Register(api.Group("/catalog"))
	}

	if deps.DashboardHandler != nil || deps.ProgressHandler != nil {
		student := api.Group("/student", jwtMiddleware)
		if deps.DashboardHandler != nil {
			deps.DashboardHandler.Register(student)
		}
		if deps.ProgressHandler != nil {
			deps.ProgressHandler.Register(student)
		}
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(middleware.RoleAdmin))
		deps.AdminHandler.Register(admin)
	}
}
