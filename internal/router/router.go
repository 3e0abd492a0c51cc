package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vishalmisal215/SPAS/internal/config"
	"github.com/vishalmisal215/SPAS/internal/handler"
	"github.com/vishalmisal215/SPAS/internal/middleware"
	"github.com/vishalmisal215/SPAS/internal/observability"
	"github.com/vishalmisal215/SPAS/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler     *handler.AuthHandler
	StudentHandler  *handler.StudentHandler
	FacultyHandler  *handler.FacultyHandler
	CatalogHandler  *handler.CatalogHandler
	QuestionHandler *handler.QuestionHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Registration, login and credential recovery
	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	// Student dashboard and exam lifecycle
	if deps.StudentHandler != nil {
		student := api.Group("/student", jwtMiddleware, middleware.RequireRole(service.RoleStudent))
		deps.StudentHandler.Register(student)
	}

	// Faculty reporting plus catalog and question bank management
	if deps.FacultyHandler != nil {
		faculty := api.Group("/faculty", jwtMiddleware, middleware.RequireRole(service.RoleFaculty))
		deps.FacultyHandler.Register(faculty)

		if deps.CatalogHandler != nil {
			deps.CatalogHandler.Register(faculty)
		}
		if deps.QuestionHandler != nil {
			deps.QuestionHandler.Register(faculty)
		}
	}
}
