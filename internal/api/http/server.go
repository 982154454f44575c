package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
)

// Options configures NewApp.
type Options struct {
	Builder      Builder
	Board        *dashboard.Board
	AllowOrigins string
	// Now stamps export file names; nil means time.Now.
	Now func() time.Time
	// AccessLog enables the request logger middleware.
	AccessLog bool
}

// NewApp builds the Fiber app with middleware, the health endpoint and the
// dashboard routes.
func NewApp(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())

	origins := opts.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,HEAD,OPTIONS",
		ExposeHeaders: headerDataSource + "," + headerBuildID + "," + fiber.HeaderContentDisposition,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	RegisterRoutes(app, opts.Builder, opts.Board, now)
	return app
}
