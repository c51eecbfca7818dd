package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/cvfolio/cvfolio/api/http/handlers"
	"github.com/cvfolio/cvfolio/pkg/logging"
)

// AppConfig holds what the Fiber application needs besides its routes.
type AppConfig struct {
	Views fiber.Views
	// ExposeErrors adds internal error details to 500 responses.
	ExposeErrors bool
	// AccessLog enables the request logger middleware.
	AccessLog bool
	Logger    logging.Logger
}

// NewApp builds the Fiber application with the central error handler, panic
// recovery and the page layout. Routes are added by Register.
func NewApp(cfg AppConfig) *fiber.App {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:           "cvfolio",
		Views:             cfg.Views,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		BodyLimit:         16 << 20,
		ErrorHandler: handlers.ErrorHandler(cfg.ExposeErrors, func(c *fiber.Ctx, err error) {
			log.Error(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}),
	})
	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New())
	}
	return app
}
