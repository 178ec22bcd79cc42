package handlers

import (
	"errors"

	"brokex/internal/app"
	"brokex/internal/handlers/middleware"
	"brokex/internal/types"
	"brokex/internal/validation"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
	validate   *validation.Validator
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api", app.Middleware.TraceID())
	HealthHandler(api, app.Config)
	NewUserHandler(*app, api).Register()
	NewExperienceHandler(*app, api).Register()
	NewFixHandler(*app, api).Register()
	NewCategoryHandler(*app, api).Register()
	NewSettingsHandler(*app, api).Register()
	NewStatsHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

// respondError maps controller errors onto HTTP statuses. Anything outside
// the known sentinels is a 500 with a generic body.
func respondError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, types.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, types.ErrInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, types.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Conflict"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": message})
	}
}

func respondValidationErrors(c *fiber.Ctx, fieldErrors map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "Validation failed",
		"fields": fieldErrors,
	})
}
