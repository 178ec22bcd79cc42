package handlers

import (
	"brokex/internal/app"
	"brokex/internal/handlers/middleware"
	"brokex/internal/services"

	settingsController "brokex/internal/controllers/settings"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	Handler
	identityService    *services.IdentityService
	settingsController settingsController.SettingsControllerInterface
}

func NewSettingsHandler(app app.App, router fiber.Router) *SettingsHandler {
	log := logger.New("handlers").File("settings_handler")
	return &SettingsHandler{
		identityService:    app.Services.Identity,
		settingsController: app.Controllers.Settings,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
			validate:   app.Validator,
		},
	}
}

func (h *SettingsHandler) Register() {
	settings := h.router.Group("/settings", h.middleware.RequireAuth(h.identityService))
	settings.Get("/", h.get)
	settings.Patch("/", h.update)
	settings.Post("/push-subscriptions", h.registerPushSubscription)
}

func (h *SettingsHandler) get(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	settings, err := h.settingsController.Get(c.UserContext(), user)
	if err != nil {
		return respondError(c, err, "Failed to load settings")
	}

	return c.JSON(fiber.Map{"settings": settings})
}

func (h *SettingsHandler) update(c *fiber.Ctx) error {
	log := h.log.Function("update")
	user := middleware.GetUser(c)

	var req settingsController.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse settings update", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if fieldErrors, err := h.validate.Validate(req); err != nil {
		return respondError(c, err, "Failed to validate request")
	} else if fieldErrors != nil {
		return respondValidationErrors(c, fieldErrors)
	}

	settings, err := h.settingsController.Update(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, err, "Failed to update settings")
	}

	return c.JSON(fiber.Map{"settings": settings})
}

func (h *SettingsHandler) registerPushSubscription(c *fiber.Ctx) error {
	log := h.log.Function("registerPushSubscription")
	user := middleware.GetUser(c)

	var req settingsController.PushSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse push subscription", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if fieldErrors, err := h.validate.Validate(req); err != nil {
		return respondError(c, err, "Failed to validate request")
	} else if fieldErrors != nil {
		return respondValidationErrors(c, fieldErrors)
	}

	if err := h.settingsController.RegisterPushSubscription(c.UserContext(), user, req); err != nil {
		return respondError(c, err, "Failed to register push subscription")
	}

	return c.SendStatus(fiber.StatusCreated)
}
