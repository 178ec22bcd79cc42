package handlers

import (
	"brokex/internal/app"
	"brokex/internal/handlers/middleware"
	"brokex/internal/services"

	fixController "brokex/internal/controllers/fixes"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type FixHandler struct {
	Handler
	identityService *services.IdentityService
	fixController   fixController.FixControllerInterface
}

func NewFixHandler(app app.App, router fiber.Router) *FixHandler {
	log := logger.New("handlers").File("fix_handler")
	return &FixHandler{
		identityService: app.Services.Identity,
		fixController:   app.Controllers.Fix,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
			validate:   app.Validator,
		},
	}
}

func (h *FixHandler) Register() {
	fixes := h.router.Group("/fixes", h.middleware.RequireAuth(h.identityService))
	fixes.Patch("/:id", h.updateStatus)
	fixes.Post("/:id/proof", h.attachProof)
}

func (h *FixHandler) updateStatus(c *fiber.Ctx) error {
	log := h.log.Function("updateStatus")
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid fix id"})
	}
	user := middleware.GetUser(c)

	var req fixController.UpdateFixRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse fix update request", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if fieldErrors, err := h.validate.Validate(req); err != nil {
		return respondError(c, err, "Failed to validate request")
	} else if fieldErrors != nil {
		return respondValidationErrors(c, fieldErrors)
	}

	fix, err := h.fixController.UpdateStatus(c.UserContext(), user, id, req)
	if err != nil {
		return respondError(c, err, "Failed to update fix")
	}

	return c.JSON(fiber.Map{"fix": fix})
}

func (h *FixHandler) attachProof(c *fiber.Ctx) error {
	log := h.log.Function("attachProof")
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid fix id"})
	}
	user := middleware.GetUser(c)

	var req fixController.ProofRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse proof request", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if fieldErrors, err := h.validate.Validate(req); err != nil {
		return respondError(c, err, "Failed to validate request")
	} else if fieldErrors != nil {
		return respondValidationErrors(c, fieldErrors)
	}

	fix, err := h.fixController.AttachProof(c.UserContext(), user, id, req)
	if err != nil {
		return respondError(c, err, "Failed to attach proof")
	}

	return c.JSON(fiber.Map{"fix": fix})
}
