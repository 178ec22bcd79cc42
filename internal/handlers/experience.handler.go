package handlers

import (
	"brokex/internal/app"
	"brokex/internal/handlers/middleware"
	"brokex/internal/services"

	experienceController "brokex/internal/controllers/experiences"
	fixController "brokex/internal/controllers/fixes"
	voteController "brokex/internal/controllers/votes"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ExperienceHandler struct {
	Handler
	identityService      *services.IdentityService
	experienceController experienceController.ExperienceControllerInterface
	voteController       voteController.VoteControllerInterface
	fixController        fixController.FixControllerInterface
}

type VoteRequest struct {
	Vote *bool `json:"vote" validate:"required"`
}

func NewExperienceHandler(app app.App, router fiber.Router) *ExperienceHandler {
	log := logger.New("handlers").File("experience_handler")
	return &ExperienceHandler{
		identityService:      app.Services.Identity,
		experienceController: app.Controllers.Experience,
		voteController:       app.Controllers.Vote,
		fixController:        app.Controllers.Fix,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
			validate:   app.Validator,
		},
	}
}

func (h *ExperienceHandler) Register() {
	experiences := h.router.Group("/experiences")

	optionalAuth := h.middleware.OptionalAuth(h.identityService)
	requireAuth := h.middleware.RequireAuth(h.identityService)

	// Read endpoints work anonymously but annotate per-user vote state
	// when a valid token is present. Auth is attached per route because
	// both route sets share the /experiences prefix.
	experiences.Get("/", optionalAuth, h.list)
	experiences.Get("/markers", optionalAuth, h.markers)
	experiences.Get("/clusters", optionalAuth, h.clusters)
	experiences.Get("/search", optionalAuth, h.search)
	experiences.Get("/:id", optionalAuth, h.getByID)
	experiences.Get("/:id/fixes", optionalAuth, h.listFixes)
	experiences.Get("/:id/verifications", optionalAuth, h.listVerifications)

	experiences.Post("/", requireAuth, h.create)
	experiences.Patch("/:id", requireAuth, h.update)
	experiences.Delete("/:id", requireAuth, h.delete)
	experiences.Post("/:id/vote", requireAuth, h.vote)
	experiences.Post("/:id/fixes", requireAuth, h.claimFix)
	experiences.Post("/:id/verifications", requireAuth, h.verify)
}

func (h *ExperienceHandler) create(c *fiber.Ctx) error {
	log := h.log.Function("create")
	user := middleware.GetUser(c)

	var req experienceController.CreateExperienceRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse create request", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if fieldErrors, err := h.validate.Validate(req); err != nil {
		return respondError(c, err, "Failed to validate request")
	} else if fieldErrors != nil {
		return respondValidationErrors(c, fieldErrors)
	}

	experience, err := h.experienceController.Create(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, err, "Failed to create experience")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"experience": experience})
}

func (h *ExperienceHandler) list(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	experiences, err := h.experienceController.List(c.UserContext(), user)
	if err != nil {
		return respondError(c, err, "Failed to list experiences")
	}

	return c.JSON(fiber.Map{"experiences": experiences})
}

func (h *ExperienceHandler) markers(c *fiber.Ctx) error {
	markers, err := h.experienceController.Markers(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to load markers")
	}

	return c.JSON(fiber.Map{"markers": markers})
}

func (h *ExperienceHandler) clusters(c *fiber.Ctx) error {
	zoom := c.QueryInt("zoom", 12)

	clusters, err := h.experienceController.Clusters(c.UserContext(), zoom)
	if err != nil {
		return respondError(c, err, "Failed to cluster markers")
	}

	return c.JSON(fiber.Map{"clusters": clusters, "zoom": zoom})
}

func (h *ExperienceHandler) search(c *fiber.Ctx) error {
	query := c.Query("q")

	results, err := h.experienceController.Search(c.UserContext(), query)
	if err != nil {
		return respondError(c, err, "Failed to search experiences")
	}

	return c.JSON(fiber.Map{"experiences": results})
}

func (h *ExperienceHandler) getByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid experience id"})
	}
	user := middleware.GetUser(c)

	experience, err := h.experienceController.GetByID(c.UserContext(), user, id)
	if err != nil {
		return respondError(c, err, "Failed to get experience")
	}

	return c.JSON(fiber.Map{"experience": experience})
}

func (h *ExperienceHandler) update(c *fiber.Ctx) error {
	log := h.log.Function("update")
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid experience id"})
	}
	user := middleware.GetUser(c)

	var req experienceController.UpdateExperienceRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse update request", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if fieldErrors, err := h.validate.Validate(req); err != nil {
		return respondError(c, err, "Failed to validate request")
	} else if fieldErrors != nil {
		return respondValidationErrors(c, fieldErrors)
	}

	experience, err := h.experienceController.Update(c.UserContext(), user, id, req)
	if err != nil {
		return respondError(c, err, "Failed to update experience")
	}

	return c.JSON(fiber.Map{"experience": experience})
}

func (h *ExperienceHandler) delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid experience id"})
	}
	user := middleware.GetUser(c)

	if err := h.experienceController.Delete(c.UserContext(), user, id); err != nil {
		return respondError(c, err, "Failed to delete experience")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ExperienceHandler) vote(c *fiber.Ctx) error {
	log := h.log.Function("vote")
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid experience id"})
	}
	user := middleware.GetUser(c)

	var req VoteRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse vote request", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if fieldErrors, err := h.validate.Validate(req); err != nil {
		return respondError(c, err, "Failed to validate request")
	} else if fieldErrors != nil {
		return respondValidationErrors(c, fieldErrors)
	}

	result, err := h.voteController.Toggle(c.UserContext(), user, id, *req.Vote)
	if err != nil {
		return respondError(c, err, "Failed to record vote")
	}

	return c.JSON(fiber.Map{
		"experience": result.Experience,
		"userVote":   result.UserVote,
	})
}

func (h *ExperienceHandler) listFixes(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid experience id"})
	}

	fixes, err := h.fixController.ListByExperience(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to list fixes")
	}

	return c.JSON(fiber.Map{"fixes": fixes})
}

func (h *ExperienceHandler) listVerifications(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid experience id"})
	}

	verifications, err := h.fixController.ListVerifications(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to list verifications")
	}

	return c.JSON(fiber.Map{"verifications": verifications})
}

func (h *ExperienceHandler) claimFix(c *fiber.Ctx) error {
	log := h.log.Function("claimFix")
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid experience id"})
	}
	user := middleware.GetUser(c)

	var req fixController.ClaimRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse claim request", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if fieldErrors, err := h.validate.Validate(req); err != nil {
		return respondError(c, err, "Failed to validate request")
	} else if fieldErrors != nil {
		return respondValidationErrors(c, fieldErrors)
	}

	fix, err := h.fixController.Claim(c.UserContext(), user, id, req)
	if err != nil {
		return respondError(c, err, "Failed to claim fix")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"fix": fix})
}

func (h *ExperienceHandler) verify(c *fiber.Ctx) error {
	log := h.log.Function("verify")
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid experience id"})
	}
	user := middleware.GetUser(c)

	var req fixController.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse verification request", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if fieldErrors, err := h.validate.Validate(req); err != nil {
		return respondError(c, err, "Failed to validate request")
	} else if fieldErrors != nil {
		return respondValidationErrors(c, fieldErrors)
	}

	verification, err := h.fixController.Verify(c.UserContext(), user, id, req)
	if err != nil {
		return respondError(c, err, "Failed to record verification")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"verification": verification})
}

func parseID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
