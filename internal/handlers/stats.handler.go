package handlers

import (
	"brokex/internal/app"
	"brokex/internal/handlers/middleware"
	"brokex/internal/services"

	statsController "brokex/internal/controllers/stats"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type StatsHandler struct {
	Handler
	identityService *services.IdentityService
	statsController statsController.StatsControllerInterface
}

func NewStatsHandler(app app.App, router fiber.Router) *StatsHandler {
	log := logger.New("handlers").File("stats_handler")
	return &StatsHandler{
		identityService: app.Services.Identity,
		statsController: app.Controllers.Stats,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
			validate:   app.Validator,
		},
	}
}

func (h *StatsHandler) Register() {
	h.router.Get("/stats", h.platformStats)
	h.router.Get("/achievements", h.middleware.RequireAuth(h.identityService), h.achievements)
}

func (h *StatsHandler) platformStats(c *fiber.Ctx) error {
	stats, err := h.statsController.PlatformStats(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to load platform stats")
	}

	return c.JSON(fiber.Map{"stats": stats})
}

func (h *StatsHandler) achievements(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	achievements, err := h.statsController.Achievements(c.UserContext(), user)
	if err != nil {
		return respondError(c, err, "Failed to load achievements")
	}

	return c.JSON(fiber.Map{"achievements": achievements})
}
