package handlers

import (
	"brokex/internal/app"
	"brokex/internal/database"
	"brokex/internal/handlers/middleware"
	"brokex/internal/repositories"
	"brokex/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	identityService  *services.IdentityService
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	db               database.DB
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		identityService:  app.Services.Identity,
		userRepo:         app.Repos.User,
		notificationRepo: app.Repos.Notification,
		db:               app.Database,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
			validate:   app.Validator,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")

	protected := users.Group("/", h.middleware.RequireAuth(h.identityService))
	protected.Get("/me", h.getCurrentUser)
	protected.Get("/me/notifications", h.listNotifications)
}

// getCurrentUser returns the authenticated user's full record, including
// notification settings. The middleware user skips the Settings preload, so
// the record is reloaded here.
func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	full, err := h.userRepo.GetByID(c.UserContext(), h.db.SQLWithContext(c.UserContext()), user.ID)
	if err != nil {
		return respondError(c, err, "Failed to load user")
	}

	return c.JSON(fiber.Map{"user": full})
}

func (h *UserHandler) listNotifications(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	limit := c.QueryInt("limit", 50)
	notifications, err := h.notificationRepo.ListByUser(
		c.UserContext(), h.db.SQLWithContext(c.UserContext()), user.ID, limit)
	if err != nil {
		return respondError(c, err, "Failed to list notifications")
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}
