package handlers

import (
	"brokex/internal/app"
	"brokex/internal/database"
	"brokex/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Handler
	categoryRepo repositories.CategoryRepository
	db           database.DB
}

func NewCategoryHandler(app app.App, router fiber.Router) *CategoryHandler {
	log := logger.New("handlers").File("category_handler")
	return &CategoryHandler{
		categoryRepo: app.Repos.Category,
		db:           app.Database,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
			validate:   app.Validator,
		},
	}
}

func (h *CategoryHandler) Register() {
	h.router.Get("/categories", h.list)
}

func (h *CategoryHandler) list(c *fiber.Ctx) error {
	categories, err := h.categoryRepo.GetAll(c.UserContext(), h.db.SQL)
	if err != nil {
		return respondError(c, err, "Failed to list categories")
	}

	return c.JSON(fiber.Map{"categories": categories})
}
