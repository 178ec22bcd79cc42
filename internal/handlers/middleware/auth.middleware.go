package middleware

import (
	"context"
	"strings"

	"brokex/internal/models"
	"brokex/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User" // Fiber context key (string)
)

// RequireAuth validates the bearer token and lazily provisions a local user
// record for the external subject. Requests without a valid token get a 401.
func (m *Middleware) RequireAuth(identityService *services.IdentityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.Context()).Function("RequireAuth")

		token, ok := bearerToken(c)
		if !ok {
			log.Info("missing or malformed authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		identity, err := identityService.ValidateToken(c.Context(), token)
		if err != nil || !identity.Valid {
			log.Info("token validation failed", "error", errString(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		user, err := m.userRepo.FindOrCreateBySubject(
			c.Context(),
			m.DB.SQL,
			identityToUser(identity),
		)
		if err != nil {
			log.Info("failed to resolve user", "subjectID", identity.SubjectID, "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		setUser(c, user)

		log.Info("user authenticated", "subjectID", identity.SubjectID, "userID", user.ID)
		return c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present and continues
// anonymously otherwise. Listing endpoints use it to annotate per-user state.
func (m *Middleware) OptionalAuth(identityService *services.IdentityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Next()
		}

		identity, err := identityService.ValidateToken(c.Context(), token)
		if err != nil || !identity.Valid {
			return c.Next()
		}

		user, err := m.userRepo.GetBySubjectID(c.Context(), m.DB.SQL, identity.SubjectID)
		if err != nil {
			return c.Next()
		}

		setUser(c, user)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" || tokenParts[1] == "" {
		return "", false
	}

	return tokenParts[1], true
}

func identityToUser(identity *services.Identity) *models.User {
	user := &models.User{
		SubjectID:   identity.SubjectID,
		DisplayName: identity.Name,
		FirstName:   identity.GivenName,
		LastName:    identity.FamilyName,
	}
	if identity.Email != "" {
		email := identity.Email
		user.Email = &email
	}
	if identity.Provider != "" {
		provider := identity.Provider
		user.Provider = &provider
	}
	return user
}

func setUser(c *fiber.Ctx, user *models.User) {
	c.Locals(UserKeyFiber, user)
	ctx := context.WithValue(c.UserContext(), UserKey, user)
	c.SetUserContext(ctx)
}

// GetUser extracts user from Fiber context
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}

func errString(err error) string {
	if err == nil {
		return "token marked invalid"
	}
	return err.Error()
}
