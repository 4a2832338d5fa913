package handlers

import (
	"net/http"

	"doctorcar-service/internal/models"
	"doctorcar-service/internal/services"
	"doctorcar-service/internal/utils"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	localUserID = "user_id"
	localRole   = "user_role"
)

// SessionMiddleware resolves the session cookie into the request locals.
// Routes behind it can trust user_id and user_role.
func SessionMiddleware(authService *services.AuthService) fiber.Handler {
	return func(c fiber.Ctx) error {
		cookie := c.Cookies(services.SessionCookieName)
		if cookie == "" {
			return c.Status(http.StatusUnauthorized).JSON(
				utils.CreateErrorResponse("UNAUTHORIZED", "Session cookie is required"))
		}

		token, err := services.ParseCookieValue(cookie)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(
				utils.CreateErrorResponse("UNAUTHORIZED", "Invalid session cookie"))
		}

		session, err := authService.ResolveSession(c.Context(), token)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(
				utils.CreateErrorResponse("UNAUTHORIZED", "Session expired or invalid"))
		}

		c.Locals(localUserID, session.UserID)
		c.Locals(localRole, session.Role)

		return c.Next()
	}
}

// RequireRole gates a route group to the given roles
func RequireRole(roles ...models.UserRole) fiber.Handler {
	return func(c fiber.Ctx) error {
		role := currentUserRole(c)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}

		return c.Status(http.StatusForbidden).JSON(
			utils.CreateErrorResponse("FORBIDDEN", "You do not have permission to access this resource"))
	}
}

func currentUserID(c fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals(localUserID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func currentUserRole(c fiber.Ctx) models.UserRole {
	if role, ok := c.Locals(localRole).(models.UserRole); ok {
		return role
	}
	return ""
}
