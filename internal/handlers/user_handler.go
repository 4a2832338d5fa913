package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"doctorcar-service/internal/models"
	"doctorcar-service/internal/services"
	"doctorcar-service/internal/utils"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Register(app *fiber.App, session fiber.Handler) {
	// User administration is admin-only
	userGroup := app.Group("/users", session, RequireRole(models.RoleAdmin))
	userGroup.Get("/", h.GetAllUsers)
	userGroup.Get("/:id", h.GetUser)
	userGroup.Put("/:id/role", h.UpdateUserRole)
}

// GetAllUsers lists users with an optional role filter
func (h *UserHandler) GetAllUsers(c fiber.Ctx) error {
	var role *models.UserRole
	if roleParam := c.Query("role"); roleParam != "" {
		parsed := models.UserRole(roleParam)
		if !models.IsValidUserRole(parsed) {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", "Invalid role filter"))
		}
		role = &parsed
	}

	users, err := h.userService.GetAllUsers(c.Context(), role)
	if err != nil {
		slog.Error("Failed to get users", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve users"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateCollectionResponse("users", users, len(users)))
}

// GetUser retrieves a user profile
func (h *UserHandler) GetUser(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid user ID format"))
	}

	user, err := h.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "User not found"))
		}
		slog.Error("Failed to get user", "user_id", userID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve user"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(user))
}

// UpdateUserRole promotes or demotes a user
func (h *UserHandler) UpdateUserRole(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid user ID format"))
	}

	var request models.UpdateUserRoleRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	user, err := h.userService.UpdateUserRole(c.Context(), userID, request)
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "User not found"))
		}
		slog.Error("Failed to update user role", "user_id", userID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPDATE_FAILED", "Failed to update user"))
	}

	slog.Info("User role updated", "user_id", userID, "role", request.Role, "updated_by", currentUserID(c))

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(user))
}
