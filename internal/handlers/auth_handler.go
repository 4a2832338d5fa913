package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"doctorcar-service/internal/models"
	"doctorcar-service/internal/services"
	"doctorcar-service/internal/utils"

	"github.com/gofiber/fiber/v3"
)

const oauthStateCookie = "workshop_oauth_state"

type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *AuthHandler) Register(app *fiber.App) {
	authGroup := app.Group("/auth")
	authGroup.Get("/login", h.Login)
	authGroup.Get("/callback", h.Callback)

	protected := authGroup.Group("", SessionMiddleware(h.authService))
	protected.Post("/logout", h.Logout)
	protected.Get("/me", h.Me)
	protected.Put("/me", h.UpdateMe)
}

// Login redirects the browser to the OAuth provider
func (h *AuthHandler) Login(c fiber.Ctx) error {
	state, err := services.NewStateToken()
	if err != nil {
		slog.Error("Failed to generate oauth state", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("LOGIN_FAILED", "Failed to start login"))
	}

	cookieCfg := h.authService.CookieConfig()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Domain:   cookieCfg.CookieDomain,
		HTTPOnly: true,
		Secure:   cookieCfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})

	return c.Redirect().To(h.authService.LoginURL(state))
}

// Callback completes the OAuth flow and opens a session
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return c.Status(http.StatusUnauthorized).JSON(
			utils.CreateErrorResponse("UNAUTHORIZED", "Invalid OAuth state"))
	}

	code := c.Query("code")
	if code == "" {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Authorization code is required"))
	}

	token, user, err := h.authService.HandleCallback(c.Context(), code)
	if err != nil {
		slog.Error("OAuth callback failed", "error", err)
		return c.Status(http.StatusUnauthorized).JSON(
			utils.CreateErrorResponse("UNAUTHORIZED", "Login failed"))
	}

	now := time.Now()
	cookieCfg := h.authService.CookieConfig()
	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    services.CookieValue(token, now),
		Domain:   cookieCfg.CookieDomain,
		HTTPOnly: true,
		Secure:   cookieCfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  now.Add(services.SessionTTL()),
	})

	c.ClearCookie(oauthStateCookie)

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(user))
}

// Logout invalidates the session and clears the cookie
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	cookie := c.Cookies(services.SessionCookieName)
	if token, err := services.ParseCookieValue(cookie); err == nil {
		if err := h.authService.Logout(c.Context(), token); err != nil {
			slog.Error("Failed to delete session", "error", err)
		}
	}

	c.ClearCookie(services.SessionCookieName)

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"message": "Logged out",
	}))
}

// UpdateMe edits the signed-in user's own profile
func (h *AuthHandler) UpdateMe(c fiber.Ctx) error {
	var request models.UpdateProfileRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	user, err := h.userService.UpdateProfile(c.Context(), currentUserID(c), request)
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "User not found"))
		}
		slog.Error("Failed to update profile", "user_id", currentUserID(c), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPDATE_FAILED", "Failed to update profile"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(user))
}

// Me returns the signed-in user's profile
func (h *AuthHandler) Me(c fiber.Ctx) error {
	user, err := h.userService.GetUserByID(c.Context(), currentUserID(c))
	if err != nil {
		slog.Error("Failed to get current user", "user_id", currentUserID(c), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve profile"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(user))
}
