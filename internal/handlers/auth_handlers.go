package handlers

import (
	"log/slog"
	"net/http"

	"posbackend/internal/common"
	"posbackend/internal/models"
	"posbackend/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
	logger      *slog.Logger
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, logger *slog.Logger) *AuthHandlers {
	return &AuthHandlers{authService: authService, logger: logger}
}

// Login exchanges a username and password for a bearer token.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	resp, err := h.authService.Login(c.Request().Context(), &req)
	if err != nil {
		switch status := common.StatusFor(err); status {
		case http.StatusUnauthorized:
			return common.SendUnauthorizedError(c, "Invalid username or password")
		case http.StatusBadRequest, http.StatusTooManyRequests:
			return common.SendError(c, status, err.Error())
		default:
			h.logger.Error("login failed", slog.String("error", err.Error()))
			return common.SendServerError(c, "Login failed")
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated principal.
func (h *AuthHandlers) Me(c echo.Context) error {
	principal, ok := common.GetPrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}
	return c.JSON(http.StatusOK, principal)
}
