package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"posbackend/internal/common"
	"posbackend/internal/services"

	"github.com/labstack/echo/v4"
)

// JWTMiddleware authenticates the bearer token when one is present and
// stores the principal on the request context. Requests without an
// Authorization header pass through unauthenticated and are served from the
// default tenant database.
func JWTMiddleware(authService services.AuthService, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(tokenString) == "" {
				return common.SendUnauthorizedError(c, "Invalid token format")
			}

			ctx := c.Request().Context()
			principal, err := authService.Authenticate(ctx, strings.TrimSpace(tokenString))
			if err != nil {
				if errors.Is(err, common.ErrUnauthorized) {
					return common.SendUnauthorizedError(c, "Invalid or expired token")
				}
				logger.Error("authentication failed", slog.String("error", err.Error()))
				return common.SendError(c, http.StatusInternalServerError, "Authentication failed")
			}

			c.SetRequest(c.Request().WithContext(common.WithPrincipal(ctx, principal)))
			return next(c)
		}
	}
}
