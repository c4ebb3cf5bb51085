package middleware

import (
	"errors"
	"log/slog"

	"posbackend/internal/common"
	"posbackend/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlerFunc is a handler that runs against a resolved tenant
// database.
type TenantHandlerFunc func(c echo.Context, t *services.TenantHandle) error

// TenantMiddleware resolves the tenant database for each request and hands
// it to the wrapped handler as an argument.
type TenantMiddleware struct {
	resolver services.TenantService
	logger   *slog.Logger
}

func NewTenantMiddleware(resolver services.TenantService, logger *slog.Logger) *TenantMiddleware {
	return &TenantMiddleware{resolver: resolver, logger: logger}
}

// Handle adapts fn into an echo handler. fn is not called when resolution
// fails.
func (m *TenantMiddleware) Handle(fn TenantHandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		principal, _ := common.GetPrincipalFromContext(ctx)

		handle, err := m.resolver.Resolve(ctx, principal)
		if err != nil {
			status := common.StatusFor(err)
			switch {
			case errors.Is(err, common.ErrTenantNotFound):
				return common.SendUnauthorizedError(c, "Tenant not found or inactive")
			case status >= 500:
				m.logger.Error("tenant resolution failed", slog.String("path", c.Path()), slog.String("error", err.Error()))
				return common.SendServerError(c, "Tenant database unavailable")
			default:
				return common.SendError(c, status, err.Error())
			}
		}
		return fn(c, handle)
	}
}
