package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"posbackend/internal/common"
	"posbackend/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Handlers groups every route handler.
type Handlers struct {
	Auth       *AuthHandlers
	Health     *HealthHandlers
	Orders     *OrderHandlers
	Items      *ItemHandlers
	Categories *CategoryHandlers
	Customers  *CustomerHandlers
	Employees  *EmployeeHandlers
}

// RegisterRoutes mounts the public health routes and the /api tree. Every
// /api route except login runs against the caller's tenant database.
func RegisterRoutes(e *echo.Echo, h *Handlers, auth echo.MiddlewareFunc, tm *middleware.TenantMiddleware, loginLimiter echo.MiddlewareFunc) {
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/ready", h.Health.ReadinessCheck)

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.Auth.Login, loginLimiter)
	authGroup.GET("/me", h.Auth.Me, auth)

	scoped := api.Group("", auth)

	scoped.GET("/orders", tm.Handle(h.Orders.ListOrders))
	scoped.POST("/orders", tm.Handle(h.Orders.CreateOrder))
	scoped.GET("/orders/:id", tm.Handle(h.Orders.GetOrder))
	scoped.PUT("/orders/:id", tm.Handle(h.Orders.UpdateOrder))
	scoped.PUT("/orders/:id/cancel", tm.Handle(h.Orders.CancelOrder))

	scoped.GET("/items", tm.Handle(h.Items.ListItems))
	scoped.POST("/items", tm.Handle(h.Items.CreateItem))
	scoped.GET("/items/:code", tm.Handle(h.Items.GetItem))
	scoped.PUT("/items/:code", tm.Handle(h.Items.UpdateItem))
	scoped.DELETE("/items/:code", tm.Handle(h.Items.DeleteItem))
	scoped.POST("/items/:code/image", tm.Handle(h.Items.UploadItemImage))

	scoped.GET("/categories", tm.Handle(h.Categories.ListCategories))
	scoped.POST("/categories", tm.Handle(h.Categories.CreateCategory))
	scoped.GET("/categories/:id", tm.Handle(h.Categories.GetCategory))
	scoped.PUT("/categories/:id", tm.Handle(h.Categories.UpdateCategory))
	scoped.DELETE("/categories/:id", tm.Handle(h.Categories.DeleteCategory))

	scoped.GET("/customers", tm.Handle(h.Customers.ListCustomers))
	scoped.POST("/customers", tm.Handle(h.Customers.CreateCustomer))
	scoped.GET("/customers/:id", tm.Handle(h.Customers.GetCustomer))
	scoped.PUT("/customers/:id", tm.Handle(h.Customers.UpdateCustomer))
	scoped.DELETE("/customers/:id", tm.Handle(h.Customers.DeleteCustomer))

	scoped.GET("/employees", tm.Handle(h.Employees.ListEmployees))
	scoped.POST("/employees", tm.Handle(h.Employees.CreateEmployee))
	scoped.GET("/employees/:id", tm.Handle(h.Employees.GetEmployee))
	scoped.PUT("/employees/:id", tm.Handle(h.Employees.UpdateEmployee))
	scoped.DELETE("/employees/:id", tm.Handle(h.Employees.DeleteEmployee))
}

// ErrorHandler renders errors that escape a handler as {"error": ...}.
// Unknown routes answer 404 "Route not found".
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch {
			case status == http.StatusNotFound:
				message = "Route not found"
			case status < http.StatusInternalServerError:
				message = fmt.Sprint(he.Message)
			}
		}
		if status >= http.StatusInternalServerError {
			logger.Error("unhandled error", slog.String("path", c.Request().URL.Path), slog.String("error", err.Error()))
		}

		var sendErr error
		if c.Request().Method == http.MethodHead {
			sendErr = c.NoContent(status)
		} else {
			sendErr = common.SendError(c, status, message)
		}
		if sendErr != nil {
			logger.Error("write error response", slog.String("error", sendErr.Error()))
		}
	}
}
