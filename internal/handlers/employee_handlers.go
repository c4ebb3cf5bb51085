package handlers

import (
	"log/slog"
	"net/http"

	"posbackend/internal/common"
	"posbackend/internal/models"
	"posbackend/internal/services"

	"github.com/labstack/echo/v4"
)

// EmployeeHandlers serves /api/employees. Passwords are accepted on write
// and never returned.
type EmployeeHandlers struct {
	employeeService services.EmployeeService
	logger          *slog.Logger
}

func NewEmployeeHandlers(employeeService services.EmployeeService, logger *slog.Logger) *EmployeeHandlers {
	return &EmployeeHandlers{employeeService: employeeService, logger: logger}
}

func (h *EmployeeHandlers) ListEmployees(c echo.Context, t *services.TenantHandle) error {
	employees, err := h.employeeService.List(c.Request().Context(), t.DB)
	if err != nil {
		return respondError(c, h.logger, err, "Employee", "Failed to fetch employees")
	}
	if employees == nil {
		employees = []*models.Employee{}
	}
	return c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandlers) GetEmployee(c echo.Context, t *services.TenantHandle) error {
	employee, err := h.employeeService.GetByID(c.Request().Context(), t.DB, c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, err, "Employee", "Failed to fetch employee")
	}
	return c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandlers) CreateEmployee(c echo.Context, t *services.TenantHandle) error {
	var input models.EmployeeInput
	if err := c.Bind(&input); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	employee, err := h.employeeService.Create(c.Request().Context(), t.DB, &input)
	if err != nil {
		return respondError(c, h.logger, err, "Employee ID or username", "Failed to create employee")
	}
	return c.JSON(http.StatusCreated, CreatedResponse{Message: "Employee created", ID: employee.ID})
}

func (h *EmployeeHandlers) UpdateEmployee(c echo.Context, t *services.TenantHandle) error {
	var input models.EmployeeInput
	if err := c.Bind(&input); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if _, err := h.employeeService.Update(c.Request().Context(), t.DB, c.Param("id"), &input); err != nil {
		return respondError(c, h.logger, err, "Employee", "Failed to update employee")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Employee updated"})
}

func (h *EmployeeHandlers) DeleteEmployee(c echo.Context, t *services.TenantHandle) error {
	if err := h.employeeService.Delete(c.Request().Context(), t.DB, c.Param("id")); err != nil {
		return respondError(c, h.logger, err, "Employee", "Failed to delete employee")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Employee deleted"})
}
