package handlers

import (
	"log/slog"
	"net/http"

	"posbackend/internal/common"
	"posbackend/internal/models"
	"posbackend/internal/services"

	"github.com/labstack/echo/v4"
)

// CustomerHandlers serves /api/customers.
type CustomerHandlers struct {
	customerService services.CustomerService
	logger          *slog.Logger
}

func NewCustomerHandlers(customerService services.CustomerService, logger *slog.Logger) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService, logger: logger}
}

// CustomerRequest is the body of customer create and update.
type CustomerRequest struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	LoyaltyPoints int     `json:"loyaltyPoints"`
	Active        *bool   `json:"active"`
}

func (r *CustomerRequest) toCustomer() *models.Customer {
	customer := &models.Customer{
		ID:            r.ID,
		Name:          r.Name,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
		LoyaltyPoints: r.LoyaltyPoints,
		Active:        true,
	}
	if r.Active != nil {
		customer.Active = *r.Active
	}
	return customer
}

func (h *CustomerHandlers) ListCustomers(c echo.Context, t *services.TenantHandle) error {
	customers, err := h.customerService.List(c.Request().Context(), t.DB)
	if err != nil {
		return respondError(c, h.logger, err, "Customer", "Failed to fetch customers")
	}
	if customers == nil {
		customers = []*models.Customer{}
	}
	return c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandlers) GetCustomer(c echo.Context, t *services.TenantHandle) error {
	customer, err := h.customerService.GetByID(c.Request().Context(), t.DB, c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, err, "Customer", "Failed to fetch customer")
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandlers) CreateCustomer(c echo.Context, t *services.TenantHandle) error {
	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	customer := req.toCustomer()
	if err := h.customerService.Create(c.Request().Context(), t.DB, customer); err != nil {
		return respondError(c, h.logger, err, "Customer ID", "Failed to create customer")
	}
	return c.JSON(http.StatusCreated, CreatedResponse{Message: "Customer created", ID: customer.ID})
}

func (h *CustomerHandlers) UpdateCustomer(c echo.Context, t *services.TenantHandle) error {
	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	customer := req.toCustomer()
	customer.ID = c.Param("id")

	if err := h.customerService.Update(c.Request().Context(), t.DB, customer); err != nil {
		return respondError(c, h.logger, err, "Customer", "Failed to update customer")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Customer updated"})
}

func (h *CustomerHandlers) DeleteCustomer(c echo.Context, t *services.TenantHandle) error {
	if err := h.customerService.Delete(c.Request().Context(), t.DB, c.Param("id")); err != nil {
		return respondError(c, h.logger, err, "Customer", "Failed to delete customer")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Customer deleted"})
}
