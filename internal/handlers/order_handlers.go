package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"posbackend/internal/common"
	"posbackend/internal/models"
	"posbackend/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers serves /api/orders.
type OrderHandlers struct {
	orderService services.OrderServiceInterface
	logger       *slog.Logger
}

func NewOrderHandlers(orderService services.OrderServiceInterface, logger *slog.Logger) *OrderHandlers {
	return &OrderHandlers{orderService: orderService, logger: logger}
}

// CreateOrderResponse is returned with 201 on a committed order.
type CreateOrderResponse struct {
	Message     string `json:"message"`
	OrderID     int64  `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

// CancelOrderRequest is the optional body of PUT /orders/:id/cancel.
type CancelOrderRequest struct {
	Reason *string `json:"reason"`
}

// UpdateOrderRequest is the part of PUT /orders/:id that is read. Clients
// send the whole order back; every other field is ignored.
type UpdateOrderRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// CreateOrder commits a cart. Every failure, validation included, is
// reported as 500 with the error message.
func (h *OrderHandlers) CreateOrder(c echo.Context, t *services.TenantHandle) error {
	var cart models.Cart
	if err := c.Bind(&cart); err != nil {
		return common.SendServerError(c, "Invalid order payload")
	}

	record, err := h.orderService.CreateOrder(c.Request().Context(), t.DB, &cart)
	if err != nil {
		h.logger.Error("create order failed", slog.String("tenant_db", t.Name), slog.String("error", err.Error()))
		return common.SendServerError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, CreateOrderResponse{
		Message:     "Order created",
		OrderID:     record.ID,
		OrderNumber: record.OrderNumber,
	})
}

// ListOrders returns the newest orders first.
func (h *OrderHandlers) ListOrders(c echo.Context, t *services.TenantHandle) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return common.SendValidationError(c, "limit", "must be an integer")
		}
		limit = n
	}

	orders, err := h.orderService.ListOrders(c.Request().Context(), t.DB, limit)
	if err != nil {
		return respondError(c, h.logger, err, "Order", "Failed to fetch orders")
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandlers) GetOrder(c echo.Context, t *services.TenantHandle) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), t.DB, id)
	if err != nil {
		return respondError(c, h.logger, err, "Order", "Failed to fetch order")
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateOrder applies a status change sent with the full order. Only
// CANCELLED is accepted; notes are stored with the cancellation.
func (h *OrderHandlers) UpdateOrder(c echo.Context, t *services.TenantHandle) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if !strings.EqualFold(strings.TrimSpace(req.Status), models.OrderStatusCancelled) {
		return common.SendValidationError(c, "status", "only "+models.OrderStatusCancelled+" can be applied to an order")
	}

	return h.cancel(c, t, id, req.Notes)
}

// CancelOrder marks the order cancelled and puts its stock back.
func (h *OrderHandlers) CancelOrder(c echo.Context, t *services.TenantHandle) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req CancelOrderRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return common.SendClientError(c, "Invalid request format")
		}
	}

	return h.cancel(c, t, id, req.Reason)
}

func (h *OrderHandlers) cancel(c echo.Context, t *services.TenantHandle, id int64, note *string) error {
	if err := h.orderService.CancelOrder(c.Request().Context(), t.DB, id, note); err != nil {
		return respondError(c, h.logger, err, "Order", "Failed to cancel order")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Order cancelled"})
}
