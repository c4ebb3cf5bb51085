package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"posbackend/internal/common"
	"posbackend/internal/models"
	"posbackend/internal/services"

	"github.com/labstack/echo/v4"
)

// DefaultMinStockLevel applies when a new item omits minStockLevel.
const DefaultMinStockLevel = 10

// ItemHandlers serves /api/items.
type ItemHandlers struct {
	itemService services.ItemService
	logger      *slog.Logger
}

func NewItemHandlers(itemService services.ItemService, logger *slog.Logger) *ItemHandlers {
	return &ItemHandlers{itemService: itemService, logger: logger}
}

// ItemRequest is the body of item create and update.
type ItemRequest struct {
	Code          string   `json:"code"`
	Description   string   `json:"description"`
	Category      *string  `json:"category"`
	UnitPrice     *float64 `json:"unitPrice"`
	QtyOnHand     *int     `json:"qtyOnHand"`
	MinStockLevel *int     `json:"minStockLevel"`
	Barcode       *string  `json:"barcode"`
	Notes         *string  `json:"notes"`
	ImageURL      *string  `json:"imageUrl"`
	Active        *bool    `json:"active"`
}

func (r *ItemRequest) toItem() *models.Item {
	item := &models.Item{
		Code:          r.Code,
		Description:   r.Description,
		Category:      r.Category,
		Barcode:       r.Barcode,
		Notes:         r.Notes,
		ImageURL:      r.ImageURL,
		MinStockLevel: DefaultMinStockLevel,
		Active:        true,
	}
	if r.UnitPrice != nil {
		item.UnitPrice = *r.UnitPrice
	}
	if r.QtyOnHand != nil {
		item.QtyOnHand = *r.QtyOnHand
	}
	if r.MinStockLevel != nil {
		item.MinStockLevel = *r.MinStockLevel
	}
	if r.Active != nil {
		item.Active = *r.Active
	}
	return item
}

func (h *ItemHandlers) ListItems(c echo.Context, t *services.TenantHandle) error {
	items, err := h.itemService.List(c.Request().Context(), t.DB)
	if err != nil {
		return respondError(c, h.logger, err, "Item", "Failed to fetch items")
	}
	if items == nil {
		items = []*models.Item{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ItemHandlers) GetItem(c echo.Context, t *services.TenantHandle) error {
	item, err := h.itemService.GetByCode(c.Request().Context(), t.DB, c.Param("code"))
	if err != nil {
		return respondError(c, h.logger, err, "Item", "Failed to fetch item")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandlers) CreateItem(c echo.Context, t *services.TenantHandle) error {
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.Description) == "" ||
		req.UnitPrice == nil || req.QtyOnHand == nil {
		return common.SendClientError(c, "Missing required fields")
	}

	item := req.toItem()
	if err := h.itemService.Create(c.Request().Context(), t.DB, item); err != nil {
		return respondError(c, h.logger, err, "Item code", "Failed to create item")
	}
	return c.JSON(http.StatusCreated, CreatedResponse{Message: "Item created", Code: item.Code})
}

func (h *ItemHandlers) UpdateItem(c echo.Context, t *services.TenantHandle) error {
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	item := req.toItem()
	item.Code = c.Param("code")

	if err := h.itemService.Update(c.Request().Context(), t.DB, item); err != nil {
		return respondError(c, h.logger, err, "Item", "Failed to update item")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Item updated"})
}

// DeleteItem deactivates the item; order history keeps referencing it.
func (h *ItemHandlers) DeleteItem(c echo.Context, t *services.TenantHandle) error {
	if err := h.itemService.Delete(c.Request().Context(), t.DB, c.Param("code")); err != nil {
		return respondError(c, h.logger, err, "Item", "Failed to delete item")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Item deleted"})
}

// UploadItemImage accepts a multipart "image" field.
func (h *ItemHandlers) UploadItemImage(c echo.Context, t *services.TenantHandle) error {
	file, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.SendClientError(c, "Unable to read image")
	}
	defer src.Close()

	upload := &services.ImageUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
		Size:        file.Size,
		Reader:      src,
	}
	item, err := h.itemService.UploadImage(c.Request().Context(), t, c.Param("code"), upload)
	if err != nil {
		return respondError(c, h.logger, err, "Item", "Failed to upload image")
	}
	return c.JSON(http.StatusOK, item)
}
