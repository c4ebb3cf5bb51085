package handlers

import (
	"log/slog"
	"net/http"

	"posbackend/internal/common"
	"posbackend/internal/models"
	"posbackend/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandlers serves /api/categories.
type CategoryHandlers struct {
	categoryService services.CategoryService
	logger          *slog.Logger
}

func NewCategoryHandlers(categoryService services.CategoryService, logger *slog.Logger) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService, logger: logger}
}

// CategoryRequest is the body of category create and update.
type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

func (h *CategoryHandlers) ListCategories(c echo.Context, t *services.TenantHandle) error {
	categories, err := h.categoryService.List(c.Request().Context(), t.DB)
	if err != nil {
		return respondError(c, h.logger, err, "Category", "Failed to fetch categories")
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandlers) GetCategory(c echo.Context, t *services.TenantHandle) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	category, err := h.categoryService.GetByID(c.Request().Context(), t.DB, id)
	if err != nil {
		return respondError(c, h.logger, err, "Category", "Failed to fetch category")
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandlers) CreateCategory(c echo.Context, t *services.TenantHandle) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	category := &models.Category{Name: req.Name, Description: req.Description}
	if err := h.categoryService.Create(c.Request().Context(), t.DB, category); err != nil {
		return respondError(c, h.logger, err, "Category name", "Failed to create category")
	}
	return c.JSON(http.StatusCreated, CreatedResponse{Message: "Category created", ID: category.ID})
}

func (h *CategoryHandlers) UpdateCategory(c echo.Context, t *services.TenantHandle) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	category := &models.Category{ID: id, Name: req.Name, Description: req.Description, Active: true}
	if req.Active != nil {
		category.Active = *req.Active
	}
	if err := h.categoryService.Update(c.Request().Context(), t.DB, category); err != nil {
		return respondError(c, h.logger, err, "Category", "Failed to update category")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Category updated"})
}

func (h *CategoryHandlers) DeleteCategory(c echo.Context, t *services.TenantHandle) error {
	id, err := common.ParseID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.categoryService.Delete(c.Request().Context(), t.DB, id); err != nil {
		return respondError(c, h.logger, err, "Category", "Failed to delete category")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted"})
}
