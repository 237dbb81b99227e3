package handlers

import (
	"github.com/gofiber/fiber/v2"

	"insurehub/internal/adapters/persistence/repositories"
	"insurehub/internal/pkg/response"
)

// CatalogHandler handles product catalog endpoints
type CatalogHandler struct {
	categoryRepo repositories.CategoryRegistry
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(categoryRepo repositories.CategoryRegistry) *CatalogHandler {
	return &CatalogHandler{categoryRepo: categoryRepo}
}

// ListCategories lists product categories
// @Summary List product categories
// @Description Product lines available for application
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response
// @Router /catalog/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categoryRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list categories")
	}

	return response.Success(c, "Categories retrieved", categories)
}
