package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sellerhq/seller_api/internal/middleware"
	"github.com/sellerhq/seller_api/internal/service"
	"github.com/sellerhq/seller_api/internal/utils"
)

// CatalogHandler serves store catalog reference data.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Categories returns the store's product category tree.
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.catalogService.Categories(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		upstreamError(c, err, "Failed to list categories")
		return
	}
	utils.Success(c, 200, "Categories retrieved successfully", gin.H{"categories": categories})
}
