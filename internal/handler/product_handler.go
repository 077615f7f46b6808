package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sellerhq/seller_api/internal/middleware"
	"github.com/sellerhq/seller_api/internal/models"
	"github.com/sellerhq/seller_api/internal/service"
	"github.com/sellerhq/seller_api/internal/sku"
	"github.com/sellerhq/seller_api/internal/utils"
	"github.com/sellerhq/seller_api/pkg/woocommerce"
)

// ProductHandler handles product-related HTTP endpoints, including the
// check-sku proxy consumed by the dashboard's validation client.
type ProductHandler struct {
	productService *service.ProductService
	skuService     *service.SKUService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService, skuService *service.SKUService) *ProductHandler {
	return &ProductHandler{productService: productService, skuService: skuService}
}

// List returns the vendor's products with optional filters and pagination.
func (h *ProductHandler) List(c *gin.Context) {
	params := woocommerce.ProductListParams{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   1,
	}
	limit := 20
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			params.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	params.PerPage = limit

	products, total, err := h.productService.List(c.Request.Context(), middleware.GetToken(c), params)
	if err != nil {
		upstreamError(c, err, "Failed to list products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, params.Page, limit, total)
}

// Get returns a single product.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.Get(c.Request.Context(), middleware.GetToken(c), id)
	if err != nil {
		if err == utils.ErrProductNotFound {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		upstreamError(c, err, "Failed to get product")
		return
	}
	utils.Success(c, 200, "Product retrieved successfully", product)
}

// Create creates a product (simple or variable).
func (h *ProductHandler) Create(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	product, err := h.productService.Create(c.Request.Context(), middleware.GetToken(c), input)
	if err != nil {
		upstreamError(c, err, "Failed to create product")
		return
	}
	utils.Success(c, 201, "Product created successfully", product)
}

// Update edits a product.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	product, err := h.productService.Update(c.Request.Context(), middleware.GetToken(c), id, input)
	if err != nil {
		if err == utils.ErrProductNotFound {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		upstreamError(c, err, "Failed to update product")
		return
	}
	utils.Success(c, 200, "Product updated successfully", product)
}

// Delete trashes a product.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), middleware.GetToken(c), id); err != nil {
		if err == utils.ErrProductNotFound {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		upstreamError(c, err, "Failed to delete product")
		return
	}
	utils.Success(c, 200, "Product deleted successfully", nil)
}

// ListVariations returns a product's variations.
func (h *ProductHandler) ListVariations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	variations, err := h.productService.ListVariations(c.Request.Context(), middleware.GetToken(c), id)
	if err != nil {
		upstreamError(c, err, "Failed to list variations")
		return
	}
	utils.Success(c, 200, "Variations retrieved successfully", gin.H{"variations": variations})
}

// CreateVariation adds a variation to a variable product.
func (h *ProductHandler) CreateVariation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input models.VariationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	variation, err := h.productService.CreateVariation(c.Request.Context(), middleware.GetToken(c), id, input)
	if err != nil {
		switch err {
		case utils.ErrProductNotFound:
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
		case utils.ErrNotVariable:
			utils.Error(c, 409, "PRODUCT_NOT_VARIABLE", "Product is not a variable product")
		default:
			upstreamError(c, err, "Failed to create variation")
		}
		return
	}
	utils.Success(c, 201, "Variation created successfully", variation)
}

// UpdateVariation edits a variation.
func (h *ProductHandler) UpdateVariation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	variationID, ok := pathID(c, "variationId")
	if !ok {
		return
	}
	var input models.VariationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	variation, err := h.productService.UpdateVariation(c.Request.Context(), middleware.GetToken(c), id, variationID, input)
	if err != nil {
		if err == utils.ErrVariationNotFound {
			utils.Error(c, 404, "VARIATION_NOT_FOUND", "Variation not found")
			return
		}
		upstreamError(c, err, "Failed to update variation")
		return
	}
	utils.Success(c, 200, "Variation updated successfully", variation)
}

// DisableVariation hides a variation from sale while keeping its SKU reserved.
func (h *ProductHandler) DisableVariation(c *gin.Context) {
	h.toggleVariation(c, true)
}

// EnableVariation puts a disabled variation back on sale and releases its SKU.
func (h *ProductHandler) EnableVariation(c *gin.Context) {
	h.toggleVariation(c, false)
}

func (h *ProductHandler) toggleVariation(c *gin.Context, disable bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	variationID, ok := pathID(c, "variationId")
	if !ok {
		return
	}

	var err error
	if disable {
		err = h.productService.DisableVariation(c.Request.Context(), middleware.GetToken(c), id, variationID)
	} else {
		err = h.productService.EnableVariation(c.Request.Context(), middleware.GetToken(c), id, variationID)
	}
	if err != nil {
		switch err {
		case utils.ErrProductNotFound:
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
		case utils.ErrVariationNotFound:
			utils.Error(c, 404, "VARIATION_NOT_FOUND", "Variation not found")
		default:
			upstreamError(c, err, "Failed to toggle variation")
		}
		return
	}
	if disable {
		utils.Success(c, 200, "Variation disabled, SKU reserved", nil)
		return
	}
	utils.Success(c, 200, "Variation enabled, SKU released", nil)
}

// GenerateSKU returns a candidate SKU for the authenticated vendor. The
// candidate is probabilistically unique only; the dashboard runs it through
// the availability check like any typed SKU.
func (h *ProductHandler) GenerateSKU(c *gin.Context) {
	vendor := middleware.GetVendor(c)
	var input struct {
		ProductName string `json:"productName"`
	}
	// Body is optional; no name means the simple candidate form.
	_ = c.ShouldBindJSON(&input)

	candidate := h.productService.GenerateSKU(vendor.ID, input.ProductName)
	utils.Success(c, 200, "SKU candidate generated", gin.H{"sku": candidate})
}

// CheckSKU is the availability proxy endpoint:
//
//	GET /v1/products/check-sku?sku=...&excludeProductId=...&excludeVariationId=...
//	    &checkDisabledVariations=true|false&excludeVariationSku=...
//
// It answers with the flat shape the dashboard validation client consumes and
// exists so the browser can run the check without crossing origins to the
// store. Upstream failures degrade to a low-confidence body carrying the
// upstream status instead of a generic 500.
func (h *ProductHandler) CheckSKU(c *gin.Context) {
	skuValue := c.Query("sku")
	if skuValue == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "sku parameter is required",
		})
		return
	}

	req := sku.Request{
		SKU:                     skuValue,
		ExcludeProductID:        queryInt(c, "excludeProductId"),
		ExcludeVariationID:      queryInt(c, "excludeVariationId"),
		CheckDisabledVariations: c.Query("checkDisabledVariations") == "true",
		ExcludeVariationSKU:     c.Query("excludeVariationSku"),
	}

	result := h.skuService.CheckAvailability(c.Request.Context(), middleware.GetToken(c), req)
	if result == nil {
		// Should not happen; answer degraded rather than failing hard.
		log.Error().Str("sku", skuValue).Msg("availability check returned no result")
		c.JSON(http.StatusInternalServerError, sku.Result{
			IsAvailable: false,
			Confidence:  sku.ConfidenceLow,
			Error:       "availability check failed",
		})
		return
	}

	status := http.StatusOK
	if result.Confidence == sku.ConfidenceLow && result.UpstreamStatus > 0 {
		// Pass the upstream status through; the degraded body still tells the
		// client it may proceed.
		status = result.UpstreamStatus
	}
	c.JSON(status, result)
}

// pathID parses a positive integer path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_ID", "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter; 0 means unset.
func queryInt(c *gin.Context, name string) int {
	v := c.Query(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// upstreamError maps a store API failure onto the response envelope, keeping
// the upstream status where one exists.
func upstreamError(c *gin.Context, err error, message string) {
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	var apiErr *woocommerce.APIError
	if errors.As(err, &apiErr) {
		utils.Error(c, apiErr.Status, "UPSTREAM_ERROR", apiErr.Message)
		return
	}
	utils.Error(c, 502, "UPSTREAM_UNREACHABLE", message)
}
