package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sellerhq/seller_api/internal/models"
	"github.com/sellerhq/seller_api/internal/sku"
	"github.com/sellerhq/seller_api/internal/utils"
	"github.com/sellerhq/seller_api/pkg/woocommerce"
)

// ProductService implements the vendor-facing product operations on top of
// the store API, including variable products and the disabled-variations
// ledger.
type ProductService struct {
	store *woocommerce.Client
}

// NewProductService constructs a ProductService.
func NewProductService(store *woocommerce.Client) *ProductService {
	return &ProductService{store: store}
}

// List returns the vendor's products with the given filters.
func (s *ProductService) List(ctx context.Context, token string, params woocommerce.ProductListParams) ([]woocommerce.Product, int, error) {
	return s.store.ListProducts(ctx, token, params)
}

// Get fetches one product.
func (s *ProductService) Get(ctx context.Context, token string, id int) (*woocommerce.Product, error) {
	product, err := s.store.GetProduct(ctx, token, id)
	if err != nil {
		return nil, mapNotFound(err, utils.ErrProductNotFound)
	}
	return product, nil
}

// Create creates a product from the portal input. Variable products are
// created without prices; their variations carry those.
func (s *ProductService) Create(ctx context.Context, token string, input models.ProductInput) (*woocommerce.Product, error) {
	return s.store.CreateProduct(ctx, token, productPayload(input))
}

// Update applies the portal input as a partial update.
func (s *ProductService) Update(ctx context.Context, token string, id int, input models.ProductInput) (*woocommerce.Product, error) {
	product, err := s.store.UpdateProduct(ctx, token, id, productPayload(input))
	if err != nil {
		return nil, mapNotFound(err, utils.ErrProductNotFound)
	}
	return product, nil
}

// Delete moves a product to trash.
func (s *ProductService) Delete(ctx context.Context, token string, id int) error {
	if err := s.store.DeleteProduct(ctx, token, id); err != nil {
		return mapNotFound(err, utils.ErrProductNotFound)
	}
	return nil
}

// ListVariations returns a product's variations.
func (s *ProductService) ListVariations(ctx context.Context, token string, productID int) ([]woocommerce.Variation, error) {
	variations, err := s.store.ListVariations(ctx, token, productID)
	if err != nil {
		return nil, mapNotFound(err, utils.ErrProductNotFound)
	}
	return variations, nil
}

// CreateVariation adds a variation to a variable product.
func (s *ProductService) CreateVariation(ctx context.Context, token string, productID int, input models.VariationInput) (*woocommerce.Variation, error) {
	parent, err := s.Get(ctx, token, productID)
	if err != nil {
		return nil, err
	}
	if parent.Type != "variable" {
		return nil, utils.ErrNotVariable
	}
	return s.store.CreateVariation(ctx, token, productID, variationPayload(input))
}

// UpdateVariation applies a partial update to a variation.
func (s *ProductService) UpdateVariation(ctx context.Context, token string, productID, variationID int, input models.VariationInput) (*woocommerce.Variation, error) {
	variation, err := s.store.UpdateVariation(ctx, token, productID, variationID, variationPayload(input))
	if err != nil {
		return nil, mapNotFound(err, utils.ErrVariationNotFound)
	}
	return variation, nil
}

// DisableVariation soft-disables a variation: it is hidden from sale but its
// SKU is recorded in the parent's disabled-variations ledger so nobody can
// reuse it while disabled.
func (s *ProductService) DisableVariation(ctx context.Context, token string, productID, variationID int) error {
	variation, err := s.store.GetVariation(ctx, token, productID, variationID)
	if err != nil {
		return mapNotFound(err, utils.ErrVariationNotFound)
	}

	if _, err := s.store.UpdateVariation(ctx, token, productID, variationID, map[string]any{"status": "private"}); err != nil {
		return err
	}

	parent, err := s.store.GetProduct(ctx, token, productID)
	if err != nil {
		return mapNotFound(err, utils.ErrProductNotFound)
	}
	ledger, err := woocommerce.DisabledVariations(parent)
	if err != nil {
		// Unreadable ledger gets replaced rather than lost silently.
		ledger = nil
	}
	for _, entry := range ledger {
		if entry.VariationID == variationID {
			return nil
		}
	}
	ledger = append(ledger, woocommerce.DisabledVariation{VariationID: variationID, SKU: variation.SKU})
	return s.writeLedger(ctx, token, productID, ledger)
}

// EnableVariation reverses DisableVariation: the variation goes back on sale
// and its ledger entry is released.
func (s *ProductService) EnableVariation(ctx context.Context, token string, productID, variationID int) error {
	if _, err := s.store.UpdateVariation(ctx, token, productID, variationID, map[string]any{"status": "publish"}); err != nil {
		return mapNotFound(err, utils.ErrVariationNotFound)
	}

	parent, err := s.store.GetProduct(ctx, token, productID)
	if err != nil {
		return mapNotFound(err, utils.ErrProductNotFound)
	}
	ledger, err := woocommerce.DisabledVariations(parent)
	if err != nil || len(ledger) == 0 {
		return nil
	}
	kept := ledger[:0]
	for _, entry := range ledger {
		if entry.VariationID != variationID {
			kept = append(kept, entry)
		}
	}
	return s.writeLedger(ctx, token, productID, kept)
}

// GenerateSKU produces a candidate SKU for the vendor, optionally derived
// from a product name. Without a name the prefix segment is omitted but both
// random tokens are kept. Candidates go through the normal availability check
// before use.
func (s *ProductService) GenerateSKU(vendorID int, productName string) string {
	return sku.Generate(vendorID, productName)
}

func (s *ProductService) writeLedger(ctx context.Context, token string, productID int, ledger []woocommerce.DisabledVariation) error {
	value, err := woocommerce.EncodeDisabledVariations(ledger)
	if err != nil {
		return err
	}
	_, err = s.store.UpdateProduct(ctx, token, productID, map[string]any{
		"meta_data": []map[string]any{
			{"key": woocommerce.MetaKeyDisabledVariations, "value": json.RawMessage(value)},
		},
	})
	return err
}

// productPayload maps the portal's product input to the store API shape.
func productPayload(input models.ProductInput) map[string]any {
	payload := map[string]any{
		"name": input.Name,
	}
	if input.Type != "" {
		payload["type"] = input.Type
	}
	if input.Status != "" {
		payload["status"] = input.Status
	}
	if input.SKU != "" {
		payload["sku"] = input.SKU
	}
	if input.RegularPrice != "" {
		payload["regular_price"] = input.RegularPrice
	}
	if input.SalePrice != "" {
		payload["sale_price"] = input.SalePrice
	}
	if input.Description != "" {
		payload["description"] = input.Description
	}
	if input.ShortDescription != "" {
		payload["short_description"] = input.ShortDescription
	}
	if input.ManageStock {
		payload["manage_stock"] = true
		if input.StockQuantity != nil {
			payload["stock_quantity"] = *input.StockQuantity
		}
	}
	if len(input.CategoryIDs) > 0 {
		categories := make([]map[string]any, 0, len(input.CategoryIDs))
		for _, id := range input.CategoryIDs {
			categories = append(categories, map[string]any{"id": id})
		}
		payload["categories"] = categories
	}
	if len(input.Images) > 0 {
		images := make([]map[string]any, 0, len(input.Images))
		for _, img := range input.Images {
			images = append(images, imagePayload(img))
		}
		payload["images"] = images
	}
	if len(input.Attributes) > 0 {
		attributes := make([]map[string]any, 0, len(input.Attributes))
		for _, attr := range input.Attributes {
			attributes = append(attributes, map[string]any{
				"name":      attr.Name,
				"options":   attr.Options,
				"visible":   attr.Visible,
				"variation": attr.Variation,
			})
		}
		payload["attributes"] = attributes
	}
	if input.Weight != "" {
		payload["weight"] = input.Weight
	}
	if input.Dimensions != nil {
		payload["dimensions"] = map[string]any{
			"length": input.Dimensions.Length,
			"width":  input.Dimensions.Width,
			"height": input.Dimensions.Height,
		}
	}
	return payload
}

// variationPayload maps the portal's variation input to the store API shape.
func variationPayload(input models.VariationInput) map[string]any {
	payload := map[string]any{}
	if input.SKU != "" {
		payload["sku"] = input.SKU
	}
	if input.RegularPrice != "" {
		payload["regular_price"] = input.RegularPrice
	}
	if input.SalePrice != "" {
		payload["sale_price"] = input.SalePrice
	}
	if input.ManageStock {
		payload["manage_stock"] = true
		if input.StockQuantity != nil {
			payload["stock_quantity"] = *input.StockQuantity
		}
	}
	if len(input.Attributes) > 0 {
		attributes := make([]map[string]any, 0, len(input.Attributes))
		for _, attr := range input.Attributes {
			attributes = append(attributes, map[string]any{"name": attr.Name, "option": attr.Option})
		}
		payload["attributes"] = attributes
	}
	if input.Image != nil {
		payload["image"] = imagePayload(*input.Image)
	}
	return payload
}

func imagePayload(img models.ImageInput) map[string]any {
	out := map[string]any{}
	if img.ID > 0 {
		out["id"] = img.ID
	}
	if img.Src != "" {
		out["src"] = img.Src
	}
	if img.Alt != "" {
		out["alt"] = img.Alt
	}
	return out
}

// mapNotFound converts an upstream 404 into the matching sentinel.
func mapNotFound(err error, sentinel error) error {
	var apiErr *woocommerce.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return sentinel
	}
	return err
}
