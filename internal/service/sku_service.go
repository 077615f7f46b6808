package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sellerhq/seller_api/internal/models"
	"github.com/sellerhq/seller_api/internal/sku"
	"github.com/sellerhq/seller_api/pkg/woocommerce"
)

// SKUService reconciles SKU uniqueness across the store's simple-product
// index, a product's variations, and the disabled-variations ledger kept in
// product meta.
type SKUService struct {
	store *woocommerce.Client
}

// NewSKUService constructs a SKUService.
func NewSKUService(store *woocommerce.Client) *SKUService {
	return &SKUService{store: store}
}

// Checker binds a vendor credential to CheckAvailability so the validation
// controller can run checks without holding the token itself.
func (s *SKUService) Checker(token string) sku.CheckFunc {
	return func(ctx context.Context, req sku.Request) *sku.Result {
		return s.CheckAvailability(ctx, token, req)
	}
}

// CheckAvailability runs the two-step availability check.
//
// Step 1 queries the product index by exact SKU, dropping any record whose id
// matches an exclusion. A transport failure here degrades the verdict to low
// confidence instead of failing: an unreachable store must never block a
// vendor from submitting a form.
//
// Step 2, when requested for a known parent product, scans that product's
// disabled-variations ledger. A ledger entry matching the queried SKU reserves
// it (returned before the step 1 verdict is evaluated), except the entry named
// by ExcludeVariationSKU, which lets a variation re-validate its own reserved
// SKU. Ledger fetch or parse failures are logged and skipped; the secondary
// check never fails the overall one.
func (s *SKUService) CheckAvailability(ctx context.Context, token string, req sku.Request) *sku.Result {
	// An empty SKU is a valid "no opinion" state, never a conflict.
	if strings.TrimSpace(req.SKU) == "" {
		return &sku.Result{IsAvailable: true, Confidence: sku.ConfidenceHigh}
	}

	products, _, err := s.store.ListProducts(ctx, token, woocommerce.ProductListParams{SKU: req.SKU})
	if err != nil {
		status := 0
		var apiErr *woocommerce.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.Status
		}
		log.Warn().Err(err).Str("sku", req.SKU).Msg("SKU index query failed, degrading to low confidence")
		return &sku.Result{
			IsAvailable:    false,
			Confidence:     sku.ConfidenceLow,
			Error:          err.Error(),
			UpstreamStatus: status,
		}
	}

	conflicts := make([]woocommerce.Product, 0, len(products))
	for _, p := range products {
		if p.ID == req.ExcludeProductID || (req.ExcludeVariationID > 0 && p.ID == req.ExcludeVariationID) {
			continue
		}
		conflicts = append(conflicts, p)
	}

	if req.CheckDisabledVariations && req.ExcludeProductID > 0 {
		if reserved := s.disabledVariationMatch(ctx, token, req); reserved {
			return &sku.Result{
				IsAvailable: false,
				Confidence:  sku.ConfidenceHigh,
				Error:       sku.MsgReserved,
			}
		}
	}

	if len(conflicts) > 0 {
		first := conflicts[0]
		return &sku.Result{
			IsAvailable: false,
			Confidence:  sku.ConfidenceHigh,
			ExistingProduct: &models.ProductSummary{
				ID:     first.ID,
				Name:   first.Name,
				SKU:    first.SKU,
				Status: first.Status,
			},
		}
	}

	return &sku.Result{IsAvailable: true, Confidence: sku.ConfidenceHigh}
}

// disabledVariationMatch reports whether the queried SKU is reserved by a
// disabled variation of the parent product. All failures are contained here.
func (s *SKUService) disabledVariationMatch(ctx context.Context, token string, req sku.Request) bool {
	product, err := s.store.GetProduct(ctx, token, req.ExcludeProductID)
	if err != nil {
		log.Warn().Err(err).Int("product_id", req.ExcludeProductID).Msg("disabled variations fetch failed, skipping check")
		return false
	}
	ledger, err := woocommerce.DisabledVariations(product)
	if err != nil {
		log.Warn().Err(err).Int("product_id", req.ExcludeProductID).Msg("disabled variations ledger unreadable, skipping check")
		return false
	}
	for _, entry := range ledger {
		if entry.SKU == "" || entry.SKU != req.SKU {
			continue
		}
		if req.ExcludeVariationSKU != "" && entry.SKU == req.ExcludeVariationSKU {
			continue
		}
		return true
	}
	return false
}
