package service

import (
	"context"

	"github.com/sellerhq/seller_api/internal/models"
	"github.com/sellerhq/seller_api/internal/utils"
	"github.com/sellerhq/seller_api/pkg/woocommerce"
)

// Order meta keys written by the marketplace's courier integration.
const (
	metaKeyTrackingNumber = "_tracking_number"
	metaKeyCourier        = "_courier_name"
)

// OrderService implements the vendor-facing order operations: listing,
// status updates, and waybill retrieval. Waybill generation itself happens
// upstream; the portal only reads the resulting reference.
type OrderService struct {
	store *woocommerce.Client
}

// NewOrderService constructs an OrderService.
func NewOrderService(store *woocommerce.Client) *OrderService {
	return &OrderService{store: store}
}

// List returns the vendor's orders with the given filters.
func (s *OrderService) List(ctx context.Context, token string, params woocommerce.OrderListParams) ([]woocommerce.Order, int, error) {
	return s.store.ListOrders(ctx, token, params)
}

// Get fetches one order.
func (s *OrderService) Get(ctx context.Context, token string, id int) (*woocommerce.Order, error) {
	order, err := s.store.GetOrder(ctx, token, id)
	if err != nil {
		return nil, mapNotFound(err, utils.ErrOrderNotFound)
	}
	return order, nil
}

// UpdateStatus moves an order to a new fulfilment status, attaching tracking
// details when provided.
func (s *OrderService) UpdateStatus(ctx context.Context, token string, id int, input models.OrderStatusInput) (*woocommerce.Order, error) {
	payload := map[string]any{"status": input.Status}
	meta := []map[string]any{}
	if input.TrackingNumber != "" {
		meta = append(meta, map[string]any{"key": metaKeyTrackingNumber, "value": input.TrackingNumber})
	}
	if input.Courier != "" {
		meta = append(meta, map[string]any{"key": metaKeyCourier, "value": input.Courier})
	}
	if len(meta) > 0 {
		payload["meta_data"] = meta
	}

	order, err := s.store.UpdateOrder(ctx, token, id, payload)
	if err != nil {
		return nil, mapNotFound(err, utils.ErrOrderNotFound)
	}
	return order, nil
}

// Waybill retrieves the shipping waybill reference for an order from its
// meta_data. Orders without a generated waybill yield ErrWaybillNotFound.
func (s *OrderService) Waybill(ctx context.Context, token string, id int) (*models.Waybill, error) {
	order, err := s.Get(ctx, token, id)
	if err != nil {
		return nil, err
	}

	url := woocommerce.MetaString(order.MetaData, woocommerce.MetaKeyWaybillURL)
	if url == "" {
		return nil, utils.ErrWaybillNotFound
	}
	return &models.Waybill{
		OrderID:        order.ID,
		URL:            url,
		TrackingNumber: woocommerce.MetaString(order.MetaData, metaKeyTrackingNumber),
		Courier:        woocommerce.MetaString(order.MetaData, metaKeyCourier),
	}, nil
}
