package woocommerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// OrderListParams are the supported filters for listing orders.
type OrderListParams struct {
	Status  string
	Search  string
	Page    int
	PerPage int
}

// ListOrders queries the order index visible to the credential.
func (c *Client) ListOrders(ctx context.Context, token string, params OrderListParams) ([]Order, int, error) {
	q := url.Values{}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}

	var orders []Order
	header, err := c.doRequest(ctx, token, http.MethodGet, "/orders", q, nil, &orders)
	if err != nil {
		return nil, 0, err
	}
	return orders, totalFromHeader(header, len(orders)), nil
}

// GetOrder fetches a single order including meta_data.
func (c *Client) GetOrder(ctx context.Context, token string, id int) (*Order, error) {
	var order Order
	if _, err := c.doRequest(ctx, token, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder applies a partial update to an order (status, meta, tracking).
func (c *Client) UpdateOrder(ctx context.Context, token string, id int, payload map[string]any) (*Order, error) {
	var order Order
	if _, err := c.doRequest(ctx, token, http.MethodPut, fmt.Sprintf("/orders/%d", id), nil, payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
