package woocommerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ProductListParams are the supported filters for listing products. A zero
// value lists everything the credential can see, newest first.
type ProductListParams struct {
	SKU     string
	Search  string
	Status  string
	Exclude []int
	Page    int
	PerPage int
}

// ListProducts queries the product index. When params.SKU is set the store
// performs an exact-match SKU lookup, which is the authoritative uniqueness
// check for simple products.
func (c *Client) ListProducts(ctx context.Context, token string, params ProductListParams) ([]Product, int, error) {
	q := url.Values{}
	if params.SKU != "" {
		q.Set("sku", params.SKU)
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	for _, id := range params.Exclude {
		q.Add("exclude[]", strconv.Itoa(id))
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}

	var products []Product
	header, err := c.doRequest(ctx, token, http.MethodGet, "/products", q, nil, &products)
	if err != nil {
		return nil, 0, err
	}
	return products, totalFromHeader(header, len(products)), nil
}

// GetProduct fetches a single product record including its meta_data.
func (c *Client) GetProduct(ctx context.Context, token string, id int) (*Product, error) {
	var product Product
	if _, err := c.doRequest(ctx, token, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a product from an API-shaped payload.
func (c *Client) CreateProduct(ctx context.Context, token string, payload map[string]any) (*Product, error) {
	var product Product
	if _, err := c.doRequest(ctx, token, http.MethodPost, "/products", nil, payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct applies a partial update to a product.
func (c *Client) UpdateProduct(ctx context.Context, token string, id int, payload map[string]any) (*Product, error) {
	var product Product
	if _, err := c.doRequest(ctx, token, http.MethodPut, fmt.Sprintf("/products/%d", id), nil, payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct moves a product to trash (force=false, WooCommerce default).
func (c *Client) DeleteProduct(ctx context.Context, token string, id int) error {
	_, err := c.doRequest(ctx, token, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil, nil)
	return err
}

// ListVariations returns all variations of a variable product.
func (c *Client) ListVariations(ctx context.Context, token string, productID int) ([]Variation, error) {
	q := url.Values{}
	q.Set("per_page", "100")
	var variations []Variation
	if _, err := c.doRequest(ctx, token, http.MethodGet, fmt.Sprintf("/products/%d/variations", productID), q, nil, &variations); err != nil {
		return nil, err
	}
	return variations, nil
}

// GetVariation fetches a single variation of a product.
func (c *Client) GetVariation(ctx context.Context, token string, productID, variationID int) (*Variation, error) {
	var variation Variation
	if _, err := c.doRequest(ctx, token, http.MethodGet, fmt.Sprintf("/products/%d/variations/%d", productID, variationID), nil, nil, &variation); err != nil {
		return nil, err
	}
	return &variation, nil
}

// CreateVariation adds a variation to a variable product.
func (c *Client) CreateVariation(ctx context.Context, token string, productID int, payload map[string]any) (*Variation, error) {
	var variation Variation
	if _, err := c.doRequest(ctx, token, http.MethodPost, fmt.Sprintf("/products/%d/variations", productID), nil, payload, &variation); err != nil {
		return nil, err
	}
	return &variation, nil
}

// UpdateVariation applies a partial update to a variation.
func (c *Client) UpdateVariation(ctx context.Context, token string, productID, variationID int, payload map[string]any) (*Variation, error) {
	var variation Variation
	if _, err := c.doRequest(ctx, token, http.MethodPut, fmt.Sprintf("/products/%d/variations/%d", productID, variationID), nil, payload, &variation); err != nil {
		return nil, err
	}
	return &variation, nil
}

// ListCategories returns the product category tree, flattened.
func (c *Client) ListCategories(ctx context.Context, token string) ([]Category, error) {
	q := url.Values{}
	q.Set("per_page", "100")
	var categories []Category
	if _, err := c.doRequest(ctx, token, http.MethodGet, "/products/categories", q, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
