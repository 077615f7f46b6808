package woocommerce

import (
	"encoding/json"
	"fmt"
)

// MetaKeyDisabledVariations is the post meta key under which the store keeps
// the JSON-encoded ledger of soft-disabled variations. The value is a JSON
// string (not a nested array) because WordPress serializes meta values as
// strings.
const MetaKeyDisabledVariations = "_disabled_variations"

// MetaKeyWaybillURL is the order meta key holding the courier waybill URL.
const MetaKeyWaybillURL = "_courier_waybill_url"

// MetaData is one entry of a record's meta_data array.
type MetaData struct {
	ID    int             `json:"id,omitempty"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Product is a WooCommerce product or variation record. Variations share the
// product id space, so the same shape serves both.
type Product struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	Type             string      `json:"type"`
	Status           string      `json:"status"`
	SKU              string      `json:"sku"`
	Price            string      `json:"price"`
	RegularPrice     string      `json:"regular_price"`
	SalePrice        string      `json:"sale_price"`
	Description      string      `json:"description"`
	ShortDescription string      `json:"short_description"`
	StockQuantity    *int        `json:"stock_quantity"`
	ManageStock      bool        `json:"manage_stock"`
	Weight           string      `json:"weight"`
	Categories       []Category  `json:"categories,omitempty"`
	Images           []Image     `json:"images,omitempty"`
	Attributes       []Attribute `json:"attributes,omitempty"`
	Variations       []int       `json:"variations,omitempty"`
	MetaData         []MetaData  `json:"meta_data,omitempty"`
	DateCreated      string      `json:"date_created,omitempty"`
	DateModified     string      `json:"date_modified,omitempty"`
}

// Variation is a purchasable configuration of a variable product.
type Variation struct {
	ID            int               `json:"id"`
	SKU           string            `json:"sku"`
	Status        string            `json:"status"`
	Price         string            `json:"price"`
	RegularPrice  string            `json:"regular_price"`
	SalePrice     string            `json:"sale_price"`
	StockQuantity *int              `json:"stock_quantity"`
	ManageStock   bool              `json:"manage_stock"`
	Attributes    []VariationOption `json:"attributes,omitempty"`
	Image         *Image            `json:"image,omitempty"`
	MetaData      []MetaData        `json:"meta_data,omitempty"`
}

// VariationOption pins one attribute value on a variation.
type VariationOption struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

// Category is a product category term.
type Category struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Parent int    `json:"parent,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// Image is a product image reference.
type Image struct {
	ID  int    `json:"id,omitempty"`
	Src string `json:"src,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// Attribute defines a product attribute (e.g. Size with options S/M/L).
type Attribute struct {
	ID        int      `json:"id,omitempty"`
	Name      string   `json:"name"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
	Options   []string `json:"options"`
}

// LineItem is one purchased item on an order.
type LineItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ProductID   int    `json:"product_id"`
	VariationID int    `json:"variation_id,omitempty"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	Total       string `json:"total"`
}

// Order is a WooCommerce order record.
type Order struct {
	ID          int        `json:"id"`
	Number      string     `json:"number"`
	Status      string     `json:"status"`
	Currency    string     `json:"currency"`
	Total       string     `json:"total"`
	CustomerID  int        `json:"customer_id"`
	LineItems   []LineItem `json:"line_items,omitempty"`
	Shipping    Address    `json:"shipping"`
	Billing     Address    `json:"billing"`
	MetaData    []MetaData `json:"meta_data,omitempty"`
	DateCreated string     `json:"date_created,omitempty"`
}

// Address is a billing or shipping address block.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone,omitempty"`
}

// DisabledVariation is one ledger entry of a soft-disabled variation whose SKU
// stays reserved while disabled.
type DisabledVariation struct {
	VariationID int    `json:"variation_id,omitempty"`
	SKU         string `json:"sku"`
}

// DisabledVariations decodes the disabled-variations ledger from a product's
// meta_data. The meta value is a JSON string that itself encodes the ledger
// array; both layers have to parse. A product without the meta key yields an
// empty ledger and no error.
func DisabledVariations(p *Product) ([]DisabledVariation, error) {
	if p == nil {
		return nil, nil
	}
	for _, m := range p.MetaData {
		if m.Key != MetaKeyDisabledVariations {
			continue
		}
		var encoded string
		if err := json.Unmarshal(m.Value, &encoded); err != nil {
			return nil, fmt.Errorf("disabled variations meta is not a string: %w", err)
		}
		if encoded == "" {
			return nil, nil
		}
		var ledger []DisabledVariation
		if err := json.Unmarshal([]byte(encoded), &ledger); err != nil {
			return nil, fmt.Errorf("failed to decode disabled variations ledger: %w", err)
		}
		return ledger, nil
	}
	return nil, nil
}

// EncodeDisabledVariations produces the meta value for storing the ledger,
// mirroring the double encoding that DisabledVariations undoes.
func EncodeDisabledVariations(ledger []DisabledVariation) (json.RawMessage, error) {
	if ledger == nil {
		ledger = []DisabledVariation{}
	}
	inner, err := json.Marshal(ledger)
	if err != nil {
		return nil, fmt.Errorf("failed to encode disabled variations ledger: %w", err)
	}
	outer, err := json.Marshal(string(inner))
	if err != nil {
		return nil, fmt.Errorf("failed to encode disabled variations meta: %w", err)
	}
	return outer, nil
}

// MetaString returns a string-valued meta entry by key, or "" when absent.
func MetaString(meta []MetaData, key string) string {
	for _, m := range meta {
		if m.Key == key {
			var s string
			if err := json.Unmarshal(m.Value, &s); err == nil {
				return s
			}
		}
	}
	return ""
}
