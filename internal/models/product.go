package models

// ProductSummary is the slice of a product record attached to an unavailable
// SKU verdict so the dashboard can show what owns the conflicting SKU.
type ProductSummary struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	SKU    string `json:"sku"`
	Status string `json:"status"`
}

// ProductInput is the payload accepted when a vendor creates or edits a
// product. It covers both simple and variable products; for variable products
// price and SKU live on the variations instead.
type ProductInput struct {
	Name             string           `json:"name" binding:"required"`
	Type             string           `json:"type" binding:"omitempty,oneof=simple variable"`
	Status           string           `json:"status" binding:"omitempty,oneof=draft pending publish private"`
	SKU              string           `json:"sku"`
	RegularPrice     string           `json:"regularPrice"`
	SalePrice        string           `json:"salePrice"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"shortDescription"`
	StockQuantity    *int             `json:"stockQuantity"`
	ManageStock      bool             `json:"manageStock"`
	CategoryIDs      []int            `json:"categoryIds"`
	Images           []ImageInput     `json:"images"`
	Attributes       []AttributeInput `json:"attributes"`
	Weight           string           `json:"weight"`
	Dimensions       *DimensionsInput `json:"dimensions"`
}

// ImageInput references an already-uploaded image by URL or media id.
// Upload itself happens against the store's media endpoint, not here.
type ImageInput struct {
	ID  int    `json:"id,omitempty"`
	Src string `json:"src,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// AttributeInput defines a product attribute used to build variations,
// e.g. {Name: "Size", Options: ["S", "M", "L"], Variation: true}.
type AttributeInput struct {
	Name      string   `json:"name" binding:"required"`
	Options   []string `json:"options" binding:"required,min=1"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
}

// DimensionsInput carries package dimensions for shipping rates.
type DimensionsInput struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// VariationInput is the payload for creating or editing a single variation.
type VariationInput struct {
	SKU           string            `json:"sku"`
	RegularPrice  string            `json:"regularPrice"`
	SalePrice     string            `json:"salePrice"`
	StockQuantity *int              `json:"stockQuantity"`
	ManageStock   bool              `json:"manageStock"`
	Attributes    []VariationOption `json:"attributes"`
	Image         *ImageInput       `json:"image"`
}

// VariationOption pins one attribute value for a variation, e.g. Size=M.
type VariationOption struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}
