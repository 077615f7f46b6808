package models

// OrderStatusInput is the payload for updating an order's fulfilment status.
type OrderStatusInput struct {
	Status         string `json:"status" binding:"required,oneof=pending processing on-hold completed cancelled refunded failed"`
	TrackingNumber string `json:"trackingNumber"`
	Courier        string `json:"courier"`
}

// Waybill is the shipping waybill reference attached to an order by the
// marketplace's courier integration. The portal only retrieves it; generation
// happens upstream.
type Waybill struct {
	OrderID        int    `json:"orderId"`
	URL            string `json:"url"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Courier        string `json:"courier,omitempty"`
}
