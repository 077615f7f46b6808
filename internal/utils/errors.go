package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrUnauthenticated    = errors.New("UNAUTHENTICATED")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrVariationNotFound  = errors.New("VARIATION_NOT_FOUND")
	ErrNotVariable        = errors.New("PRODUCT_NOT_VARIABLE")
	ErrOrderNotFound      = errors.New("ORDER_NOT_FOUND")
	ErrWaybillNotFound    = errors.New("WAYBILL_NOT_FOUND")
)
