package sku

import (
	"context"

	"github.com/sellerhq/seller_api/internal/models"
)

// Confidence states whether a verdict came from a definitive check (high) or
// a degraded path such as an unreachable store (low).
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// User-facing validation messages shown in the dashboard's status area.
const (
	MsgChecking      = "Checking SKU availability…"
	MsgAvailable     = "SKU is available"
	MsgTaken         = "SKU is already taken. Please choose a different one."
	MsgReserved      = "SKU is reserved by a disabled variation"
	MsgIndeterminate = "Unable to validate SKU"
)

// Request identifies one availability check. ExcludeProductID and
// ExcludeVariationID (0 = unset) remove the record being edited from the
// verdict; ExcludeVariationSKU lets a variation validate against its own
// previously-reserved entry in the disabled-variations ledger.
type Request struct {
	SKU                     string
	ExcludeProductID        int
	ExcludeVariationID      int
	CheckDisabledVariations bool
	ExcludeVariationSKU     string
}

// Result is the outcome of one availability check. A transport failure never
// surfaces as a Go error: it degrades Confidence to low with Error set, so the
// vendor is not blocked by a validation outage.
type Result struct {
	IsAvailable     bool                   `json:"isAvailable"`
	Confidence      Confidence             `json:"confidence"`
	Error           string                 `json:"error,omitempty"`
	ExistingProduct *models.ProductSummary `json:"existingProduct,omitempty"`

	// UpstreamStatus carries the store's HTTP status on degraded results so
	// the proxy endpoint can pass it through. Not part of the wire shape.
	UpstreamStatus int `json:"-"`
}

// CheckFunc performs one availability check. Implementations must be safe for
// concurrent calls with distinct requests; serializing same-input calls is the
// Controller's job.
type CheckFunc func(ctx context.Context, req Request) *Result

// AllowSubmission is the fail-open submission policy: a form may be submitted
// unless a definitive check said the SKU is unavailable. A nil result means no
// check ran (e.g. empty input) and is treated as no opinion.
func AllowSubmission(r *Result) bool {
	if r == nil {
		return true
	}
	if r.Confidence == ConfidenceLow {
		return true
	}
	return r.IsAvailable
}
