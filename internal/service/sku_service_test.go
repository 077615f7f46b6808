package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerhq/seller_api/internal/sku"
	"github.com/sellerhq/seller_api/pkg/woocommerce"
)

// storeFixture is an in-memory stand-in for the store's REST API covering the
// two endpoints the availability check touches.
type storeFixture struct {
	products map[string][]woocommerce.Product // SKU -> index results
	byID     map[int]woocommerce.Product
	failList bool
	requests int
}

func (f *storeFixture) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wc/v3/products", func(w http.ResponseWriter, r *http.Request) {
		f.requests++
		if f.failList {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"code": "rest_error", "message": "store unavailable"})
			return
		}
		out := f.products[r.URL.Query().Get("sku")]
		if out == nil {
			out = []woocommerce.Product{}
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/wp-json/wc/v3/products/", func(w http.ResponseWriter, r *http.Request) {
		f.requests++
		id, err := strconv.Atoi(path.Base(r.URL.Path))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		p, ok := f.byID[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"code": "woocommerce_rest_product_invalid_id", "message": "Invalid ID."})
			return
		}
		json.NewEncoder(w).Encode(p)
	})
	return mux
}

func newSKUService(t *testing.T, f *storeFixture) (*SKUService, func()) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	return NewSKUService(woocommerce.NewClient(srv.URL)), srv.Close
}

func ledgerMeta(t *testing.T, ledger []woocommerce.DisabledVariation) woocommerce.MetaData {
	t.Helper()
	value, err := woocommerce.EncodeDisabledVariations(ledger)
	require.NoError(t, err)
	return woocommerce.MetaData{Key: woocommerce.MetaKeyDisabledVariations, Value: value}
}

func TestCheckAvailabilityEmptySKU(t *testing.T) {
	fixture := &storeFixture{}
	svc, done := newSKUService(t, fixture)
	defer done()

	res := svc.CheckAvailability(context.Background(), "token", sku.Request{SKU: "   "})
	assert.True(t, res.IsAvailable)
	assert.Equal(t, sku.ConfidenceHigh, res.Confidence)
	assert.Equal(t, 0, fixture.requests, "empty input must not hit the store")
}

func TestCheckAvailabilityFreeSKU(t *testing.T) {
	fixture := &storeFixture{}
	svc, done := newSKUService(t, fixture)
	defer done()

	res := svc.CheckAvailability(context.Background(), "token", sku.Request{SKU: "NEW-1"})
	assert.True(t, res.IsAvailable)
	assert.Equal(t, sku.ConfidenceHigh, res.Confidence)
	assert.Nil(t, res.ExistingProduct)
}

func TestCheckAvailabilityConflict(t *testing.T) {
	fixture := &storeFixture{
		products: map[string][]woocommerce.Product{
			"ABC-1": {{ID: 55, Name: "Blue Shoes", SKU: "ABC-1", Status: "publish"}},
		},
	}
	svc, done := newSKUService(t, fixture)
	defer done()

	res := svc.CheckAvailability(context.Background(), "token", sku.Request{SKU: "ABC-1"})
	assert.False(t, res.IsAvailable)
	assert.Equal(t, sku.ConfidenceHigh, res.Confidence)
	require.NotNil(t, res.ExistingProduct)
	assert.Equal(t, 55, res.ExistingProduct.ID)
	assert.Equal(t, "Blue Shoes", res.ExistingProduct.Name)
}

func TestCheckAvailabilitySelfExclusion(t *testing.T) {
	fixture := &storeFixture{
		products: map[string][]woocommerce.Product{
			"ABC-1": {{ID: 55, Name: "Blue Shoes", SKU: "ABC-1"}},
		},
	}
	svc, done := newSKUService(t, fixture)
	defer done()

	// Editing product 55 with its own SKU is not a conflict.
	res := svc.CheckAvailability(context.Background(), "token", sku.Request{SKU: "ABC-1", ExcludeProductID: 55})
	assert.True(t, res.IsAvailable)

	// The same SKU on a variation record is excluded by variation id.
	fixture.products["VAR-9"] = []woocommerce.Product{{ID: 90, SKU: "VAR-9"}}
	res = svc.CheckAvailability(context.Background(), "token", sku.Request{SKU: "VAR-9", ExcludeVariationID: 90})
	assert.True(t, res.IsAvailable)
}

func TestCheckAvailabilityDegradesOnStoreFailure(t *testing.T) {
	fixture := &storeFixture{failList: true}
	svc, done := newSKUService(t, fixture)
	defer done()

	res := svc.CheckAvailability(context.Background(), "token", sku.Request{SKU: "ABC-1"})
	assert.False(t, res.IsAvailable)
	assert.Equal(t, sku.ConfidenceLow, res.Confidence)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, http.StatusServiceUnavailable, res.UpstreamStatus)
	assert.True(t, sku.AllowSubmission(res), "a store outage must not block submission")
}

func TestCheckAvailabilityDisabledVariationReservesSKU(t *testing.T) {
	fixture := &storeFixture{
		byID: map[int]woocommerce.Product{},
	}
	svc, done := newSKUService(t, fixture)
	defer done()

	fixture.byID[10] = woocommerce.Product{
		ID:   10,
		Type: "variable",
		MetaData: []woocommerce.MetaData{
			ledgerMeta(t, []woocommerce.DisabledVariation{{VariationID: 201, SKU: "ABC-1"}}),
		},
	}

	// The index is free, but the ledger of product 10 reserves ABC-1.
	res := svc.CheckAvailability(context.Background(), "token", sku.Request{
		SKU:                     "ABC-1",
		ExcludeProductID:        10,
		CheckDisabledVariations: true,
	})
	assert.False(t, res.IsAvailable)
	assert.Equal(t, sku.ConfidenceHigh, res.Confidence)
	assert.Equal(t, sku.MsgReserved, res.Error)
}

func TestCheckAvailabilityDisabledVariationSelfExclusion(t *testing.T) {
	fixture := &storeFixture{
		byID: map[int]woocommerce.Product{},
	}
	svc, done := newSKUService(t, fixture)
	defer done()

	fixture.byID[10] = woocommerce.Product{
		ID:   10,
		Type: "variable",
		MetaData: []woocommerce.MetaData{
			ledgerMeta(t, []woocommerce.DisabledVariation{{VariationID: 201, SKU: "ABC-1"}}),
		},
	}

	// A variation re-validating its own reserved SKU stays available.
	res := svc.CheckAvailability(context.Background(), "token", sku.Request{
		SKU:                     "ABC-1",
		ExcludeProductID:        10,
		ExcludeVariationID:      201,
		CheckDisabledVariations: true,
		ExcludeVariationSKU:     "ABC-1",
	})
	assert.True(t, res.IsAvailable)
	assert.Equal(t, sku.ConfidenceHigh, res.Confidence)
}

func TestCheckAvailabilityLedgerFailureIsContained(t *testing.T) {
	fixture := &storeFixture{
		byID: map[int]woocommerce.Product{}, // GetProduct will 404
	}
	svc, done := newSKUService(t, fixture)
	defer done()

	res := svc.CheckAvailability(context.Background(), "token", sku.Request{
		SKU:                     "FREE-1",
		ExcludeProductID:        10,
		CheckDisabledVariations: true,
	})
	assert.True(t, res.IsAvailable, "an unreadable ledger must not flip the verdict")
	assert.Equal(t, sku.ConfidenceHigh, res.Confidence)
}

func TestCheckAvailabilityLedgerPrecedesIndexVerdict(t *testing.T) {
	fixture := &storeFixture{
		products: map[string][]woocommerce.Product{
			"ABC-1": {{ID: 77, Name: "Other Product", SKU: "ABC-1"}},
		},
		byID: map[int]woocommerce.Product{
			10: {
				ID:   10,
				Type: "variable",
				MetaData: []woocommerce.MetaData{
					{Key: woocommerce.MetaKeyDisabledVariations, Value: json.RawMessage(`"[{\"variation_id\":201,\"sku\":\"ABC-1\"}]"`)},
				},
			},
		},
	}
	svc, done := newSKUService(t, fixture)
	defer done()

	res := svc.CheckAvailability(context.Background(), "token", sku.Request{
		SKU:                     "ABC-1",
		ExcludeProductID:        10,
		CheckDisabledVariations: true,
	})
	assert.False(t, res.IsAvailable)
	assert.Equal(t, sku.MsgReserved, res.Error, "a ledger match wins over the index conflict")
	assert.Nil(t, res.ExistingProduct)
}
