package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerhq/seller_api/internal/service"
	"github.com/sellerhq/seller_api/pkg/woocommerce"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// checkSKURouter wires the availability proxy against a fake store and skips
// the auth middleware; the token is irrelevant to these assertions.
func checkSKURouter(t *testing.T, store http.Handler) (*gin.Engine, func()) {
	t.Helper()
	srv := httptest.NewServer(store)
	skuSvc := service.NewSKUService(woocommerce.NewClient(srv.URL))
	productSvc := service.NewProductService(woocommerce.NewClient(srv.URL))
	h := NewProductHandler(productSvc, skuSvc)

	router := gin.New()
	router.GET("/api/products/check-sku", h.CheckSKU)
	return router, srv.Close
}

func productIndex(results map[string][]woocommerce.Product) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out := results[r.URL.Query().Get("sku")]
		if out == nil {
			out = []woocommerce.Product{}
		}
		json.NewEncoder(w).Encode(out)
	})
}

func TestCheckSKUMissingParameter(t *testing.T) {
	router, done := checkSKURouter(t, productIndex(nil))
	defer done()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/check-sku", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "sku parameter is required", body["error"])
}

func TestCheckSKUAvailable(t *testing.T) {
	router, done := checkSKURouter(t, productIndex(nil))
	defer done()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/check-sku?sku=NEW-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		IsAvailable bool   `json:"isAvailable"`
		Confidence  string `json:"confidence"`
		Error       string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.IsAvailable)
	assert.Equal(t, "high", body.Confidence)
	assert.Empty(t, body.Error)
}

func TestCheckSKUTakenIncludesExistingProduct(t *testing.T) {
	router, done := checkSKURouter(t, productIndex(map[string][]woocommerce.Product{
		"ABC-1": {{ID: 55, Name: "Blue Shoes", SKU: "ABC-1", Status: "publish"}},
	}))
	defer done()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/check-sku?sku=ABC-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		IsAvailable     bool           `json:"isAvailable"`
		Confidence      string         `json:"confidence"`
		ExistingProduct map[string]any `json:"existingProduct"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.IsAvailable)
	assert.Equal(t, "high", body.Confidence)
	require.NotNil(t, body.ExistingProduct)
	assert.Equal(t, float64(55), body.ExistingProduct["id"])
	assert.Equal(t, "Blue Shoes", body.ExistingProduct["name"])
}

func TestCheckSKUExclusionParametersForwarded(t *testing.T) {
	router, done := checkSKURouter(t, productIndex(map[string][]woocommerce.Product{
		"ABC-1": {{ID: 55, SKU: "ABC-1"}},
	}))
	defer done()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/check-sku?sku=ABC-1&excludeProductId=55", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		IsAvailable bool `json:"isAvailable"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.IsAvailable, "the edited product must not conflict with itself")
}

func TestCheckSKUUpstreamFailurePassesStatusThrough(t *testing.T) {
	store := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"code": "rest_error", "message": "upstream down"})
	})
	router, done := checkSKURouter(t, store)
	defer done()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/check-sku?sku=ABC-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body struct {
		IsAvailable bool   `json:"isAvailable"`
		Confidence  string `json:"confidence"`
		Error       string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.IsAvailable)
	assert.Equal(t, "low", body.Confidence, "an upstream failure degrades rather than errors")
	assert.NotEmpty(t, body.Error)
}
