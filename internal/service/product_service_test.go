package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sellerhq/seller_api/pkg/woocommerce"
)

func TestGenerateSKUShapes(t *testing.T) {
	svc := NewProductService(woocommerce.NewClient("http://store.invalid"))

	// Without a product name the prefix is omitted but both tokens remain.
	assert.Regexp(t, `^42-[0-9a-f]{6}-[0-9a-f]{6}$`, svc.GenerateSKU(42, ""))
	assert.Regexp(t, `^42-BLUSUE-[0-9a-f]{6}-[0-9a-f]{6}$`, svc.GenerateSKU(42, "Blue Suede Shoes"))
}
