package sku

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Generate produces a candidate SKU for a vendor's product:
// {vendorId}-{productPrefix}-{token}-{token}. The prefix is built from the
// first two words of the product name (each cut to 3 characters, uppercased,
// the concatenation cut to 6). Candidates are collision-resistant, not
// collision-free: they must still pass the normal availability check before
// use.
func Generate(vendorID int, productName string) string {
	parts := []string{fmt.Sprintf("%d", vendorID)}
	if prefix := productPrefix(productName); prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, randomToken(), randomToken())
	return strings.Join(parts, "-")
}

// GenerateSimple is the fallback variant without a product-name prefix:
// {vendorId}-{token}.
func GenerateSimple(vendorID int) string {
	return fmt.Sprintf("%d-%s", vendorID, randomToken())
}

// productPrefix derives the name segment of a candidate SKU. Empty names
// yield an empty prefix, which Generate omits entirely.
func productPrefix(name string) string {
	words := strings.Fields(name)
	if len(words) > 2 {
		words = words[:2]
	}
	var b strings.Builder
	for _, w := range words {
		r := []rune(strings.ToUpper(w))
		if len(r) > 3 {
			r = r[:3]
		}
		b.WriteString(string(r))
	}
	prefix := []rune(b.String())
	if len(prefix) > 6 {
		prefix = prefix[:6]
	}
	return string(prefix)
}

// randomToken returns 6 hex characters from crypto/rand. Roughly 16M values;
// plenty for a single vendor's catalog.
func randomToken() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failure means the process has bigger problems; fall back
		// to a fixed token so callers still get a syntactically valid SKU.
		return "000000"
	}
	return hex.EncodeToString(b)
}
