package sku

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateShape(t *testing.T) {
	pattern := regexp.MustCompile(`^42-[A-Z]{1,6}-[0-9a-f]{6}-[0-9a-f]{6}$`)
	for i := 0; i < 50; i++ {
		got := Generate(42, "Blue Suede Shoes")
		assert.Regexp(t, pattern, got)
		assert.True(t, strings.HasPrefix(got, "42-BLUSUE-"), "prefix from first two words, got %q", got)
	}
}

func TestGeneratePrefixRules(t *testing.T) {
	tests := []struct {
		name        string
		productName string
		prefix      string
	}{
		{"two words cut to three chars each", "Blue Suede Shoes", "BLUSUE"},
		{"single word", "Sneakers", "SNE"},
		{"short words kept whole", "Go Up", "GOUP"},
		{"lowercased input", "blue suede", "BLUSUE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(7, tt.productName)
			assert.True(t, strings.HasPrefix(got, "7-"+tt.prefix+"-"), "got %q", got)
		})
	}
}

func TestGenerateEmptyNameOmitsPrefix(t *testing.T) {
	pattern := regexp.MustCompile(`^42-[0-9a-f]{6}-[0-9a-f]{6}$`)
	assert.Regexp(t, pattern, Generate(42, ""))
	assert.Regexp(t, pattern, Generate(42, "   "))
}

func TestGenerateSimpleShape(t *testing.T) {
	pattern := regexp.MustCompile(`^9-[0-9a-f]{6}$`)
	assert.Regexp(t, pattern, GenerateSimple(9))
}

func TestGenerateUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		s := Generate(1, "Widget")
		assert.False(t, seen[s], "duplicate candidate %q", s)
		seen[s] = true
	}
}
