package sku

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowSubmission(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		allow  bool
	}{
		{"no check ran", nil, true},
		{"available", &Result{IsAvailable: true, Confidence: ConfidenceHigh}, true},
		{"taken", &Result{IsAvailable: false, Confidence: ConfidenceHigh}, false},
		{"store unreachable fails open", &Result{IsAvailable: false, Confidence: ConfidenceLow, Error: "connection refused"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allow, AllowSubmission(tt.result))
		})
	}
}
