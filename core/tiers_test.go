package core_test

import (
	"testing"

	"waveline/core"
)

func TestBarCountForWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    float64
		expected int
	}{
		{"tablet", 1024, 480},
		{"tablet threshold", 768, 480},
		{"large phone", 430, 240},
		{"large threshold", 390, 240},
		{"medium phone", 375, 120},
		{"medium threshold", 360, 120},
		{"small phone", 359, 60},
		{"tiny", 280, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.BarCountForWidth(tt.width); got != tt.expected {
				t.Errorf("width %v: expected %d bars, got %d", tt.width, tt.expected, got)
			}
		})
	}
}
