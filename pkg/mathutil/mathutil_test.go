package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		places   int
		expected float64
	}{
		{"Two places round up", 77.115867, 2, 77.12},
		{"Two places round down", 73.946721, 2, 73.95},
		{"Three places", 8.595833, 3, 8.596},
		{"Three places margin", 1.095833, 3, 1.096},
		{"Zero places", 3.5, 0, 4},
		{"Negative places treated as zero", 3.4, -1, 3},
		{"Negative number", -1.2345, 2, -1.23},
		{"Zero", 0, 3, 0},
		{"Very small positive", 0.0001, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input, tt.places)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Round(%v, %d) = %v, expected %v", tt.input, tt.places, result, tt.expected)
			}
		})
	}
}

func TestRoundLengthAndPercent(t *testing.T) {
	if got := RoundLength(8.5958333); got != 8.596 {
		t.Errorf("RoundLength = %v, expected 8.596", got)
	}
	if got := RoundPercent(77.115867); got != 77.12 {
		t.Errorf("RoundPercent = %v, expected 77.12", got)
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Float noise", 1e-12, true},
		{"Negative float noise", -1e-12, true},
		{"Small but real", 0.001, false},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsZero(tt.input); result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		a, b      float64
		tolerance float64
		expected  bool
	}{
		{"Equal", 1.5, 1.5, 0, true},
		{"Inside", 1.5, 1.5001, 0.001, true},
		{"Boundary", 1.0, 1.5, 0.5, true},
		{"Outside", 1.0, 1.6, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := WithinTolerance(tt.a, tt.b, tt.tolerance); result != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v", tt.a, tt.b, tt.tolerance, result, tt.expected)
			}
		})
	}
}

func TestClampNonNegative(t *testing.T) {
	if got := ClampNonNegative(-1e-15); got != 0 {
		t.Errorf("ClampNonNegative(-1e-15) = %v, expected 0", got)
	}
	if got := ClampNonNegative(2.5); got != 2.5 {
		t.Errorf("ClampNonNegative(2.5) = %v, expected 2.5", got)
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name         string
		value, total float64
		expected     float64
	}{
		{"Half", 50, 100, 50},
		{"Zero total", 10, 0, 0},
		{"Full", 55.575, 55.575, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePercentage(tt.value, tt.total)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v", tt.value, tt.total, result, tt.expected)
			}
		})
	}
}

func TestMaxOf(t *testing.T) {
	if got := MaxOf(nil); got != 0 {
		t.Errorf("MaxOf(nil) = %v, expected 0", got)
	}
	if got := MaxOf([]float64{3, 77.1, 12}); got != 77.1 {
		t.Errorf("MaxOf = %v, expected 77.1", got)
	}
	if got := MaxOf([]float64{-3, -1}); got != -1 {
		t.Errorf("MaxOf negatives = %v, expected -1", got)
	}
}
