// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/billet-recovery/pkg/constants"
)

// Tolerance is the default absolute tolerance for comparing lengths and
// weights that went through floating point arithmetic.
const Tolerance = 1e-9

// Round rounds val to the given number of decimal places, half away from zero.
func Round(val float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	scale := math.Pow(10, float64(places))
	return math.Round(val*scale) / scale
}

// RoundLength rounds a length in meters for display.
func RoundLength(val float64) float64 {
	return Round(val, constants.LengthDecimals)
}

// RoundPercent rounds a recovery percentage for display.
func RoundPercent(val float64) float64 {
	return Round(val, constants.RecoveryDecimals)
}

// IsZero checks if a value is effectively zero (within Tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= Tolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ClampNonNegative returns val, or zero when val is negative.
func ClampNonNegative(val float64) float64 {
	if val < 0 {
		return 0
	}
	return val
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// MaxOf returns the largest value in vals, or zero for an empty slice.
func MaxOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
