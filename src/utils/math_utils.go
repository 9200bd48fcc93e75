package utils

import "github.com/shopspring/decimal"

// RoundFloat rounds a float64 to a specified number of decimal places.
// Decimal arithmetic keeps reported money values free of binary rounding
// artifacts; everything upstream stays in float64.
func RoundFloat(val float64, precision int32) float64 {
	f, _ := decimal.NewFromFloat(val).Round(precision).Float64()
	return f
}

// MinFloat returns the smaller of two floats.
func MinFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
