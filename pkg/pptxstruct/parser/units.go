// Package parser provides the shape inventory engine shared by extraction,
// content application and validation: geometry, the recursive shape walker,
// visual ordering, overlap/overflow diagnostics and paragraph reading.
package parser

import "math"

// EMUPerInch is the number of EMUs (English Metric Units) per inch.
const EMUPerInch = 914400

// EMUPerPoint is the number of EMUs per typographic point (1/72 inch).
// 914400 / 72 = 12700
const EMUPerPoint = 12700

// ToInches converts EMU to inches.
func ToInches(emu int64) float64 {
	return float64(emu) / EMUPerInch
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
