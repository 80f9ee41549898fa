package processor

import "github.com/shopspring/decimal"

// minorUnitExponent is the number of decimals of the storefront currencies (NOK, EUR, USD).
const minorUnitExponent = 2

// MinorToMajor converts øre to kroner: 39800 -> 398.00.
func MinorToMajor(minor int64) decimal.Decimal {
	return decimal.New(minor, -minorUnitExponent)
}

// MajorToMinor converts back, rounding half away from zero to the nearest øre.
func MajorToMinor(major decimal.Decimal) int64 {
	return major.Shift(minorUnitExponent).Round(0).IntPart()
}
