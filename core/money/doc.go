// Package money handles price amounts authored as decimal strings.
//
// Amounts never pass through float64. Conversion to the units/nanos pair is done
// on the string itself, and tolerance matching against backend price points uses
// shopspring/decimal so "9.990" and "9.99" compare equal without rounding drift.
package money
