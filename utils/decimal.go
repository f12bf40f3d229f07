package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// DivPrecision is the fractional digit count kept by divisions. Raw token
// amounts carry up to 18 fractional digits, price paths multiply two of
// them, so 30 keeps the tail well clear of rounding.
const DivPrecision = 30

// ToDecimal converts a raw integer token amount to its human-scale value by
// shifting the exponent, which is exact (no division is performed).
func ToDecimal(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -decimals)
}

// SafeDiv returns a/b, or zero when b is zero. A zero denominator is an
// expected condition here (an asset without a price yet), not an error.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, DivPrecision)
}

// Exp10 returns 10^n as a decimal.
func Exp10(n int32) decimal.Decimal {
	return decimal.New(1, n)
}
