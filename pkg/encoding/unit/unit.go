// Package unit converts between integer token amounts as stored on chain
// and their human-readable decimal form.
package unit

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ToDecimal scales an on-chain integer amount down by decimals. A nil amount
// is zero.
func ToDecimal(amount *big.Int, decimals int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, int32(-decimals))
}

// ToBigInt scales a human amount up by decimals, truncating any precision
// the token cannot represent.
func ToBigInt(amount decimal.Decimal, decimals int) *big.Int {
	return amount.Shift(int32(decimals)).Truncate(0).BigInt()
}

// Parse reads a decimal string amount as produced by nodes and wallets
// (an integer in the smallest token unit).
func Parse(s string) (*big.Int, bool) {
	if s == "" {
		return new(big.Int), true
	}
	return new(big.Int).SetString(s, 10)
}
