package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// FromSmallestUnit converts an integer amount in an asset's smallest unit
// (satoshi, wei, sun, lamports) into the asset's human unit. Arbitrary
// precision decimals keep 64-bit and uint256 values exact; binary floats
// would corrupt the tolerance-band comparison downstream.
func FromSmallestUnit(raw *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(raw, 0).Shift(-decimals)
}

// FromSmallestUnitInt converts an int64 smallest-unit amount.
func FromSmallestUnitInt(raw int64, decimals int32) decimal.Decimal {
	return decimal.NewFromInt(raw).Shift(-decimals)
}

// FromSmallestUnitString converts a base-10 smallest-unit amount carried
// as a string, the form explorer APIs use for token transfers.
func FromSmallestUnitString(raw string, decimals int32) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, fmt.Errorf("amount cannot be empty")
	}
	n := new(big.Int)
	if _, ok := n.SetString(raw, 10); !ok {
		return decimal.Zero, fmt.Errorf("invalid integer amount %q", raw)
	}
	return FromSmallestUnit(n, decimals), nil
}

// ToSmallestUnit converts a human-unit amount back to the smallest unit.
// For any value produced by FromSmallestUnit at the same precision the
// round trip recovers the original integer exactly.
func ToSmallestUnit(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).BigInt()
}
