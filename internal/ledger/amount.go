package ledger

import (
	"fmt"
	"math"
)

// ToMinorUnits converts a human-readable token amount into minor units
// (lamports for SOL). Fractions below the token's precision are floored.
func ToMinorUnits(amount float64, decimals uint8) (uint64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("amount is not a finite number")
	}
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %v", amount)
	}
	scaled := math.Floor(amount * math.Pow10(int(decimals)))
	if scaled > math.MaxUint64 {
		return 0, fmt.Errorf("amount %v overflows minor units", amount)
	}
	if scaled < 1 {
		return 0, fmt.Errorf("amount %v is below the token's minimum unit", amount)
	}
	return uint64(scaled), nil
}

// FromMinorUnits converts minor units back into a human-readable amount.
func FromMinorUnits(units uint64, decimals uint8) float64 {
	return float64(units) / math.Pow10(int(decimals))
}
