// Package amount implements fixed-point monetary values for tokens with
// heterogeneous decimal precision. An Amount is a raw integer scaled by
// 10^decimals; arithmetic and comparisons across precisions rescale to a
// common scale first.
package amount

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// GyroDecimals is the fixed precision of the fund token and of all
// protocol-level quantities (estimates, reserves, supply).
const GyroDecimals uint8 = 18

// Amount is an immutable fixed-point value: raw * 10^-decimals.
// The zero value is 0 at precision 0 and is valid.
type Amount struct {
	raw      *big.Int
	decimals uint8
}

// FromRaw wraps an on-chain integer at the given precision. The raw value is
// copied so later mutation of the argument cannot change the Amount.
func FromRaw(raw *big.Int, decimals uint8) Amount {
	if raw == nil {
		raw = new(big.Int)
	}
	return Amount{raw: new(big.Int).Set(raw), decimals: decimals}
}

// FromDecimal converts a human-readable value to a fixed-point Amount.
// Fractional digits beyond the target precision are truncated toward zero.
func FromDecimal(value decimal.Decimal, decimals uint8) Amount {
	scaled := value.Shift(int32(decimals)).Truncate(0)
	return Amount{raw: scaled.BigInt(), decimals: decimals}
}

// FromString parses a human-readable decimal string at the given precision.
func FromString(value string, decimals uint8) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return FromDecimal(d, decimals), nil
}

// Zero returns the zero amount at the given precision. It is the default for
// unset slippage bounds: a zero minimum-minted or maximum-redeemed accepts
// any outcome.
func Zero(decimals uint8) Amount {
	return Amount{raw: new(big.Int), decimals: decimals}
}

// Raw returns a copy of the underlying scaled integer.
func (a Amount) Raw() *big.Int {
	if a.raw == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.raw)
}

// Decimals returns the precision of this amount.
func (a Amount) Decimals() uint8 {
	return a.decimals
}

// Decimal returns the human-readable value.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(a.Raw(), -int32(a.decimals))
}

// String renders the human-readable value without trailing zeros.
func (a Amount) String() string {
	return a.Decimal().String()
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.raw == nil || a.raw.Sign() == 0
}

// Rescale converts the amount to a different precision. Scaling down
// truncates toward zero, the same rule FromDecimal applies.
func (a Amount) Rescale(decimals uint8) Amount {
	if decimals == a.decimals {
		return FromRaw(a.raw, a.decimals)
	}
	raw := a.Raw()
	if decimals > a.decimals {
		factor := pow10(int(decimals - a.decimals))
		return Amount{raw: raw.Mul(raw, factor), decimals: decimals}
	}
	factor := pow10(int(a.decimals - decimals))
	return Amount{raw: raw.Quo(raw, factor), decimals: decimals}
}

// Cmp compares two amounts, aligning scales first. It returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	x, y := align(a, b)
	return x.Cmp(y)
}

// Equal reports whether the two amounts represent the same value, regardless
// of precision.
func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

// Add returns a+b at the higher of the two precisions.
func (a Amount) Add(b Amount) Amount {
	x, y := align(a, b)
	return Amount{raw: x.Add(x, y), decimals: max(a.decimals, b.decimals)}
}

// Sub returns a-b at the higher of the two precisions.
func (a Amount) Sub(b Amount) Amount {
	x, y := align(a, b)
	return Amount{raw: x.Sub(x, y), decimals: max(a.decimals, b.decimals)}
}

// align brings both raw values to the higher of the two precisions so their
// magnitudes are directly comparable. Comparing raw values at mismatched
// precisions is a correctness bug, hence no raw accessor skips this path.
func align(a, b Amount) (*big.Int, *big.Int) {
	x, y := a.Raw(), b.Raw()
	switch {
	case a.decimals < b.decimals:
		x.Mul(x, pow10(int(b.decimals-a.decimals)))
	case b.decimals < a.decimals:
		y.Mul(y, pow10(int(a.decimals-b.decimals)))
	}
	return x, y
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
