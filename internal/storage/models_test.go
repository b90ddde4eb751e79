package storage

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveSnapshotAmounts(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantAmount string
	}{
		{"one token", "1000000000000000000", "1"},
		{"fractional", "1500000000000000000", "1.5"},
		{"zero", "0", "0"},
		{"large reserve", "123456789000000000000000000", "123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := new(big.Int).SetString(tt.raw, 10)
			require.True(t, ok)

			snap := ReserveSnapshot{
				QueriedAt:    time.Now().UTC(),
				ErrorCode:    "0",
				TokenAddress: "0x0000000000000000000000000000000000000001",
				RawAmount:    raw,
				Amount:       decimal.NewFromBigInt(raw, -18),
			}

			// Raw and decimal representations must agree: the decimal is the
			// raw value shifted 18 places.
			assert.Equal(t, tt.raw, snap.RawAmount.String())
			assert.Equal(t, tt.wantAmount, snap.Amount.String())
			assert.Equal(t, tt.raw, snap.Amount.Shift(18).String())
		})
	}
}
