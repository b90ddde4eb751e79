package storage

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// ReserveSnapshot is one reserve entry captured by watch mode: the balance
// of a single underlying token backing the fund at query time.
type ReserveSnapshot struct {
	ID           int64
	QueriedAt    time.Time
	ErrorCode    string
	TokenAddress string
	RawAmount    *big.Int
	Amount       decimal.Decimal
}

// FundSnapshot captures the fund token's total supply at query time.
type FundSnapshot struct {
	ID          int64
	QueriedAt   time.Time
	TotalSupply decimal.Decimal
}
