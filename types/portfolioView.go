package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type PortfolioView struct {
	Cash       decimal.Decimal
	TotalValue decimal.Decimal
	Positions  map[string]PositionSnapshot
	Time       time.Time
}

type PositionSnapshot struct {
	Symbol    string
	Quantity  int64
	LastPrice decimal.Decimal
}
