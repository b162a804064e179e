package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fill is a broker-confirmed execution. Settlement always applies the fill
// price, not the price the order was planned at.
type Fill struct {
	ID       string
	Symbol   string
	Side     Side
	Quantity int64
	Price    decimal.Decimal
	Time     time.Time
}

func NewFill(id, symbol string, side Side, quantity int64, price decimal.Decimal, at time.Time) Fill {
	return Fill{
		ID:       id,
		Symbol:   symbol,
		Side:     side,
		Quantity: quantity,
		Price:    price,
		Time:     at,
	}
}

// Value is the cash amount the fill moves, before sign.
func (f Fill) Value() decimal.Decimal {
	return f.Price.Mul(decimal.NewFromInt(f.Quantity))
}
