package types

import (
	"time"
)

// Order is a whole-share trade instruction. Quantity is always a positive
// share count; the side carries the direction.
type Order struct {
	Symbol    string
	Quantity  int64
	Side      Side
	CreatedAt time.Time
}

func NewOrder(symbol string, quantity int64, side Side, createdAt time.Time) Order {
	return Order{
		Symbol:    symbol,
		Quantity:  quantity,
		Side:      side,
		CreatedAt: createdAt,
	}
}
