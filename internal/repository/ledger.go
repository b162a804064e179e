package repository

import (
	"context"

	"rebalancer/types"
)

// RecordFill appends a settled fill to the order ledger. The ledger is an
// audit trail; the in-memory portfolio never reads it back.
func (db *Database) RecordFill(ctx context.Context, fill types.Fill) error {
	return db.ledger.InsertFill(ctx, insertFillParams{
		FillID:   fill.ID,
		Symbol:   fill.Symbol,
		Side:     string(fill.Side),
		Quantity: fill.Quantity,
		Price:    fill.Price,
		FilledAt: fill.Time,
	})
}
