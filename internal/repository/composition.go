package repository

import (
	"context"
	"errors"
	"fmt"

	"rebalancer/types"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// GetComposition returns the target composition for an index, symbols ordered
// by descending weight. An index with no constituents is ErrNoComposition:
// a rebalance pass must never run against a partial or empty target.
func (db *Database) GetComposition(ctx context.Context, index string) (types.Composition, error) {
	rows, err := db.constituents.GetConstituents(ctx, index)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Composition{}, fmt.Errorf("index %s: %w", index, ErrNoComposition)
		}
		return types.Composition{}, err
	}
	if len(rows) == 0 {
		return types.Composition{}, fmt.Errorf("index %s: %w", index, ErrNoComposition)
	}

	comp := types.Composition{
		Index:   index,
		Symbols: make([]string, 0, len(rows)),
		Weights: make(map[string]decimal.Decimal, len(rows)),
	}
	for _, row := range rows {
		comp.Symbols = append(comp.Symbols, row.Ticker)
		comp.Weights[row.Ticker] = row.Weight
	}
	return comp, nil
}
