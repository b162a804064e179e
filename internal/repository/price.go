package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LatestPrice returns the most recent stored quote for a symbol. A missing
// quote is ErrNoQuote; callers treat it as a per-symbol skip, never as a
// reason to abort a batch.
func (db *Database) LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	quote, err := db.quotes.GetLatestQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("symbol %s: %w", symbol, ErrNoQuote)
		}
		return decimal.Zero, err
	}
	return quote.Price, nil
}
