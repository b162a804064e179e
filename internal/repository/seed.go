package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ConstituentSeed is one row of a universe seed file. Price is optional; a
// positive value also records an initial quote for the symbol.
type ConstituentSeed struct {
	Ticker string
	Name   string
	Weight decimal.Decimal
	Price  decimal.Decimal
}

// ReplaceConstituents atomically replaces the stored composition of an index.
// Assets are upserted one by one, the old constituent set is dropped and the
// new one bulk-loaded with CopyFrom. onRow, if non-nil, is called after each
// asset upsert so callers can drive a progress bar.
func (db *Database) ReplaceConstituents(ctx context.Context, index string, rows []ConstituentSeed, onRow func()) error {
	tx, err := db.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const upsertAsset = `
		INSERT INTO assets (ticker, name, type, created_at, modified_at)
		VALUES ($1, $2, 'STOCK', now(), now())
		ON CONFLICT (ticker) DO UPDATE SET name = EXCLUDED.name, modified_at = now()`

	for _, row := range rows {
		if _, err := tx.Exec(ctx, upsertAsset, row.Ticker, row.Name); err != nil {
			return fmt.Errorf("upsert asset %s: %w", row.Ticker, err)
		}
		if onRow != nil {
			onRow()
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM index_constituents WHERE index_symbol = $1`, index); err != nil {
		return fmt.Errorf("clear constituents: %w", err)
	}

	copyRows := make([][]any, 0, len(rows))
	for _, row := range rows {
		copyRows = append(copyRows, []any{index, row.Ticker, row.Weight})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"index_constituents"},
		[]string{"index_symbol", "ticker", "weight"},
		pgx.CopyFromRows(copyRows),
	); err != nil {
		return fmt.Errorf("copy constituents: %w", err)
	}

	const insertQuote = `
		INSERT INTO quotes (ticker, price, quoted_at)
		VALUES ($1, $2, $3)`

	now := time.Now()
	for _, row := range rows {
		if !row.Price.IsPositive() {
			continue
		}
		if _, err := tx.Exec(ctx, insertQuote, row.Ticker, row.Price, now); err != nil {
			return fmt.Errorf("insert quote %s: %w", row.Ticker, err)
		}
	}

	return tx.Commit(ctx)
}
