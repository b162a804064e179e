package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// queries is the hand-written pgx query layer behind the repository seams.
type queries struct {
	conn *pgxpool.Pool
}

type assetRow struct {
	ID         int32
	Ticker     string
	Name       string
	Type       string
	CreatedAt  *time.Time
	ModifiedAt *time.Time
}

type constituentRow struct {
	Ticker string
	Weight decimal.Decimal
}

type quoteRow struct {
	Ticker   string
	Price    decimal.Decimal
	QuotedAt *time.Time
}

type insertFillParams struct {
	FillID   string
	Symbol   string
	Side     string
	Quantity int64
	Price    decimal.Decimal
	FilledAt time.Time
}

func (q *queries) GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	const query = `
		SELECT id, ticker, name, type, created_at, modified_at
		FROM assets
		WHERE ticker = $1`

	var row assetRow
	err := q.conn.QueryRow(ctx, query, ticker).
		Scan(&row.ID, &row.Ticker, &row.Name, &row.Type, &row.CreatedAt, &row.ModifiedAt)
	return row, err
}

func (q *queries) GetConstituents(ctx context.Context, index string) ([]constituentRow, error) {
	const query = `
		SELECT ticker, weight
		FROM index_constituents
		WHERE index_symbol = $1
		ORDER BY weight DESC, ticker`

	rows, err := q.conn.Query(ctx, query, index)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []constituentRow
	for rows.Next() {
		var row constituentRow
		if err := rows.Scan(&row.Ticker, &row.Weight); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (q *queries) GetLatestQuote(ctx context.Context, ticker string) (quoteRow, error) {
	const query = `
		SELECT ticker, price, quoted_at
		FROM quotes
		WHERE ticker = $1
		ORDER BY quoted_at DESC
		LIMIT 1`

	var row quoteRow
	err := q.conn.QueryRow(ctx, query, ticker).
		Scan(&row.Ticker, &row.Price, &row.QuotedAt)
	return row, err
}

func (q *queries) InsertFill(ctx context.Context, arg insertFillParams) error {
	const query = `
		INSERT INTO order_ledger (fill_id, symbol, side, quantity, price, filled_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := q.conn.Exec(ctx, query,
		arg.FillID, arg.Symbol, arg.Side, arg.Quantity, arg.Price, arg.FilledAt)
	return err
}
