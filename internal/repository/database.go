package repository

import (
	"context"
	"errors"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Global error declarations.
var (
	ErrAssetNotFound = errors.New("asset not found in datasource")
	ErrNoComposition = errors.New("no constituents found for index")
	ErrNoQuote       = errors.New("no quote found for symbol")
)

type assetsRepository interface {
	GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error)
}
type constituentsRepository interface {
	GetConstituents(ctx context.Context, index string) ([]constituentRow, error)
}
type quotesRepository interface {
	GetLatestQuote(ctx context.Context, ticker string) (quoteRow, error)
}
type ledgerRepository interface {
	InsertFill(ctx context.Context, arg insertFillParams) error
}

// Database holds the connection pool and the per-entity query seams.
type Database struct {
	assets       assetsRepository
	constituents constituentsRepository
	quotes       quotesRepository
	ledger       ledgerRepository
	conn         *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(dbURL string) (Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return Database{}, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return Database{}, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(context.Background()); err != nil {
		return Database{}, err
	}

	q := &queries{conn: conn}
	return Database{
		assets:       q,
		constituents: q,
		quotes:       q,
		ledger:       q,
		conn:         conn,
	}, nil
}

// Close releases the connection pool.
func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}
