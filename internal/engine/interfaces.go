package engine

import (
	"context"

	"rebalancer/types"

	"github.com/shopspring/decimal"
)

type compositionProvider interface {
	GetComposition(ctx context.Context, index string) (types.Composition, error)
}

type priceFeed interface {
	LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type broker interface {
	Execute(ctx context.Context, order types.Order) (types.Fill, error)
}

type orderLedger interface {
	RecordFill(ctx context.Context, fill types.Fill) error
}
