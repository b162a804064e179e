// Package broker provides order execution backends. Paper is the default:
// it confirms every valid order at the latest known price without touching a
// real exchange.
package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rebalancer/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var NonPositiveQuantityErr = errors.New("non-positive order quantity")

type priceSource interface {
	LatestPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Paper fills orders at the latest price the source knows. The returned fill
// is the confirmed record the portfolio settles against.
type Paper struct {
	prices priceSource
	log    zerolog.Logger
}

func NewPaper(prices priceSource, log zerolog.Logger) *Paper {
	return &Paper{
		prices: prices,
		log:    log.With().Str("component", "paper-broker").Logger(),
	}
}

func (b *Paper) Execute(ctx context.Context, order types.Order) (types.Fill, error) {
	if order.Quantity <= 0 {
		return types.Fill{}, NonPositiveQuantityErr
	}

	price, err := b.prices.LatestPrice(ctx, order.Symbol)
	if err != nil {
		return types.Fill{}, fmt.Errorf("no fill price for %s: %w", order.Symbol, err)
	}
	if !price.IsPositive() {
		return types.Fill{}, fmt.Errorf("no usable fill price for %s", order.Symbol)
	}

	fill := types.NewFill(uuid.NewString(), order.Symbol, order.Side, order.Quantity, price, time.Now())
	b.log.Info().
		Str("symbol", order.Symbol).
		Str("side", string(order.Side)).
		Int64("quantity", order.Quantity).
		Str("price", price.String()).
		Msg("Paper fill")
	return fill, nil
}
