package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rebalancer/types"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Target weight sums may exceed 1 by at most this much before the pass is
// rejected as over-allocated. Covers float-sourced weights like 0.9999999.
var weightSumTolerance = decimal.RequireFromString("1.000001")

// RejectedOrder is a planned order the broker refused or that failed
// settlement. It is dropped without retry or compensation.
type RejectedOrder struct {
	Order  types.Order `json:"order"`
	Reason string      `json:"reason"`
}

// PassReport is the observable outcome of one rebalance pass.
type PassReport struct {
	Planned    []types.Order   `json:"planned"`
	Executed   []types.Fill    `json:"executed"`
	Rejected   []RejectedOrder `json:"rejected"`
	Skipped    []SkippedSymbol `json:"skipped"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
}

// Rebalancer runs rebalance passes: fetch composition, refresh prices, plan
// orders, submit them sequentially and settle each confirmed fill. At most
// one pass is ever in flight.
type Rebalancer struct {
	portfolio     *Portfolio
	compositions  compositionProvider
	prices        priceFeed
	broker        broker
	ledger        orderLedger
	index         string
	minOrderValue decimal.Decimal
	log           zerolog.Logger

	passMu sync.Mutex
}

func NewRebalancer(
	portfolio *Portfolio,
	compositions compositionProvider,
	prices priceFeed,
	brk broker,
	index string,
	minOrderValue decimal.Decimal,
	log zerolog.Logger,
) *Rebalancer {
	return &Rebalancer{
		portfolio:     portfolio,
		compositions:  compositions,
		prices:        prices,
		broker:        brk,
		index:         index,
		minOrderValue: minOrderValue,
		log:           log.With().Str("component", "rebalancer").Logger(),
	}
}

// WithLedger records every settled fill through the given ledger. Ledger
// failures are logged and never fail the pass.
func (r *Rebalancer) WithLedger(ledger orderLedger) *Rebalancer {
	r.ledger = ledger
	return r
}

// Portfolio exposes the state for readers such as the HTTP API.
func (r *Rebalancer) Portfolio() *Portfolio {
	return r.portfolio
}

// Rebalance runs one full pass. A failed composition fetch aborts the pass;
// per-symbol price failures and per-order rejections are recorded in the
// report and the pass continues. An empty plan is a zero-order no-op, so
// repeated calls with unchanged inputs are idempotent.
func (r *Rebalancer) Rebalance(ctx context.Context) (*PassReport, error) {
	if !r.passMu.TryLock() {
		return nil, PassInFlightErr
	}
	defer r.passMu.Unlock()

	report := &PassReport{StartedAt: time.Now()}

	comp, err := r.compositions.GetComposition(ctx, r.index)
	if err != nil {
		r.log.Error().Err(err).Str("index", r.index).Msg("Composition fetch failed, aborting pass")
		return nil, fmt.Errorf("%w: %v", CompositionUnavailableErr, err)
	}
	if sum := comp.WeightSum(); sum.GreaterThan(weightSumTolerance) {
		r.log.Error().Str("weightSum", sum.String()).Msg("Rejecting over-allocated composition")
		return nil, fmt.Errorf("%w: sum is %s", OverAllocatedErr, sum)
	}

	report.Skipped = r.portfolio.RefreshPrices(ctx, r.prices, comp.Symbols)

	orders, skipped := r.portfolio.PlanOrders(comp.Weights, r.minOrderValue)
	report.Planned = orders
	report.Skipped = append(report.Skipped, skipped...)

	for _, order := range orders {
		if order.Quantity <= 0 {
			continue
		}

		fill, err := r.broker.Execute(ctx, order)
		if err != nil {
			r.log.Warn().Err(err).
				Str("symbol", order.Symbol).
				Str("side", string(order.Side)).
				Int64("quantity", order.Quantity).
				Msg("Order rejected")
			report.Rejected = append(report.Rejected, RejectedOrder{Order: order, Reason: err.Error()})
			continue
		}

		if err := r.portfolio.Settle(fill); err != nil {
			r.log.Error().Err(err).
				Str("symbol", fill.Symbol).
				Str("fill", fill.ID).
				Msg("Settlement failed")
			report.Rejected = append(report.Rejected, RejectedOrder{Order: order, Reason: "settlement: " + err.Error()})
			continue
		}
		report.Executed = append(report.Executed, fill)

		if r.ledger != nil {
			if err := r.ledger.RecordFill(ctx, fill); err != nil {
				r.log.Error().Err(err).Str("fill", fill.ID).Msg("Failed to record fill in ledger")
			}
		}
	}

	report.FinishedAt = time.Now()
	r.log.Info().
		Int("planned", len(report.Planned)).
		Int("executed", len(report.Executed)).
		Int("rejected", len(report.Rejected)).
		Int("skipped", len(report.Skipped)).
		Str("totalValue", r.portfolio.TotalValue().String()).
		Msg("Rebalance pass complete")
	return report, nil
}
