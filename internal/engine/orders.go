package engine

import (
	"sort"
	"time"

	"rebalancer/types"

	"github.com/shopspring/decimal"
)

// SkippedSymbol records a symbol left out of a pass and why. Skips are data,
// not errors: one bad symbol never aborts the batch.
type SkippedSymbol struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

type candidate struct {
	symbol   string
	side     types.Side
	quantity int64
	price    decimal.Decimal
	absDiff  decimal.Decimal
}

// PlanOrders computes the trades that move the portfolio toward the target
// weights. Total value and current values are computed once, before any
// simulated trade.
//
// Quantities are whole shares, truncated toward zero; the fractional
// remainder is discarded. Deviations below minOrderValue are ignored (the
// dead-zone). Buys draw on a running available-cash tracker and are dropped
// whole when it cannot cover them; sells are never cash-constrained and their
// planned proceeds are not spendable within the same pass, since nothing is
// confirmed until the broker fills.
//
// Allocation priority under cash scarcity is explicit: candidates are planned
// in order of descending absolute deviation, ties broken by symbol.
func (p *Portfolio) PlanOrders(targets map[string]decimal.Decimal, minOrderValue decimal.Decimal) ([]types.Order, []SkippedSymbol) {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := p.totalValueLocked()

	var candidates []candidate
	var skipped []SkippedSymbol
	for symbol, weight := range targets {
		price, havePrice := p.prices[symbol]

		currentValue := decimal.Zero
		if quantity, held := p.holdings[symbol]; held && havePrice {
			currentValue = price.Mul(decimal.NewFromInt(quantity))
		}

		diff := total.Mul(weight).Sub(currentValue)
		if minOrderValue.IsPositive() && diff.Abs().LessThan(minOrderValue) {
			continue
		}
		if !havePrice || !price.IsPositive() {
			skipped = append(skipped, SkippedSymbol{Symbol: symbol, Reason: "no usable price"})
			continue
		}

		quantity := diff.Div(price).IntPart()
		switch {
		case quantity > 0:
			candidates = append(candidates, candidate{symbol, types.SideTypeBuy, quantity, price, diff.Abs()})
		case quantity < 0:
			candidates = append(candidates, candidate{symbol, types.SideTypeSell, -quantity, price, diff.Abs()})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].absDiff.Equal(candidates[j].absDiff) {
			return candidates[i].absDiff.GreaterThan(candidates[j].absDiff)
		}
		return candidates[i].symbol < candidates[j].symbol
	})

	now := time.Now()
	availableCash := p.cash
	orders := make([]types.Order, 0, len(candidates))
	for _, c := range candidates {
		if c.side == types.SideTypeBuy {
			cost := c.price.Mul(decimal.NewFromInt(c.quantity))
			if cost.GreaterThan(availableCash) {
				skipped = append(skipped, SkippedSymbol{Symbol: c.symbol, Reason: "insufficient cash"})
				continue
			}
			availableCash = availableCash.Sub(cost)
		}
		orders = append(orders, types.NewOrder(c.symbol, c.quantity, c.side, now))
	}
	return orders, skipped
}
