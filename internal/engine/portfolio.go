package engine

import (
	"context"
	"sync"
	"time"

	"rebalancer/types"

	"github.com/shopspring/decimal"
)

// CashSymbol is the synthetic symbol under which the cash weight is reported.
const CashSymbol = "CASH"

// Portfolio holds cash, whole-share holdings and last known prices. It is
// mutated by deposits, price refreshes and fill settlement only. The mutex
// exists because deposits arrive over HTTP between passes; within a pass
// there is a single control flow.
type Portfolio struct {
	mu       sync.Mutex
	cash     decimal.Decimal
	holdings map[string]int64
	prices   map[string]decimal.Decimal
}

func NewPortfolio(initialCash decimal.Decimal) (*Portfolio, error) {
	if initialCash.IsNegative() {
		return nil, NegativeCashErr
	}
	return &Portfolio{
		cash:     initialCash,
		holdings: make(map[string]int64),
		prices:   make(map[string]decimal.Decimal),
	}, nil
}

// Deposit adds cash to the portfolio. Amount must be positive.
func (p *Portfolio) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return InvalidDepositErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cash = p.cash.Add(amount)
	return nil
}

// RefreshPrices queries the feed for every symbol. A failing symbol keeps its
// previous price (or stays absent) and never aborts the refresh of the rest;
// the failures come back as skip records.
func (p *Portfolio) RefreshPrices(ctx context.Context, feed priceFeed, symbols []string) []SkippedSymbol {
	var skipped []SkippedSymbol
	for _, symbol := range symbols {
		price, err := feed.LatestPrice(ctx, symbol)
		if err != nil {
			skipped = append(skipped, SkippedSymbol{Symbol: symbol, Reason: "price unavailable: " + err.Error()})
			continue
		}
		p.mu.Lock()
		p.prices[symbol] = price
		p.mu.Unlock()
	}
	return skipped
}

// TotalValue is cash plus the value of all holdings with a known price.
// Holdings without a price contribute zero.
func (p *Portfolio) TotalValue() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalValueLocked()
}

func (p *Portfolio) totalValueLocked() decimal.Decimal {
	value := p.cash
	for symbol, quantity := range p.holdings {
		price, ok := p.prices[symbol]
		if !ok {
			continue
		}
		value = value.Add(price.Mul(decimal.NewFromInt(quantity)))
	}
	return value
}

// CurrentWeights returns per-symbol allocation weights plus a synthetic CASH
// entry. An empty map is returned when the total value is zero.
func (p *Portfolio) CurrentWeights() map[string]decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := p.totalValueLocked()
	weights := make(map[string]decimal.Decimal)
	if total.IsZero() {
		return weights
	}

	for symbol, quantity := range p.holdings {
		price, ok := p.prices[symbol]
		if !ok {
			continue
		}
		weights[symbol] = price.Mul(decimal.NewFromInt(quantity)).Div(total)
	}
	weights[CashSymbol] = p.cash.Div(total)
	return weights
}

// Settle applies a confirmed fill. A buy moves qty*price from cash into the
// position, a sell is the mirror; the fill price becomes the symbol's last
// known price. Total value is unchanged by settlement alone.
func (p *Portfolio) Settle(fill types.Fill) error {
	if fill.Quantity <= 0 {
		return NonPositiveQuantityErr
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	value := fill.Value()
	switch fill.Side {
	case types.SideTypeBuy:
		newCash := p.cash.Sub(value)
		if newCash.IsNegative() {
			return InsufficientBalanceErr
		}
		p.cash = newCash
		p.holdings[fill.Symbol] += fill.Quantity

	case types.SideTypeSell:
		held := p.holdings[fill.Symbol]
		if fill.Quantity > held {
			return OversellErr
		}
		p.cash = p.cash.Add(value)
		if remaining := held - fill.Quantity; remaining == 0 {
			delete(p.holdings, fill.Symbol)
		} else {
			p.holdings[fill.Symbol] = remaining
		}

	default:
		return UnknownSideErr
	}

	p.prices[fill.Symbol] = fill.Price
	return nil
}

// Snapshot returns a copy for readers outside the rebalance control flow.
func (p *Portfolio) Snapshot() types.PortfolioView {
	p.mu.Lock()
	defer p.mu.Unlock()

	view := types.PortfolioView{
		Cash:       p.cash,
		TotalValue: p.totalValueLocked(),
		Positions:  make(map[string]types.PositionSnapshot, len(p.holdings)),
		Time:       time.Now(),
	}
	for symbol, quantity := range p.holdings {
		view.Positions[symbol] = types.PositionSnapshot{
			Symbol:    symbol,
			Quantity:  quantity,
			LastPrice: p.prices[symbol],
		}
	}
	return view
}
