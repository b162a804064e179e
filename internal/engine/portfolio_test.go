package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"rebalancer/types"

	"github.com/shopspring/decimal"
)

func newTestPortfolio(cash string, holdings map[string]int64, prices map[string]string) *Portfolio {
	p := &Portfolio{
		cash:     decimal.RequireFromString(cash),
		holdings: make(map[string]int64),
		prices:   make(map[string]decimal.Decimal),
	}
	for symbol, quantity := range holdings {
		p.holdings[symbol] = quantity
	}
	for symbol, price := range prices {
		p.prices[symbol] = decimal.RequireFromString(price)
	}
	return p
}

func TestNewPortfolio(t *testing.T) {
	if _, err := NewPortfolio(decimal.RequireFromString("-1")); !errors.Is(err, NegativeCashErr) {
		t.Errorf("NewPortfolio(-1) error = %v, want %v", err, NegativeCashErr)
	}
	p, err := NewPortfolio(decimal.RequireFromString("100"))
	if err != nil {
		t.Fatalf("NewPortfolio(100) error = %v", err)
	}
	if !p.TotalValue().Equal(decimal.RequireFromString("100")) {
		t.Errorf("TotalValue() = %s, want 100", p.TotalValue())
	}
}

func TestPortfolioDeposit(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		wantCash string
		wantErr  error
	}{
		{"positive amount", "250.50", "350.50", nil},
		{"zero amount", "0", "100", InvalidDepositErr},
		{"negative amount", "-10", "100", InvalidDepositErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPortfolio("100", nil, nil)
			err := p.Deposit(decimal.RequireFromString(tt.amount))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Deposit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !p.cash.Equal(decimal.RequireFromString(tt.wantCash)) {
				t.Errorf("cash = %s, want %s", p.cash, tt.wantCash)
			}
		})
	}
}

func TestPortfolioTotalValue(t *testing.T) {
	tests := []struct {
		name     string
		cash     string
		holdings map[string]int64
		prices   map[string]string
		want     string
	}{
		{"cash only", "1000", nil, nil, "1000"},
		{
			"cash plus holdings",
			"50",
			map[string]int64{"AAPL": 33, "MSFT": 50},
			map[string]string{"AAPL": "150", "MSFT": "100"},
			"10000",
		},
		{
			"missing price contributes zero",
			"100",
			map[string]int64{"AAPL": 10, "GOOG": 5},
			map[string]string{"AAPL": "150"},
			"1600",
		},
		{"empty portfolio", "0", nil, nil, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPortfolio(tt.cash, tt.holdings, tt.prices)
			if got := p.TotalValue(); !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("TotalValue() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPortfolioCurrentWeights(t *testing.T) {
	p := newTestPortfolio("2500",
		map[string]int64{"AAPL": 50, "GOOG": 5},
		map[string]string{"AAPL": "100"}, // GOOG price unknown
	)
	// total = 2500 + 50*100 = 7500
	weights := p.CurrentWeights()

	if got, want := weights["AAPL"], decimal.RequireFromString("2").Div(decimal.RequireFromString("3")); !got.Equal(want) {
		t.Errorf("weights[AAPL] = %s, want %s", got, want)
	}
	if got, want := weights[CashSymbol], decimal.RequireFromString("1").Div(decimal.RequireFromString("3")); !got.Equal(want) {
		t.Errorf("weights[CASH] = %s, want %s", got, want)
	}
	if _, ok := weights["GOOG"]; ok {
		t.Error("weights should not contain a symbol without a known price")
	}
}

func TestPortfolioCurrentWeightsZeroValue(t *testing.T) {
	p := newTestPortfolio("0", nil, nil)
	if weights := p.CurrentWeights(); len(weights) != 0 {
		t.Errorf("CurrentWeights() on empty portfolio = %v, want empty", weights)
	}
}

func TestPortfolioSettle(t *testing.T) {
	tests := []struct {
		name         string
		portfolio    *Portfolio
		fill         types.Fill
		wantCash     string
		wantHoldings map[string]int64
		wantErr      error
	}{
		{
			name:         "buy settles cash and holdings",
			portfolio:    newTestPortfolio("10000", nil, nil),
			fill:         types.NewFill("f1", "AAPL", types.SideTypeBuy, 33, decimal.RequireFromString("150"), time.UnixMilli(1)),
			wantCash:     "5050",
			wantHoldings: map[string]int64{"AAPL": 33},
		},
		{
			name:         "sell settles cash and holdings",
			portfolio:    newTestPortfolio("0", map[string]int64{"AAPL": 10}, map[string]string{"AAPL": "100"}),
			fill:         types.NewFill("f2", "AAPL", types.SideTypeSell, 4, decimal.RequireFromString("105"), time.UnixMilli(1)),
			wantCash:     "420",
			wantHoldings: map[string]int64{"AAPL": 6},
		},
		{
			name:         "sell of full position removes it",
			portfolio:    newTestPortfolio("0", map[string]int64{"AAPL": 10}, map[string]string{"AAPL": "100"}),
			fill:         types.NewFill("f3", "AAPL", types.SideTypeSell, 10, decimal.RequireFromString("100"), time.UnixMilli(1)),
			wantCash:     "1000",
			wantHoldings: map[string]int64{},
		},
		{
			name:         "buy exceeding cash is rejected",
			portfolio:    newTestPortfolio("100", nil, nil),
			fill:         types.NewFill("f4", "AAPL", types.SideTypeBuy, 1, decimal.RequireFromString("150"), time.UnixMilli(1)),
			wantCash:     "100",
			wantHoldings: map[string]int64{},
			wantErr:      InsufficientBalanceErr,
		},
		{
			name:         "sell exceeding holdings is rejected",
			portfolio:    newTestPortfolio("0", map[string]int64{"AAPL": 3}, map[string]string{"AAPL": "100"}),
			fill:         types.NewFill("f5", "AAPL", types.SideTypeSell, 5, decimal.RequireFromString("100"), time.UnixMilli(1)),
			wantCash:     "0",
			wantHoldings: map[string]int64{"AAPL": 3},
			wantErr:      OversellErr,
		},
		{
			name:         "unknown side is rejected",
			portfolio:    newTestPortfolio("100", nil, nil),
			fill:         types.NewFill("f6", "AAPL", types.Side("HOLD"), 1, decimal.RequireFromString("10"), time.UnixMilli(1)),
			wantCash:     "100",
			wantHoldings: map[string]int64{},
			wantErr:      UnknownSideErr,
		},
		{
			name:         "non-positive quantity is rejected",
			portfolio:    newTestPortfolio("100", nil, nil),
			fill:         types.NewFill("f7", "AAPL", types.SideTypeBuy, 0, decimal.RequireFromString("10"), time.UnixMilli(1)),
			wantCash:     "100",
			wantHoldings: map[string]int64{},
			wantErr:      NonPositiveQuantityErr,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.portfolio.Settle(tt.fill)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Settle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.portfolio.cash.Equal(decimal.RequireFromString(tt.wantCash)) {
				t.Errorf("cash = %s, want %s", tt.portfolio.cash, tt.wantCash)
			}
			if len(tt.portfolio.holdings) != len(tt.wantHoldings) {
				t.Fatalf("holdings = %v, want %v", tt.portfolio.holdings, tt.wantHoldings)
			}
			for symbol, want := range tt.wantHoldings {
				if got := tt.portfolio.holdings[symbol]; got != want {
					t.Errorf("holdings[%s] = %d, want %d", symbol, got, want)
				}
			}
		})
	}
}

// Settlement at the fill price must not change total value: the cash that
// leaves equals the position value that arrives.
func TestPortfolioSettleConservesValue(t *testing.T) {
	p := newTestPortfolio("10000", nil, nil)
	before := p.TotalValue()

	fill := types.NewFill("f1", "AAPL", types.SideTypeBuy, 33, decimal.RequireFromString("150"), time.UnixMilli(1))
	if err := p.Settle(fill); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}

	if after := p.TotalValue(); !after.Equal(before) {
		t.Errorf("total value changed by settlement: before %s, after %s", before, after)
	}
}

func TestPortfolioRefreshPrices(t *testing.T) {
	feed := &mockFeed{
		prices: map[string]string{"AAPL": "151", "MSFT": "99"},
		errs:   map[string]error{"GOOG": errors.New("feed timeout")},
	}
	p := newTestPortfolio("0", nil, map[string]string{"AAPL": "150", "GOOG": "2800"})

	skipped := p.RefreshPrices(context.Background(), feed, []string{"AAPL", "GOOG", "MSFT"})

	if len(skipped) != 1 || skipped[0].Symbol != "GOOG" {
		t.Fatalf("skipped = %v, want one entry for GOOG", skipped)
	}
	if !p.prices["AAPL"].Equal(decimal.RequireFromString("151")) {
		t.Errorf("prices[AAPL] = %s, want 151", p.prices["AAPL"])
	}
	if !p.prices["MSFT"].Equal(decimal.RequireFromString("99")) {
		t.Errorf("prices[MSFT] = %s, want 99", p.prices["MSFT"])
	}
	// A failing symbol keeps its previous price.
	if !p.prices["GOOG"].Equal(decimal.RequireFromString("2800")) {
		t.Errorf("prices[GOOG] = %s, want previous price 2800", p.prices["GOOG"])
	}
}

func TestPortfolioSnapshot(t *testing.T) {
	p := newTestPortfolio("50",
		map[string]int64{"AAPL": 33},
		map[string]string{"AAPL": "150"},
	)
	view := p.Snapshot()

	if !view.Cash.Equal(decimal.RequireFromString("50")) {
		t.Errorf("view.Cash = %s, want 50", view.Cash)
	}
	if !view.TotalValue.Equal(decimal.RequireFromString("5000")) {
		t.Errorf("view.TotalValue = %s, want 5000", view.TotalValue)
	}
	pos, ok := view.Positions["AAPL"]
	if !ok || pos.Quantity != 33 {
		t.Fatalf("view.Positions[AAPL] = %+v, want quantity 33", pos)
	}

	// Mutating the snapshot must not touch the portfolio.
	view.Positions["AAPL"] = types.PositionSnapshot{Symbol: "AAPL", Quantity: 1}
	if p.holdings["AAPL"] != 33 {
		t.Error("snapshot mutation leaked into portfolio")
	}
}
