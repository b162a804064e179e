package types

import (
	"github.com/shopspring/decimal"
)

// Composition is a target index composition: per-symbol weights in [0,1].
// Weights need not sum to 1; the remainder is an implicit cash allocation.
type Composition struct {
	Index   string
	Symbols []string
	Weights map[string]decimal.Decimal
}

// WeightSum returns the total allocated weight across all symbols.
func (c Composition) WeightSum() decimal.Decimal {
	sum := decimal.Zero
	for _, w := range c.Weights {
		sum = sum.Add(w)
	}
	return sum
}
