package model

import (
	"github.com/shopspring/decimal"
)

// HoldingValuation is a holding priced at the latest close. Price and Value are
// meaningful only when Priced is true; otherwise Err explains the failed lookup.
type HoldingValuation struct {
	Holding
	Price    decimal.Decimal
	Value    decimal.Decimal
	Currency string
	Priced   bool
	Err      error
}

// PortfolioValuation sums the priced holdings. Currency is empty and
// MixedCurrency set when they are quoted in more than one currency.
type PortfolioValuation struct {
	Holdings      []HoldingValuation
	Total         decimal.Decimal
	PricedCount   int
	Currency      string
	MixedCurrency bool
}

func (v PortfolioValuation) IsEmpty() bool {
	return len(v.Holdings) == 0
}
