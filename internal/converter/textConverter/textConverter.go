package textConverter

import (
	"fmt"
	"strings"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const EmptyPortfolioMsg = "Your portfolio is empty."

// PortfolioValuationResponse renders a valuation for the terminal. Amounts
// without a known quote currency are shown in defaultCurrency.
func PortfolioValuationResponse(valuation model.PortfolioValuation, defaultCurrency string) string {
	if valuation.IsEmpty() {
		return EmptyPortfolioMsg + "\n"
	}

	var sb strings.Builder

	sb.WriteString("\nYour Portfolio:\n")
	for _, h := range valuation.Holdings {
		if !h.Priced {
			sb.WriteString(fmt.Sprintf("[%d] %s: Unable to fetch price\n", h.ID, h.Symbol))
			continue
		}

		currency := orDefault(h.Currency, defaultCurrency)
		sb.WriteString(fmt.Sprintf("[%d] %s: %d shares @ %s = %s\n",
			h.ID, h.Symbol, h.Shares, FormatAmount(h.Price, currency), FormatAmount(h.Value, currency)))
	}

	total := FormatAmount(valuation.Total, orDefault(valuation.Currency, defaultCurrency))
	if valuation.MixedCurrency {
		total = valuation.Total.StringFixed(2) + " (mixed currencies)"
	}
	sb.WriteString(fmt.Sprintf("\nTotal Portfolio Value: %s\n", total))

	return sb.String()
}

// Quote currencies that count in the minor unit (pence, cents, agorot).
var minorUnitCurrencies = map[string]struct{}{
	"GBp": {},
	"ZAc": {},
	"ILA": {},
}

// FormatAmount formats amount with the currency's symbol, grouping and minor
// units. Minor-unit quote codes and codes unknown to go-money fall back to a
// plain two-decimal form with the code as received.
func FormatAmount(amount decimal.Decimal, currency string) string {
	var cur *money.Currency
	if _, ok := minorUnitCurrencies[currency]; !ok {
		cur = money.GetCurrency(currency)
	}
	if cur == nil {
		return strings.TrimSpace(amount.StringFixed(2) + " " + currency)
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

func orDefault(currency, defaultCurrency string) string {
	if currency == "" {
		return defaultCurrency
	}
	return currency
}
