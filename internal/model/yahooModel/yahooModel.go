package yahooModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type RawChart struct {
	Chart Chart `json:"chart"`
}

type Chart struct {
	Result []ChartResult `json:"result"`
	Error  *ChartError   `json:"error"`
}

type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type ChartResult struct {
	Meta       Meta       `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
}

type Meta struct {
	Currency string `json:"currency"`
	Symbol   string `json:"symbol"`
}

type Indicators struct {
	Quote []QuoteSeries `json:"quote"`
}

type QuoteSeries struct {
	Close []decimal.NullDecimal `json:"close"`
}

type Quote struct {
	Symbol   string
	Currency string
	Close    decimal.Decimal
	Time     time.Time
}
