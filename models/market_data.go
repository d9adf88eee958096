package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote represents the current traded price for a symbol.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Bid       decimal.Decimal `json:"bid"`
	Ask       decimal.Decimal `json:"ask"`
	Timestamp time.Time       `json:"timestamp"`
}

// Indicator is the most recently published figure for a named economic or
// company indicator (market cap, revenue growth, interest rate), keyed by
// indicator name and region rather than a ticker.
type Indicator struct {
	Name   string          `json:"name"`
	Region string          `json:"region"`
	Value  decimal.Decimal `json:"value"`
	Unit   ValueUnit       `json:"unit"`
	AsOf   time.Time       `json:"as_of"`
}
