package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClaimType identifies the kind of financial assertion a claim makes.
type ClaimType string

const (
	ClaimTypeStockPrice      ClaimType = "stock_price"
	ClaimTypeMarketCap       ClaimType = "market_cap"
	ClaimTypeRevenueGrowth   ClaimType = "revenue_growth"
	ClaimTypeInterestRate    ClaimType = "interest_rate"
	ClaimTypePricePrediction ClaimType = "price_prediction"
	ClaimTypeGenericNumeric  ClaimType = "generic_numeric"
)

// ValueUnit is the unit of an asserted value.
type ValueUnit string

const (
	UnitCurrency ValueUnit = "currency"
	UnitPercent  ValueUnit = "percent"
)

// Claim is a structured, checkable assertion extracted from free text.
// A claim with an empty ResolvedSymbol cannot proceed to verification.
type Claim struct {
	RawText              string          `json:"raw_text"`
	Type                 ClaimType       `json:"claim_type"`
	EntityMention        string          `json:"entity_mention"`
	ResolvedSymbol       string          `json:"resolved_symbol,omitempty"`
	AssertedValue        decimal.Decimal `json:"asserted_value"`
	Unit                 ValueUnit       `json:"unit"`
	ExtractionConfidence float64         `json:"extraction_confidence"`
}

// IsResolved reports whether the claim's entity has been resolved to a symbol.
func (c *Claim) IsResolved() bool {
	return c.ResolvedSymbol != ""
}

// DedupeKey collapses claims produced by overlapping patterns. Two claims
// with the same type, entity, and value are the same claim.
func (c *Claim) DedupeKey() string {
	return fmt.Sprintf("%s|%s|%s", c.Type, strings.ToLower(c.EntityMention), c.AssertedValue.String())
}

// Resolution is the outcome of resolving an entity mention to a symbol.
type Resolution struct {
	Symbol     string  `json:"symbol"`
	Confidence float64 `json:"confidence"`
}
