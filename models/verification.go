package models

import (
	"github.com/shopspring/decimal"
)

// VerificationStatus is the terminal state of verifying one claim.
type VerificationStatus string

const (
	StatusVerified        VerificationStatus = "verified"
	StatusFailed          VerificationStatus = "failed"
	StatusUnverifiable    VerificationStatus = "unverifiable"
	StatusDataUnavailable VerificationStatus = "data_unavailable"
)

// VerificationResult is the outcome of checking a single claim against
// live market data. ActualValue is nil when no data could be fetched.
type VerificationResult struct {
	Claim          Claim              `json:"claim"`
	ActualValue    *decimal.Decimal   `json:"actual_value,omitempty"`
	DiscrepancyPct float64            `json:"discrepancy_pct"`
	Status         VerificationStatus `json:"status"`
	Explanation    string             `json:"explanation"`
	SourceName     string             `json:"source_name,omitempty"`
}

// Tolerance returns the maximum relative discrepancy at which a claim of
// the given type is still considered verified. The comparison is inclusive:
// a discrepancy exactly at the tolerance verifies. Stock prices get a tight
// bound; market caps a loose one, given market fluctuation and extraction
// imprecision.
func Tolerance(t ClaimType) float64 {
	switch t {
	case ClaimTypeStockPrice:
		return 0.05
	case ClaimTypeMarketCap:
		return 0.15
	case ClaimTypeRevenueGrowth:
		return 0.20
	case ClaimTypeInterestRate:
		return 0.10
	default:
		return 0.10
	}
}
