package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClaimIsResolved(t *testing.T) {
	claim := Claim{EntityMention: "Apple"}
	if claim.IsResolved() {
		t.Error("claim without symbol should not be resolved")
	}
	claim.ResolvedSymbol = "AAPL"
	if !claim.IsResolved() {
		t.Error("claim with symbol should be resolved")
	}
}

func TestClaimDedupeKey(t *testing.T) {
	a := Claim{Type: ClaimTypeStockPrice, EntityMention: "AAPL", AssertedValue: decimal.NewFromInt(150)}
	b := Claim{Type: ClaimTypeStockPrice, EntityMention: "aapl", AssertedValue: decimal.NewFromInt(150)}
	if a.DedupeKey() != b.DedupeKey() {
		t.Error("dedupe key should be case-insensitive on the entity")
	}

	c := Claim{Type: ClaimTypeStockPrice, EntityMention: "AAPL", AssertedValue: decimal.NewFromInt(160)}
	if a.DedupeKey() == c.DedupeKey() {
		t.Error("different values should not collide")
	}

	d := Claim{Type: ClaimTypePricePrediction, EntityMention: "AAPL", AssertedValue: decimal.NewFromInt(150)}
	if a.DedupeKey() == d.DedupeKey() {
		t.Error("different claim types should not collide")
	}
}

func TestToleranceByClaimType(t *testing.T) {
	tests := []struct {
		typ  ClaimType
		want float64
	}{
		{ClaimTypeStockPrice, 0.05},
		{ClaimTypeMarketCap, 0.15},
		{ClaimTypeRevenueGrowth, 0.20},
		{ClaimTypeInterestRate, 0.10},
		{ClaimTypePricePrediction, 0.10},
		{ClaimTypeGenericNumeric, 0.10},
	}

	for _, tt := range tests {
		if got := Tolerance(tt.typ); got != tt.want {
			t.Errorf("Tolerance(%s) = %.2f, want %.2f", tt.typ, got, tt.want)
		}
	}
}

func TestSeverityPenalty(t *testing.T) {
	tests := []struct {
		severity FlagSeverity
		want     float64
	}{
		{SeverityLow, 0.05},
		{SeverityMedium, 0.15},
		{SeverityHigh, 0.30},
	}

	for _, tt := range tests {
		if got := SeverityPenalty(tt.severity); got != tt.want {
			t.Errorf("SeverityPenalty(%s) = %.2f, want %.2f", tt.severity, got, tt.want)
		}
	}
}

func TestReportCountByStatus(t *testing.T) {
	report := EnhancedReport{
		Results: []VerificationResult{
			{Status: StatusVerified},
			{Status: StatusVerified},
			{Status: StatusFailed},
			{Status: StatusUnverifiable},
		},
	}

	if got := report.CountByStatus(StatusVerified); got != 2 {
		t.Errorf("verified = %d, want 2", got)
	}
	if got := report.CountByStatus(StatusFailed); got != 1 {
		t.Errorf("failed = %d, want 1", got)
	}
	if got := report.CountByStatus(StatusDataUnavailable); got != 0 {
		t.Errorf("data_unavailable = %d, want 0", got)
	}
}
