package engine

import (
	"math"
	"testing"
	"time"

	"claimcheck/models"
)

func resultWithStatus(status models.VerificationStatus, discrepancy float64) models.VerificationResult {
	return models.VerificationResult{
		Claim:          models.Claim{Type: models.ClaimTypeStockPrice},
		Status:         status,
		DiscrepancyPct: discrepancy,
	}
}

func TestQualityScorePerfectReport(t *testing.T) {
	results := []models.VerificationResult{
		resultWithStatus(models.StatusVerified, 0.01),
		resultWithStatus(models.StatusVerified, 0.0),
	}
	if got := qualityScore(results, nil); got != 1.0 {
		t.Errorf("qualityScore = %.4f, want 1.0", got)
	}
}

func TestQualityScoreFailedScalesWithDiscrepancy(t *testing.T) {
	tests := []struct {
		name        string
		discrepancy float64
		want        float64
	}{
		{"small miss", 0.06, 1.0 - (0.10 + 0.03)},
		{"large miss capped", 0.80, 1.0 - 0.25},
		{"apple example", 0.2318, 1.0 - (0.10 + 0.1159)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := []models.VerificationResult{resultWithStatus(models.StatusFailed, tt.discrepancy)}
			got := qualityScore(results, nil)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("qualityScore = %.4f, want %.4f", got, tt.want)
			}
		})
	}
}

func TestQualityScoreUnknowableClaimsNeutralPenalty(t *testing.T) {
	results := []models.VerificationResult{
		resultWithStatus(models.StatusUnverifiable, 0),
		resultWithStatus(models.StatusDataUnavailable, 0),
	}
	got := qualityScore(results, nil)
	if math.Abs(got-0.90) > 1e-9 {
		t.Errorf("qualityScore = %.4f, want 0.90", got)
	}
}

func TestQualityScoreComplianceFlags(t *testing.T) {
	flags := []models.ComplianceFlag{
		{Category: models.FlagGuaranteedReturn, Severity: models.SeverityHigh},
		{Category: models.FlagAdviceWithoutRisk, Severity: models.SeverityMedium},
		{Category: models.FlagMissingDisclaimer, Severity: models.SeverityLow},
	}
	got := qualityScore(nil, flags)
	if math.Abs(got-0.50) > 1e-9 {
		t.Errorf("qualityScore = %.4f, want 0.50", got)
	}
}

func TestQualityScoreFloorsAtZero(t *testing.T) {
	var results []models.VerificationResult
	for i := 0; i < 10; i++ {
		results = append(results, resultWithStatus(models.StatusFailed, 1.0))
	}
	if got := qualityScore(results, nil); got != 0 {
		t.Errorf("qualityScore = %.4f, want 0", got)
	}
}

func TestAggregateReportFields(t *testing.T) {
	results := []models.VerificationResult{resultWithStatus(models.StatusVerified, 0)}
	flags := []models.ComplianceFlag{{Category: models.FlagGuaranteedReturn, Severity: models.SeverityHigh, MatchedText: "guaranteed returns"}}

	report := Aggregate("some text", results, flags, ProviderPattern, 1500*time.Millisecond)

	if report.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("report ID not assigned")
	}
	if report.OriginalText != "some text" {
		t.Errorf("original text = %q", report.OriginalText)
	}
	if report.ProviderUsed != ProviderPattern {
		t.Errorf("provider = %q, want %q", report.ProviderUsed, ProviderPattern)
	}
	if report.ProcessingTimeMS != 1500 {
		t.Errorf("processing time = %d, want 1500", report.ProcessingTimeMS)
	}
	if report.CreatedAt.IsZero() {
		t.Error("created at not set")
	}
	if math.Abs(report.QualityScore-0.70) > 1e-9 {
		t.Errorf("quality score = %.4f, want 0.70", report.QualityScore)
	}
	if report.CountByStatus(models.StatusVerified) != 1 {
		t.Errorf("verified count = %d, want 1", report.CountByStatus(models.StatusVerified))
	}
}
