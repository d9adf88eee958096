package engine

import (
	"time"

	"github.com/google/uuid"

	"claimcheck/models"
	"claimcheck/observability"
)

// Per-result and per-flag quality penalties. A failed check costs more the
// larger its discrepancy, capped so one wild claim cannot zero a report on
// its own; an unknowable claim costs a flat, smaller amount.
const (
	failedBasePenalty   = 0.10
	failedMaxPenalty    = 0.25
	unverifiablePenalty = 0.05
)

// Aggregate assembles verification results and compliance flags into a
// report with a quality score in [0, 1].
func Aggregate(originalText string, results []models.VerificationResult, flags []models.ComplianceFlag, providerUsed string, elapsed time.Duration) *models.EnhancedReport {
	report := &models.EnhancedReport{
		ID:               uuid.New(),
		OriginalText:     originalText,
		Results:          results,
		ComplianceFlags:  flags,
		QualityScore:     qualityScore(results, flags),
		ProviderUsed:     providerUsed,
		ProcessingTimeMS: elapsed.Milliseconds(),
		CreatedAt:        time.Now().UTC(),
	}
	observability.GetMetrics().RecordQualityScore(report.QualityScore)
	return report
}

// qualityScore starts at 1.0 and subtracts per-result and per-flag
// penalties, floored at 0. Claims that could not be checked are penalized
// neutrally: not knowing is worse than verified but far better than wrong.
func qualityScore(results []models.VerificationResult, flags []models.ComplianceFlag) float64 {
	score := 1.0

	for _, r := range results {
		switch r.Status {
		case models.StatusFailed:
			penalty := failedBasePenalty + r.DiscrepancyPct/2
			if penalty > failedMaxPenalty {
				penalty = failedMaxPenalty
			}
			score -= penalty
		case models.StatusUnverifiable, models.StatusDataUnavailable:
			score -= unverifiablePenalty
		}
	}

	for _, f := range flags {
		score -= models.SeverityPenalty(f.Severity)
	}

	if score < 0 {
		score = 0
	}
	return score
}
