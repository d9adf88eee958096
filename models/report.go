package models

import (
	"time"

	"github.com/google/uuid"
)

// EnhancedReport aggregates verification results and compliance flags for
// one piece of input text. It is created per request by the aggregator and
// immutable once returned; this core never persists it.
type EnhancedReport struct {
	ID               uuid.UUID            `json:"id"`
	OriginalText     string               `json:"original_text"`
	Results          []VerificationResult `json:"results"`
	ComplianceFlags  []ComplianceFlag     `json:"compliance_flags"`
	QualityScore     float64              `json:"quality_score"`
	ProviderUsed     string               `json:"provider_used"`
	ProcessingTimeMS int64                `json:"processing_time_ms"`
	CreatedAt        time.Time            `json:"created_at"`
}

// CountByStatus returns how many results carry the given status.
func (r *EnhancedReport) CountByStatus(status VerificationStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
