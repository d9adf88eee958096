package models

// FlagCategory identifies the kind of regulatory-risk language detected.
type FlagCategory string

const (
	FlagGuaranteedReturn   FlagCategory = "guaranteed_return"
	FlagMissingDisclaimer  FlagCategory = "missing_disclaimer"
	FlagAdviceWithoutRisk  FlagCategory = "advice_without_risk"
	FlagInsiderLanguage    FlagCategory = "insider_language"
	FlagUnrealisticReturns FlagCategory = "unrealistic_returns"
)

// FlagSeverity grades how serious a compliance flag is.
type FlagSeverity string

const (
	SeverityLow    FlagSeverity = "low"
	SeverityMedium FlagSeverity = "medium"
	SeverityHigh   FlagSeverity = "high"
)

// ComplianceFlag is a detected phrase pattern indicating regulatory risk,
// independent of factual accuracy.
type ComplianceFlag struct {
	Category    FlagCategory `json:"category"`
	Severity    FlagSeverity `json:"severity"`
	MatchedText string       `json:"matched_text"`
}

// SeverityPenalty returns the quality-score penalty for a flag severity.
func SeverityPenalty(s FlagSeverity) float64 {
	switch s {
	case SeverityLow:
		return 0.05
	case SeverityMedium:
		return 0.15
	case SeverityHigh:
		return 0.30
	default:
		return 0.05
	}
}
