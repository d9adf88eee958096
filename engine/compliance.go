package engine

import (
	"regexp"

	"claimcheck/models"
	"claimcheck/observability"
)

// complianceRule ties a flag category and severity to the phrases that
// trigger it.
type complianceRule struct {
	category models.FlagCategory
	severity models.FlagSeverity
	re       *regexp.Regexp
}

// complianceRules is evaluated in a fixed order so scanning the same text
// always produces flags in the same order.
var complianceRules = []complianceRule{
	{
		category: models.FlagGuaranteedReturn,
		severity: models.SeverityHigh,
		re:       regexp.MustCompile(`(?i)\b(guaranteed\s+(?:returns?|profits?|profitable|gains?|income)|risk[- ]free\s+(?:investment|returns?|profits?)|can(?:not|'t)\s+lose|sure\s+thing|no\s+risk\s+at\s+all)\b`),
	},
	{
		category: models.FlagUnrealisticReturns,
		severity: models.SeverityHigh,
		re:       regexp.MustCompile(`(?i)\b(double\s+your\s+money|\d{3,}%\s+returns?|get\s+rich\s+quick|(?:10|[2-9])x\s+your\s+(?:money|investment))\b`),
	},
	{
		category: models.FlagInsiderLanguage,
		severity: models.SeverityHigh,
		re:       regexp.MustCompile(`(?i)\b(insider\s+(?:information|tip|knowledge|source)|before\s+the\s+news\s+breaks|not\s+public\s+yet|confidential\s+tip)\b`),
	},
	{
		category: models.FlagAdviceWithoutRisk,
		severity: models.SeverityMedium,
		re:       regexp.MustCompile(`(?i)\b(invest\s+all\s+(?:of\s+)?your\s+(?:money|savings)|put\s+all\s+your\s+(?:money|savings)|you\s+(?:should|must|need\s+to)\s+(?:buy|invest\s+in|sell)|everyone\s+should\s+(?:buy|invest))\b`),
	},
}

// adviceLanguage detects investment-advice phrasing for the disclaimer
// check; it is broader than the advice-without-risk rule.
var adviceLanguage = regexp.MustCompile(`(?i)\b(you\s+should\s+(?:buy|sell|invest)|i\s+recommend\s+(?:buying|selling|investing)|best\s+(?:stock|investment)\s+to\s+buy|invest\s+(?:in|all)|buy\s+(?:now|today|immediately))\b`)

// disclaimerLanguage matches the phrases that satisfy the disclaimer
// requirement when advice language is present.
var disclaimerLanguage = regexp.MustCompile(`(?i)(not\s+financial\s+advice|consult\s+(?:a|your)\s+(?:financial\s+)?advisor|do\s+your\s+own\s+research|past\s+performance\s+(?:is\s+no|does\s+not))`)

// ComplianceScanner detects regulatory red-flag language with a fixed,
// deterministic keyword ruleset. No model calls: a compliance flag has to
// be explainable by pointing at the matched text.
type ComplianceScanner struct{}

// NewComplianceScanner creates a ComplianceScanner.
func NewComplianceScanner() *ComplianceScanner {
	return &ComplianceScanner{}
}

// Scan returns all compliance flags found in the text, in rule order. Each
// flag carries the exact matched phrase.
func (s *ComplianceScanner) Scan(text string) []models.ComplianceFlag {
	metrics := observability.GetMetrics()
	var flags []models.ComplianceFlag

	for _, rule := range complianceRules {
		for _, match := range rule.re.FindAllString(text, -1) {
			flags = append(flags, models.ComplianceFlag{
				Category:    rule.category,
				Severity:    rule.severity,
				MatchedText: match,
			})
			metrics.RecordComplianceFlag(string(rule.category), string(rule.severity))
		}
	}

	// Advice language without any disclaimer is its own flag, on top of
	// whatever the phrase itself triggered.
	if advice := adviceLanguage.FindString(text); advice != "" && !disclaimerLanguage.MatchString(text) {
		flags = append(flags, models.ComplianceFlag{
			Category:    models.FlagMissingDisclaimer,
			Severity:    models.SeverityLow,
			MatchedText: advice,
		})
		metrics.RecordComplianceFlag(string(models.FlagMissingDisclaimer), string(models.SeverityLow))
	}

	return flags
}
