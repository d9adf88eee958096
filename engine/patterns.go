package engine

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"claimcheck/models"
)

// claimPattern binds a compiled regex to the claim it produces. Group 1 is
// the entity mention, group 2 the numeric value; market-cap patterns carry
// an optional scale word in group 3.
type claimPattern struct {
	re         *regexp.Regexp
	claimType  models.ClaimType
	unit       models.ValueUnit
	confidence float64
	entity     string // fixed entity for entity-less patterns (rates)
}

// Ticker and company-name sub-expressions. Keyword groups use (?i:...) so
// the surrounding casing rules stay strict: a bare ticker is ALL CAPS, a
// company name is capitalized words.
const (
	symbolExpr = `([A-Z][A-Z.]{1,5})`
	nameExpr   = `([A-Z][A-Za-z&.-]+(?:\s+[A-Z][A-Za-z&.-]+){0,2})`
	moneyExpr  = `\$([0-9][0-9,]*(?:\.[0-9]+)?)`
	pctExpr    = `([0-9]+(?:\.[0-9]+)?)\s*%`
)

// extractionPatterns is evaluated in order and order is load-bearing:
// ticker patterns run before company-name patterns so "AAPL stock" binds
// the ticker rule, and specific claim kinds run before the generic
// catch-all. First match wins for identical claims via dedupe.
var extractionPatterns = []claimPattern{
	// Price predictions before current-price patterns: "will reach $X"
	// must not be read as a price statement.
	{
		re:         regexp.MustCompile(symbolExpr + `\s+(?i:stock\s+|shares\s+)?(?i:will|is\s+going\s+to|is\s+expected\s+to|should)\s+(?i:reach|hit|rise\s+to|climb\s+to|soar\s+to|double\s+to)\s+` + moneyExpr),
		claimType:  models.ClaimTypePricePrediction,
		unit:       models.UnitCurrency,
		confidence: 0.85,
	},
	{
		re:         regexp.MustCompile(nameExpr + `(?:'s)?\s+(?i:stock\s+|shares\s+)?(?i:will|is\s+going\s+to|is\s+expected\s+to|should)\s+(?i:reach|hit|rise\s+to|climb\s+to|soar\s+to|double\s+to)\s+` + moneyExpr),
		claimType:  models.ClaimTypePricePrediction,
		unit:       models.UnitCurrency,
		confidence: 0.75,
	},

	// Current stock price, ticker form then company-name form.
	{
		re:         regexp.MustCompile(symbolExpr + `\s+(?i:stock\s+|shares\s+)?(?i:is\s+|are\s+)?(?i:currently\s+)?(?i:trading|priced|valued)\s+(?i:at)\s+` + moneyExpr),
		claimType:  models.ClaimTypeStockPrice,
		unit:       models.UnitCurrency,
		confidence: 0.9,
	},
	{
		re:         regexp.MustCompile(symbolExpr + `\s+(?i:is|was|closed|opened)\s+(?i:at)\s+` + moneyExpr),
		claimType:  models.ClaimTypeStockPrice,
		unit:       models.UnitCurrency,
		confidence: 0.85,
	},
	{
		re:         regexp.MustCompile(nameExpr + `(?:'s)?\s+(?i:stock|shares?)\s+(?i:is\s+|are\s+)?(?i:currently\s+)?(?i:trading|priced|valued)\s+(?i:at)\s+` + moneyExpr),
		claimType:  models.ClaimTypeStockPrice,
		unit:       models.UnitCurrency,
		confidence: 0.75,
	},

	// Market capitalization, with trillion/billion/million scaling.
	{
		re:         regexp.MustCompile(symbolExpr + `(?:'s)?\s+(?i:market\s+cap(?:italization)?)\s+(?i:is|of|stands\s+at|reached|hit)\s+\$?([0-9][0-9,]*(?:\.[0-9]+)?)\s*(?i:(trillion|billion|million))?`),
		claimType:  models.ClaimTypeMarketCap,
		unit:       models.UnitCurrency,
		confidence: 0.85,
	},
	{
		re:         regexp.MustCompile(nameExpr + `(?:'s)?\s+(?i:market\s+cap(?:italization)?)\s+(?i:is|of|stands\s+at|reached|hit)\s+\$?([0-9][0-9,]*(?:\.[0-9]+)?)\s*(?i:(trillion|billion|million))?`),
		claimType:  models.ClaimTypeMarketCap,
		unit:       models.UnitCurrency,
		confidence: 0.75,
	},

	// Revenue growth percentages.
	{
		re:         regexp.MustCompile(symbolExpr + `(?:'s)?\s+(?i:revenue)\s+(?i:grew|growth|increased|rose|jumped)\s+(?i:by\s+|of\s+|was\s+)?` + pctExpr),
		claimType:  models.ClaimTypeRevenueGrowth,
		unit:       models.UnitPercent,
		confidence: 0.85,
	},
	{
		re:         regexp.MustCompile(nameExpr + `(?:'s)?\s+(?i:revenue)\s+(?i:grew|growth|increased|rose|jumped)\s+(?i:by\s+|of\s+|was\s+)?` + pctExpr),
		claimType:  models.ClaimTypeRevenueGrowth,
		unit:       models.UnitPercent,
		confidence: 0.75,
	},

	// Benchmark interest rates; the entity is implicit.
	{
		re:         regexp.MustCompile(`(?i:the\s+)?(?i:fed(?:eral)?\s+(?i:reserve\s+)?)?(?i:benchmark\s+|federal\s+funds\s+)?(?i:interest\s+rates?|funds\s+rate)\s+(?i:is|are|at|sit\s+at|currently\s+at|stands?\s+at)\s+` + pctExpr),
		claimType:  models.ClaimTypeInterestRate,
		unit:       models.UnitPercent,
		confidence: 0.8,
		entity:     "Federal Reserve",
	},

	// Generic numeric catch-all, lowest priority.
	{
		re:         regexp.MustCompile(nameExpr + `\s+(?i:is|was)\s+(?i:up|down)\s+` + pctExpr),
		claimType:  models.ClaimTypeGenericNumeric,
		unit:       models.UnitPercent,
		confidence: 0.5,
	},
}

// ExtractWithPatterns runs the ordered pattern set over the text and
// returns structured claims. It is deterministic and never fails; no
// matches means no claims.
func ExtractWithPatterns(text string) []models.Claim {
	var claims []models.Claim
	for _, p := range extractionPatterns {
		for _, match := range p.re.FindAllStringSubmatch(text, -1) {
			claim, ok := buildClaim(p, match)
			if !ok {
				continue
			}
			claims = append(claims, claim)
		}
	}
	return dedupeClaims(claims)
}

// dedupeClaims collapses claims with the same type, entity, and value,
// keeping the first occurrence so earlier patterns win ties.
func dedupeClaims(claims []models.Claim) []models.Claim {
	seen := make(map[string]struct{}, len(claims))
	out := claims[:0]
	for _, c := range claims {
		key := c.DedupeKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func buildClaim(p claimPattern, match []string) (models.Claim, bool) {
	entity := p.entity
	valueIdx := 1
	if entity == "" {
		entity = strings.TrimSpace(match[1])
		valueIdx = 2
	}
	if valueIdx >= len(match) {
		return models.Claim{}, false
	}

	value, err := decimal.NewFromString(strings.ReplaceAll(match[valueIdx], ",", ""))
	if err != nil {
		return models.Claim{}, false
	}

	if p.claimType == models.ClaimTypeMarketCap && len(match) > valueIdx+1 {
		value = value.Mul(scaleFactor(match[valueIdx+1]))
	}

	return models.Claim{
		RawText:              strings.TrimSpace(match[0]),
		Type:                 p.claimType,
		EntityMention:        entity,
		AssertedValue:        value,
		Unit:                 p.unit,
		ExtractionConfidence: p.confidence,
	}, true
}

func scaleFactor(word string) decimal.Decimal {
	switch strings.ToLower(word) {
	case "trillion":
		return decimal.NewFromInt(1_000_000_000_000)
	case "billion":
		return decimal.NewFromInt(1_000_000_000)
	case "million":
		return decimal.NewFromInt(1_000_000)
	default:
		return decimal.NewFromInt(1)
	}
}
