package engine

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"claimcheck/models"
	"claimcheck/observability"
)

// ErrMalformedOutput signals that a model response contained no parseable
// claims at all. Callers fall back to pattern extraction.
var ErrMalformedOutput = errors.New("malformed model output")

// defaultModelConfidence is assigned when the model omits a confidence.
const defaultModelConfidence = 0.8

const extractionSystemPrompt = `You extract verifiable financial claims from text. Respond with ONLY a JSON array, no prose, no markdown fences. Each element:
{"claim_type": "stock_price|market_cap|revenue_growth|interest_rate|price_prediction|generic_numeric",
 "entity": "<company, ticker, or institution mentioned>",
 "value": <number, dollars or percent; expand millions/billions/trillions>,
 "unit": "currency|percent",
 "raw_text": "<the sentence fragment making the claim>",
 "confidence": <0.0-1.0>}
Only include assertions of specific numeric facts about markets, companies, or rates. Return [] if there are none.`

// modelClaim is the wire shape the model is asked to produce. Fields are
// permissive; validation happens after unmarshalling.
type modelClaim struct {
	ClaimType  string      `json:"claim_type"`
	Entity     string      `json:"entity"`
	Value      json.Number `json:"value"`
	Unit       string      `json:"unit"`
	RawText    string      `json:"raw_text"`
	Confidence float64     `json:"confidence"`
}

var validClaimTypes = map[string]models.ClaimType{
	"stock_price":      models.ClaimTypeStockPrice,
	"market_cap":       models.ClaimTypeMarketCap,
	"revenue_growth":   models.ClaimTypeRevenueGrowth,
	"interest_rate":    models.ClaimTypeInterestRate,
	"price_prediction": models.ClaimTypePricePrediction,
	"generic_numeric":  models.ClaimTypeGenericNumeric,
}

// ParseModelOutput turns a raw model response into claims. Parsing is
// defensive per item: a malformed element is skipped and logged, it does
// not poison the batch. A response with no parseable array at all returns
// ErrMalformedOutput.
func ParseModelOutput(raw string) ([]models.Claim, error) {
	body, ok := extractJSONArray(raw)
	if !ok {
		return nil, ErrMalformedOutput
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, ErrMalformedOutput
	}

	claims := make([]models.Claim, 0, len(items))
	skipped := 0
	for _, item := range items {
		claim, ok := parseModelClaim(item)
		if !ok {
			skipped++
			continue
		}
		claims = append(claims, claim)
	}
	if skipped > 0 {
		observability.Debug("skipped malformed model claims", "skipped", skipped, "parsed", len(claims))
	}
	return claims, nil
}

func parseModelClaim(item json.RawMessage) (models.Claim, bool) {
	var mc modelClaim
	if err := json.Unmarshal(item, &mc); err != nil {
		return models.Claim{}, false
	}

	claimType, ok := validClaimTypes[strings.ToLower(strings.TrimSpace(mc.ClaimType))]
	if !ok {
		return models.Claim{}, false
	}
	if strings.TrimSpace(mc.Entity) == "" && claimType != models.ClaimTypeInterestRate {
		return models.Claim{}, false
	}

	value, err := decimal.NewFromString(mc.Value.String())
	if err != nil {
		return models.Claim{}, false
	}

	unit := models.UnitCurrency
	if strings.EqualFold(strings.TrimSpace(mc.Unit), "percent") {
		unit = models.UnitPercent
	}

	confidence := mc.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = defaultModelConfidence
	}

	entity := strings.TrimSpace(mc.Entity)
	if entity == "" {
		entity = "Federal Reserve"
	}

	rawText := strings.TrimSpace(mc.RawText)
	if rawText == "" {
		rawText = entity
	}

	return models.Claim{
		RawText:              rawText,
		Type:                 claimType,
		EntityMention:        entity,
		AssertedValue:        value,
		Unit:                 unit,
		ExtractionConfidence: confidence,
	}, true
}

// extractJSONArray locates the outermost JSON array in a response,
// tolerating markdown fences and surrounding prose.
func extractJSONArray(raw string) (string, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return cleaned[start : end+1], true
}
