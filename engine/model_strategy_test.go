package engine

import (
	"errors"
	"testing"

	"claimcheck/models"
)

func TestParseModelOutputValid(t *testing.T) {
	raw := `[
		{"claim_type": "stock_price", "entity": "AAPL", "value": 150, "unit": "currency", "raw_text": "AAPL is trading at $150", "confidence": 0.92},
		{"claim_type": "revenue_growth", "entity": "Microsoft", "value": 18.5, "unit": "percent", "raw_text": "Microsoft revenue grew 18.5%", "confidence": 0.85}
	]`

	claims, err := ParseModelOutput(raw)
	if err != nil {
		t.Fatalf("ParseModelOutput() error = %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("got %d claims, want 2", len(claims))
	}

	if claims[0].Type != models.ClaimTypeStockPrice {
		t.Errorf("claims[0].Type = %s, want stock_price", claims[0].Type)
	}
	if claims[0].EntityMention != "AAPL" {
		t.Errorf("claims[0].EntityMention = %q, want AAPL", claims[0].EntityMention)
	}
	if claims[0].ExtractionConfidence != 0.92 {
		t.Errorf("claims[0].ExtractionConfidence = %.2f, want 0.92", claims[0].ExtractionConfidence)
	}
	if claims[1].Unit != models.UnitPercent {
		t.Errorf("claims[1].Unit = %s, want percent", claims[1].Unit)
	}
}

func TestParseModelOutputMarkdownFences(t *testing.T) {
	raw := "```json\n[{\"claim_type\": \"stock_price\", \"entity\": \"TSLA\", \"value\": 250, \"unit\": \"currency\"}]\n```"

	claims, err := ParseModelOutput(raw)
	if err != nil {
		t.Fatalf("ParseModelOutput() error = %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("got %d claims, want 1", len(claims))
	}
	if claims[0].ExtractionConfidence != defaultModelConfidence {
		t.Errorf("missing confidence should default to %.2f, got %.2f", defaultModelConfidence, claims[0].ExtractionConfidence)
	}
}

func TestParseModelOutputSurroundingProse(t *testing.T) {
	raw := `Here are the claims I found:
[{"claim_type": "interest_rate", "entity": "Federal Reserve", "value": 5.5, "unit": "percent"}]
Let me know if you need anything else.`

	claims, err := ParseModelOutput(raw)
	if err != nil {
		t.Fatalf("ParseModelOutput() error = %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("got %d claims, want 1", len(claims))
	}
	if claims[0].Type != models.ClaimTypeInterestRate {
		t.Errorf("type = %s, want interest_rate", claims[0].Type)
	}
}

func TestParseModelOutputSkipsMalformedItems(t *testing.T) {
	raw := `[
		{"claim_type": "stock_price", "entity": "AAPL", "value": 150, "unit": "currency"},
		{"claim_type": "bogus_type", "entity": "MSFT", "value": 100},
		{"claim_type": "market_cap", "entity": "", "value": 3000000000000},
		{"claim_type": "stock_price", "entity": "NVDA", "value": "not-a-number"},
		{"claim_type": "market_cap", "entity": "Apple", "value": 3000000000000, "unit": "currency"}
	]`

	claims, err := ParseModelOutput(raw)
	if err != nil {
		t.Fatalf("ParseModelOutput() error = %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("got %d claims, want 2 (malformed items skipped): %+v", len(claims), claims)
	}
}

func TestParseModelOutputEmptyArray(t *testing.T) {
	claims, err := ParseModelOutput("[]")
	if err != nil {
		t.Fatalf("ParseModelOutput([]) error = %v", err)
	}
	if len(claims) != 0 {
		t.Errorf("got %d claims, want 0", len(claims))
	}
}

func TestParseModelOutputMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"I could not find any claims in this text.",
		"{\"claim_type\": \"stock_price\"}",
		"[{broken json",
	} {
		if _, err := ParseModelOutput(raw); !errors.Is(err, ErrMalformedOutput) {
			t.Errorf("ParseModelOutput(%q) error = %v, want ErrMalformedOutput", raw, err)
		}
	}
}
