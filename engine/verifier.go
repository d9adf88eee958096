package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"claimcheck/models"
	"claimcheck/observability"
	"claimcheck/services"
)

// Verifier checks claims against live market data. Every claim produces
// exactly one result; fetch failures become DataUnavailable results, never
// errors, so one bad upstream call cannot sink a report.
type Verifier struct {
	gateway *services.MarketDataGateway
}

// NewVerifier creates a Verifier over the given market data gateway.
func NewVerifier(gateway *services.MarketDataGateway) *Verifier {
	return &Verifier{gateway: gateway}
}

// Verify checks a single claim. Unresolved claims short-circuit to
// Unverifiable before any data fetch; predictions are never marked
// Verified because future prices have no authoritative source.
func (v *Verifier) Verify(ctx context.Context, claim models.Claim) models.VerificationResult {
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveVerification(string(claim.Type))

	result := v.verify(ctx, claim)

	metrics.RecordVerification(string(claim.Type), string(result.Status))
	if result.ActualValue != nil {
		metrics.RecordDiscrepancy(string(claim.Type), result.DiscrepancyPct)
	}
	return result
}

func (v *Verifier) verify(ctx context.Context, claim models.Claim) models.VerificationResult {
	if !claim.IsResolved() {
		return models.VerificationResult{
			Claim:       claim,
			Status:      models.StatusUnverifiable,
			Explanation: fmt.Sprintf("could not resolve %q to a known symbol", claim.EntityMention),
		}
	}

	switch claim.Type {
	case models.ClaimTypeStockPrice:
		return v.verifyStockPrice(ctx, claim)
	case models.ClaimTypeMarketCap:
		return v.verifyIndicator(ctx, claim, services.IndicatorMarketCap, claim.ResolvedSymbol)
	case models.ClaimTypeRevenueGrowth:
		return v.verifyIndicator(ctx, claim, services.IndicatorRevenueGrowth, claim.ResolvedSymbol)
	case models.ClaimTypeInterestRate:
		return v.verifyIndicator(ctx, claim, services.IndicatorInterestRate, "US")
	case models.ClaimTypePricePrediction:
		return models.VerificationResult{
			Claim:       claim,
			Status:      models.StatusFailed,
			Explanation: "future price predictions cannot be verified against current data and are treated as unsupported",
		}
	default:
		return models.VerificationResult{
			Claim:       claim,
			Status:      models.StatusUnverifiable,
			Explanation: fmt.Sprintf("no authoritative data source for claim type %q", claim.Type),
		}
	}
}

func (v *Verifier) verifyStockPrice(ctx context.Context, claim models.Claim) models.VerificationResult {
	quote, err := v.gateway.GetQuote(ctx, claim.ResolvedSymbol)
	if err != nil {
		return dataUnavailable(claim, err)
	}
	return v.compare(claim, quote.Price, v.gateway.QuoteSourceName())
}

func (v *Verifier) verifyIndicator(ctx context.Context, claim models.Claim, indicator, scope string) models.VerificationResult {
	ind, err := v.gateway.GetIndicator(ctx, indicator, scope)
	if err != nil {
		return dataUnavailable(claim, err)
	}
	return v.compare(claim, ind.Value, v.gateway.IndicatorSourceName())
}

// compare applies the per-type tolerance to the relative discrepancy
// between asserted and actual values. The tolerance boundary is inclusive:
// a discrepancy exactly at tolerance still verifies.
func (v *Verifier) compare(claim models.Claim, actual decimal.Decimal, source string) models.VerificationResult {
	if actual.IsZero() {
		return models.VerificationResult{
			Claim:       claim,
			Status:      models.StatusDataUnavailable,
			SourceName:  source,
			Explanation: "data source returned a zero value, cannot compute discrepancy",
		}
	}

	discrepancy, _ := claim.AssertedValue.Sub(actual).Abs().Div(actual.Abs()).Float64()
	tolerance := models.Tolerance(claim.Type)

	result := models.VerificationResult{
		Claim:          claim,
		ActualValue:    &actual,
		DiscrepancyPct: discrepancy,
		SourceName:     source,
	}

	if discrepancy <= tolerance {
		result.Status = models.StatusVerified
		result.Explanation = fmt.Sprintf("asserted %s vs actual %s, discrepancy %.2f%% within %.0f%% tolerance",
			claim.AssertedValue.String(), actual.String(), discrepancy*100, tolerance*100)
	} else {
		result.Status = models.StatusFailed
		result.Explanation = fmt.Sprintf("asserted %s vs actual %s, discrepancy %.2f%% exceeds %.0f%% tolerance",
			claim.AssertedValue.String(), actual.String(), discrepancy*100, tolerance*100)
	}
	return result
}

func dataUnavailable(claim models.Claim, err error) models.VerificationResult {
	observability.WithSymbol(claim.ResolvedSymbol).Debug("verification data fetch failed", "claim_type", claim.Type, "error", err)
	return models.VerificationResult{
		Claim:       claim,
		Status:      models.StatusDataUnavailable,
		Explanation: fmt.Sprintf("market data unavailable for %s", claim.ResolvedSymbol),
	}
}
