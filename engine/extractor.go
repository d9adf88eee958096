package engine

import (
	"context"
	"errors"
	"strings"

	"claimcheck/models"
	"claimcheck/observability"
	"claimcheck/providers"
)

// ProviderPattern is the provider name reported when extraction ran on the
// deterministic pattern strategy, either by design or as a fallback.
const ProviderPattern = "pattern"

// Extractor turns free text into resolved, deduplicated claims. It prefers
// a language-model strategy when a provider is available and degrades
// silently to pattern extraction; the caller only learns which path ran
// through the returned provider name.
type Extractor struct {
	orchestrator *providers.Orchestrator
	resolver     *Resolver
}

// NewExtractor creates an Extractor. orchestrator may be nil to force
// pattern-only extraction.
func NewExtractor(orchestrator *providers.Orchestrator, resolver *Resolver) *Extractor {
	return &Extractor{
		orchestrator: orchestrator,
		resolver:     resolver,
	}
}

// Extract produces claims from text and reports which provider produced
// them. Model failures are never surfaced to the caller; the pattern
// strategy is the floor and always runs when the model path cannot.
func (e *Extractor) Extract(ctx context.Context, text, preferredProvider string) ([]models.Claim, string) {
	metrics := observability.GetMetrics()

	claims, provider, err := e.extractWithModel(ctx, text, preferredProvider)
	if err != nil {
		if !errors.Is(err, providers.ErrNoProvider) {
			observability.Warn("model extraction failed, falling back to patterns", "error", err)
			metrics.RecordProviderFallback(fallbackReason(err))
		}
		claims = ExtractWithPatterns(text)
		provider = ProviderPattern
	}

	claims = e.finalize(claims)
	for _, claim := range claims {
		metrics.RecordClaimExtracted(string(claim.Type), provider)
	}
	return claims, provider
}

func fallbackReason(err error) string {
	if errors.Is(err, ErrMalformedOutput) {
		return "malformed_output"
	}
	return "provider_error"
}

// extractWithModel selects a healthy provider and runs one completion.
// The returned provider name is set even on error so the caller can tag
// fallback metrics.
func (e *Extractor) extractWithModel(ctx context.Context, text, preferredProvider string) ([]models.Claim, string, error) {
	if e.orchestrator == nil {
		return nil, "", providers.ErrNoProvider
	}

	p, err := e.orchestrator.Select(ctx, preferredProvider)
	if err != nil {
		return nil, "", err
	}

	raw, err := e.orchestrator.Invoke(ctx, p, extractionSystemPrompt, text)
	if err != nil {
		return nil, p.Name(), err
	}

	claims, err := ParseModelOutput(raw)
	if err != nil {
		return nil, p.Name(), err
	}
	return claims, p.Name(), nil
}

// finalize resolves entities, drops claims that name unknown tickers, and
// collapses duplicates while preserving first-seen order.
func (e *Extractor) finalize(claims []models.Claim) []models.Claim {
	seen := make(map[string]struct{}, len(claims))
	out := make([]models.Claim, 0, len(claims))

	for _, claim := range claims {
		if res, ok := e.resolver.Resolve(claim.EntityMention); ok {
			claim.ResolvedSymbol = res.Symbol
		} else if looksLikeTicker(claim.EntityMention) {
			// An all-caps mention that is not a known ticker is noise
			// from the pattern matchers, not an unresolved company name.
			observability.Debug("dropping unknown ticker mention", "mention", claim.EntityMention)
			continue
		}

		key := claim.DedupeKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, claim)
	}
	return out
}

// looksLikeTicker reports whether a mention has the shape of a ticker
// symbol rather than a company name.
func looksLikeTicker(mention string) bool {
	mention = strings.TrimSpace(mention)
	if len(mention) < 2 || len(mention) > 6 {
		return false
	}
	for _, r := range mention {
		if (r < 'A' || r > 'Z') && r != '.' {
			return false
		}
	}
	return true
}
