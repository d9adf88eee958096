package engine

import (
	"context"
	"errors"
	"time"

	"claimcheck/cache"
	"claimcheck/config"
	"claimcheck/models"
	"claimcheck/observability"
)

// ErrEmptyText is returned when an enhancement request carries no text.
var ErrEmptyText = errors.New("text must not be empty")

// Options control a single enhancement request.
type Options struct {
	// PreferredProvider names an LLM backend to try first; empty uses the
	// default chain order.
	PreferredProvider string
	// RunCompliance enables the compliance scan.
	RunCompliance bool
	// MinConfidence drops extracted claims below this confidence. Zero
	// falls back to the configured engine default.
	MinConfidence float64
	// CacheEnabled allows cached market data and model responses. Off
	// forces fresh fetches for this request only.
	CacheEnabled bool
}

// DefaultOptions returns the options used when a caller specifies nothing.
func DefaultOptions() Options {
	return Options{
		RunCompliance: true,
		CacheEnabled:  true,
	}
}

// Enhancer is the top-level pipeline: extract claims, verify them
// concurrently, scan compliance, aggregate into a report. It degrades
// rather than fails: provider outages fall back to patterns, fetch
// failures and deadline overruns become per-claim DataUnavailable results.
type Enhancer struct {
	extractor *Extractor
	verifier  *Verifier
	scanner   *ComplianceScanner

	requestTimeout   time.Duration
	verifyTimeout    time.Duration
	concurrencyLimit int
	minConfidence    float64
}

// NewEnhancer wires the pipeline from its stages and engine configuration.
func NewEnhancer(extractor *Extractor, verifier *Verifier, scanner *ComplianceScanner, cfg config.EngineConfig) *Enhancer {
	limit := cfg.ConcurrencyLimit
	if limit < 1 {
		limit = 1
	}
	return &Enhancer{
		extractor:        extractor,
		verifier:         verifier,
		scanner:          scanner,
		requestTimeout:   time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		verifyTimeout:    time.Duration(cfg.VerifyTimeoutSeconds) * time.Second,
		concurrencyLimit: limit,
		minConfidence:    cfg.MinConfidence,
	}
}

// Enhance runs the full pipeline over one piece of text. Results preserve
// claim extraction order regardless of verification completion order. When
// the request deadline expires mid-flight, the remaining claims land as
// DataUnavailable and a partial report is still returned.
func (e *Enhancer) Enhance(ctx context.Context, text string, opts Options) (*models.EnhancedReport, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	start := time.Now()
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()

	ctx, cancel := context.WithTimeout(ctx, e.requestTimeout)
	defer cancel()
	if !opts.CacheEnabled {
		ctx = cache.WithBypass(ctx)
	}

	// Compliance scanning is pure CPU; run it alongside the network-bound
	// extraction and verification.
	var flags []models.ComplianceFlag
	flagsDone := make(chan struct{})
	if opts.RunCompliance {
		go func() {
			defer close(flagsDone)
			flags = e.scanner.Scan(text)
		}()
	} else {
		close(flagsDone)
	}

	claims, providerUsed := e.extractor.Extract(ctx, text, opts.PreferredProvider)
	metrics.RecordEnhanceRequest(providerUsed)

	claims = filterByConfidence(claims, e.effectiveMinConfidence(opts))
	results := e.verifyAll(ctx, claims)

	<-flagsDone

	report := Aggregate(text, results, flags, providerUsed, time.Since(start))
	timer.ObserveEnhance("ok")

	observability.Info("enhancement complete",
		"report_id", report.ID,
		"provider", providerUsed,
		"claims", len(results),
		"verified", report.CountByStatus(models.StatusVerified),
		"failed", report.CountByStatus(models.StatusFailed),
		"flags", len(flags),
		"quality_score", report.QualityScore,
		"duration_ms", report.ProcessingTimeMS,
	)
	return report, nil
}

type indexedResult struct {
	index  int
	result models.VerificationResult
}

// verifyAll fans claims out to a bounded pool and collects results by
// index so output order matches claim order. Workers report through a
// buffered channel rather than writing the slice directly: when the
// request deadline fires, the collector finalizes every claim that has
// not reported as DataUnavailable and returns without waiting on
// fetches that ignore cancellation.
func (e *Enhancer) verifyAll(ctx context.Context, claims []models.Claim) []models.VerificationResult {
	results := make([]models.VerificationResult, len(claims))
	reported := make([]bool, len(claims))
	out := make(chan indexedResult, len(claims))
	sem := make(chan struct{}, e.concurrencyLimit)

	for i, claim := range claims {
		go func(i int, claim models.Claim) {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				out <- indexedResult{i, deadlineResult(claim)}
				return
			}
			defer func() { <-sem }()

			verifyCtx, cancel := context.WithTimeout(ctx, e.verifyTimeout)
			defer cancel()
			out <- indexedResult{i, e.verifier.Verify(verifyCtx, claim)}
		}(i, claim)
	}

	for received := 0; received < len(claims); {
		select {
		case r := <-out:
			results[r.index] = r.result
			reported[r.index] = true
			received++
		case <-ctx.Done():
			// Drain anything already buffered, then finalize the rest.
			for {
				select {
				case r := <-out:
					results[r.index] = r.result
					reported[r.index] = true
				default:
					for i := range claims {
						if !reported[i] {
							results[i] = deadlineResult(claims[i])
						}
					}
					return results
				}
			}
		}
	}
	return results
}

func deadlineResult(claim models.Claim) models.VerificationResult {
	return models.VerificationResult{
		Claim:       claim,
		Status:      models.StatusDataUnavailable,
		Explanation: "request deadline exceeded before verification",
	}
}

func (e *Enhancer) effectiveMinConfidence(opts Options) float64 {
	if opts.MinConfidence > 0 {
		return opts.MinConfidence
	}
	return e.minConfidence
}

func filterByConfidence(claims []models.Claim, minConfidence float64) []models.Claim {
	if minConfidence <= 0 {
		return claims
	}
	kept := claims[:0]
	for _, claim := range claims {
		if claim.ExtractionConfidence >= minConfidence {
			kept = append(kept, claim)
		}
	}
	return kept
}
