package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"claimcheck/cache"
	"claimcheck/observability"
	"claimcheck/services"
)

// ErrNoProvider signals that no language-model backend is currently
// available. Callers treat this as the designed pattern-only degraded mode,
// not a fault.
var ErrNoProvider = errors.New("no llm provider available")

// ErrProviderError signals that an invocation of a selected provider
// failed. The orchestrator does not fall back on invoke failure; fallback
// is the extractor's responsibility so each layer has a single job.
var ErrProviderError = errors.New("llm provider error")

const opLLM = "llm"

// Orchestrator selects among configured language-model backends with
// health probing and ordered fallback. Default chain: explicit preference
// (if given and healthy), then local, then the cloud providers in order.
type Orchestrator struct {
	chain         []services.LLMService
	health        *HealthRegistry
	store         cache.Store
	invokeTimeout time.Duration
	llmTTL        time.Duration
}

// NewOrchestrator creates an Orchestrator over the given ordered provider
// chain. store may be nil to disable response caching.
func NewOrchestrator(chain []services.LLMService, health *HealthRegistry, store cache.Store, invokeTimeout, llmTTL time.Duration) *Orchestrator {
	return &Orchestrator{
		chain:         chain,
		health:        health,
		store:         store,
		invokeTimeout: invokeTimeout,
		llmTTL:        llmTTL,
	}
}

// Providers returns the configured chain, in fallback order.
func (o *Orchestrator) Providers() []services.LLMService {
	return o.chain
}

// Health returns the orchestrator's health registry.
func (o *Orchestrator) Health() *HealthRegistry {
	return o.health
}

// Select returns the first healthy provider, honoring an explicit
// preference when given. Returns ErrNoProvider when the whole chain is
// down; callers then run in pattern-only mode.
func (o *Orchestrator) Select(ctx context.Context, preference string) (services.LLMService, error) {
	if preference != "" {
		for _, p := range o.chain {
			if p.Name() == preference && o.isHealthy(ctx, p) {
				return p, nil
			}
		}
		observability.WithProvider(preference).Debug("preferred provider unavailable, walking chain")
	}

	for _, p := range o.chain {
		if o.isHealthy(ctx, p) {
			return p, nil
		}
	}

	return nil, ErrNoProvider
}

// isHealthy consults the health registry before probing.
func (o *Orchestrator) isHealthy(ctx context.Context, p services.LLMService) bool {
	if healthy, valid := o.health.Get(p.Name()); valid {
		return healthy
	}

	err := p.Ping(ctx)
	healthy := err == nil
	o.health.Set(p.Name(), healthy)
	if err != nil {
		observability.WithProvider(p.Name()).Debug("health probe failed", "error", err)
	}
	return healthy
}

// Invoke runs a single completion against the given provider under a hard
// timeout. Responses are memoized by prompt content when caching is
// enabled. On timeout or error it does not fall back to another provider.
func (o *Orchestrator) Invoke(ctx context.Context, p services.LLMService, systemPrompt, userPrompt string) (string, error) {
	key := cache.Key(p.Name() + "|" + systemPrompt + "|" + userPrompt)

	if o.store != nil && !cache.Bypassed(ctx) {
		if data, ok := o.store.Get(ctx, opLLM, key); ok {
			var text string
			if err := json.Unmarshal(data, &text); err == nil {
				return text, nil
			}
		}
	}

	metrics := observability.GetMetrics()
	metrics.RecordProviderInvoke(p.Name())

	invokeCtx, cancel := context.WithTimeout(ctx, o.invokeTimeout)
	defer cancel()

	text, err := p.Complete(invokeCtx, systemPrompt, userPrompt)
	if err != nil {
		metrics.RecordProviderError(p.Name(), categorizeProviderError(err))
		// A failed invoke is a strong signal for the next health check
		o.health.Set(p.Name(), false)
		return "", fmt.Errorf("%w: %s: %v", ErrProviderError, p.Name(), err)
	}

	if o.store != nil && !cache.Bypassed(ctx) {
		if data, err := json.Marshal(text); err == nil {
			if err := o.store.Set(ctx, opLLM, key, data, o.llmTTL); err != nil {
				observability.Warn("llm cache write failed", "provider", p.Name(), "error", err)
			}
		}
	}

	return text, nil
}

func categorizeProviderError(err error) string {
	if err == nil {
		return "none"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "invoke_failed"
}
