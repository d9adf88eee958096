package main

import (
	"context"

	"claimcheck/cache"
	"claimcheck/config"
	"claimcheck/engine"
	"claimcheck/models"
	"claimcheck/providers"
	"claimcheck/services"
)

// App wires the enhancement pipeline together and exposes the operations
// the HTTP layer calls.
type App struct {
	enhancer     *engine.Enhancer
	orchestrator *providers.Orchestrator
	gateway      *services.MarketDataGateway
	store        cache.Store
	cfg          *config.Config
}

// NewApp creates a new App over an assembled pipeline.
func NewApp(enhancer *engine.Enhancer, orchestrator *providers.Orchestrator, gateway *services.MarketDataGateway, store cache.Store, cfg *config.Config) *App {
	return &App{
		enhancer:     enhancer,
		orchestrator: orchestrator,
		gateway:      gateway,
		store:        store,
		cfg:          cfg,
	}
}

// Enhance runs the full claim extraction and verification pipeline.
func (a *App) Enhance(ctx context.Context, text string, opts engine.Options) (*models.EnhancedReport, error) {
	return a.enhancer.Enhance(ctx, text, opts)
}

// ProviderStatus probes each configured LLM provider, answering from the
// health cache when the last probe is still fresh.
func (a *App) ProviderStatus(ctx context.Context) map[string]bool {
	status := make(map[string]bool)
	if a.orchestrator == nil {
		return status
	}
	for _, p := range a.orchestrator.Providers() {
		healthy, valid := a.orchestrator.Health().Get(p.Name())
		if !valid {
			healthy = p.Ping(ctx) == nil
			a.orchestrator.Health().Set(p.Name(), healthy)
		}
		status[p.Name()] = healthy
	}
	return status
}

// shutdown releases resources held by the app.
func (a *App) shutdown() {
	if pg, ok := a.store.(*cache.PostgresStore); ok {
		pg.Close()
	}
}
