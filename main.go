package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"claimcheck/cache"
	"claimcheck/config"
	"claimcheck/engine"
	"claimcheck/observability"
	"claimcheck/providers"
	"claimcheck/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		observability.Info("no .env file found, using environment variables")
	}

	observability.InitLogger(os.Getenv("LOG_FORMAT") == "json")

	cfg, err := config.Load()
	if err != nil {
		observability.Fatal("invalid configuration", "error", err)
	}

	observability.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cache: Postgres when a database is configured, in-process otherwise
	var store cache.Store
	if cfg.Cache.Enabled {
		if cfg.HasDatabase() {
			pg, err := cache.NewPostgresStore(ctx, cfg.Cache.DatabaseURL)
			if err != nil {
				observability.Warn("postgres cache unavailable, using memory cache", "error", err)
			} else {
				store = pg
				go runCacheJanitor(ctx, pg, time.Duration(cfg.Cache.CleanupIntervalMin)*time.Minute)
			}
		}
		if store == nil {
			store = cache.NewMemoryStore(time.Duration(cfg.Cache.CleanupIntervalMin) * time.Minute)
		}
	}

	// Market data: quotes from Alpaca, indicators from the fundamentals feed.
	// Missing credentials degrade those claim types to data_unavailable
	// rather than preventing startup.
	if !cfg.HasAlpaca() {
		observability.Warn("Alpaca credentials not set, price claims will be unverifiable")
	}
	if !cfg.HasIndicatorFeed() {
		observability.Warn("indicator feed key not set, fundamental claims will be unverifiable")
	}
	quotes := services.NewAlpacaService(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret)
	indicators := services.NewIndicatorService(cfg.Indicator.APIKey, cfg.Indicator.BaseURL)
	gateway := services.NewMarketDataGateway(quotes, indicators, store, time.Duration(cfg.Cache.QuoteTTLSeconds)*time.Second)

	// LLM chain in fallback order: local first, then the cloud providers
	var chain []services.LLMService
	if cfg.HasOllama() {
		chain = append(chain, services.NewOllamaService(cfg.Ollama.Host, cfg.Ollama.Model))
	}
	if cfg.HasOpenAI() {
		openai, err := services.NewOpenAIService(cfg)
		if err != nil {
			observability.Warn("failed to initialize OpenAI provider", "error", err)
		} else {
			chain = append(chain, openai)
		}
	}
	if cfg.HasBedrock() {
		bedrock, err := services.NewBedrockService(ctx, cfg.Bedrock.Region, cfg.Bedrock.ModelID, cfg.Bedrock.MaxTokens)
		if err != nil {
			observability.Warn("failed to initialize Bedrock provider", "error", err)
		} else {
			chain = append(chain, bedrock)
		}
	}
	if len(chain) == 0 {
		observability.Warn("no LLM providers configured, extraction will run in pattern-only mode")
	}

	health := providers.NewHealthRegistry(time.Duration(cfg.Engine.HealthCacheTTLSeconds) * time.Second)
	orchestrator := providers.NewOrchestrator(chain, health, store,
		time.Duration(cfg.Engine.InvokeTimeoutSeconds)*time.Second,
		time.Duration(cfg.Cache.LLMTTLSeconds)*time.Second)

	// Pipeline
	extractor := engine.NewExtractor(orchestrator, engine.NewResolver())
	verifier := engine.NewVerifier(gateway)
	scanner := engine.NewComplianceScanner()
	enhancer := engine.NewEnhancer(extractor, verifier, scanner, cfg.Engine)

	app := NewApp(enhancer, orchestrator, gateway, store, cfg)
	defer app.shutdown()

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: NewRouter(NewAPIHandler(app, cfg), cfg),
	}

	go func() {
		observability.Info("server listening", "addr", cfg.HTTP.Addr, "providers", len(chain))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	observability.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Error("graceful shutdown failed", "error", err)
	}
}

// runCacheJanitor periodically deletes expired cache rows. DB-side expiry
// keeps reads correct regardless; this just reclaims space.
func runCacheJanitor(ctx context.Context, pg *cache.PostgresStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := pg.CleanExpired(ctx)
			if err != nil {
				observability.Warn("cache cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				observability.Debug("cache cleanup", "deleted", deleted)
			}
		}
	}
}
