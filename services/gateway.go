package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"claimcheck/cache"
	"claimcheck/models"
	"claimcheck/observability"
)

// ErrDataUnavailable signals that market data could not be fetched. Callers
// must not interpret this as evidence a claim is false; it is a distinct,
// non-fatal outcome. Transient and permanent failures are not distinguished
// at this layer.
var ErrDataUnavailable = errors.New("market data unavailable")

const (
	opQuote     = "quote"
	opIndicator = "indicator"
)

// MarketDataGateway wraps the primary quote provider and indicator feed
// behind a single interface. All fetches pass through the cache first;
// misses retry once with a short backoff and then surface ErrDataUnavailable.
// There is no secondary price provider: one source of truth for price data.
type MarketDataGateway struct {
	quotes     QuoteProvider
	indicators IndicatorProvider
	store      cache.Store
	quoteTTL   time.Duration
}

// NewMarketDataGateway creates a gateway. store may be nil to disable caching.
func NewMarketDataGateway(quotes QuoteProvider, indicators IndicatorProvider, store cache.Store, quoteTTL time.Duration) *MarketDataGateway {
	return &MarketDataGateway{
		quotes:     quotes,
		indicators: indicators,
		store:      store,
		quoteTTL:   quoteTTL,
	}
}

// QuoteSourceName reports the name of the underlying quote provider.
func (g *MarketDataGateway) QuoteSourceName() string {
	return g.quotes.Name()
}

// IndicatorSourceName reports the name of the underlying indicator feed.
func (g *MarketDataGateway) IndicatorSourceName() string {
	return g.indicators.Name()
}

// GetQuote returns the current quote for a symbol, cache-first.
func (g *MarketDataGateway) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	key := cache.Key(symbol)

	if g.store != nil && !cache.Bypassed(ctx) {
		if data, ok := g.store.Get(ctx, opQuote, key); ok {
			var quote models.Quote
			if err := json.Unmarshal(data, &quote); err == nil {
				return &quote, nil
			}
		}
	}

	var quote *models.Quote
	err := WithRetry(ctx, GatewayRetryConfig, func() error {
		q, err := g.quotes.GetQuote(ctx, symbol)
		if err != nil {
			return err
		}
		quote = q
		return nil
	})
	if err != nil {
		observability.WithSymbol(symbol).Warn("quote fetch failed", "error", err)
		return nil, errors.Join(ErrDataUnavailable, err)
	}

	g.put(ctx, opQuote, key, quote)
	return quote, nil
}

// GetIndicator returns the most recent published value for an indicator,
// cache-first. Indicators are keyed by name and region rather than a ticker.
func (g *MarketDataGateway) GetIndicator(ctx context.Context, name, region string) (*models.Indicator, error) {
	key := cache.Key(name + ":" + region)

	if g.store != nil && !cache.Bypassed(ctx) {
		if data, ok := g.store.Get(ctx, opIndicator, key); ok {
			var indicator models.Indicator
			if err := json.Unmarshal(data, &indicator); err == nil {
				return &indicator, nil
			}
		}
	}

	var indicator *models.Indicator
	err := WithRetry(ctx, GatewayRetryConfig, func() error {
		ind, err := g.indicators.GetIndicator(ctx, name, region)
		if err != nil {
			return err
		}
		indicator = ind
		return nil
	})
	if err != nil {
		observability.Warn("indicator fetch failed", "indicator", name, "region", region, "error", err)
		return nil, errors.Join(ErrDataUnavailable, err)
	}

	g.put(ctx, opIndicator, key, indicator)
	return indicator, nil
}

func (g *MarketDataGateway) put(ctx context.Context, operation, key string, value any) {
	if g.store == nil || cache.Bypassed(ctx) {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := g.store.Set(ctx, operation, key, data, g.quoteTTL); err != nil {
		observability.Warn("cache write failed", "operation", operation, "error", err)
	}
}
