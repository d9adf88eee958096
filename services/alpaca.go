package services

import (
	"context"
	"fmt"

	"claimcheck/models"
	"claimcheck/observability"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

// AlpacaService fetches live quotes from the Alpaca market data API. It is
// the single primary source of truth for price data.
type AlpacaService struct {
	dataClient *marketdata.Client
}

// NewAlpacaService creates a new AlpacaService instance
func NewAlpacaService(apiKey, apiSecret string) *AlpacaService {
	dataClient := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return &AlpacaService{
		dataClient: dataClient,
	}
}

// Name identifies the quote source in verification results.
func (s *AlpacaService) Name() string {
	return "alpaca"
}

// GetQuote returns the latest trade price for a symbol. The last trade is
// preferred over the bid/ask midpoint since verification compares against
// what the asset actually traded at.
func (s *AlpacaService) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerAlpaca, "quote")
	timer := metrics.NewTimer()

	quote, err := WithCircuitBreaker(ctx, BreakerAlpaca, func() (*models.Quote, error) {
		trade, err := s.dataClient.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
		if err != nil {
			return nil, fmt.Errorf("failed to get trade for %s: %w", symbol, err)
		}

		latest, err := s.dataClient.GetLatestQuote(symbol, marketdata.GetLatestQuoteRequest{})
		if err != nil {
			// A trade without a quote is still usable
			return &models.Quote{
				Symbol:    symbol,
				Price:     decimal.NewFromFloat(trade.Price),
				Timestamp: trade.Timestamp,
			}, nil
		}

		return &models.Quote{
			Symbol:    symbol,
			Price:     decimal.NewFromFloat(trade.Price),
			Bid:       decimal.NewFromFloat(latest.BidPrice),
			Ask:       decimal.NewFromFloat(latest.AskPrice),
			Timestamp: trade.Timestamp,
		}, nil
	})

	timer.ObserveExternalAPI(BreakerAlpaca, "quote")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerAlpaca, "quote", categorizeAPIError(err))
		return nil, err
	}
	return quote, nil
}
