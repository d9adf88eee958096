package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"claimcheck/models"
	"claimcheck/observability"

	"github.com/shopspring/decimal"
)

// Indicator names served by the feed.
const (
	IndicatorMarketCap     = "market_cap"
	IndicatorRevenueGrowth = "revenue_growth"
	IndicatorInterestRate  = "interest_rate"
)

// IndicatorService fetches published financial indicators (market cap,
// revenue growth, the federal funds rate) from an Alpha Vantage style HTTP
// API. Indicators are keyed by name and region; company-scoped indicators
// use the ticker as the region.
type IndicatorService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewIndicatorService creates a new IndicatorService instance
func NewIndicatorService(apiKey, baseURL string) *IndicatorService {
	return &IndicatorService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

// Name identifies the indicator source in verification results.
func (s *IndicatorService) Name() string {
	return "indicator-feed"
}

// overviewResponse is the company overview payload; only the fields the
// verifier compares against are decoded.
type overviewResponse struct {
	Symbol                    string `json:"Symbol"`
	MarketCap                 string `json:"MarketCapitalization"`
	QuarterlyRevenueGrowthYOY string `json:"QuarterlyRevenueGrowthYOY"`
}

// rateResponse is the federal funds rate payload.
type rateResponse struct {
	Data []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"data"`
}

// GetIndicator returns the most recently published value for the named
// indicator in the given region.
func (s *IndicatorService) GetIndicator(ctx context.Context, name, region string) (*models.Indicator, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerIndicator, name)
	timer := metrics.NewTimer()

	indicator, err := WithCircuitBreaker(ctx, BreakerIndicator, func() (*models.Indicator, error) {
		switch name {
		case IndicatorMarketCap, IndicatorRevenueGrowth:
			return s.fetchOverviewIndicator(ctx, name, region)
		case IndicatorInterestRate:
			return s.fetchInterestRate(ctx, region)
		default:
			return nil, fmt.Errorf("unknown indicator %q", name)
		}
	})

	timer.ObserveExternalAPI(BreakerIndicator, name)
	if err != nil {
		metrics.RecordExternalAPIError(BreakerIndicator, name, categorizeAPIError(err))
		return nil, err
	}
	return indicator, nil
}

func (s *IndicatorService) fetchOverviewIndicator(ctx context.Context, name, symbol string) (*models.Indicator, error) {
	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", symbol)
	params.Set("apikey", s.apiKey)

	var overview overviewResponse
	if err := s.getJSON(ctx, params, &overview); err != nil {
		return nil, err
	}

	switch name {
	case IndicatorMarketCap:
		value, err := decimal.NewFromString(overview.MarketCap)
		if err != nil {
			return nil, fmt.Errorf("no market cap published for %s", symbol)
		}
		return &models.Indicator{
			Name:   name,
			Region: symbol,
			Value:  value,
			Unit:   models.UnitCurrency,
			AsOf:   time.Now(),
		}, nil
	default:
		growth, err := decimal.NewFromString(overview.QuarterlyRevenueGrowthYOY)
		if err != nil {
			return nil, fmt.Errorf("no revenue growth published for %s", symbol)
		}
		// Feed reports a fraction; claims assert percentages
		return &models.Indicator{
			Name:   name,
			Region: symbol,
			Value:  growth.Mul(decimal.NewFromInt(100)),
			Unit:   models.UnitPercent,
			AsOf:   time.Now(),
		}, nil
	}
}

func (s *IndicatorService) fetchInterestRate(ctx context.Context, region string) (*models.Indicator, error) {
	params := url.Values{}
	params.Set("function", "FEDERAL_FUNDS_RATE")
	params.Set("interval", "monthly")
	params.Set("apikey", s.apiKey)

	var rates rateResponse
	if err := s.getJSON(ctx, params, &rates); err != nil {
		return nil, err
	}

	if len(rates.Data) == 0 {
		return nil, fmt.Errorf("no interest rate data published")
	}

	value, err := decimal.NewFromString(rates.Data[0].Value)
	if err != nil {
		return nil, fmt.Errorf("malformed interest rate value %q", rates.Data[0].Value)
	}

	asOf, err := time.Parse("2006-01-02", rates.Data[0].Date)
	if err != nil {
		asOf = time.Now()
	}

	return &models.Indicator{
		Name:   IndicatorInterestRate,
		Region: region,
		Value:  value,
		Unit:   models.UnitPercent,
		AsOf:   asOf,
	}, nil
}

func (s *IndicatorService) getJSON(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch indicator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("indicator feed returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode indicator response: %w", err)
	}
	return nil
}
