package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestIndicatorServiceMarketCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "OVERVIEW" {
			t.Errorf("function = %q, want OVERVIEW", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("symbol = %q, want AAPL", got)
		}
		w.Write([]byte(`{"Symbol": "AAPL", "MarketCapitalization": "2950000000000", "QuarterlyRevenueGrowthYOY": "0.081"}`))
	}))
	defer server.Close()

	svc := NewIndicatorService("test-key", server.URL)
	indicator, err := svc.GetIndicator(context.Background(), IndicatorMarketCap, "AAPL")
	if err != nil {
		t.Fatalf("GetIndicator() error = %v", err)
	}
	if !indicator.Value.Equal(decimal.RequireFromString("2950000000000")) {
		t.Errorf("value = %s, want 2950000000000", indicator.Value)
	}
}

func TestIndicatorServiceRevenueGrowthConvertsToPercent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Symbol": "MSFT", "MarketCapitalization": "3100000000000", "QuarterlyRevenueGrowthYOY": "0.175"}`))
	}))
	defer server.Close()

	svc := NewIndicatorService("test-key", server.URL)
	indicator, err := svc.GetIndicator(context.Background(), IndicatorRevenueGrowth, "MSFT")
	if err != nil {
		t.Fatalf("GetIndicator() error = %v", err)
	}
	// Feed reports a fraction; claims assert percentages
	if !indicator.Value.Equal(decimal.RequireFromString("17.5")) {
		t.Errorf("value = %s, want 17.5", indicator.Value)
	}
}

func TestIndicatorServiceInterestRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "FEDERAL_FUNDS_RATE" {
			t.Errorf("function = %q, want FEDERAL_FUNDS_RATE", got)
		}
		w.Write([]byte(`{"data": [{"date": "2025-07-01", "value": "5.33"}, {"date": "2025-06-01", "value": "5.25"}]}`))
	}))
	defer server.Close()

	svc := NewIndicatorService("test-key", server.URL)
	indicator, err := svc.GetIndicator(context.Background(), IndicatorInterestRate, "US")
	if err != nil {
		t.Fatalf("GetIndicator() error = %v", err)
	}
	if !indicator.Value.Equal(decimal.RequireFromString("5.33")) {
		t.Errorf("value = %s, want most recent 5.33", indicator.Value)
	}
	if indicator.AsOf.Format("2006-01-02") != "2025-07-01" {
		t.Errorf("as_of = %s, want 2025-07-01", indicator.AsOf.Format("2006-01-02"))
	}
}

func TestIndicatorServiceMissingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	svc := NewIndicatorService("test-key", server.URL)
	if _, err := svc.GetIndicator(context.Background(), IndicatorMarketCap, "ZZZZ"); err == nil {
		t.Error("expected error for missing overview data")
	}
}

func TestIndicatorServiceUnknownIndicator(t *testing.T) {
	svc := NewIndicatorService("test-key", "http://localhost:0")
	if _, err := svc.GetIndicator(context.Background(), "sharpe_ratio", "AAPL"); err == nil {
		t.Error("expected error for unknown indicator name")
	}
}
