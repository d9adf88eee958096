package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"claimcheck/config"
	"claimcheck/engine"
	"claimcheck/models"
	"claimcheck/providers"
	"claimcheck/services"
)

// stubQuotes serves canned prices for handler tests.
type stubQuotes struct {
	prices map[string]decimal.Decimal
}

func (s *stubQuotes) Name() string { return "stub-quotes" }

func (s *stubQuotes) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	price, ok := s.prices[symbol]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return &models.Quote{Symbol: symbol, Price: price}, nil
}

// stubIndicators rejects every request; handler tests only exercise quotes.
type stubIndicators struct{}

func (s *stubIndicators) Name() string { return "stub-indicators" }

func (s *stubIndicators) GetIndicator(ctx context.Context, name, region string) (*models.Indicator, error) {
	return nil, errors.New("not configured")
}

func testRouter(prices map[string]decimal.Decimal) http.Handler {
	cfg := config.NewTestConfig()
	gateway := services.NewMarketDataGateway(&stubQuotes{prices: prices}, &stubIndicators{}, nil, time.Minute)
	orchestrator := providers.NewOrchestrator(nil, providers.NewHealthRegistry(time.Minute), nil, 5*time.Second, time.Minute)
	enhancer := engine.NewEnhancer(
		engine.NewExtractor(nil, engine.NewResolver()),
		engine.NewVerifier(gateway),
		engine.NewComplianceScanner(),
		cfg.Engine,
	)
	app := NewApp(enhancer, orchestrator, gateway, nil, cfg)
	return NewRouter(NewAPIHandler(app, cfg), cfg)
}

func postEnhance(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/enhance", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleEnhance(t *testing.T) {
	router := testRouter(map[string]decimal.Decimal{
		"AAPL": decimal.NewFromInt(150),
	})

	w := postEnhance(t, router, `{"text": "AAPL is trading at $150"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var report models.EnhancedReport
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.ProviderUsed != engine.ProviderPattern {
		t.Errorf("provider = %q, want %q", report.ProviderUsed, engine.ProviderPattern)
	}
	if len(report.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(report.Results))
	}
	if report.Results[0].Status != models.StatusVerified {
		t.Errorf("status = %s, want verified", report.Results[0].Status)
	}
	if report.QualityScore != 1.0 {
		t.Errorf("quality score = %.4f, want 1.0", report.QualityScore)
	}
}

func TestHandleEnhanceValidation(t *testing.T) {
	router := testRouter(nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", "{not json", http.StatusBadRequest},
		{"missing text", `{}`, http.StatusBadRequest},
		{"empty text", `{"text": ""}`, http.StatusBadRequest},
		{"min_confidence too high", `{"text": "hello", "min_confidence": 1.5}`, http.StatusBadRequest},
		{"text too long", `{"text": "` + strings.Repeat("a", maxTextLength+1) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postEnhance(t, router, tt.body)
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}

			var response map[string]string
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if response["error"] == "" {
				t.Error("expected error message in response")
			}
		})
	}
}

func TestHandleEnhanceComplianceToggle(t *testing.T) {
	router := testRouter(nil)

	w := postEnhance(t, router, `{"text": "Guaranteed returns, you should buy now!", "run_compliance": false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var report models.EnhancedReport
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if len(report.ComplianceFlags) != 0 {
		t.Errorf("compliance disabled but got flags: %+v", report.ComplianceFlags)
	}
}

func TestHandleEnhanceMethodNotAllowed(t *testing.T) {
	router := testRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/enhance", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	router := testRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("status = %v, want ok", response["status"])
	}
	if response["llm"] != "pattern_only" {
		t.Errorf("llm = %v, want pattern_only with no providers", response["llm"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}
