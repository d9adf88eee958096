package services

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"claimcheck/models"
)

// mockQuoteProvider returns canned prices per symbol and counts calls.
type mockQuoteProvider struct {
	prices map[string]decimal.Decimal
	err    error
	calls  atomic.Int64
}

func (m *mockQuoteProvider) Name() string { return "mock-quotes" }

func (m *mockQuoteProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	price, ok := m.prices[symbol]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return &models.Quote{Symbol: symbol, Price: price}, nil
}

// mockIndicatorProvider returns canned indicator values keyed by
// "name:region".
type mockIndicatorProvider struct {
	values map[string]decimal.Decimal
	err    error
	calls  atomic.Int64
}

func (m *mockIndicatorProvider) Name() string { return "mock-indicators" }

func (m *mockIndicatorProvider) GetIndicator(ctx context.Context, name, region string) (*models.Indicator, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	value, ok := m.values[name+":"+region]
	if !ok {
		return nil, errors.New("unknown indicator")
	}
	return &models.Indicator{Name: name, Region: region, Value: value}, nil
}
