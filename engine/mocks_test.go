package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

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
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	price, ok := m.prices[symbol]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return &models.Quote{Symbol: symbol, Price: price}, nil
}

// slowQuoteProvider stalls per symbol without observing ctx, like an SDK
// call that carries no context.
type slowQuoteProvider struct {
	prices map[string]decimal.Decimal
	delays map[string]time.Duration
}

func (m *slowQuoteProvider) Name() string { return "slow-quotes" }

func (m *slowQuoteProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if d := m.delays[symbol]; d > 0 {
		time.Sleep(d)
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
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	value, ok := m.values[name+":"+region]
	if !ok {
		return nil, errors.New("unknown indicator")
	}
	return &models.Indicator{Name: name, Region: region, Value: value}, nil
}

// mockLLM is a scriptable language-model backend.
type mockLLM struct {
	name        string
	pingErr     error
	response    string
	completeErr error
	calls       atomic.Int64
}

func (m *mockLLM) Name() string { return m.name }

func (m *mockLLM) Ping(ctx context.Context) error { return m.pingErr }

func (m *mockLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.calls.Add(1)
	if m.completeErr != nil {
		return "", m.completeErr
	}
	return m.response, nil
}
