package services

import (
	"context"

	"claimcheck/models"
)

// QuoteProvider fetches the current traded price for a symbol
type QuoteProvider interface {
	Name() string
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// IndicatorProvider fetches published financial indicators keyed by
// indicator name and region
type IndicatorProvider interface {
	Name() string
	GetIndicator(ctx context.Context, name, region string) (*models.Indicator, error)
}

// LLMService defines a language-model backend usable for claim extraction
type LLMService interface {
	Name() string
	Ping(ctx context.Context) error
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Compile-time interface verification
var _ QuoteProvider = (*AlpacaService)(nil)
var _ IndicatorProvider = (*IndicatorService)(nil)
var _ LLMService = (*OpenAIService)(nil)
var _ LLMService = (*BedrockService)(nil)
var _ LLMService = (*OllamaService)(nil)
