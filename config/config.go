package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Market data providers
	Alpaca    AlpacaConfig
	Indicator IndicatorConfig

	// LLM providers
	OpenAI  OpenAIConfig
	Bedrock BedrockConfig
	Ollama  OllamaConfig

	// Engine configuration
	Engine EngineConfig

	// Cache configuration
	Cache CacheConfig

	// HTTP configuration
	HTTP HTTPConfig
}

// AlpacaConfig holds Alpaca market data API configuration
type AlpacaConfig struct {
	APIKey    string
	APISecret string
}

// IndicatorConfig holds the indicator feed configuration
type IndicatorConfig struct {
	APIKey  string
	BaseURL string
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// BedrockConfig holds AWS Bedrock configuration
type BedrockConfig struct {
	Region    string
	ModelID   string
	MaxTokens int
	Enabled   bool
}

// OllamaConfig holds the local Ollama provider configuration
type OllamaConfig struct {
	Host  string
	Model string
}

// EngineConfig holds verification engine configuration
type EngineConfig struct {
	RequestTimeoutSeconds int
	VerifyTimeoutSeconds  int
	ConcurrencyLimit      int
	InvokeTimeoutSeconds  int
	HealthCacheTTLSeconds int
	MinConfidence         float64
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Enabled            bool
	QuoteTTLSeconds    int
	LLMTTLSeconds      int
	DatabaseURL        string // when set, cache entries persist in Postgres
	CleanupIntervalMin int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr               string
	CORSAllowedOrigins string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Alpaca: AlpacaConfig{
			APIKey:    os.Getenv("ALPACA_API_KEY"),
			APISecret: os.Getenv("ALPACA_API_SECRET"),
		},
		Indicator: IndicatorConfig{
			APIKey:  os.Getenv("INDICATOR_API_KEY"),
			BaseURL: getEnvString("INDICATOR_BASE_URL", "https://www.alphavantage.co/query"),
		},
		OpenAI: OpenAIConfig{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:     getEnvString("OPENAI_MODEL", "gpt-4o-mini"),
			MaxTokens: getEnvInt("OPENAI_MAX_TOKENS", 2048),
		},
		Bedrock: BedrockConfig{
			Region:    getEnvString("BEDROCK_REGION", "us-east-1"),
			ModelID:   getEnvString("BEDROCK_MODEL_ID", "anthropic.claude-3-haiku-20240307-v1:0"),
			MaxTokens: getEnvInt("BEDROCK_MAX_TOKENS", 2048),
			Enabled:   getEnvBool("BEDROCK_ENABLED", false),
		},
		Ollama: OllamaConfig{
			Host:  getEnvString("OLLAMA_HOST", "http://localhost:11434"),
			Model: getEnvString("OLLAMA_MODEL", "llama3.1"),
		},
		Engine: EngineConfig{
			RequestTimeoutSeconds: getEnvInt("ENGINE_REQUEST_TIMEOUT_SECONDS", 30),
			VerifyTimeoutSeconds:  getEnvInt("ENGINE_VERIFY_TIMEOUT_SECONDS", 10),
			ConcurrencyLimit:      getEnvInt("ENGINE_CONCURRENCY_LIMIT", 5),
			InvokeTimeoutSeconds:  getEnvInt("ENGINE_INVOKE_TIMEOUT_SECONDS", 20),
			HealthCacheTTLSeconds: getEnvInt("ENGINE_HEALTH_CACHE_TTL_SECONDS", 30),
			MinConfidence:         getEnvFloat("ENGINE_MIN_CONFIDENCE", 0.0),
		},
		Cache: CacheConfig{
			Enabled:            getEnvBool("CACHE_ENABLED", true),
			QuoteTTLSeconds:    getEnvInt("CACHE_QUOTE_TTL_SECONDS", 60),
			LLMTTLSeconds:      getEnvInt("CACHE_LLM_TTL_SECONDS", 3600),
			DatabaseURL:        os.Getenv("DATABASE_URL"),
			CleanupIntervalMin: getEnvInt("CACHE_CLEANUP_INTERVAL_MIN", 10),
		},
		HTTP: HTTPConfig{
			Addr:               getEnvString("HTTP_ADDR", ":8080"),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Engine.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("ENGINE_REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.Engine.RequestTimeoutSeconds)
	}
	if c.Engine.VerifyTimeoutSeconds <= 0 {
		return fmt.Errorf("ENGINE_VERIFY_TIMEOUT_SECONDS must be positive, got %d", c.Engine.VerifyTimeoutSeconds)
	}
	if c.Engine.ConcurrencyLimit <= 0 {
		return fmt.Errorf("ENGINE_CONCURRENCY_LIMIT must be positive, got %d", c.Engine.ConcurrencyLimit)
	}
	if c.Engine.MinConfidence < 0 || c.Engine.MinConfidence > 1 {
		return fmt.Errorf("ENGINE_MIN_CONFIDENCE must be between 0 and 1, got %.2f", c.Engine.MinConfidence)
	}
	return nil
}

// HasAlpaca returns true if Alpaca configuration is available
func (c *Config) HasAlpaca() bool {
	return c.Alpaca.APIKey != "" && c.Alpaca.APISecret != ""
}

// HasIndicatorFeed returns true if the indicator feed is configured
func (c *Config) HasIndicatorFeed() bool {
	return c.Indicator.APIKey != ""
}

// HasOpenAI returns true if OpenAI configuration is available
func (c *Config) HasOpenAI() bool {
	return c.OpenAI.APIKey != ""
}

// HasBedrock returns true if Bedrock is enabled
func (c *Config) HasBedrock() bool {
	return c.Bedrock.Enabled
}

// HasOllama returns true if an Ollama host is configured
func (c *Config) HasOllama() bool {
	return c.Ollama.Host != ""
}

// HasDatabase returns true if a persistent cache backend is configured
func (c *Config) HasDatabase() bool {
	return c.Cache.DatabaseURL != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil && parsed >= 0 && parsed <= 1 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		Indicator: IndicatorConfig{
			BaseURL: "https://www.alphavantage.co/query",
		},
		OpenAI: OpenAIConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 2048,
		},
		Bedrock: BedrockConfig{
			Region:    "us-east-1",
			ModelID:   "anthropic.claude-3-haiku-20240307-v1:0",
			MaxTokens: 2048,
		},
		Ollama: OllamaConfig{
			Host:  "http://localhost:11434",
			Model: "llama3.1",
		},
		Engine: EngineConfig{
			RequestTimeoutSeconds: 30,
			VerifyTimeoutSeconds:  10,
			ConcurrencyLimit:      5,
			InvokeTimeoutSeconds:  20,
			HealthCacheTTLSeconds: 30,
			MinConfidence:         0.0,
		},
		Cache: CacheConfig{
			Enabled:            true,
			QuoteTTLSeconds:    60,
			LLMTTLSeconds:      3600,
			CleanupIntervalMin: 10,
		},
		HTTP: HTTPConfig{
			Addr:               ":8080",
			CORSAllowedOrigins: "*",
		},
	}
}
