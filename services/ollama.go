package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"claimcheck/observability"
)

// OllamaService handles communication with a local Ollama instance over its
// HTTP API. It is the preferred provider when running: no API cost and no
// data leaves the machine.
type OllamaService struct {
	host       string
	model      string
	httpClient *http.Client
}

// NewOllamaService creates a new OllamaService instance
func NewOllamaService(host, model string) *OllamaService {
	return &OllamaService{
		host:       host,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Name returns the provider name
func (s *OllamaService) Name() string {
	return "ollama"
}

// Ping probes the Ollama version endpoint. A fast 200 means the daemon is
// up; anything else marks the provider unhealthy.
func (s *OllamaService) Ping(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, s.host+"/api/version", nil)
	if err != nil {
		return fmt.Errorf("failed to build probe request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama probe returned status %d", resp.StatusCode)
	}
	return nil
}

// generateRequest is the Ollama generate API request body.
type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the non-streaming Ollama generate API response.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete sends a prompt to the local model and returns the response text
func (s *OllamaService) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerOllama, "complete")
	timer := metrics.NewTimer()

	result, err := WithCircuitBreaker(ctx, BreakerOllama, func() (string, error) {
		body, err := json.Marshal(generateRequest{
			Model:  s.model,
			System: systemPrompt,
			Prompt: userPrompt,
			Stream: false,
		})
		if err != nil {
			return "", fmt.Errorf("failed to marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.host+"/api/generate", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("failed to invoke ollama: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
		}

		var response generateResponse
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}

		if response.Response == "" {
			return "", fmt.Errorf("empty response from ollama")
		}

		return response.Response, nil
	})

	timer.ObserveExternalAPI(BreakerOllama, "complete")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerOllama, "complete", categorizeAPIError(err))
	}
	return result, err
}
