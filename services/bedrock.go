package services

import (
	"context"
	"encoding/json"
	"fmt"

	"claimcheck/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// bedrockClient defines the interface for Bedrock API calls (for testing)
type bedrockClient interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockService handles communication with AWS Bedrock for Claude models
type BedrockService struct {
	client    bedrockClient
	model     string
	maxTokens int
}

// claudeRequest represents the request format for Claude models via Bedrock
type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
}

// claudeMessage represents a message in the Claude conversation
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse represents the response from Claude models
type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// NewBedrockService creates a new BedrockService instance
func NewBedrockService(ctx context.Context, region, modelID string, maxTokens int) (*BedrockService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &BedrockService{
		client:    bedrockruntime.NewFromConfig(cfg),
		model:     modelID,
		maxTokens: maxTokens,
	}, nil
}

// newBedrockServiceWithClient creates a BedrockService with a custom client (for testing)
func newBedrockServiceWithClient(client bedrockClient, model string, maxTokens int) *BedrockService {
	return &BedrockService{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Name returns the provider name
func (s *BedrockService) Name() string {
	return "bedrock"
}

// Ping verifies the service was constructed with valid AWS configuration.
// Bedrock has no cheap version endpoint; a failed invoke trips the circuit
// breaker and the health registry picks that up on the next probe interval.
func (s *BedrockService) Ping(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("bedrock client not configured")
	}
	if GetGlobalRegistry().GetBreaker(BreakerBedrock).State().String() == "open" {
		return fmt.Errorf("bedrock circuit breaker open")
	}
	return nil
}

// Complete sends a prompt to Claude and returns the response text
func (s *BedrockService) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerBedrock, "complete")
	timer := metrics.NewTimer()

	result, err := WithCircuitBreaker(ctx, BreakerBedrock, func() (string, error) {
		request := claudeRequest{
			AnthropicVersion: "bedrock-2023-05-31",
			MaxTokens:        s.maxTokens,
			System:           systemPrompt,
			Messages: []claudeMessage{
				{Role: "user", Content: userPrompt},
			},
		}

		reqBody, err := json.Marshal(request)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request: %w", err)
		}

		output, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     aws.String(s.model),
			Body:        reqBody,
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return "", fmt.Errorf("failed to invoke model: %w", err)
		}

		var response claudeResponse
		if err := json.Unmarshal(output.Body, &response); err != nil {
			return "", fmt.Errorf("failed to unmarshal response: %w", err)
		}

		if len(response.Content) == 0 {
			return "", fmt.Errorf("empty response from model")
		}

		return response.Content[0].Text, nil
	})

	timer.ObserveExternalAPI(BreakerBedrock, "complete")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerBedrock, "complete", categorizeAPIError(err))
	}
	return result, err
}
