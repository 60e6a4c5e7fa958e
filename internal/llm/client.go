// Package llm provides the scoring-model client, provider error
// classification, and the retry combinator used by the evaluation pipeline.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the scoring model.
const DefaultModel = "gemini-2.5-flash"

const (
	// temperature is fixed low for consistent scoring output.
	temperature = 0.2
	// maxOutputTokens is the output-token ceiling for an evaluation.
	maxOutputTokens = 2048
)

// Client is an abstraction over the scoring model provider.
type Client interface {
	// Evaluate sends a system instruction plus a single user message and
	// returns the model's text response.
	Evaluate(ctx context.Context, systemInstruction, prompt string) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Evaluate sends the prompt with a fixed temperature and output-token ceiling.
func (c *GeminiClient) Evaluate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(maxOutputTokens)
	model.ResponseMIMEType = "application/json"
	if systemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemInstruction)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
