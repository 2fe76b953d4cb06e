// Package llm wraps the Gemini client used for metadata generation and
// document analysis.
package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"iglesia/internal/config"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-flash-lite-latest"

// Client is a thin wrapper over the Gemini SDK.
type Client struct {
	modelName string
	gClient   *genai.Client
}

// NewClient creates an LLM client from configuration. The API key is
// required; the model falls back to DefaultModel.
func NewClient(ctx context.Context, cfg config.AI) (*Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini API key is required, set GEMINI_API_KEY")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{modelName: model, gClient: gClient}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.modelName
}

// Generate sends a single-turn prompt and returns the response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
