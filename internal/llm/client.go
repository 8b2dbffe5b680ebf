package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/previewar/product-image-selector/internal/config"
)

// Chatter is the slice of the OpenAI client the pipeline uses. Components
// receive it through Client so tests can substitute a stub.
type Chatter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	api         Chatter
	model       string
	visionModel string
	logger      *slog.Logger
}

func New(cfg config.OpenAIConfig) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:         openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		logger:      slog.Default().With("component", "llm"),
	}
}

// NewWithChatter wires an explicit transport, used by tests.
func NewWithChatter(api Chatter, model, visionModel string) *Client {
	return &Client{
		api:         api,
		model:       model,
		visionModel: visionModel,
		logger:      slog.Default().With("component", "llm"),
	}
}

// Complete sends one chat completion on the text model and returns the
// trimmed response text.
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	return c.complete(ctx, c.model, messages)
}

// CompleteVision is Complete on the vision-capable model. Messages may carry
// image-URL content parts.
func (c *Client) CompleteVision(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	return c.complete(ctx, c.visionModel, messages)
}

func (c *Client) complete(ctx context.Context, model string, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		return "", parseAPIError(model, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model %s returned no choices", model)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// parseAPIError extracts a readable message from the API response.
func parseAPIError(model string, err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("model %s request error %d: %s", model, reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("model %s API error %d: %s", model, apiErr.HTTPStatusCode, apiErr.Message)
	}

	return fmt.Errorf("model %s request failed: %w", model, err)
}
