package ai

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"github.com/set-night/chatd/internal/config"
)

// Client talks to an OpenRouter-compatible chat completion API.
type Client struct {
	client *openai.Client
	cache  *modelsCache
}

func NewClient(apiKey, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Timeout: config.RequestTimeout}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		cache:  newModelsCache(config.ModelCacheDuration),
	}
}

func (c *Client) Generate(ctx context.Context, prompt, modelID string, temperature float64) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       ResolveAlias(modelID),
		MaxTokens:   config.MaxTokens,
		Temperature: float32(temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion for model %s", modelID)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) IsAvailable(ctx context.Context) bool {
	_, err := c.listRemote(ctx)
	return err == nil
}

// ListModels returns the identifiers the upstream endpoint advertises,
// cached for ModelCacheDuration. When the endpoint is unreachable it falls
// back to the locally known aliases so health reporting still has something
// to show.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	models, err := c.listRemote(ctx)
	if err != nil {
		return KnownModels(), nil
	}
	return models, nil
}

func (c *Client) listRemote(ctx context.Context) ([]string, error) {
	if cached := c.cache.Get(); cached != nil {
		return cached, nil
	}

	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	models := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, m.ID)
	}

	c.cache.Set(models)
	return models, nil
}
