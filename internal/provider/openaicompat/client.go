// Package openaicompat wraps the OpenAI SDK for every provider exposing the
// OpenAI chat completions API.
package openaicompat

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/promptsmith/internal/observability"
	"github.com/davidbz/promptsmith/internal/provider/base"
)

const rewriteTemperature = 0.2

// Client performs throttled rewrite calls against an OpenAI-compatible endpoint.
type Client struct {
	client      openai.Client
	caller      *base.RemoteCaller
	instruction string
}

// NewClient creates a client, or returns nil when cfg carries no API key.
// Retries are owned by the RemoteCaller, so the SDK's own retries are disabled.
func NewClient(provider string, cfg base.RemoteConfig, defaultBaseURL, instruction string) *Client {
	if !cfg.Enabled() {
		return nil
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}

	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		client:      openai.NewClient(opts...),
		caller:      base.NewRemoteCaller(provider, cfg),
		instruction: instruction,
	}
}

// Rewrite asks model to rewrite text according to the client's instruction.
func (c *Client) Rewrite(ctx context.Context, text, model string) (string, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("calling chat completions for rewrite", observability.String("rewrite_model", model))

	return c.caller.Call(ctx, func(ctx context.Context) (string, error) {
		resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(c.instruction),
				openai.UserMessage(text),
			},
			Temperature: openai.Float(rewriteTemperature),
		})
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}

		if len(resp.Choices) == 0 {
			return "", errors.New("chat completion returned no choices")
		}

		return resp.Choices[0].Message.Content, nil
	})
}

// Ping lists models to check reachability and credentials.
func (c *Client) Ping(ctx context.Context) bool {
	_, err := c.client.Models.List(ctx)
	if err != nil {
		observability.FromContext(ctx).Debug("connection check failed", observability.Error(err))
		return false
	}
	return true
}
