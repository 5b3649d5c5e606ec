package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/davidbz/promptsmith/internal/observability"
	"github.com/davidbz/promptsmith/internal/provider/base"
)

const rewriteMaxTokens = 2048

type client struct {
	sdk         anthropic.Client
	caller      *base.RemoteCaller
	instruction string
}

func newClient(cfg base.RemoteConfig, instruction string) *client {
	if !cfg.Enabled() {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &client{
		sdk:         anthropic.NewClient(opts...),
		caller:      base.NewRemoteCaller(providerName, cfg),
		instruction: instruction,
	}
}

func (c *client) rewrite(ctx context.Context, text, model string) (string, error) {
	observability.FromContext(ctx).Debug("calling messages api for rewrite", observability.String("rewrite_model", model))

	return c.caller.Call(ctx, func(ctx context.Context) (string, error) {
		msg, err := c.sdk.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(model),
			MaxTokens: rewriteMaxTokens,
			System:    []anthropic.TextBlockParam{{Text: c.instruction}},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
			},
		})
		if err != nil {
			return "", fmt.Errorf("messages call failed: %w", err)
		}

		var b strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}

		if b.Len() == 0 {
			return "", errors.New("message carried no text content")
		}
		return b.String(), nil
	})
}

func (c *client) ping(ctx context.Context) bool {
	_, err := c.sdk.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		observability.FromContext(ctx).Debug("connection check failed", observability.Error(err))
		return false
	}
	return true
}
