package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/davidbz/promptsmith/internal/observability"
	"github.com/davidbz/promptsmith/internal/provider/base"
)

var errNoCandidates = errors.New("gemini returned no candidates")

type client struct {
	sdk         *genai.Client
	caller      *base.RemoteCaller
	instruction string
}

func newClient(ctx context.Context, cfg base.RemoteConfig, instruction string) (*client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &client{
		sdk:         sdk,
		caller:      base.NewRemoteCaller(providerName, cfg),
		instruction: instruction,
	}, nil
}

func (c *client) rewrite(ctx context.Context, text, model string) (string, error) {
	observability.FromContext(ctx).Debug("calling generate content for rewrite", observability.String("rewrite_model", model))

	return c.caller.Call(ctx, func(ctx context.Context) (string, error) {
		resp, err := c.sdk.Models.GenerateContent(ctx, model,
			[]*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: text}}}},
			&genai.GenerateContentConfig{
				SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: c.instruction}}},
			},
		)
		if err != nil {
			return "", fmt.Errorf("generate content failed: %w", err)
		}

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", errNoCandidates
		}
		return resp.Candidates[0].Content.Parts[0].Text, nil
	})
}

func (c *client) ping(ctx context.Context) bool {
	_, err := c.sdk.Models.List(ctx, &genai.ListModelsConfig{PageSize: 1})
	if err != nil {
		observability.FromContext(ctx).Debug("connection check failed", observability.Error(err))
		return false
	}
	return true
}
