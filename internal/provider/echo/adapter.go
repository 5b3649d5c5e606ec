// Package echo provides an offline adapter with deterministic behavior.
// It implements domain.ModelAdapter without external API calls, for local
// development and tests.
package echo

import (
	"context"
	"errors"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/observability"
	"github.com/davidbz/promptsmith/internal/provider/base"
	"github.com/davidbz/promptsmith/internal/rules"
)

const (
	providerName = "echo"
	modelName    = "echo"
	maxTokens    = 32000
)

// Adapter implements domain.ModelAdapter for the echo model.
type Adapter struct {
	*base.Helper
}

// NewAdapter creates a new echo adapter.
// No configuration is required as this adapter operates entirely in-memory.
func NewAdapter() (*Adapter, error) {
	helper, err := base.NewHelper(base.Spec{
		Info:      domain.ModelInfo{Name: "Echo", Provider: providerName, Version: "1"},
		Models:    []string{modelName},
		MaxTokens: maxTokens,
		Rules:     modelRules(),
	})
	if err != nil {
		return nil, err
	}

	return &Adapter{Helper: helper}, nil
}

func modelRules() []domain.OptimizationRule {
	return []domain.OptimizationRule{
		{
			ID:          "echo-whitespace",
			Name:        "Normalize whitespace",
			Description: "Collapses repeated spaces and tabs",
			Category:    domain.RuleGeneric,
			Condition:   rules.Always(),
			Transform:   domain.Transform{Kind: domain.TransformRegexReplace, Pattern: `[ \t]{2,}`, Replacement: " "},
			Priority:    1,
			Active:      true,
		},
	}
}

// Optimize applies the echo rules. There is no remote step.
func (a *Adapter) Optimize(ctx context.Context, req *domain.AdapterRequest) (*domain.AdapterResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("echo adapter optimizing")

	return a.Run(ctx, req, "", nil)
}

// FormatForModel renders plain "Key: value" sections.
func (a *Adapter) FormatForModel(prompt domain.StructuredPrompt) string {
	return base.FormatSections(prompt, base.LayoutPlain)
}

// CheckConnection always succeeds.
func (a *Adapter) CheckConnection(_ context.Context) bool {
	return true
}
