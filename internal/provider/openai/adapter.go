// Package openai provides the adapter for OpenAI GPT models. Local rules run
// first and, when an API key is configured, the official SDK performs a
// provider-tuned rewrite.
package openai

import (
	"context"
	"errors"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/observability"
	"github.com/davidbz/promptsmith/internal/provider/base"
	"github.com/davidbz/promptsmith/internal/provider/openaicompat"
	"github.com/davidbz/promptsmith/internal/rules"
)

const (
	providerName        = "openai"
	maxTokens           = 128000
	defaultRewriteModel = "gpt-4o-mini"
)

const guidance = "Use clear section delimiters such as ### or triple quotes, put the instruction first and state the expected length of the answer."

// Adapter implements domain.ModelAdapter for OpenAI.
type Adapter struct {
	*base.Helper
	client       *openaicompat.Client
	rewriteModel string
}

// NewAdapter creates a new OpenAI adapter. Without an API key the adapter
// applies local rules only.
func NewAdapter(cfg base.RemoteConfig) (*Adapter, error) {
	helper, err := base.NewHelper(base.Spec{
		Info:      domain.ModelInfo{Name: "OpenAI GPT", Provider: providerName, Version: "1"},
		Models:    SupportedModels(),
		MaxTokens: maxTokens,
		Weights:   base.TokenWeights{CJK: 2.0, Other: 4.0},
		Rules:     modelRules(),
	})
	if err != nil {
		return nil, err
	}

	rewriteModel := cfg.Model
	if rewriteModel == "" {
		rewriteModel = defaultRewriteModel
	}

	return &Adapter{
		Helper:       helper,
		client:       openaicompat.NewClient(providerName, cfg, "", base.RewriteInstruction("OpenAI GPT", guidance)),
		rewriteModel: rewriteModel,
	}, nil
}

func modelRules() []domain.OptimizationRule {
	return []domain.OptimizationRule{
		{
			ID:          "openai-delimiters",
			Name:        "Delimit input text",
			Description: "Asks multi-paragraph prompts to wrap quoted input in triple quotes",
			Category:    domain.RuleStructure,
			Condition:   rules.Compare(rules.FieldParagraphCount, domain.OpGreater, 1),
			Transform: domain.Transform{
				Kind:     domain.TransformScaffoldAppend,
				Scaffold: `Wrap any input text you quote in triple quotes (""").`,
			},
			Priority: 6,
			Active:   true,
		},
		{
			ID:          "openai-output-length",
			Name:        "State the answer length",
			Description: "Adds an explicit answer length when the prompt is unspecific",
			Category:    domain.RuleLength,
			Condition:   rules.Compare(rules.FieldSpecificityScore, domain.OpLess, 0.6),
			Transform: domain.Transform{
				Kind:     domain.TransformScaffoldAppend,
				Scaffold: "Answer length: [e.g. at most 200 words]",
			},
			Priority: 4,
			Active:   true,
		},
	}
}

// Optimize applies the OpenAI rules and the remote rewrite.
func (a *Adapter) Optimize(ctx context.Context, req *domain.AdapterRequest) (*domain.AdapterResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("openai adapter optimizing", observability.Bool("remote", a.client != nil))

	var rewrite base.Rewriter
	if a.client != nil {
		rewrite = a.client.Rewrite
	}

	return a.Run(ctx, req, a.rewriteModel, rewrite)
}

// FormatForModel renders markdown h3 sections.
func (a *Adapter) FormatForModel(prompt domain.StructuredPrompt) string {
	return base.FormatSections(prompt, base.LayoutH3)
}

// CheckConnection lists models upstream. It fails without an API key.
func (a *Adapter) CheckConnection(ctx context.Context) bool {
	if a.client == nil {
		return false
	}
	return a.client.Ping(ctx)
}
