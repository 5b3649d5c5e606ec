// Package deepseek provides the adapter for DeepSeek models. DeepSeek serves
// an OpenAI-compatible API, so the rewrite goes through the OpenAI SDK with a
// DeepSeek base URL.
package deepseek

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
	providerName        = "deepseek"
	maxTokens           = 64000
	defaultBaseURL      = "https://api.deepseek.com/v1"
	defaultRewriteModel = "deepseek-chat"
)

const guidance = "Ask for explicit step-by-step reasoning on complex tasks and for fenced code blocks with a language tag whenever code is involved."

// Adapter implements domain.ModelAdapter for DeepSeek.
type Adapter struct {
	*base.Helper
	client       *openaicompat.Client
	rewriteModel string
}

// NewAdapter creates a new DeepSeek adapter.
func NewAdapter(cfg base.RemoteConfig) (*Adapter, error) {
	helper, err := base.NewHelper(base.Spec{
		Info:      domain.ModelInfo{Name: "DeepSeek", Provider: providerName, Version: "1"},
		Models:    SupportedModels(),
		MaxTokens: maxTokens,
		Weights:   base.TokenWeights{CJK: 1.5, Other: 4.0},
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
		client:       openaicompat.NewClient(providerName, cfg, defaultBaseURL, base.RewriteInstruction("DeepSeek", guidance)),
		rewriteModel: rewriteModel,
	}, nil
}

// SupportedModels returns the list of models supported by the DeepSeek adapter.
func SupportedModels() []string {
	return []string{"deepseek-chat", "deepseek-coder", "deepseek-reasoner"}
}

func modelRules() []domain.OptimizationRule {
	return []domain.OptimizationRule{
		{
			ID:          "deepseek-reasoning-chain",
			Name:        "Request a reasoning chain",
			Description: "Asks for numbered reasoning steps on complex prompts",
			Category:    domain.RuleStructure,
			Condition:   rules.Flag(rules.FlagComplex),
			Transform: domain.Transform{
				Kind:     domain.TransformScaffoldAppend,
				Scaffold: "Work through the problem in numbered reasoning steps, then give the final answer.",
			},
			Priority: 6,
			Active:   true,
		},
		{
			ID:          "deepseek-code-block",
			Name:        "Fence code",
			Description: "Asks for code in fenced blocks with a language tag",
			Category:    domain.RuleFormat,
			Domains:     []domain.PromptCategory{domain.CategoryTechnical},
			Transform: domain.Transform{
				Kind:     domain.TransformScaffoldAppend,
				Scaffold: "Put all code in fenced ``` blocks tagged with the language.",
			},
			Priority: 5,
			Active:   true,
		},
	}
}

// Optimize applies the DeepSeek rules and the remote rewrite.
func (a *Adapter) Optimize(ctx context.Context, req *domain.AdapterRequest) (*domain.AdapterResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	observability.FromContext(ctx).Debug("deepseek adapter optimizing", observability.Bool("remote", a.client != nil))

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
