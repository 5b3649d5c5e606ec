// Package gemini provides the adapter for Google Gemini models backed by the
// genai SDK.
package gemini

import (
	"context"
	"errors"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/observability"
	"github.com/davidbz/promptsmith/internal/provider/base"
	"github.com/davidbz/promptsmith/internal/rules"
)

const (
	providerName        = "gemini"
	maxTokens           = 1000000
	defaultRewriteModel = "gemini-2.0-flash"

	headerWordThreshold = 30
)

const guidance = "Open with a short markdown task header, list requirements as bullets and state the desired answer format and length."

// Adapter implements domain.ModelAdapter for Gemini.
type Adapter struct {
	*base.Helper
	client       *client
	rewriteModel string
}

// NewAdapter creates a new Gemini adapter.
func NewAdapter(ctx context.Context, cfg base.RemoteConfig) (*Adapter, error) {
	helper, err := base.NewHelper(base.Spec{
		Info:      domain.ModelInfo{Name: "Google Gemini", Provider: providerName, Version: "1"},
		Models:    SupportedModels(),
		MaxTokens: maxTokens,
		Weights:   base.TokenWeights{CJK: 2.5, Other: 4.0},
		Rules:     modelRules(),
	})
	if err != nil {
		return nil, err
	}

	c, err := newClient(ctx, cfg, base.RewriteInstruction("Google Gemini", guidance))
	if err != nil {
		return nil, err
	}

	rewriteModel := cfg.Model
	if rewriteModel == "" {
		rewriteModel = defaultRewriteModel
	}

	return &Adapter{
		Helper:       helper,
		client:       c,
		rewriteModel: rewriteModel,
	}, nil
}

// SupportedModels returns the list of models supported by the Gemini adapter.
func SupportedModels() []string {
	return []string{"gemini-1.5-pro", "gemini-1.5-flash", "gemini-2.0-flash"}
}

func modelRules() []domain.OptimizationRule {
	return []domain.OptimizationRule{
		{
			ID:          "gemini-task-header",
			Name:        "Add a task header",
			Description: "Opens longer prompts with a markdown task header",
			Category:    domain.RuleStructure,
			Condition:   rules.Compare(rules.FieldWordCount, domain.OpGreater, headerWordThreshold),
			Transform: domain.Transform{
				Kind:        domain.TransformRegexReplace,
				Pattern:     `\A\s*([^#\s])`,
				Replacement: "## Task\n$1",
			},
			Priority: 6,
			Active:   true,
		},
		{
			ID:          "gemini-concise-answer",
			Name:        "Ask for a concise answer",
			Description: "Asks simple prompts for a short, direct answer",
			Category:    domain.RuleLength,
			Condition:   rules.Flag(rules.FlagSimple),
			Transform: domain.Transform{
				Kind:     domain.TransformScaffoldAppend,
				Scaffold: "Keep the answer concise and lead with the key result.",
			},
			Priority: 3,
			Active:   true,
		},
	}
}

// Optimize applies the Gemini rules and the remote rewrite.
func (a *Adapter) Optimize(ctx context.Context, req *domain.AdapterRequest) (*domain.AdapterResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	observability.FromContext(ctx).Debug("gemini adapter optimizing", observability.Bool("remote", a.client != nil))

	var rewrite base.Rewriter
	if a.client != nil {
		rewrite = a.client.rewrite
	}

	return a.Run(ctx, req, a.rewriteModel, rewrite)
}

// FormatForModel renders markdown h2 sections.
func (a *Adapter) FormatForModel(prompt domain.StructuredPrompt) string {
	return base.FormatSections(prompt, base.LayoutH2)
}

// CheckConnection lists models upstream. It fails without an API key.
func (a *Adapter) CheckConnection(ctx context.Context) bool {
	if a.client == nil {
		return false
	}
	return a.client.ping(ctx)
}
