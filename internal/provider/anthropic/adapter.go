// Package anthropic provides the adapter for Anthropic Claude models.
package anthropic

import (
	"context"
	"errors"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/observability"
	"github.com/davidbz/promptsmith/internal/provider/base"
	"github.com/davidbz/promptsmith/internal/rules"
)

const (
	providerName        = "anthropic"
	maxTokens           = 200000
	defaultRewriteModel = "claude-3-5-haiku-latest"

	xmlWordThreshold = 60
)

const guidance = "Structure long material with XML tags such as <context>, <instructions> and <examples>, and keep requests within safe and ethical guidelines."

// Adapter implements domain.ModelAdapter for Anthropic.
type Adapter struct {
	*base.Helper
	client       *client
	rewriteModel string
}

// NewAdapter creates a new Anthropic adapter.
func NewAdapter(cfg base.RemoteConfig) (*Adapter, error) {
	helper, err := base.NewHelper(base.Spec{
		Info:      domain.ModelInfo{Name: "Anthropic Claude", Provider: providerName, Version: "1"},
		Models:    SupportedModels(),
		MaxTokens: maxTokens,
		Roles:     []domain.Role{domain.RoleUser, domain.RoleAssistant, domain.RoleSystem},
		Weights:   base.TokenWeights{CJK: 1.8, Other: 3.5},
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
		client:       newClient(cfg, base.RewriteInstruction("Anthropic Claude", guidance)),
		rewriteModel: rewriteModel,
	}, nil
}

// SupportedModels returns the list of models supported by the Anthropic adapter.
func SupportedModels() []string {
	return []string{"claude-3-opus", "claude-3-sonnet", "claude-3-haiku", "claude-3-5-sonnet"}
}

func modelRules() []domain.OptimizationRule {
	return []domain.OptimizationRule{
		{
			ID:          "claude-xml-structure",
			Name:        "Structure with XML tags",
			Description: "Asks long, loosely structured prompts to separate material with XML tags",
			Category:    domain.RuleStructure,
			Condition:   rules.Compare(rules.FieldWordCount, domain.OpGreater, xmlWordThreshold),
			Transform: domain.Transform{
				Kind:     domain.TransformScaffoldAppend,
				Scaffold: "Place reference material inside <document></document> tags and keep the instructions outside them.",
			},
			Priority: 6,
			Active:   true,
		},
		{
			ID:          "claude-safety-keywords",
			Name:        "Rephrase safety bypass requests",
			Description: "Turns requests to ignore safety rules into a request to stay within guidelines",
			Category:    domain.RuleGeneric,
			Condition:   rules.Always(),
			Transform: domain.Transform{
				Kind:        domain.TransformRegexReplace,
				Pattern:     `(?i)\b(ignore|bypass|disable|override)\s+(all\s+|any\s+|your\s+)?(safety|guidelines|guardrails|filters|restrictions)(\s+rules)?\b`,
				Replacement: "stay within your guidelines",
			},
			Priority: 9,
			Active:   true,
		},
	}
}

// Optimize applies the Claude rules and the remote rewrite.
func (a *Adapter) Optimize(ctx context.Context, req *domain.AdapterRequest) (*domain.AdapterResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	observability.FromContext(ctx).Debug("anthropic adapter optimizing", observability.Bool("remote", a.client != nil))

	var rewrite base.Rewriter
	if a.client != nil {
		rewrite = a.client.rewrite
	}

	return a.Run(ctx, req, a.rewriteModel, rewrite)
}

// FormatForModel renders XML-tagged sections.
func (a *Adapter) FormatForModel(prompt domain.StructuredPrompt) string {
	return base.FormatSections(prompt, base.LayoutXML)
}

// CheckConnection lists models upstream. It fails without an API key.
func (a *Adapter) CheckConnection(ctx context.Context) bool {
	if a.client == nil {
		return false
	}
	return a.client.ping(ctx)
}
