// Package base holds the behavior shared by every model adapter: validation,
// provider rule application, suggestions, confidence and token estimation.
// Adapters embed a *Helper and add their remote rewrite and layout.
package base

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/davidbz/promptsmith/internal/analyzer"
	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/id"
	"github.com/davidbz/promptsmith/internal/observability"
	"github.com/davidbz/promptsmith/internal/rules"
	"github.com/davidbz/promptsmith/internal/textutil"
)

const (
	shortPromptWords = 10

	minConfidence = 0.1
	maxConfidence = 0.95
)

var templateVar = regexp.MustCompile(`\{\{\s*[\w.]+\s*\}\}|\$\{\w+\}`)

// TokenWeights is the characters-per-token ratio for CJK and other runes.
// The zero value counts whitespace-separated words.
type TokenWeights struct {
	CJK   float64
	Other float64
}

// Rewriter performs the remote rewrite of text for model.
type Rewriter func(ctx context.Context, text, model string) (string, error)

// Spec describes an adapter.
type Spec struct {
	Info      domain.ModelInfo
	Models    []string
	MaxTokens int
	Roles     []domain.Role
	Weights   TokenWeights
	Rules     []domain.OptimizationRule
}

// Helper implements the provider-independent part of domain.ModelAdapter.
type Helper struct {
	spec   Spec
	models map[string]bool
	engine domain.RuleEngine
}

// NewHelper creates a helper for spec.
func NewHelper(spec Spec) (*Helper, error) {
	if spec.Info.Provider == "" {
		return nil, errors.New("provider name cannot be empty")
	}

	if spec.MaxTokens <= 0 {
		return nil, errors.New("max tokens must be positive")
	}

	if len(spec.Roles) == 0 {
		spec.Roles = []domain.Role{domain.RoleSystem, domain.RoleUser, domain.RoleAssistant}
	}

	engine, err := rules.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to create rules engine: %w", err)
	}

	models := make(map[string]bool, len(spec.Models))
	for _, m := range spec.Models {
		models[m] = true
	}

	return &Helper{
		spec:   spec,
		models: models,
		engine: engine,
	}, nil
}

// Info returns the adapter identity.
func (h *Helper) Info() domain.ModelInfo {
	return h.spec.Info
}

// MaxTokens returns the token budget.
func (h *Helper) MaxTokens() int {
	return h.spec.MaxTokens
}

// SupportedRoles returns the accepted message roles.
func (h *Helper) SupportedRoles() []domain.Role {
	return append([]domain.Role(nil), h.spec.Roles...)
}

// SupportedModels returns the served model ids.
func (h *Helper) SupportedModels() []string {
	return append([]string(nil), h.spec.Models...)
}

// IsModelSupported checks if the adapter serves model.
func (h *Helper) IsModelSupported(model string) bool {
	return h.models[model]
}

// ModelSpecificRules returns a copy of the provider rule catalogue.
func (h *Helper) ModelSpecificRules() []domain.OptimizationRule {
	return append([]domain.OptimizationRule(nil), h.spec.Rules...)
}

// EstimateTokens returns ceil(cjk/CJK + other/Other) for text.
func (h *Helper) EstimateTokens(text string) (int, error) {
	return EstimateTokens(text, h.spec.Weights)
}

// EstimateTokens applies weights to text. Empty text is zero tokens.
func EstimateTokens(text string, weights TokenWeights) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	if weights.CJK <= 0 || weights.Other <= 0 {
		if weights != (TokenWeights{}) {
			return 0, fmt.Errorf("invalid token weights %+v", weights)
		}
		return len(strings.Fields(text)), nil
	}

	cjk := textutil.CountCJK(text)
	other := textutil.RuneLen(text) - cjk

	return int(math.Ceil(float64(cjk)/weights.CJK + float64(other)/weights.Other)), nil
}

// Validate checks emptiness, the token budget and unfilled template variables.
func (h *Helper) Validate(text string) domain.ValidationReport {
	report := domain.ValidationReport{IsValid: true}

	if strings.TrimSpace(text) == "" {
		report.IsValid = false
		report.Errors = append(report.Errors, "Prompt cannot be empty")
		return report
	}

	if tokens, err := h.EstimateTokens(text); err == nil && tokens > h.spec.MaxTokens {
		report.IsValid = false
		report.Errors = append(report.Errors,
			fmt.Sprintf("Prompt is about %d tokens, above the %d token limit of %s", tokens, h.spec.MaxTokens, h.spec.Info.Name))
	}

	if vars := templateVar.FindAllString(text, -1); len(vars) > 0 {
		report.Warnings = append(report.Warnings,
			"Prompt contains unfilled template variables: "+strings.Join(vars, ", "))
	}

	if textutil.Words(text) < shortPromptWords {
		report.Suggestions = append(report.Suggestions, "Add more detail about the task and the expected result")
	}

	return report
}

// ApplyRules applies the provider catalogue with the rules engine semantics.
func (h *Helper) ApplyRules(ctx context.Context, text, model string, analysis *domain.PromptAnalysis) domain.RuleOutcome {
	query := domain.RuleQuery{ActiveOnly: true, Model: model}
	if analysis != nil {
		query.Categories = analysis.Categories
	}

	candidates := make([]domain.OptimizationRule, 0, len(h.spec.Rules))
	for i := range h.spec.Rules {
		if query.Matches(&h.spec.Rules[i]) {
			candidates = append(candidates, h.spec.Rules[i])
		}
	}

	outcome := h.engine.Apply(ctx, text, candidates, analysis)
	for i := range outcome.Improvements {
		outcome.Improvements[i].Source = "adapter:" + h.spec.Info.Provider + ":" + strings.TrimPrefix(outcome.Improvements[i].Source, "rule:")
	}
	return outcome
}

// Suggestions returns the generic adapter advice for text.
func (h *Helper) Suggestions(text string) []domain.Suggestion {
	var out []domain.Suggestion

	if textutil.Words(text) < shortPromptWords {
		out = append(out, domain.Suggestion{
			ID:          id.NewSuggestion(),
			Type:        "add_context",
			Title:       "Add context",
			Description: "Short prompts leave " + h.spec.Info.Name + " guessing; describe the background and goal",
			Priority:    6,
		})
	}

	if !textutil.ContainsAny(text, analyzer.PoliteWords) {
		out = append(out, domain.Suggestion{
			ID:          id.NewSuggestion(),
			Type:        "polite_phrasing",
			Title:       "Use polite phrasing",
			Description: "Phrasing the request politely tends to produce more cooperative answers",
			Priority:    2,
			Example:     "Please ...",
		})
	}

	return out
}

// Confidence returns 0.5 + 0.4·high + 0.3·medium + 0.1·low clamped to [0.1, 0.95].
func Confidence(improvements []domain.Improvement) float64 {
	score := 0.5
	for _, imp := range improvements {
		switch imp.Impact {
		case domain.ImpactHigh:
			score += 0.4
		case domain.ImpactMedium:
			score += 0.3
		case domain.ImpactLow:
			score += 0.1
		}
	}
	return math.Min(maxConfidence, math.Max(minConfidence, score))
}

// Run applies the provider rules and then, when rewrite is set, the remote
// rewrite. A failed rewrite yields the adapter input unchanged with Degraded set.
func (h *Helper) Run(ctx context.Context, req *domain.AdapterRequest, rewriteModel string, rewrite Rewriter) (*domain.AdapterResult, error) {
	if req == nil {
		return nil, errors.New("adapter request cannot be nil")
	}

	model := ""
	if req.Request != nil {
		model = req.Request.TargetModel
	}

	if observability.GetProvider(ctx) == "" {
		ctx = observability.WithProvider(ctx, h.spec.Info.Provider)
	}
	logger := observability.FromContext(ctx)

	local := h.ApplyRules(ctx, req.Text, model, req.Analysis)
	result := &domain.AdapterResult{
		Text:         local.Text,
		AppliedRules: local.AppliedRuleIDs,
		Improvements: local.Improvements,
		Suggestions:  h.Suggestions(req.Text),
	}

	if rewrite != nil {
		target := model
		if rewriteModel != "" {
			target = rewriteModel
		}

		out, err := rewrite(ctx, local.Text, target)
		switch {
		case err != nil:
			logger.Warn("remote rewrite failed, falling back to adapter input", observability.Error(err))
			result.Text = req.Text
			result.AppliedRules = []string{}
			result.Improvements = []domain.Improvement{}
			result.Degraded = true

		case out != local.Text:
			result.Improvements = append(result.Improvements, domain.Improvement{
				ID:          id.NewImprovement(),
				Source:      "adapter:" + h.spec.Info.Provider,
				Category:    "model",
				Description: "Rewrote the prompt for " + h.spec.Info.Name,
				Impact:      domain.ImpactMedium,
				Before:      local.Text,
				After:       out,
				Rationale:   "Provider-tuned phrasing from the upstream model",
			})
			result.Text = out
		}
	}

	result.Confidence = Confidence(result.Improvements)
	return result, nil
}
