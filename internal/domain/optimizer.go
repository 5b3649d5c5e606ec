package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidbz/promptsmith/internal/id"
	"github.com/davidbz/promptsmith/internal/observability"
)

// Stage is a step of the optimization pipeline.
type Stage string

const (
	StageValidating            Stage = "validating"
	StageAnalyzing             Stage = "analyzing"
	StageRuleQuerying          Stage = "rule_querying"
	StageRuleApplying          Stage = "rule_applying"
	StageBestPracticesApplying Stage = "best_practices_applying"
	StageModelAdapting         Stage = "model_adapting"
	StageSuggestionGenerating  Stage = "suggestion_generating"
	StageTokenEstimating       Stage = "token_estimating"
	StageScoringConfidence     Stage = "scoring_confidence"
	StageAssembled             Stage = "assembled"
)

// EventOptimizationCompleted is published after every assembled result.
const EventOptimizationCompleted = "optimization.completed"

const (
	// DefaultMaxPromptRunes is the longest accepted prompt.
	DefaultMaxPromptRunes = 50000

	charsPerToken = 4
)

// OptimizerSettings tunes the orchestrator.
type OptimizerSettings struct {
	MaxPromptRunes int
	Policy         LevelPolicy
}

// OptimizerService runs the optimization pipeline.
type OptimizerService struct {
	analyzer  Analyzer
	rules     RuleSource
	engine    RuleEngine
	practices PracticeApplier
	resolver  AdapterResolver
	costs     CostCalculator
	events    EventPublisher
	settings  OptimizerSettings
}

// NewOptimizerService creates a new optimizer (DI constructor). costs and
// events are optional.
func NewOptimizerService(
	analyzer Analyzer,
	rules RuleSource,
	engine RuleEngine,
	practices PracticeApplier,
	resolver AdapterResolver,
	costs CostCalculator,
	events EventPublisher,
	settings OptimizerSettings,
) (*OptimizerService, error) {
	if analyzer == nil {
		return nil, errors.New("analyzer cannot be nil")
	}
	if rules == nil {
		return nil, errors.New("rule source cannot be nil")
	}
	if engine == nil {
		return nil, errors.New("rule engine cannot be nil")
	}
	if practices == nil {
		return nil, errors.New("practice applier cannot be nil")
	}
	if resolver == nil {
		return nil, errors.New("adapter resolver cannot be nil")
	}

	if settings.MaxPromptRunes <= 0 {
		settings.MaxPromptRunes = DefaultMaxPromptRunes
	}
	if settings.Policy == nil {
		settings.Policy = DefaultLevelPolicy()
	}

	return &OptimizerService{
		analyzer:  analyzer,
		rules:     rules,
		engine:    engine,
		practices: practices,
		resolver:  resolver,
		costs:     costs,
		events:    events,
		settings:  settings,
	}, nil
}

// stage opens the span of one pipeline step and returns its closer.
func (s *OptimizerService) stage(ctx context.Context, stage Stage, attrs ...attribute.KeyValue) (context.Context, func()) {
	ctx, span := observability.Tracer().Start(ctx, "optimizer."+string(stage), trace.WithAttributes(attrs...))
	ctx = observability.SyncSpanIDs(ctx)
	started := time.Now()

	return ctx, func() {
		observability.StageDuration.WithLabelValues(string(stage)).Observe(time.Since(started).Seconds())
		span.End()
	}
}

// Optimize validates req and runs every pipeline stage in order. Only
// validation failures are returned as errors; every later fault is absorbed
// into a degraded result.
func (s *OptimizerService) Optimize(ctx context.Context, req *OptimizationRequest) (*OptimizationResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	started := time.Now()
	ctx = observability.WithModel(ctx, req.TargetModel)
	if req.RequesterID != "" {
		ctx = observability.WithRequester(ctx, req.RequesterID)
	}
	logger := observability.FromContext(ctx)

	// The prompt is captured before any stage runs and never reassigned.
	original := req.Prompt

	sctx, end := s.stage(ctx, StageValidating, attribute.String("model", req.TargetModel))
	adapter, role, level, err := s.validate(sctx, req)
	end()
	if err != nil {
		// Rejected model ids stay out of the label set.
		observability.OptimizationsTotal.WithLabelValues("unknown", "invalid").Inc()
		logger.Info("optimization request rejected", observability.Error(err))
		return nil, err
	}

	ctx = observability.WithProvider(ctx, adapter.Info().Provider)
	logger = observability.FromContext(ctx)

	_, end = s.stage(ctx, StageAnalyzing)
	analysis := s.analyzer.Analyze(original, AnalysisContext{
		SystemPrompt: req.SystemPrompt,
		Role:         role,
		TargetModel:  req.TargetModel,
		Hints:        req.Context,
	})
	end()
	if analysis == nil {
		analysis = &PromptAnalysis{}
	}
	logger.Info("prompt analyzed",
		observability.String("complexity", string(analysis.Complexity)),
		observability.String("language", analysis.Language),
		observability.Int("word_count", analysis.WordCount),
	)

	sctx, end = s.stage(ctx, StageRuleQuerying, attribute.String("level", string(level)))
	candidates := s.queryRules(sctx, req, level, analysis)
	end()

	sctx, end = s.stage(ctx, StageRuleApplying)
	ruleOutcome := s.engine.Apply(sctx, original, candidates, analysis)
	end()
	logger.Info("rules applied",
		observability.Int("candidates", len(candidates)),
		observability.Strings("applied_rules", ruleOutcome.AppliedRuleIDs),
	)

	sctx, end = s.stage(ctx, StageBestPracticesApplying)
	practiceOutcome := s.practices.Apply(sctx, ruleOutcome.Text, req.TargetModel, role, analysis)
	end()
	logger.Info("best practices applied", observability.Strings("applied_practices", practiceOutcome.AppliedPracticeIDs))

	sctx, end = s.stage(ctx, StageModelAdapting, attribute.String("provider", adapter.Info().Provider))
	adapted := s.adapt(sctx, adapter, practiceOutcome.Text, req, analysis)
	end()

	finalText := adapted.Text

	_, end = s.stage(ctx, StageSuggestionGenerating)
	validation := adapter.Validate(finalText)
	suggestions := MergeSuggestions(
		AnalysisSuggestions(analysis, adapter.Info().Provider),
		adapted.Suggestions,
		ValidationSuggestions(&validation),
	)
	end()

	sctx, end = s.stage(ctx, StageTokenEstimating)
	estimate := s.estimate(sctx, adapter, req.TargetModel, original, finalText)
	end()

	improvements := make([]Improvement, 0, len(ruleOutcome.Improvements)+len(practiceOutcome.Improvements)+len(adapted.Improvements))
	improvements = append(improvements, ruleOutcome.Improvements...)
	improvements = append(improvements, practiceOutcome.Improvements...)
	improvements = append(improvements, adapted.Improvements...)

	appliedRules := make([]string, 0, len(ruleOutcome.AppliedRuleIDs)+len(adapted.AppliedRules))
	appliedRules = append(appliedRules, ruleOutcome.AppliedRuleIDs...)
	appliedRules = append(appliedRules, adapted.AppliedRules...)

	_, end = s.stage(ctx, StageScoringConfidence)
	confidence := ScoreConfidence(len(appliedRules), len(practiceOutcome.AppliedPracticeIDs), improvements, analysis)
	end()

	_, end = s.stage(ctx, StageAssembled)
	result := &OptimizationResult{
		ID:               id.NewResult(),
		OriginalPrompt:   original,
		OptimizedPrompt:  finalText,
		Improvements:     improvements,
		Confidence:       confidence,
		ModelConfidence:  adapted.Confidence,
		AppliedRules:     appliedRules,
		AppliedPractices: practiceOutcome.AppliedPracticeIDs,
		Suggestions:      suggestions,
		TokenEstimate:    estimate,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
		ModelUsed:        req.TargetModel,
		Degraded:         adapted.Degraded,
		Analysis:         analysis,
		Validation:       &validation,
	}
	end()

	status := "success"
	if result.Degraded {
		status = "degraded"
	}
	observability.OptimizationsTotal.WithLabelValues(req.TargetModel, status).Inc()

	logger.Info("optimization completed",
		observability.String("result_id", result.ID),
		observability.Float64("confidence", result.Confidence),
		observability.Int("improvements", len(result.Improvements)),
		observability.Bool("degraded", result.Degraded),
		observability.Int64("processing_time_ms", result.ProcessingTimeMs),
	)

	if s.events != nil {
		s.events.Publish(ctx, EventOptimizationCompleted, map[string]interface{}{
			"result_id":         result.ID,
			"model":             result.ModelUsed,
			"level":             string(level),
			"confidence":        result.Confidence,
			"applied_rules":     len(result.AppliedRules),
			"applied_practices": len(result.AppliedPractices),
			"degraded":          result.Degraded,
			"token_delta":       result.TokenEstimate.Delta,
		})
	}

	return result, nil
}

// validate checks the request and resolves its adapter. Empty role and level
// default to user and basic.
func (s *OptimizerService) validate(ctx context.Context, req *OptimizationRequest) (ModelAdapter, Role, Level, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, "", "", NewValidationError("prompt", "Prompt cannot be empty")
	}

	if utf8.RuneCountInString(req.Prompt) > s.settings.MaxPromptRunes {
		return nil, "", "", NewValidationError("prompt", "Prompt is too long")
	}

	if strings.TrimSpace(req.TargetModel) == "" {
		return nil, "", "", &ValidationError{
			Field:   "target_model",
			Message: "Target model is required",
			Err:     ErrModelUnavailable,
		}
	}

	adapter, err := s.resolver.Resolve(ctx, req.TargetModel)
	if err != nil {
		return nil, "", "", &ValidationError{
			Field:   "target_model",
			Message: fmt.Sprintf("Model %s is not available", req.TargetModel),
			Err:     err,
		}
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}
	if !role.Valid() {
		return nil, "", "", NewValidationError("role", "Invalid message role: %s", req.Role)
	}

	level := req.Level
	if level == "" {
		level = LevelBasic
	}
	if !level.Valid() {
		return nil, "", "", NewValidationError("level", "Invalid optimization level: %s", req.Level)
	}

	return adapter, role, level, nil
}

// queryRules fetches candidates for the level ceiling and merges request
// overrides. A failing source yields only the overrides.
func (s *OptimizerService) queryRules(ctx context.Context, req *OptimizationRequest, level Level, analysis *PromptAnalysis) []OptimizationRule {
	logger := observability.FromContext(ctx)

	query := RuleQuery{
		ActiveOnly:  true,
		Model:       req.TargetModel,
		MaxPriority: s.settings.Policy.MaxPriority(level),
		Categories:  analysis.Categories,
	}

	candidates, err := s.rules.FindRules(ctx, query)
	if err != nil {
		logger.Warn("rule query failed, continuing without repository rules", observability.Error(err))
		candidates = nil
	}

	merged := MergeOverrides(candidates, req.RuleOverrides, req.TargetModel)
	logger.Debug("rules queried",
		observability.Int("repository_rules", len(candidates)),
		observability.Int("overrides", len(req.RuleOverrides)),
		observability.Int("max_priority", query.MaxPriority),
	)
	return merged
}

// adapt runs the adapter and degrades to text on any adapter fault.
func (s *OptimizerService) adapt(
	ctx context.Context,
	adapter ModelAdapter,
	text string,
	req *OptimizationRequest,
	analysis *PromptAnalysis,
) (result *AdapterResult) {
	logger := observability.FromContext(ctx)

	fallback := func(reason error) *AdapterResult {
		logger.Warn("model adapter failed, keeping best-practices text", observability.Error(reason))
		return &AdapterResult{
			Text:         text,
			AppliedRules: []string{},
			Improvements: []Improvement{},
			Confidence:   confidenceMin,
			Degraded:     true,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			result = fallback(fmt.Errorf("adapter panic: %v", r))
		}
	}()

	out, err := adapter.Optimize(ctx, &AdapterRequest{Text: text, Request: req, Analysis: analysis})
	if err != nil {
		return fallback(err)
	}
	if out == nil {
		return fallback(errors.New("adapter returned no result"))
	}
	if out.Degraded {
		logger.Warn("model adapter degraded, using adapter input text")
	}
	return out
}

// estimate counts tokens with the adapter, falling back to runes/4.
func (s *OptimizerService) estimate(ctx context.Context, adapter ModelAdapter, model, original, optimized string) TokenEstimate {
	count := func(text string) int {
		n, err := adapter.EstimateTokens(text)
		if err != nil {
			observability.FromContext(ctx).Warn("token estimation failed, using character heuristic", observability.Error(err))
			return FallbackTokens(text)
		}
		return n
	}

	before := count(original)
	after := count(optimized)

	estimate := TokenEstimate{
		OriginalTokens:  before,
		OptimizedTokens: after,
		Delta:           after - before,
	}

	if s.costs != nil {
		estimate.Cost = s.costs.Estimate(ctx, model, before, after)
	}
	return estimate
}

// FallbackTokens estimates tokens as ceil(runes/4).
func FallbackTokens(text string) int {
	return (utf8.RuneCountInString(text) + charsPerToken - 1) / charsPerToken
}
