// Package rules applies prioritized, conditionally gated rewrite rules to prompt text.
package rules

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/id"
	"github.com/davidbz/promptsmith/internal/observability"
)

const patternCacheSize = 256

// Rule log statuses.
const (
	StatusApplied        = "applied"
	StatusConditionFalse = "condition_false"
	StatusNoChange       = "no_change"
	StatusFailed         = "failed"
)

// RuleError is a failure confined to a single rule.
type RuleError struct {
	RuleID string
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.RuleID, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Engine implements domain.RuleEngine.
type Engine struct {
	strategies map[domain.RuleCategory]strategy
	patterns   *lru.Cache[string, *regexp.Regexp]
}

// NewEngine creates a rules engine with the category strategies installed.
func NewEngine() (*Engine, error) {
	patterns, err := lru.New[string, *regexp.Regexp](patternCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern cache: %w", err)
	}

	return &Engine{
		strategies: defaultStrategies(),
		patterns:   patterns,
	}, nil
}

// Apply runs rules in priority-descending order, threading the text through each
// applied rule. A failing rule is logged and skipped.
func (e *Engine) Apply(
	ctx context.Context,
	text string,
	rules []domain.OptimizationRule,
	analysis *domain.PromptAnalysis,
) domain.RuleOutcome {
	logger := observability.FromContext(ctx)

	ordered := make([]domain.OptimizationRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	outcome := domain.RuleOutcome{
		Text:           text,
		AppliedRuleIDs: []string{},
		Improvements:   []domain.Improvement{},
		Log:            make([]domain.RuleLogEntry, 0, len(ordered)),
	}

	for i := range ordered {
		rule := &ordered[i]

		ch, status, err := e.applyOne(rule, outcome.Text, analysis)
		observability.RuleApplicationsTotal.WithLabelValues(string(rule.Category), status).Inc()

		switch status {
		case StatusFailed:
			logger.Warn("rule failed",
				observability.String("rule_id", rule.ID),
				observability.Error(err),
			)
			outcome.Log = append(outcome.Log, domain.RuleLogEntry{RuleID: rule.ID, Status: status, Message: err.Error()})
			continue

		case StatusConditionFalse, StatusNoChange:
			logger.Debug("rule skipped",
				observability.String("rule_id", rule.ID),
				observability.String("status", status),
			)
			outcome.Log = append(outcome.Log, domain.RuleLogEntry{RuleID: rule.ID, Status: status})
			continue
		}

		description := ch.description
		if description == "" {
			description = rule.Description
		}

		outcome.Improvements = append(outcome.Improvements, domain.Improvement{
			ID:          id.NewImprovement(),
			Source:      "rule:" + rule.ID,
			Category:    string(rule.Category),
			Description: description,
			Impact:      ch.impact,
			Before:      outcome.Text,
			After:       ch.text,
			Rationale:   ch.rationale,
		})
		outcome.AppliedRuleIDs = append(outcome.AppliedRuleIDs, rule.ID)
		outcome.Log = append(outcome.Log, domain.RuleLogEntry{RuleID: rule.ID, Status: status, Message: description})
		outcome.Text = ch.text

		logger.Debug("rule applied",
			observability.String("rule_id", rule.ID),
			observability.String("impact", string(ch.impact)),
		)
	}

	return outcome
}

// applyOne evaluates and executes a single rule, converting panics into a RuleError.
func (e *Engine) applyOne(
	rule *domain.OptimizationRule,
	text string,
	analysis *domain.PromptAnalysis,
) (ch change, status string, err error) {
	defer func() {
		if r := recover(); r != nil {
			ch = change{}
			status = StatusFailed
			err = &RuleError{RuleID: rule.ID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	ok, err := Evaluate(rule.Condition, analysis, text)
	if err != nil {
		return change{}, StatusFailed, &RuleError{RuleID: rule.ID, Err: err}
	}
	if !ok {
		return change{}, StatusConditionFalse, nil
	}

	run, found := e.strategies[rule.Category]
	if !found {
		run = genericStrategy
	}

	ch, applied, err := run(e, rule, text, analysis)
	if err != nil {
		return change{}, StatusFailed, &RuleError{RuleID: rule.ID, Err: err}
	}
	if !applied || ch.text == text {
		return change{}, StatusNoChange, nil
	}

	return ch, StatusApplied, nil
}
