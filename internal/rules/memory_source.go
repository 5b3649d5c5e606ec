package rules

import (
	"context"
	"sync"

	"github.com/davidbz/promptsmith/internal/domain"
)

// MemorySource is a domain.RuleSource over an in-process rule list.
type MemorySource struct {
	mu    sync.RWMutex
	rules []domain.OptimizationRule
}

// NewMemorySource creates a source serving a copy of rules.
func NewMemorySource(rules []domain.OptimizationRule) *MemorySource {
	cp := make([]domain.OptimizationRule, len(rules))
	copy(cp, rules)
	return &MemorySource{rules: cp}
}

// FindRules returns the rules matching query in insertion order.
func (s *MemorySource) FindRules(_ context.Context, query domain.RuleQuery) ([]domain.OptimizationRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.OptimizationRule, 0, len(s.rules))
	for i := range s.rules {
		if query.Matches(&s.rules[i]) {
			out = append(out, s.rules[i])
		}
	}
	return out, nil
}

// Upsert replaces the rule with the same id or appends it.
func (s *MemorySource) Upsert(rule domain.OptimizationRule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].ID == rule.ID {
			s.rules[i] = rule
			return
		}
	}
	s.rules = append(s.rules, rule)
}
