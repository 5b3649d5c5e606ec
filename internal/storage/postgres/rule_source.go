// Package postgres serves optimization rules from a Postgres table.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/observability"
	"github.com/davidbz/promptsmith/internal/rules"
)

// Querier is the subset of pgxpool.Pool used by RuleSource.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const findRulesSQL = `
	SELECT id, name, description, category,
	       COALESCE(applicable_models, '{}'), COALESCE(domains, '{}'),
	       condition, transform, priority, is_active
	FROM optimization_rules
	WHERE ($1::boolean = false OR is_active)
	  AND ($2::text = '' OR cardinality(applicable_models) = 0 OR $2 = ANY(applicable_models))
	  AND ($3::integer = 0 OR priority <= $3)
	  AND (cardinality($4::text[]) = 0 OR cardinality(domains) = 0 OR domains && $4)
	ORDER BY priority DESC, id`

// RuleSource implements domain.RuleSource over the optimization_rules table.
type RuleSource struct {
	db Querier
}

// NewRuleSource creates a rule source.
func NewRuleSource(db Querier) (*RuleSource, error) {
	if db == nil {
		return nil, errors.New("querier cannot be nil")
	}
	return &RuleSource{db: db}, nil
}

// Connect opens and pings a connection pool.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// FindRules implements domain.RuleSource.
func (s *RuleSource) FindRules(ctx context.Context, query domain.RuleQuery) ([]domain.OptimizationRule, error) {
	categories := make([]string, 0, len(query.Categories))
	for _, c := range query.Categories {
		categories = append(categories, string(c))
	}

	rows, err := s.db.Query(ctx, findRulesSQL, query.ActiveOnly, query.Model, query.MaxPriority, categories)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	logger := observability.FromContext(ctx)

	var out []domain.OptimizationRule
	for rows.Next() {
		var (
			rule        domain.OptimizationRule
			description *string
			category    string
			domains     []string
			condition   *string
			transform   []byte
		)

		if err := rows.Scan(
			&rule.ID,
			&rule.Name,
			&description,
			&category,
			&rule.ApplicableModels,
			&domains,
			&condition,
			&transform,
			&rule.Priority,
			&rule.Active,
		); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}

		if description != nil {
			rule.Description = *description
		}
		rule.Category = domain.RuleCategory(category)
		for _, d := range domains {
			rule.Domains = append(rule.Domains, domain.PromptCategory(d))
		}

		var conditionText string
		if condition != nil {
			conditionText = *condition
		}
		rule.Condition = rules.ParseCondition(conditionText)
		if rule.Condition.Kind == domain.ConditionInvalid {
			logger.Warn("rule has unparsable condition",
				observability.String("rule_id", rule.ID),
				observability.String("condition", conditionText),
			)
		}

		if len(transform) > 0 {
			if err := json.Unmarshal(transform, &rule.Transform); err != nil {
				logger.Warn("skipping rule with undecodable transform",
					observability.String("rule_id", rule.ID),
					observability.Error(err),
				)
				continue
			}
		}

		out = append(out, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}

	return out, nil
}
