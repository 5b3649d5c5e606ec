// Package cache memoises optimization results behind domain.Optimizer.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/observability"
)

const keyPrefix = "promptsmith:result:"

// Optimizer serves repeated requests from a domain.ResultCache. Cache faults are
// logged and never fail a request.
type Optimizer struct {
	next    domain.Optimizer
	store   domain.ResultCache
	backend string
	ttl     time.Duration
}

// NewOptimizer wraps next with store. backend labels cache metrics.
func NewOptimizer(next domain.Optimizer, store domain.ResultCache, backend string, ttl time.Duration) (*Optimizer, error) {
	if next == nil {
		return nil, errors.New("optimizer cannot be nil")
	}
	if store == nil {
		return nil, errors.New("result cache cannot be nil")
	}

	return &Optimizer{
		next:    next,
		store:   store,
		backend: backend,
		ttl:     ttl,
	}, nil
}

// Optimize returns a cached result for an identical request or delegates and stores
// the fresh one. Degraded results are not stored.
func (o *Optimizer) Optimize(ctx context.Context, req *domain.OptimizationRequest) (*domain.OptimizationResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)

	key, err := Key(req)
	if err != nil {
		logger.Warn("failed to build cache key", observability.Error(err))
		return o.next.Optimize(ctx, req)
	}

	cached, err := o.store.Get(ctx, key)
	switch {
	case err == nil:
		observability.CacheLookupsTotal.WithLabelValues(o.backend, "hit").Inc()
		logger.Info("result cache hit", observability.String("cache_key", key))
		cached.CacheHit = true
		return cached, nil
	case errors.Is(err, domain.ErrCacheMiss):
		observability.CacheLookupsTotal.WithLabelValues(o.backend, "miss").Inc()
	default:
		observability.CacheLookupsTotal.WithLabelValues(o.backend, "error").Inc()
		logger.Warn("result cache lookup failed", observability.Error(err))
	}

	result, err := o.next.Optimize(ctx, req)
	if err != nil {
		return nil, err
	}

	if result.Degraded {
		return result, nil
	}

	if setErr := o.store.Set(ctx, key, result, o.ttl); setErr != nil {
		logger.Warn("failed to store result", observability.Error(setErr), observability.String("cache_key", key))
	}
	return result, nil
}

// fingerprint lists every request field that influences the result.
type fingerprint struct {
	Model        string                    `json:"model"`
	Role         domain.Role               `json:"role"`
	Level        domain.Level              `json:"level"`
	SystemPrompt string                    `json:"system_prompt"`
	Prompt       string                    `json:"prompt"`
	Overrides    []domain.OptimizationRule `json:"overrides"`
}

// Key derives the cache key of req. Empty role and level hash like their defaults.
func Key(req *domain.OptimizationRequest) (string, error) {
	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	level := req.Level
	if level == "" {
		level = domain.LevelBasic
	}

	data, err := json.Marshal(fingerprint{
		Model:        req.TargetModel,
		Role:         role,
		Level:        level,
		SystemPrompt: req.SystemPrompt,
		Prompt:       req.Prompt,
		Overrides:    req.RuleOverrides,
	})
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}
