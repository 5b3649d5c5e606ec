package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptsmith/internal/cache"
	"github.com/davidbz/promptsmith/internal/cache/memory"
	"github.com/davidbz/promptsmith/internal/domain"
)

type countingOptimizer struct {
	calls    int
	degraded bool
	err      error
}

func (c *countingOptimizer) Optimize(_ context.Context, req *domain.OptimizationRequest) (*domain.OptimizationResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &domain.OptimizationResult{
		ID:              "opt_test",
		OriginalPrompt:  req.Prompt,
		OptimizedPrompt: req.Prompt + "!",
		Degraded:        c.degraded,
	}, nil
}

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) Get(_ context.Context, _ string) (*domain.OptimizationResult, error) {
	return nil, errors.New("connection reset")
}

func (brokenStore) Set(_ context.Context, _ string, _ *domain.OptimizationResult, _ time.Duration) error {
	return errors.New("connection reset")
}

func newCached(t *testing.T, next domain.Optimizer, store domain.ResultCache) *cache.Optimizer {
	t.Helper()
	o, err := cache.NewOptimizer(next, store, "test", time.Minute)
	require.NoError(t, err)
	return o
}

func TestOptimizer_Optimize(t *testing.T) {
	ctx := context.Background()
	req := &domain.OptimizationRequest{Prompt: "hello", TargetModel: "gpt-4"}

	t.Run("should serve the second identical request from the cache", func(t *testing.T) {
		store, err := memory.NewStore(8)
		require.NoError(t, err)
		next := &countingOptimizer{}
		o := newCached(t, next, store)

		first, err := o.Optimize(ctx, req)
		require.NoError(t, err)
		second, err := o.Optimize(ctx, req)
		require.NoError(t, err)

		require.Equal(t, 1, next.calls)
		require.Equal(t, first.OptimizedPrompt, second.OptimizedPrompt)
		require.False(t, first.CacheHit)
		require.True(t, second.CacheHit)
	})

	t.Run("should not cache degraded results", func(t *testing.T) {
		store, err := memory.NewStore(8)
		require.NoError(t, err)
		next := &countingOptimizer{degraded: true}
		o := newCached(t, next, store)

		_, err = o.Optimize(ctx, req)
		require.NoError(t, err)
		_, err = o.Optimize(ctx, req)
		require.NoError(t, err)

		require.Equal(t, 2, next.calls)
	})

	t.Run("should pass validation errors through", func(t *testing.T) {
		store, err := memory.NewStore(8)
		require.NoError(t, err)
		next := &countingOptimizer{err: domain.NewValidationError("prompt", "Prompt cannot be empty")}
		o := newCached(t, next, store)

		_, err = o.Optimize(ctx, req)

		require.ErrorIs(t, err, domain.ErrValidation)
		require.Zero(t, store.Len())
	})

	t.Run("should ignore cache faults", func(t *testing.T) {
		next := &countingOptimizer{}
		o := newCached(t, next, brokenStore{})

		result, err := o.Optimize(ctx, req)

		require.NoError(t, err)
		require.Equal(t, "hello!", result.OptimizedPrompt)
	})

	t.Run("should reject nil dependencies", func(t *testing.T) {
		_, err := cache.NewOptimizer(nil, brokenStore{}, "test", time.Minute)
		require.Error(t, err)

		_, err = cache.NewOptimizer(&countingOptimizer{}, nil, "test", time.Minute)
		require.Error(t, err)
	})
}

func TestKey(t *testing.T) {
	base := domain.OptimizationRequest{Prompt: "hello", TargetModel: "gpt-4"}

	t.Run("should hash defaults like explicit values", func(t *testing.T) {
		explicit := base
		explicit.Role = domain.RoleUser
		explicit.Level = domain.LevelBasic

		a, err := cache.Key(&base)
		require.NoError(t, err)
		b, err := cache.Key(&explicit)
		require.NoError(t, err)

		require.Equal(t, a, b)
	})

	t.Run("should separate requests that differ in any input", func(t *testing.T) {
		variants := []func(r *domain.OptimizationRequest){
			func(r *domain.OptimizationRequest) { r.Prompt = "hello!" },
			func(r *domain.OptimizationRequest) { r.TargetModel = "gpt-4o" },
			func(r *domain.OptimizationRequest) { r.Role = domain.RoleSystem },
			func(r *domain.OptimizationRequest) { r.Level = domain.LevelExpert },
			func(r *domain.OptimizationRequest) { r.SystemPrompt = "be brief" },
			func(r *domain.OptimizationRequest) {
				r.RuleOverrides = []domain.OptimizationRule{{ID: "x", Active: true}}
			},
		}

		baseKey, err := cache.Key(&base)
		require.NoError(t, err)

		for _, mutate := range variants {
			req := base
			mutate(&req)
			key, err := cache.Key(&req)
			require.NoError(t, err)
			require.NotEqual(t, baseKey, key)
		}
	})
}
