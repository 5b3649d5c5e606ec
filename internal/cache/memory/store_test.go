package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptsmith/internal/cache/memory"
	"github.com/davidbz/promptsmith/internal/domain"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("should miss an unknown key", func(t *testing.T) {
		store, err := memory.NewStore(2)
		require.NoError(t, err)

		_, err = store.Get(ctx, "missing")

		require.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("should expire entries after their ttl", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		store, err := memory.NewStore(2)
		require.NoError(t, err)
		store.WithClock(func() time.Time { return now })

		require.NoError(t, store.Set(ctx, "k", &domain.OptimizationResult{ID: "opt_1"}, time.Minute))

		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "opt_1", got.ID)

		now = now.Add(2 * time.Minute)
		_, err = store.Get(ctx, "k")
		require.ErrorIs(t, err, domain.ErrCacheMiss)
		require.Zero(t, store.Len())
	})

	t.Run("should evict the least recently used entry", func(t *testing.T) {
		store, err := memory.NewStore(2)
		require.NoError(t, err)

		require.NoError(t, store.Set(ctx, "a", &domain.OptimizationResult{ID: "a"}, 0))
		require.NoError(t, store.Set(ctx, "b", &domain.OptimizationResult{ID: "b"}, 0))
		_, err = store.Get(ctx, "a")
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, "c", &domain.OptimizationResult{ID: "c"}, 0))

		_, err = store.Get(ctx, "b")
		require.ErrorIs(t, err, domain.ErrCacheMiss)
		_, err = store.Get(ctx, "a")
		require.NoError(t, err)
	})

	t.Run("should not share the stored result with callers", func(t *testing.T) {
		store, err := memory.NewStore(2)
		require.NoError(t, err)
		result := &domain.OptimizationResult{OptimizedPrompt: "v1"}

		require.NoError(t, store.Set(ctx, "k", result, 0))
		result.OptimizedPrompt = "v2"

		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "v1", got.OptimizedPrompt)
	})

	t.Run("should not share slices between reads", func(t *testing.T) {
		store, err := memory.NewStore(2)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, "k", &domain.OptimizationResult{
			AppliedRules: []string{"clarity-vague-terms"},
			Improvements: []domain.Improvement{{Description: "original"}},
			Analysis:     &domain.PromptAnalysis{Categories: []domain.PromptCategory{domain.CategoryTechnical}},
		}, 0))

		first, err := store.Get(ctx, "k")
		require.NoError(t, err)
		first.AppliedRules[0] = "mutated"
		first.Improvements[0].Description = "mutated"
		first.Analysis.Categories[0] = domain.CategoryCreative

		second, err := store.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, []string{"clarity-vague-terms"}, second.AppliedRules)
		require.Equal(t, "original", second.Improvements[0].Description)
		require.Equal(t, []domain.PromptCategory{domain.CategoryTechnical}, second.Analysis.Categories)
	})

	t.Run("should reject a nil result", func(t *testing.T) {
		store, err := memory.NewStore(2)
		require.NoError(t, err)

		require.Error(t, store.Set(ctx, "k", nil, 0))
	})
}
