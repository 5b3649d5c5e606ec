package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptsmith/internal/cache/redis"
	"github.com/davidbz/promptsmith/internal/domain"
)

func sampleResult() *domain.OptimizationResult {
	return &domain.OptimizationResult{
		ID:              "opt_abc",
		OriginalPrompt:  "写一个好的文章",
		OptimizedPrompt: "写一个高质量的文章",
		Improvements: []domain.Improvement{
			{ID: "imp_1", Source: "rule:clarity-vague-terms", Impact: domain.ImpactHigh},
		},
		Confidence:   0.75,
		AppliedRules: []string{"clarity-vague-terms"},
		TokenEstimate: domain.TokenEstimate{
			OriginalTokens:  4,
			OptimizedTokens: 5,
			Delta:           1,
			Cost:            &domain.CostEstimate{OriginalCost: 0.1, OptimizedCost: 0.2, Currency: domain.Currency},
		},
		ModelUsed: "gpt-4",
	}
}

func TestEncodeDecode(t *testing.T) {
	t.Run("should restore the result", func(t *testing.T) {
		data, err := redis.Encode(sampleResult())
		require.NoError(t, err)

		got, err := redis.Decode(data)

		require.NoError(t, err)
		require.Equal(t, sampleResult(), got)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := redis.Decode([]byte{0xc1})
		require.Error(t, err)
	})
}

func TestNewStore_NilClient(t *testing.T) {
	_, err := redis.NewStore(nil)
	require.Error(t, err)
}

// TestStore_Redis runs against a live server when REDIS_ADDR is set.
func TestStore_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	store, err := redis.NewStore(client)
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	key := "promptsmith:test:" + time.Now().Format(time.RFC3339Nano)
	t.Cleanup(func() { client.Del(ctx, key) })

	_, err = store.Get(ctx, key)
	require.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, store.Set(ctx, key, sampleResult(), time.Minute))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "写一个高质量的文章", got.OptimizedPrompt)
}
