package base_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptsmith/internal/provider/base"
)

func TestRemoteConfig_Enabled(t *testing.T) {
	require.False(t, base.RemoteConfig{}.Enabled())
	require.True(t, base.RemoteConfig{APIKey: "k"}.Enabled())
}

func TestRemoteCaller_Call(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the trimmed output", func(t *testing.T) {
		caller := base.NewRemoteCaller("test", base.RemoteConfig{Timeout: 1})

		out, err := caller.Call(ctx, func(context.Context) (string, error) {
			return "  rewritten \n", nil
		})

		require.NoError(t, err)
		require.Equal(t, "rewritten", out)
	})

	t.Run("should retry up to the configured count", func(t *testing.T) {
		caller := base.NewRemoteCaller("test", base.RemoteConfig{MaxRetries: 2}).WithBackoff(time.Millisecond)
		calls := 0

		_, err := caller.Call(ctx, func(context.Context) (string, error) {
			calls++
			return "", errors.New("boom")
		})

		require.Error(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("should succeed after a transient failure", func(t *testing.T) {
		caller := base.NewRemoteCaller("test", base.RemoteConfig{MaxRetries: 1}).WithBackoff(time.Millisecond)
		calls := 0

		out, err := caller.Call(ctx, func(context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("temporary")
			}
			return "ok", nil
		})

		require.NoError(t, err)
		require.Equal(t, "ok", out)
	})

	t.Run("should treat empty output as a failure", func(t *testing.T) {
		caller := base.NewRemoteCaller("test", base.RemoteConfig{})

		_, err := caller.Call(ctx, func(context.Context) (string, error) {
			return "  ", nil
		})

		require.ErrorIs(t, err, base.ErrEmptyRewrite)
	})

	t.Run("should apply the per-attempt timeout", func(t *testing.T) {
		caller := base.NewRemoteCaller("test", base.RemoteConfig{Timeout: 1})

		_, err := caller.Call(ctx, func(ctx context.Context) (string, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			require.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
			return "", ctx.Err()
		})

		require.ErrorIs(t, err, base.ErrEmptyRewrite)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		caller := base.NewRemoteCaller("test", base.RemoteConfig{MaxRetries: 5}).WithBackoff(time.Hour)
		cancelled, cancel := context.WithCancel(ctx)
		calls := 0

		_, err := caller.Call(cancelled, func(context.Context) (string, error) {
			calls++
			cancel()
			return "", errors.New("boom")
		})

		require.Error(t, err)
		require.Equal(t, 1, calls)
	})
}
