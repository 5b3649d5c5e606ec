package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/provider/registry"
)

// stubAdapter overrides the identity methods a registry needs; every other
// method panics through the nil embedded interface.
type stubAdapter struct {
	domain.ModelAdapter
	provider string
	models   []string
}

func (s *stubAdapter) Info() domain.ModelInfo {
	return domain.ModelInfo{Name: s.provider, Provider: s.provider}
}

func (s *stubAdapter) SupportedModels() []string {
	return s.models
}

func (s *stubAdapter) IsModelSupported(model string) bool {
	for _, m := range s.models {
		if m == model {
			return true
		}
	}
	return false
}

// prefixAdapter accepts any model starting with its prefix.
type prefixAdapter struct {
	stubAdapter
	prefix string
}

func (p *prefixAdapter) IsModelSupported(model string) bool {
	return len(model) >= len(p.prefix) && model[:len(p.prefix)] == p.prefix
}

func TestRegistry_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("should register adapter successfully", func(t *testing.T) {
		reg := registry.NewRegistry()

		err := reg.Register(ctx, &stubAdapter{provider: "openai", models: []string{"gpt-4"}})
		require.NoError(t, err)

		registered, err := reg.Get(ctx, "openai")
		require.NoError(t, err)
		require.Equal(t, "openai", registered.Info().Provider)
	})

	t.Run("should return error when adapter is nil", func(t *testing.T) {
		reg := registry.NewRegistry()

		err := reg.Register(ctx, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "adapter cannot be nil")
	})

	t.Run("should return error when provider name is empty", func(t *testing.T) {
		reg := registry.NewRegistry()

		err := reg.Register(ctx, &stubAdapter{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "provider name cannot be empty")
	})

	t.Run("should return error when adapter already registered", func(t *testing.T) {
		reg := registry.NewRegistry()

		require.NoError(t, reg.Register(ctx, &stubAdapter{provider: "openai"}))

		err := reg.Register(ctx, &stubAdapter{provider: "openai"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "already registered")
	})

	t.Run("should reject a model claimed by another adapter", func(t *testing.T) {
		reg := registry.NewRegistry()

		require.NoError(t, reg.Register(ctx, &stubAdapter{provider: "openai", models: []string{"gpt-4"}}))

		err := reg.Register(ctx, &stubAdapter{provider: "proxy", models: []string{"gpt-4"}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "already served by openai")

		names, err := reg.List(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"openai"}, names)
	})
}

func TestRegistry_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("should return error when provider name is empty", func(t *testing.T) {
		_, err := registry.NewRegistry().Get(ctx, "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "provider name cannot be empty")
	})

	t.Run("should return error when adapter not found", func(t *testing.T) {
		_, err := registry.NewRegistry().Get(ctx, "nonexistent")
		require.Error(t, err)
		require.Contains(t, err.Error(), "not found")
	})
}

func TestRegistry_List(t *testing.T) {
	ctx := context.Background()

	t.Run("should return empty list when no adapters registered", func(t *testing.T) {
		names, err := registry.NewRegistry().List(ctx)
		require.NoError(t, err)
		require.NotNil(t, names)
		require.Empty(t, names)
	})

	t.Run("should return sorted provider names", func(t *testing.T) {
		reg := registry.NewRegistry()
		for _, name := range []string{"gemini", "anthropic", "openai"} {
			require.NoError(t, reg.Register(ctx, &stubAdapter{provider: name}))
		}

		names, err := reg.List(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"anthropic", "gemini", "openai"}, names)
	})
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Run("should handle concurrent registrations safely", func(t *testing.T) {
		reg := registry.NewRegistry()
		ctx := context.Background()

		done := make(chan bool)

		for i := range 10 {
			go func(idx int) {
				_ = reg.Register(ctx, &stubAdapter{provider: string(rune('a' + idx))})
				done <- true
			}(i)
		}

		for range 10 {
			<-done
		}

		names, err := reg.List(ctx)
		require.NoError(t, err)
		require.Len(t, names, 10)
	})
}

func TestRegistry_GetByModel(t *testing.T) {
	ctx := context.Background()

	newRegistry := func(t *testing.T) *registry.Registry {
		t.Helper()
		reg := registry.NewRegistry()
		require.NoError(t, reg.Register(ctx, &stubAdapter{provider: "openai", models: []string{"gpt-4", "gpt-4o"}}))
		require.NoError(t, reg.Register(ctx, &stubAdapter{provider: "anthropic", models: []string{"claude-3-opus"}}))
		return reg
	}

	t.Run("should return the adapter that serves the model", func(t *testing.T) {
		reg := newRegistry(t)

		adapter, err := reg.GetByModel(ctx, "gpt-4o")
		require.NoError(t, err)
		require.Equal(t, "openai", adapter.Info().Provider)

		adapter, err = reg.GetByModel(ctx, "claude-3-opus")
		require.NoError(t, err)
		require.Equal(t, "anthropic", adapter.Info().Provider)
	})

	t.Run("should fall back to IsModelSupported for unlisted models", func(t *testing.T) {
		reg := newRegistry(t)
		require.NoError(t, reg.Register(ctx, &prefixAdapter{stubAdapter: stubAdapter{provider: "gemini"}, prefix: "gemini-"}))

		adapter, err := reg.GetByModel(ctx, "gemini-exp-1206")
		require.NoError(t, err)
		require.Equal(t, "gemini", adapter.Info().Provider)
	})

	t.Run("should return error when model is empty", func(t *testing.T) {
		_, err := newRegistry(t).GetByModel(ctx, "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "model cannot be empty")
	})

	t.Run("should return error when no adapter supports the model", func(t *testing.T) {
		_, err := newRegistry(t).GetByModel(ctx, "unsupported-model")
		require.Error(t, err)
		require.Contains(t, err.Error(), "no adapter found for model")
	})
}
