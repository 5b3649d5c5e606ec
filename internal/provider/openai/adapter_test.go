package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/provider/base"
	"github.com/davidbz/promptsmith/internal/provider/openai"
)

func request(text string) *domain.AdapterRequest {
	return &domain.AdapterRequest{
		Text:     text,
		Request:  &domain.OptimizationRequest{TargetModel: "gpt-4o", Prompt: text},
		Analysis: &domain.PromptAnalysis{SpecificityScore: 0.9},
	}
}

func upstream(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewAdapter(t *testing.T) {
	adapter, err := openai.NewAdapter(base.RemoteConfig{})

	require.NoError(t, err)
	require.Equal(t, "openai", adapter.Info().Provider)
	require.Equal(t, openai.SupportedModels(), adapter.SupportedModels())
	require.False(t, adapter.CheckConnection(context.Background()))
}

func TestAdapter_IsModelSupported(t *testing.T) {
	adapter, err := openai.NewAdapter(base.RemoteConfig{})
	require.NoError(t, err)

	tests := []struct {
		name      string
		model     string
		supported bool
	}{
		{name: "gpt-4", model: "gpt-4", supported: true},
		{name: "gpt-4o-mini", model: "gpt-4o-mini", supported: true},
		{name: "gpt-3.5-turbo", model: "gpt-3.5-turbo", supported: true},
		{name: "claude", model: "claude-3-opus", supported: false},
		{name: "empty", model: "", supported: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.supported, adapter.IsModelSupported(tt.model))
		})
	}
}

func TestAdapter_Optimize(t *testing.T) {
	ctx := context.Background()

	t.Run("should apply only local rules without an api key", func(t *testing.T) {
		adapter, err := openai.NewAdapter(base.RemoteConfig{})
		require.NoError(t, err)

		req := request("Summarize the report")
		req.Analysis.SpecificityScore = 0.3

		res, err := adapter.Optimize(ctx, req)

		require.NoError(t, err)
		require.Equal(t, []string{"openai-output-length"}, res.AppliedRules)
		require.Contains(t, res.Text, "Answer length:")
		require.Equal(t, "adapter:openai:openai-output-length", res.Improvements[0].Source)
		require.False(t, res.Degraded)
	})

	t.Run("should use the upstream rewrite", func(t *testing.T) {
		server := upstream(t, http.StatusOK, "Summarize the quarterly report in five bullet points.")
		adapter, err := openai.NewAdapter(base.RemoteConfig{APIKey: "k", BaseURL: server.URL + "/"})
		require.NoError(t, err)

		res, err := adapter.Optimize(ctx, request("Summarize the report"))

		require.NoError(t, err)
		require.Equal(t, "Summarize the quarterly report in five bullet points.", res.Text)
		require.False(t, res.Degraded)
		require.Len(t, res.Improvements, 1)
		require.Equal(t, "model", res.Improvements[0].Category)
		require.InDelta(t, 0.8, res.Confidence, 1e-9)
	})

	t.Run("should fall back to the input when upstream fails", func(t *testing.T) {
		server := upstream(t, http.StatusInternalServerError, "")
		adapter, err := openai.NewAdapter(base.RemoteConfig{APIKey: "k", BaseURL: server.URL + "/"})
		require.NoError(t, err)

		req := request("Summarize the report")
		req.Analysis.SpecificityScore = 0.3

		res, err := adapter.Optimize(ctx, req)

		require.NoError(t, err)
		require.Equal(t, "Summarize the report", res.Text)
		require.True(t, res.Degraded)
		require.Empty(t, res.AppliedRules)
		require.Empty(t, res.Improvements)
	})

	t.Run("should reject a nil request", func(t *testing.T) {
		adapter, err := openai.NewAdapter(base.RemoteConfig{})
		require.NoError(t, err)

		res, err := adapter.Optimize(ctx, nil)
		require.Error(t, err)
		require.Nil(t, res)
	})
}

func TestAdapter_EstimateTokens(t *testing.T) {
	adapter, err := openai.NewAdapter(base.RemoteConfig{})
	require.NoError(t, err)

	tokens, err := adapter.EstimateTokens("abcdefgh")
	require.NoError(t, err)
	require.Equal(t, 2, tokens)

	tokens, err = adapter.EstimateTokens("你好世界")
	require.NoError(t, err)
	require.Equal(t, 2, tokens)
}

func TestAdapter_FormatForModel(t *testing.T) {
	adapter, err := openai.NewAdapter(base.RemoteConfig{})
	require.NoError(t, err)

	out := adapter.FormatForModel(domain.StructuredPrompt{Task: "Summarize", Constraints: []string{"short"}})

	require.Equal(t, "### Task\nSummarize\n\n### Constraints\n- short", out)
}

func TestRegisterPricing(t *testing.T) {
	ctx := context.Background()
	registry := domain.NewInMemoryPricingRegistry()

	require.NoError(t, openai.RegisterPricing(ctx, registry))

	for _, model := range openai.SupportedModels() {
		_, err := registry.GetPricing(ctx, model)
		require.NoError(t, err, model)
	}
}
