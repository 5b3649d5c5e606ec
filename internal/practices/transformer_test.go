package practices_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptsmith/internal/analyzer"
	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/practices"
)

func TestFamily(t *testing.T) {
	tests := []struct {
		model  string
		family string
	}{
		{model: "gpt-4o", family: practices.FamilyOpenAI},
		{model: "o1-mini", family: practices.FamilyOpenAI},
		{model: "o3", family: practices.FamilyOpenAI},
		{model: "claude-3-opus", family: practices.FamilyAnthropic},
		{model: "deepseek-coder", family: practices.FamilyDeepSeek},
		{model: "Gemini-1.5-pro", family: practices.FamilyGemini},
		{model: "echo", family: ""},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			require.Equal(t, tt.family, practices.Family(tt.model))
		})
	}
}

func TestTransformer_Practices(t *testing.T) {
	transformer := practices.NewTransformer()

	t.Run("should run family practices before universal ones", func(t *testing.T) {
		ids := practiceIDs(transformer.Practices("claude-3-haiku"))

		require.Equal(t, []string{
			"claude-xml-tags", "claude-thinking",
			"role-definition", "thinking-process", "explicit-constraints", "audience",
		}, ids)
	})

	t.Run("should run only universal practices for unknown families", func(t *testing.T) {
		require.Len(t, transformer.Practices("echo"), 4)
	})
}

func practiceIDs(ps []practices.Practice) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestTransformer_Apply(t *testing.T) {
	ctx := context.Background()
	transformer := practices.NewTransformer()

	t.Run("should add a role definition when none is present", func(t *testing.T) {
		analysis := &domain.PromptAnalysis{
			Categories:       []domain.PromptCategory{domain.CategoryTechnical},
			Complexity:       domain.ComplexitySimple,
			SpecificityScore: 0.9,
		}

		got := transformer.Apply(ctx, "Write a Go function that reverses a string", "echo", domain.RoleUser, analysis)

		require.Equal(t, []string{"role-definition"}, got.AppliedPracticeIDs)
		require.True(t, strings.HasPrefix(got.Text, "You are an experienced software engineer.\n\n"))
		require.Equal(t, "practice:role-definition", got.Improvements[0].Source)
		require.NotEmpty(t, got.Improvements[0].Rationale)
	})

	t.Run("should not add a role for assistant messages or existing roles", func(t *testing.T) {
		analysis := &domain.PromptAnalysis{Complexity: domain.ComplexitySimple, SpecificityScore: 0.9}

		assistant := transformer.Apply(ctx, "Here is the summary", "echo", domain.RoleAssistant, analysis)
		require.Empty(t, assistant.AppliedPracticeIDs)

		existing := transformer.Apply(ctx, "You are a poet. Write a haiku", "echo", domain.RoleUser, analysis)
		require.Empty(t, existing.AppliedPracticeIDs)
	})

	t.Run("should add a thinking directive only to complex prompts without reasoning words", func(t *testing.T) {
		complexAnalysis := &domain.PromptAnalysis{Complexity: domain.ComplexityComplex, SpecificityScore: 0.9}

		got := transformer.Apply(ctx, "You are an architect. Design the system", "echo", domain.RoleUser, complexAnalysis)
		require.Equal(t, []string{"thinking-process"}, got.AppliedPracticeIDs)

		reasoned := transformer.Apply(ctx, "You are an architect. Think about the design", "echo", domain.RoleUser, complexAnalysis)
		require.Empty(t, reasoned.AppliedPracticeIDs)
	})

	t.Run("should use chinese phrasing for chinese prompts", func(t *testing.T) {
		analysis := &domain.PromptAnalysis{
			Language:         "zh",
			Complexity:       domain.ComplexitySimple,
			SpecificityScore: 0.2,
			Categories:       []domain.PromptCategory{domain.CategoryCreative},
		}

		got := transformer.Apply(ctx, "写一首关于秋天的诗", "echo", domain.RoleUser, analysis)

		require.Equal(t, []string{"role-definition", "explicit-constraints"}, got.AppliedPracticeIDs)
		require.True(t, strings.HasPrefix(got.Text, "你是一名富有创造力的作家。"))
		require.Contains(t, got.Text, "约束条件")
	})

	t.Run("should wrap claude prompts in xml sections", func(t *testing.T) {
		analysis := &domain.PromptAnalysis{Complexity: domain.ComplexitySimple, SpecificityScore: 0.9}
		text := "You are an editor. Proofread the text below.\n\nThe quick brown fox jumps."

		got := transformer.Apply(ctx, text, "claude-3-opus", domain.RoleUser, analysis)

		require.Equal(t, []string{"claude-xml-tags"}, got.AppliedPracticeIDs)
		require.Equal(t,
			"<instructions>\nYou are an editor. Proofread the text below.\n</instructions>\n\n<context>\nThe quick brown fox jumps.\n</context>",
			got.Text)
		require.Equal(t, domain.ImpactHigh, got.Improvements[0].Impact)
	})

	t.Run("should apply the educational audience practice", func(t *testing.T) {
		analysis := &domain.PromptAnalysis{
			Complexity:       domain.ComplexitySimple,
			SpecificityScore: 0.9,
			Categories:       []domain.PromptCategory{domain.CategoryEducational},
		}

		got := transformer.Apply(ctx, "You are a tutor. Explain photosynthesis", "echo", domain.RoleUser, analysis)

		require.Equal(t, []string{"audience"}, got.AppliedPracticeIDs)
	})

	t.Run("should thread before and after snapshots", func(t *testing.T) {
		analysis := &domain.PromptAnalysis{Complexity: domain.ComplexityComplex, SpecificityScore: 0.2}
		text := "Design a data pipeline"

		got := transformer.Apply(ctx, text, "gpt-4o", domain.RoleUser, analysis)

		require.NotEmpty(t, got.Improvements)
		require.Equal(t, text, got.Improvements[0].Before)
		for i := 1; i < len(got.Improvements); i++ {
			require.Equal(t, got.Improvements[i-1].After, got.Improvements[i].Before)
		}
		require.Equal(t, got.Improvements[len(got.Improvements)-1].After, got.Text)
	})
}

func TestTransformer_Idempotent(t *testing.T) {
	ctx := context.Background()
	transformer := practices.NewTransformer()
	a := analyzer.New()

	prompts := []string{
		"Design a distributed rate limiter for an API gateway that handles bursts, multiple regions, failover and quota sharing between tenants",
		"请设计一个分布式限流系统，需要支持多个地区、故障转移以及租户之间的配额共享，并且说明每个组件的职责",
		"Explain how vaccines work to a class",
	}
	models := []string{"gpt-4o", "claude-3-opus", "deepseek-chat", "gemini-1.5-pro", "echo"}

	for _, model := range models {
		for _, prompt := range prompts {
			analysis := a.Analyze(prompt, domain.AnalysisContext{})

			first := transformer.Apply(ctx, prompt, model, domain.RoleUser, analysis)
			second := transformer.Apply(ctx, first.Text, model, domain.RoleUser, analysis)

			require.Empty(t, second.AppliedPracticeIDs, "model %s prompt %q reapplied %v", model, prompt, second.AppliedPracticeIDs)
			require.Equal(t, first.Text, second.Text)
		}
	}
}
