package analyzer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptsmith/internal/analyzer"
	"github.com/davidbz/promptsmith/internal/domain"
)

func TestAnalyze_Empty(t *testing.T) {
	a := analyzer.New()

	got := a.Analyze("", domain.AnalysisContext{})

	require.Zero(t, got.WordCount)
	require.Zero(t, got.SentenceCount)
	require.InDelta(t, 0.5, got.StructureScore, 1e-9)
	require.InDelta(t, 0.7, got.ClarityScore, 1e-9)
	require.InDelta(t, 0.5, got.SpecificityScore, 1e-9)
	require.InDelta(t, 0.6, got.CompletenessScore, 1e-9)
	require.Equal(t, []domain.PromptCategory{domain.CategoryGeneral}, got.Categories)
	require.Equal(t, domain.ComplexitySimple, got.Complexity)
	require.Equal(t, "en", got.Language)
	require.Equal(t, "neutral", got.Tone)
	require.True(t, got.LacksContext)
	require.True(t, got.MissingExamples)
}

func TestAnalyze_Chinese(t *testing.T) {
	a := analyzer.New()

	got := a.Analyze("写一个好的文章", domain.AnalysisContext{})

	require.Equal(t, "zh", got.Language)
	require.Equal(t, 7, got.WordCount)
	require.True(t, got.HasVagueInstructions)
	require.Equal(t, 1, got.VagueCount)
	require.True(t, got.HasCategory(domain.CategoryCreative))
	// vague penalty, short sentence penalty, instruction bonus
	require.InDelta(t, 0.65, got.ClarityScore, 1e-9)
	// short prompt penalty offsets the chinese and creative bonuses
	require.InDelta(t, 0.8, got.ModelCompatibility[analyzer.ProviderDeepSeek], 1e-9)
	require.InDelta(t, 0.85, got.ModelCompatibility[analyzer.ProviderAnthropic], 1e-9)
}

func TestAnalyze_Flags(t *testing.T) {
	a := analyzer.New()

	t.Run("should detect conflicting instructions", func(t *testing.T) {
		got := a.Analyze("Write a brief but detailed summary of the meeting.", domain.AnalysisContext{})
		require.True(t, got.HasConflictingInstructions)
	})

	t.Run("should not flag lacking context when a system prompt is set", func(t *testing.T) {
		got := a.Analyze("Summarize this.", domain.AnalysisContext{SystemPrompt: "You are an editor."})
		require.False(t, got.LacksContext)
	})

	t.Run("should not flag missing examples when markers are present", func(t *testing.T) {
		got := a.Analyze("List fruits, for example apples.", domain.AnalysisContext{})
		require.False(t, got.MissingExamples)
	})

	t.Run("should flag too many instructions", func(t *testing.T) {
		text := "Write, create, generate, explain, describe, list, analyze, summarize and translate it."
		got := a.Analyze(text, domain.AnalysisContext{})
		require.True(t, got.TooManyInstructions)
		require.Greater(t, got.InstructionCount, 8)
	})
}

func TestAnalyze_Structure(t *testing.T) {
	a := analyzer.New()

	got := a.Analyze("1. a\n2. b\n- c", domain.AnalysisContext{})

	require.InDelta(t, 0.75, got.StructureScore, 1e-9)
}

func TestAnalyze_Complexity(t *testing.T) {
	a := analyzer.New()

	sentence := "Explain the design and list the tradeoffs and describe the rollout plan in detail. "
	got := a.Analyze(strings.Repeat(sentence, 15), domain.AnalysisContext{})

	require.Equal(t, domain.ComplexityComplex, got.Complexity)
}

func TestAnalyze_Compatibility(t *testing.T) {
	a := analyzer.New()

	got := a.Analyze("Write a function in python to debug the server code", domain.AnalysisContext{})

	require.True(t, got.HasCategory(domain.CategoryTechnical))
	require.InDelta(t, 0.9, got.ModelCompatibility[analyzer.ProviderDeepSeek], 1e-9)
	require.InDelta(t, 0.9, got.ModelCompatibility[analyzer.ProviderOpenAI], 1e-9)
	require.InDelta(t, 0.85, got.ModelCompatibility[analyzer.ProviderAnthropic], 1e-9)
	require.InDelta(t, 0.8, got.ModelCompatibility[analyzer.ProviderGemini], 1e-9)
}

func TestAnalyze_Tone(t *testing.T) {
	a := analyzer.New()

	require.Equal(t, "polite", a.Analyze("Please help me", domain.AnalysisContext{}).Tone)
	require.Equal(t, "urgent", a.Analyze("I need this ASAP", domain.AnalysisContext{}).Tone)
	require.Equal(t, "polite", a.Analyze("请帮我写代码", domain.AnalysisContext{}).Tone)
}
