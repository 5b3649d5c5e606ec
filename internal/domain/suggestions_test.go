package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptsmith/internal/domain"
)

func types(ss []domain.Suggestion) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.Type)
	}
	return out
}

func TestAnalysisSuggestions(t *testing.T) {
	t.Run("should map analysis flags to suggestions", func(t *testing.T) {
		got := domain.AnalysisSuggestions(&domain.PromptAnalysis{
			HasVagueInstructions: true,
			LacksContext:         true,
			SpecificityScore:     0.2,
			Complexity:           domain.ComplexityComplex,
			ModelCompatibility:   map[string]float64{"openai": 0.6, "anthropic": 0.9},
		}, "openai")

		require.Equal(t, []string{"clarify_wording", "add_context", "increase_specificity", "break_down", "model_fit"}, types(got))
		for _, s := range got {
			require.NotEmpty(t, s.ID)
		}
	})

	t.Run("should skip the fit check for unscored providers", func(t *testing.T) {
		got := domain.AnalysisSuggestions(&domain.PromptAnalysis{SpecificityScore: 0.9}, "echo")

		require.Empty(t, got)
	})

	t.Run("should tolerate a nil analysis", func(t *testing.T) {
		require.Nil(t, domain.AnalysisSuggestions(nil, "openai"))
	})
}

func TestValidationSuggestions(t *testing.T) {
	got := domain.ValidationSuggestions(&domain.ValidationReport{
		Warnings:    []string{"unfilled placeholder"},
		Suggestions: []string{"add a format"},
	})

	require.Equal(t, []string{"validation_warning", "validation_hint"}, types(got))
	require.Equal(t, "unfilled placeholder", got[0].Description)
}

func TestMergeSuggestions(t *testing.T) {
	got := domain.MergeSuggestions(
		[]domain.Suggestion{{Type: "a", Priority: 3}, {Type: "b", Priority: 7}},
		[]domain.Suggestion{{Type: "a", Priority: 9}, {Type: "c", Priority: 7}},
		nil,
	)

	require.Equal(t, []string{"b", "c", "a"}, types(got))
	require.Equal(t, 3, got[2].Priority)
	require.NotNil(t, domain.MergeSuggestions())
}
