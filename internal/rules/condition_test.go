package rules_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/rules"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.Condition
	}{
		{
			name:  "empty is always",
			input: "  ",
			want:  domain.Condition{Kind: domain.ConditionAlways},
		},
		{
			name:  "camel case comparison",
			input: "wordCount > 50",
			want: domain.Condition{
				Kind: domain.ConditionCompare, Field: rules.FieldWordCount, Op: domain.OpGreater,
				Threshold: 50, Source: "wordCount > 50",
			},
		},
		{
			name:  "snake case comparison with float",
			input: "clarity_score<=0.5",
			want: domain.Condition{
				Kind: domain.ConditionCompare, Field: rules.FieldClarityScore, Op: domain.OpLessEqual,
				Threshold: 0.5, Source: "clarity_score<=0.5",
			},
		},
		{
			name:  "flag",
			input: "hasVagueInstructions",
			want:  domain.Condition{Kind: domain.ConditionFlag, Flag: rules.FlagVague, Source: "hasVagueInstructions"},
		},
		{
			name:  "negated flag",
			input: "!lacksContext",
			want: domain.Condition{
				Kind: domain.ConditionFlag, Flag: rules.FlagNoContext, Negate: true, Source: "!lacksContext",
			},
		},
		{
			name:  "unknown field is invalid",
			input: "mood > 3",
			want:  domain.Condition{Kind: domain.ConditionInvalid, Source: "mood > 3"},
		},
		{
			name:  "garbage is invalid",
			input: "wordCount >> ten",
			want:  domain.Condition{Kind: domain.ConditionInvalid, Source: "wordCount >> ten"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, rules.ParseCondition(tt.input))
		})
	}
}

func TestEvaluate(t *testing.T) {
	analysis := &domain.PromptAnalysis{
		ClarityScore:         0.4,
		HasVagueInstructions: true,
		Complexity:           domain.ComplexityComplex,
		Language:             "zh",
	}

	t.Run("should match the zero condition", func(t *testing.T) {
		ok, err := rules.Evaluate(domain.Condition{}, analysis, "")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("should compare score fields", func(t *testing.T) {
		ok, err := rules.Evaluate(rules.Compare(rules.FieldClarityScore, domain.OpLess, 0.5), analysis, "")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("should count words on the current text", func(t *testing.T) {
		cond := rules.Compare(rules.FieldWordCount, domain.OpGreaterEqual, 3)
		ok, err := rules.Evaluate(cond, analysis, "one two three")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = rules.Evaluate(cond, analysis, "one two")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("should honour negation", func(t *testing.T) {
		ok, err := rules.Evaluate(rules.Not(rules.FlagVague), analysis, "")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("should evaluate derived flags", func(t *testing.T) {
		for _, flag := range []string{rules.FlagComplex, rules.FlagChinese} {
			ok, err := rules.Evaluate(rules.Flag(flag), analysis, "")
			require.NoError(t, err)
			require.True(t, ok, flag)
		}
	})

	t.Run("should fail closed on invalid conditions", func(t *testing.T) {
		ok, err := rules.Evaluate(rules.ParseCondition("nonsense ??"), analysis, "")
		require.Error(t, err)
		require.False(t, ok)
	})

	t.Run("should reject unknown comparators", func(t *testing.T) {
		cond := domain.Condition{Kind: domain.ConditionCompare, Field: rules.FieldVagueCount, Op: "!="}
		ok, err := rules.Evaluate(cond, analysis, "")
		require.Error(t, err)
		require.False(t, ok)
	})
}
