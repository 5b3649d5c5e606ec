package rules_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptsmith/internal/analyzer"
	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/rules"
)

func newEngine(t *testing.T) *rules.Engine {
	t.Helper()
	engine, err := rules.NewEngine()
	require.NoError(t, err)
	return engine
}

func scaffoldRule(ruleID string, priority int, scaffold string) domain.OptimizationRule {
	return domain.OptimizationRule{
		ID:        ruleID,
		Category:  domain.RuleGeneric,
		Transform: domain.Transform{Kind: domain.TransformScaffoldAppend, Scaffold: scaffold},
		Priority:  priority,
		Active:    true,
	}
}

func replaceRule(ruleID string, priority int, from, to string) domain.OptimizationRule {
	return domain.OptimizationRule{
		ID:        ruleID,
		Category:  domain.RuleGeneric,
		Transform: domain.Transform{Kind: domain.TransformLiteralReplace, Pattern: from, Replacement: to},
		Priority:  priority,
		Active:    true,
	}
}

func TestEngine_Apply(t *testing.T) {
	ctx := context.Background()
	a := analyzer.New()

	t.Run("should replace a chinese vague term gated on the vague flag", func(t *testing.T) {
		engine := newEngine(t)
		text := "写一个好的文章"
		rule := domain.OptimizationRule{
			ID:        "clarity-zh",
			Category:  domain.RuleClarity,
			Condition: rules.ParseCondition("hasVagueInstructions"),
			Transform: domain.Transform{Kind: domain.TransformLiteralReplace, Pattern: "好的", Replacement: "高质量的"},
			Priority:  5,
			Active:    true,
		}

		got := engine.Apply(ctx, text, []domain.OptimizationRule{rule}, a.Analyze(text, domain.AnalysisContext{}))

		require.Contains(t, got.Text, "高质量的")
		require.NotContains(t, got.Text, "好的")
		require.Equal(t, []string{"clarity-zh"}, got.AppliedRuleIDs)
		require.Len(t, got.Improvements, 1)
		require.Equal(t, "clarity", got.Improvements[0].Category)
		require.Equal(t, text, got.Improvements[0].Before)
	})

	t.Run("should apply higher priority rules first", func(t *testing.T) {
		engine := newEngine(t)
		low := scaffoldRule("low", 3, "LOW")
		high := scaffoldRule("high", 9, "HIGH")

		got := engine.Apply(ctx, "base", []domain.OptimizationRule{low, high}, &domain.PromptAnalysis{})

		require.Equal(t, []string{"high", "low"}, got.AppliedRuleIDs)
		require.Equal(t, "rule:high", got.Improvements[0].Source)
		require.Equal(t, "rule:low", got.Improvements[1].Source)
		require.Equal(t, "base\n\nHIGH\n\nLOW", got.Text)
	})

	t.Run("should keep input order on equal priority", func(t *testing.T) {
		engine := newEngine(t)
		rs := []domain.OptimizationRule{
			scaffoldRule("first", 5, "A"),
			scaffoldRule("second", 5, "B"),
			scaffoldRule("third", 5, "C"),
		}

		got := engine.Apply(ctx, "x", rs, &domain.PromptAnalysis{})

		require.Equal(t, []string{"first", "second", "third"}, got.AppliedRuleIDs)
	})

	t.Run("should thread text between rules", func(t *testing.T) {
		engine := newEngine(t)
		rs := []domain.OptimizationRule{
			replaceRule("second", 1, "bar", "baz"),
			replaceRule("first", 9, "foo", "bar"),
		}

		got := engine.Apply(ctx, "foo", rs, &domain.PromptAnalysis{})

		require.Equal(t, "baz", got.Text)
		require.Equal(t, "bar", got.Improvements[1].Before)
	})

	t.Run("should skip rules whose condition is false", func(t *testing.T) {
		engine := newEngine(t)
		rule := scaffoldRule("gated", 5, "X")
		rule.Condition = rules.Flag(rules.FlagVague)

		got := engine.Apply(ctx, "text", []domain.OptimizationRule{rule}, &domain.PromptAnalysis{})

		require.Empty(t, got.AppliedRuleIDs)
		require.Equal(t, "text", got.Text)
		require.Equal(t, rules.StatusConditionFalse, got.Log[0].Status)
	})

	t.Run("should not count rules that change nothing", func(t *testing.T) {
		engine := newEngine(t)

		got := engine.Apply(ctx, "text", []domain.OptimizationRule{replaceRule("noop", 5, "absent", "x")}, &domain.PromptAnalysis{})

		require.Empty(t, got.AppliedRuleIDs)
		require.Equal(t, rules.StatusNoChange, got.Log[0].Status)
	})

	t.Run("should contain failing rules and continue", func(t *testing.T) {
		engine := newEngine(t)
		broken := domain.OptimizationRule{
			ID:        "broken",
			Category:  domain.RuleGeneric,
			Transform: domain.Transform{Kind: domain.TransformRegexReplace, Pattern: "(", Replacement: "x"},
			Priority:  9,
			Active:    true,
		}
		badCondition := scaffoldRule("bad-condition", 8, "Y")
		badCondition.Condition = rules.ParseCondition("wordCount >> 3")
		ok := replaceRule("ok", 1, "text", "prompt")

		got := engine.Apply(ctx, "text", []domain.OptimizationRule{broken, badCondition, ok}, &domain.PromptAnalysis{})

		require.Equal(t, []string{"ok"}, got.AppliedRuleIDs)
		require.Equal(t, "prompt", got.Text)
		require.Equal(t, rules.StatusFailed, got.Log[0].Status)
		require.Equal(t, rules.StatusFailed, got.Log[1].Status)
		require.Contains(t, got.Log[0].Message, "broken")
	})

	t.Run("should not reapply a rule on its own output", func(t *testing.T) {
		engine := newEngine(t)
		rs := []domain.OptimizationRule{{
			ID:        "vague",
			Category:  domain.RuleClarity,
			Condition: rules.Flag(rules.FlagVague),
			Priority:  5,
			Active:    true,
		}}
		text := "Write a good summary of the things we discussed."

		first := engine.Apply(ctx, text, rs, a.Analyze(text, domain.AnalysisContext{}))
		require.Equal(t, []string{"vague"}, first.AppliedRuleIDs)
		require.Equal(t, domain.ImpactHigh, first.Improvements[0].Impact)

		second := engine.Apply(ctx, first.Text, rs, a.Analyze(first.Text, domain.AnalysisContext{}))
		require.Empty(t, second.AppliedRuleIDs)
		require.Equal(t, first.Text, second.Text)
	})

	t.Run("should not mutate the caller's rule slice", func(t *testing.T) {
		engine := newEngine(t)
		rs := []domain.OptimizationRule{scaffoldRule("a", 1, "A"), scaffoldRule("b", 9, "B")}

		engine.Apply(ctx, "x", rs, &domain.PromptAnalysis{})

		require.Equal(t, "a", rs[0].ID)
	})
}

func TestEngine_CategoryDefaults(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)

	t.Run("should number loose lines when structure is weak", func(t *testing.T) {
		text := "collect the logs\nfilter errors\ngroup by service\nwrite a report"
		rule := domain.OptimizationRule{ID: "s", Category: domain.RuleStructure, Priority: 1, Active: true}

		got := engine.Apply(ctx, text, []domain.OptimizationRule{rule}, &domain.PromptAnalysis{StructureScore: 0.5})

		require.Equal(t, "1. collect the logs\n2. filter errors\n3. group by service\n4. write a report", got.Text)
		require.Equal(t, domain.ImpactHigh, got.Improvements[0].Impact)
	})

	t.Run("should append a chinese context scaffold", func(t *testing.T) {
		text := "写一首诗"
		rule := domain.OptimizationRule{ID: "c", Category: domain.RuleContext, Priority: 1, Active: true}

		got := engine.Apply(ctx, text, []domain.OptimizationRule{rule}, &domain.PromptAnalysis{LacksContext: true})

		require.True(t, strings.HasPrefix(got.Text, text+"\n\n背景信息"))
	})

	t.Run("should append a format directive once", func(t *testing.T) {
		rule := domain.OptimizationRule{ID: "f", Category: domain.RuleFormat, Priority: 1, Active: true}

		first := engine.Apply(ctx, "Describe the water cycle", []domain.OptimizationRule{rule}, &domain.PromptAnalysis{})
		require.Len(t, first.AppliedRuleIDs, 1)

		second := engine.Apply(ctx, first.Text, []domain.OptimizationRule{rule}, &domain.PromptAnalysis{})
		require.Empty(t, second.AppliedRuleIDs)
	})

	t.Run("should replace generic quantifiers", func(t *testing.T) {
		rule := domain.OptimizationRule{ID: "q", Category: domain.RuleSpecificity, Priority: 1, Active: true}

		got := engine.Apply(ctx, "List many ideas", []domain.OptimizationRule{rule}, &domain.PromptAnalysis{})

		require.Equal(t, "List a specific number of ideas", got.Text)
	})

	t.Run("should split a long sentence at its middle comma", func(t *testing.T) {
		text := strings.Repeat("word ", 12) + "and more words, " + strings.Repeat("tail ", 12) + "end."
		rule := domain.OptimizationRule{
			ID:        "split",
			Category:  domain.RuleClarity,
			Transform: domain.Transform{Kind: domain.TransformSentenceSplit},
			Priority:  1,
			Active:    true,
		}

		got := engine.Apply(ctx, text, []domain.OptimizationRule{rule}, &domain.PromptAnalysis{})

		require.Contains(t, got.Text, "and more words. Tail")
	})

	t.Run("should leave earlier scaffolds untouched when splitting", func(t *testing.T) {
		body := strings.Repeat("word ", 12) + "and more words, " + strings.Repeat("tail ", 12) + "end"
		rs := []domain.OptimizationRule{
			{ID: "split", Category: domain.RuleClarity, Transform: domain.Transform{Kind: domain.TransformSentenceSplit}, Priority: 1, Active: true},
			{ID: "context", Category: domain.RuleContext, Priority: 9, Active: true},
		}

		got := engine.Apply(ctx, body, rs, &domain.PromptAnalysis{LacksContext: true})

		require.Equal(t, []string{"context", "split"}, got.AppliedRuleIDs)
		require.Contains(t, got.Text, "Context: [describe the background, the audience and the goal of this task]")
		require.Contains(t, got.Text, "and more words. Tail")
		require.Equal(t, 1, strings.Count(got.Text, ". "))
	})
}
