package domain

import (
	"sort"

	"github.com/davidbz/promptsmith/internal/id"
)

const (
	lowSpecificityThreshold   = 0.5
	lowCompatibilityThreshold = 0.7
)

// AnalysisSuggestions derives advisory suggestions from the analysis flags.
// provider selects the compatibility score that is checked.
func AnalysisSuggestions(a *PromptAnalysis, provider string) []Suggestion {
	if a == nil {
		return nil
	}

	var out []Suggestion
	add := func(kind, title, description, example string, priority int) {
		out = append(out, Suggestion{
			ID:          id.NewSuggestion(),
			Type:        kind,
			Title:       title,
			Description: description,
			Priority:    priority,
			Example:     example,
		})
	}

	if a.HasConflictingInstructions {
		add("resolve_conflicts", "Resolve conflicting instructions",
			"Some requirements contradict each other; decide which one takes precedence", "", 9)
	}
	if a.TooManyInstructions {
		add("split_prompt", "Split the prompt",
			"The prompt carries many instructions; consider splitting it into smaller requests", "", 8)
	}
	if a.HasVagueInstructions {
		add("clarify_wording", "Replace vague wording",
			"Vague words leave the model to guess what you mean", "Replace \"good\" with \"concise and accurate\"", 7)
	}
	if a.LacksContext {
		add("add_context", "Add background",
			"Describe the situation, the audience and the goal of the task", "", 7)
	}
	if a.MissingExamples {
		add("add_examples", "Add an example",
			"An example of the expected output anchors format and tone", "For example: ...", 6)
	}
	if a.SpecificityScore < lowSpecificityThreshold {
		add("increase_specificity", "Be more specific",
			"State numbers, formats and constraints explicitly", "Give 3 options of at most 50 words each", 5)
	}
	if a.Complexity == ComplexityComplex {
		add("break_down", "Break the task down",
			"Complex tasks are answered better when split into explicit steps", "", 4)
	}
	if score, ok := a.ModelCompatibility[provider]; ok && score < lowCompatibilityThreshold {
		add("model_fit", "Consider another model",
			"The prompt is a weak fit for the selected model family", "", 3)
	}

	return out
}

// ValidationSuggestions turns validation warnings and suggestions into suggestions.
func ValidationSuggestions(report *ValidationReport) []Suggestion {
	if report == nil {
		return nil
	}

	out := make([]Suggestion, 0, len(report.Warnings)+len(report.Suggestions))
	for _, w := range report.Warnings {
		out = append(out, Suggestion{
			ID:          id.NewSuggestion(),
			Type:        "validation_warning",
			Title:       "Check the prompt",
			Description: w,
			Priority:    5,
		})
	}
	for _, s := range report.Suggestions {
		out = append(out, Suggestion{
			ID:          id.NewSuggestion(),
			Type:        "validation_hint",
			Title:       "Improve the prompt",
			Description: s,
			Priority:    4,
		})
	}
	return out
}

// MergeSuggestions keeps the first suggestion of each type and orders the result
// by priority, highest first. Ties keep their input order.
func MergeSuggestions(groups ...[]Suggestion) []Suggestion {
	seen := make(map[string]bool)
	out := []Suggestion{}

	for _, group := range groups {
		for _, s := range group {
			if seen[s.Type] {
				continue
			}
			seen[s.Type] = true
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}
