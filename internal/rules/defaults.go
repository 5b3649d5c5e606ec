package rules

import (
	"github.com/davidbz/promptsmith/internal/domain"
)

// DefaultRules returns the built-in rule catalogue served by the memory source.
func DefaultRules() []domain.OptimizationRule {
	return []domain.OptimizationRule{
		{
			ID:          "clarity-vague-terms",
			Name:        "Replace vague terms",
			Description: "Replaces vague words with concrete stand-ins",
			Category:    domain.RuleClarity,
			Condition:   Flag(FlagVague),
			Priority:    5,
			Active:      true,
		},
		{
			ID:          "clarity-long-sentences",
			Name:        "Split long sentences",
			Description: "Splits run-on sentences at their middle comma",
			Category:    domain.RuleClarity,
			Condition:   Compare(FieldCharacterCount, domain.OpGreater, longSentenceRunes),
			Transform:   domain.Transform{Kind: domain.TransformSentenceSplit},
			Priority:    3,
			Active:      true,
		},
		{
			ID:          "structure-numbered-steps",
			Name:        "Number instruction lines",
			Description: "Turns loose instruction lines into a numbered list",
			Category:    domain.RuleStructure,
			Condition:   Compare(FieldStructureScore, domain.OpLess, lowStructureScore),
			Transform:   domain.Transform{Kind: domain.TransformListNumbering},
			Priority:    6,
			Active:      true,
		},
		{
			ID:          "structure-paragraphs",
			Name:        "Break long paragraphs",
			Description: "Splits a long single paragraph into shorter ones",
			Category:    domain.RuleStructure,
			Condition:   Compare(FieldWordCount, domain.OpGreater, 80),
			Transform:   domain.Transform{Kind: domain.TransformParagraphBreak},
			Priority:    4,
			Active:      true,
		},
		{
			ID:          "context-scaffold",
			Name:        "Request background",
			Description: "Adds a context section when the prompt lacks background",
			Category:    domain.RuleContext,
			Condition:   Flag(FlagNoContext),
			Priority:    7,
			Active:      true,
		},
		{
			ID:          "examples-scaffold",
			Name:        "Request examples",
			Description: "Adds an example section for longer prompts without examples",
			Category:    domain.RuleExamples,
			Condition:   Flag(FlagNoExamples),
			Priority:    4,
			Active:      true,
		},
		{
			ID:          "format-directive",
			Name:        "Ask for an output format",
			Description: "Adds an output format directive when none is stated",
			Category:    domain.RuleFormat,
			Condition:   Compare(FieldSpecificityScore, domain.OpLess, 0.7),
			Priority:    5,
			Active:      true,
		},
		{
			ID:          "length-fillers",
			Name:        "Strip filler phrases",
			Description: "Removes filler phrases from long prompts",
			Category:    domain.RuleLength,
			Condition:   Compare(FieldWordCount, domain.OpGreater, fillerWordThreshold),
			Priority:    2,
			Active:      true,
		},
		{
			ID:          "specificity-quantifiers",
			Name:        "Pin down quantities",
			Description: "Replaces generic quantifiers with stated amounts",
			Category:    domain.RuleSpecificity,
			Condition:   Compare(FieldSpecificityScore, domain.OpLess, 0.6),
			Priority:    3,
			Active:      true,
		},
		{
			ID:          "technical-code-language",
			Name:        "Name the programming language",
			Description: "Asks for the target language and version in coding prompts",
			Category:    domain.RuleSpecificity,
			Domains:     []domain.PromptCategory{domain.CategoryTechnical},
			Transform: domain.Transform{
				Kind:     domain.TransformScaffoldAppend,
				Scaffold: "Language and version: [e.g. Go 1.22]",
			},
			Priority: 6,
			Active:   true,
		},
		{
			ID:          "creative-tone",
			Name:        "State tone and audience",
			Description: "Asks for tone and audience in creative prompts",
			Category:    domain.RuleContext,
			Domains:     []domain.PromptCategory{domain.CategoryCreative},
			Condition:   Not(FlagChinese),
			Transform: domain.Transform{
				Kind:     domain.TransformScaffoldAppend,
				Scaffold: "Tone and audience: [e.g. warm, for young readers]",
			},
			Priority: 9,
			Active:   true,
		},
		{
			ID:          "creative-tone-zh",
			Name:        "说明语气和读者",
			Description: "为创作类提示补充语气和目标读者",
			Category:    domain.RuleContext,
			Domains:     []domain.PromptCategory{domain.CategoryCreative},
			Condition:   Flag(FlagChinese),
			Transform: domain.Transform{
				Kind:     domain.TransformScaffoldAppend,
				Scaffold: "语气与读者：[例如：温暖亲切，面向青少年读者]",
			},
			Priority: 9,
			Active:   true,
		},
		{
			ID:          "conflict-resolution",
			Name:        "Resolve conflicting instructions",
			Description: "Asks the author to pick one of two conflicting requirements",
			Category:    domain.RuleGeneric,
			Condition:   Flag(FlagConflicting),
			Transform: domain.Transform{
				Kind:     domain.TransformScaffoldAppend,
				Scaffold: "Note: some requirements conflict (e.g. brief vs. detailed); prioritise: [state which one wins]",
			},
			Priority: 8,
			Active:   true,
		},
	}
}
