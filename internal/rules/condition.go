package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/textutil"
)

// Condition fields.
const (
	FieldWordCount         = "word_count"
	FieldCharacterCount    = "character_count"
	FieldSentenceCount     = "sentence_count"
	FieldParagraphCount    = "paragraph_count"
	FieldStructureScore    = "structure_score"
	FieldClarityScore      = "clarity_score"
	FieldSpecificityScore  = "specificity_score"
	FieldCompletenessScore = "completeness_score"
	FieldInstructionCount  = "instruction_count"
	FieldVagueCount        = "vague_count"
)

// Condition flags.
const (
	FlagVague       = "has_vague_instructions"
	FlagNoContext   = "lacks_context"
	FlagNoExamples  = "missing_examples"
	FlagTooMany     = "too_many_instructions"
	FlagConflicting = "has_conflicting_instructions"
	FlagComplex     = "is_complex"
	FlagSimple      = "is_simple"
	FlagChinese     = "is_chinese"
)

var comparePattern = regexp.MustCompile(`^([A-Za-z_]+)\s*(>=|<=|==|>|<)\s*(-?\d+(?:\.\d+)?)$`)

// Always returns a condition that always matches.
func Always() domain.Condition {
	return domain.Condition{Kind: domain.ConditionAlways}
}

// Compare returns a numeric comparison condition.
func Compare(field string, op domain.Comparator, threshold float64) domain.Condition {
	return domain.Condition{Kind: domain.ConditionCompare, Field: field, Op: op, Threshold: threshold}
}

// Flag returns a boolean flag condition.
func Flag(flag string) domain.Condition {
	return domain.Condition{Kind: domain.ConditionFlag, Flag: flag}
}

// Not returns a negated flag condition.
func Not(flag string) domain.Condition {
	return domain.Condition{Kind: domain.ConditionFlag, Flag: flag, Negate: true}
}

// ParseCondition parses the textual form stored by external rule sources, e.g.
// "wordCount > 50", "hasVagueInstructions" or "!lacks_context".
//
// Empty text always matches. Text that cannot be parsed yields an invalid
// condition, which never matches.
func ParseCondition(text string) domain.Condition {
	src := strings.TrimSpace(text)
	if src == "" {
		return Always()
	}

	if m := comparePattern.FindStringSubmatch(src); m != nil {
		field := snakeCase(m[1])
		threshold, err := strconv.ParseFloat(m[3], 64)
		if err != nil || !knownField(field) {
			return invalid(src)
		}
		cond := Compare(field, domain.Comparator(m[2]), threshold)
		cond.Source = src
		return cond
	}

	negate := false
	body := src
	if strings.HasPrefix(body, "!") {
		negate = true
		body = strings.TrimSpace(body[1:])
	}

	flag := snakeCase(body)
	if !knownFlag(flag) {
		return invalid(src)
	}

	cond := Flag(flag)
	cond.Negate = negate
	cond.Source = src
	return cond
}

func invalid(src string) domain.Condition {
	return domain.Condition{Kind: domain.ConditionInvalid, Source: src}
}

// Evaluate reports whether cond holds for the analysis snapshot and the current text.
// Count fields derived from the text itself are recomputed on text so that earlier
// rules in the same run are observed.
func Evaluate(cond domain.Condition, analysis *domain.PromptAnalysis, text string) (bool, error) {
	switch cond.Kind {
	case "", domain.ConditionAlways:
		return true, nil

	case domain.ConditionCompare:
		got, err := fieldValue(cond.Field, analysis, text)
		if err != nil {
			return false, err
		}
		ok, err := compare(got, cond.Op, cond.Threshold)
		if err != nil {
			return false, err
		}
		return ok != cond.Negate, nil

	case domain.ConditionFlag:
		got, err := flagValue(cond.Flag, analysis)
		if err != nil {
			return false, err
		}
		return got != cond.Negate, nil

	case domain.ConditionInvalid:
		return false, fmt.Errorf("unparsable condition %q", cond.Source)

	default:
		return false, fmt.Errorf("unknown condition kind %q", cond.Kind)
	}
}

func compare(got float64, op domain.Comparator, want float64) (bool, error) {
	switch op {
	case domain.OpGreater:
		return got > want, nil
	case domain.OpLess:
		return got < want, nil
	case domain.OpGreaterEqual:
		return got >= want, nil
	case domain.OpLessEqual:
		return got <= want, nil
	case domain.OpEqual:
		return got == want, nil
	default:
		return false, fmt.Errorf("unknown comparator %q", op)
	}
}

func knownField(field string) bool {
	_, err := fieldValue(field, &domain.PromptAnalysis{}, "")
	return err == nil
}

func knownFlag(flag string) bool {
	_, err := flagValue(flag, &domain.PromptAnalysis{})
	return err == nil
}

func fieldValue(field string, a *domain.PromptAnalysis, text string) (float64, error) {
	if a == nil {
		return 0, fmt.Errorf("no analysis for field %q", field)
	}

	switch field {
	case FieldWordCount:
		return float64(textutil.Words(text)), nil
	case FieldCharacterCount:
		return float64(textutil.RuneLen(text)), nil
	case FieldSentenceCount:
		return float64(len(textutil.Sentences(text))), nil
	case FieldParagraphCount:
		return float64(len(textutil.Paragraphs(text))), nil
	case FieldStructureScore:
		return a.StructureScore, nil
	case FieldClarityScore:
		return a.ClarityScore, nil
	case FieldSpecificityScore:
		return a.SpecificityScore, nil
	case FieldCompletenessScore:
		return a.CompletenessScore, nil
	case FieldInstructionCount:
		return float64(a.InstructionCount), nil
	case FieldVagueCount:
		return float64(a.VagueCount), nil
	default:
		return 0, fmt.Errorf("unknown field %q", field)
	}
}

func flagValue(flag string, a *domain.PromptAnalysis) (bool, error) {
	if a == nil {
		return false, fmt.Errorf("no analysis for flag %q", flag)
	}

	switch flag {
	case FlagVague:
		return a.HasVagueInstructions, nil
	case FlagNoContext:
		return a.LacksContext, nil
	case FlagNoExamples:
		return a.MissingExamples, nil
	case FlagTooMany:
		return a.TooManyInstructions, nil
	case FlagConflicting:
		return a.HasConflictingInstructions, nil
	case FlagComplex:
		return a.Complexity == domain.ComplexityComplex, nil
	case FlagSimple:
		return a.Complexity == domain.ComplexitySimple, nil
	case FlagChinese:
		return a.Language == "zh", nil
	default:
		return false, fmt.Errorf("unknown flag %q", flag)
	}
}

// snakeCase maps "hasVagueInstructions" to "has_vague_instructions".
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
