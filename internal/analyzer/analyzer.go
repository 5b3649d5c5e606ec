// Package analyzer derives a quality assessment from prompt text.
//
// Analysis is pure and deterministic: no I/O, no errors. Missing signal yields a
// neutral score.
package analyzer

import (
	"strings"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/textutil"
)

const (
	// chineseThreshold is the CJK share above which a prompt is treated as Chinese.
	chineseThreshold = 0.3

	tooManyInstructions = 8
	lacksContextWords   = 30
)

// Analyzer implements domain.Analyzer.
type Analyzer struct{}

// New creates an analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// scan holds the raw keyword hits every score and flag is derived from.
type scan struct {
	text string

	words      int
	chars      int
	sentences  []string
	paragraphs []string

	vague        int
	instructions int
	contextHits  int
	outputHits   int
	exampleHits  int
	constraints  int
	formatHits   int
	conflicting  bool
	hasSystem    bool
}

// Analyze implements domain.Analyzer.
func (a *Analyzer) Analyze(text string, actx domain.AnalysisContext) *domain.PromptAnalysis {
	s := newScan(text, actx)

	analysis := &domain.PromptAnalysis{
		WordCount:      s.words,
		CharacterCount: s.chars,
		SentenceCount:  len(s.sentences),
		ParagraphCount: len(s.paragraphs),

		StructureScore:    structureScore(s),
		ClarityScore:      clarityScore(s),
		SpecificityScore:  specificityScore(s),
		CompletenessScore: completenessScore(s),

		HasVagueInstructions:       s.vague > 0,
		LacksContext:               s.contextHits == 0 && !s.hasSystem && s.words < lacksContextWords,
		MissingExamples:            s.exampleHits == 0,
		TooManyInstructions:        s.instructions > tooManyInstructions,
		HasConflictingInstructions: s.conflicting,

		InstructionCount: s.instructions,
		VagueCount:       s.vague,

		Categories: categorize(text),
		Complexity: complexity(s),
		Language:   DetectLanguage(text),
		Tone:       detectTone(text),
	}
	analysis.ModelCompatibility = compatibility(s, analysis)

	return analysis
}

func newScan(text string, actx domain.AnalysisContext) *scan {
	s := &scan{
		text:       text,
		words:      textutil.Words(text),
		chars:      textutil.RuneLen(text),
		sentences:  textutil.Sentences(text),
		paragraphs: textutil.Paragraphs(text),

		vague:        textutil.CountAll(text, VagueWords),
		instructions: textutil.CountAll(text, InstructionWords),
		contextHits:  textutil.CountAll(text, ContextWords),
		outputHits:   textutil.CountAll(text, OutputWords),
		exampleHits:  textutil.CountAll(text, ExampleMarkers),
		constraints:  textutil.CountAll(text, ConstraintWords),
		formatHits:   textutil.CountAll(text, FormatWords),
		hasSystem:    strings.TrimSpace(actx.SystemPrompt) != "",
	}

	for _, pair := range conflictPairs {
		if textutil.ContainsTerm(text, pair[0]) && textutil.ContainsTerm(text, pair[1]) {
			s.conflicting = true
			break
		}
	}

	return s
}

// DetectLanguage returns "zh" when the CJK share exceeds the threshold, else "en".
func DetectLanguage(text string) string {
	if textutil.IsChinese(text, chineseThreshold) {
		return "zh"
	}
	return "en"
}

func categorize(text string) []domain.PromptCategory {
	var out []domain.PromptCategory
	for _, bucket := range categoryWords {
		if textutil.ContainsAny(text, bucket.words) {
			out = append(out, bucket.category)
		}
	}
	if len(out) == 0 {
		return []domain.PromptCategory{domain.CategoryGeneral}
	}
	return out
}

func detectTone(text string) string {
	for _, bucket := range toneWords {
		if textutil.ContainsAny(text, bucket.words) {
			return bucket.tone
		}
	}
	return "neutral"
}

func complexity(s *scan) domain.Complexity {
	score := 0

	switch {
	case s.words > 200:
		score += 2
	case s.words > 50:
		score++
	}

	switch {
	case len(s.sentences) > 10:
		score += 2
	case len(s.sentences) > 3:
		score++
	}

	switch {
	case s.instructions > 5:
		score += 2
	case s.instructions > 2:
		score++
	}

	switch {
	case score >= 4:
		return domain.ComplexityComplex
	case score >= 2:
		return domain.ComplexityModerate
	default:
		return domain.ComplexitySimple
	}
}
