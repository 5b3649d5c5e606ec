package rules

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/davidbz/promptsmith/internal/analyzer"
	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/textutil"
)

const (
	lowStructureScore   = 0.6
	minListLines        = 4
	minParagraphChars   = 300
	sentencesPerBreak   = 3
	longSentenceRunes   = 100
	minExamplesRunes    = 50
	fillerWordThreshold = 150
)

// change is the result of a strategy that modified the text.
type change struct {
	text        string
	description string
	impact      domain.Impact
	rationale   string
}

// strategy transforms text for one rule category. ok is false when nothing changed.
type strategy func(e *Engine, rule *domain.OptimizationRule, text string, a *domain.PromptAnalysis) (ch change, ok bool, err error)

func defaultStrategies() map[domain.RuleCategory]strategy {
	return map[domain.RuleCategory]strategy{
		domain.RuleClarity:     clarityStrategy,
		domain.RuleStructure:   structureStrategy,
		domain.RuleContext:     contextStrategy,
		domain.RuleExamples:    examplesStrategy,
		domain.RuleFormat:      formatStrategy,
		domain.RuleLength:      lengthStrategy,
		domain.RuleSpecificity: specificityStrategy,
		domain.RuleGeneric:     genericStrategy,
	}
}

//nolint:gochecknoglobals // read-only lookup tables
var (
	vagueReplacements = map[string]string{
		"good":      "high-quality",
		"nice":      "well-crafted",
		"stuff":     "content",
		"things":    "items",
		"something": "a specific item",
		"better":    "more effective",
		"various":   "several specific",
		"好的":        "高质量的",
		"东西":        "内容",
		"一些":        "几个具体的",
		"差不多":       "接近",
		"适当":        "明确",
		"比较好":       "更有效",
		"合适的":       "符合要求的",
	}

	quantifierReplacements = map[string]string{
		"many":    "a specific number of",
		"some":    "a defined set of",
		"a lot":   "a large, stated amount",
		"a few":   "two or three",
		"several": "three to five",
		"大概":      "约",
		"很多":      "具体数量的",
		"一点":      "少量",
		"若干":      "三到五个",
	}

	fillerPhrases = []string{
		"basically", "actually", "really", "very", "just", "in order to", "kind of", "sort of",
		"it is important to note that", "please note that",
		"其实", "基本上", "非常", "真的", "就是说", "需要注意的是",
	}

	contextScaffold = map[string]string{
		"en": "Context: [describe the background, the audience and the goal of this task]",
		"zh": "背景信息：[请说明任务的背景、目标受众和期望达成的目标]",
	}

	examplesScaffold = map[string]string{
		"en": "Example:\nInput: [sample input]\nOutput: [expected output]",
		"zh": "示例：\n输入：[示例输入]\n输出：[期望输出]",
	}

	formatScaffold = map[string]string{
		"en": "Output format: [state the expected structure, e.g. a numbered list, a table or JSON]",
		"zh": "输出格式：[请说明期望的结构，例如编号列表、表格或 JSON]",
	}

	sentenceWithEnd = regexp.MustCompile(`[^.!?。！？]+[.!?。！？]+\s*|[^.!?。！？]+$`)
	listedLine      = regexp.MustCompile(`^\s*(\d+[.)、]|[-*•])\s*`)
	placeholder     = regexp.MustCompile(`\[[^\]\n]*\]`)
)

func clarityStrategy(e *Engine, rule *domain.OptimizationRule, text string, a *domain.PromptAnalysis) (change, bool, error) {
	if rule.Transform.Kind != domain.TransformNone {
		return e.runTransform(rule.Transform, text, a)
	}

	out, replaced := replaceTerms(text, vagueReplacements)
	out, split := splitLongSentences(out)
	if replaced == 0 && split == 0 {
		return change{}, false, nil
	}

	impact := domain.ImpactMedium
	if replaced >= 2 {
		impact = domain.ImpactHigh
	} else if replaced == 0 {
		impact = domain.ImpactLow
	}

	return change{
		text:        out,
		description: fmt.Sprintf("Replaced %d vague term(s) and split %d long sentence(s)", replaced, split),
		impact:      impact,
		rationale:   "Concrete wording and shorter sentences reduce ambiguity for the model",
	}, true, nil
}

func structureStrategy(e *Engine, rule *domain.OptimizationRule, text string, a *domain.PromptAnalysis) (change, bool, error) {
	if rule.Transform.Kind != domain.TransformNone {
		return e.runTransform(rule.Transform, text, a)
	}

	if a != nil && a.StructureScore < lowStructureScore {
		if ch, ok := numberLines(text); ok {
			return ch, true, nil
		}
	}

	ch, ok := breakParagraphs(text)
	return ch, ok, nil
}

func contextStrategy(e *Engine, rule *domain.OptimizationRule, text string, a *domain.PromptAnalysis) (change, bool, error) {
	if rule.Transform.Kind != domain.TransformNone {
		return e.runTransform(rule.Transform, text, a)
	}

	if a == nil || !a.LacksContext || textutil.ContainsAny(text, analyzer.ContextWords) {
		return change{}, false, nil
	}

	ch, ok := appendScaffold(text, contextScaffold[analyzer.DetectLanguage(text)], domain.ImpactHigh)
	ch.description = "Added a context section"
	ch.rationale = "Background and goal let the model tailor the answer"
	return ch, ok, nil
}

func examplesStrategy(e *Engine, rule *domain.OptimizationRule, text string, a *domain.PromptAnalysis) (change, bool, error) {
	if rule.Transform.Kind != domain.TransformNone {
		return e.runTransform(rule.Transform, text, a)
	}

	if a == nil || !a.MissingExamples || textutil.RuneLen(text) <= minExamplesRunes ||
		textutil.ContainsAny(text, analyzer.ExampleMarkers) {
		return change{}, false, nil
	}

	ch, ok := appendScaffold(text, examplesScaffold[analyzer.DetectLanguage(text)], domain.ImpactMedium)
	ch.description = "Added an example section"
	ch.rationale = "A worked example anchors the expected output"
	return ch, ok, nil
}

func formatStrategy(e *Engine, rule *domain.OptimizationRule, text string, a *domain.PromptAnalysis) (change, bool, error) {
	if rule.Transform.Kind != domain.TransformNone {
		return e.runTransform(rule.Transform, text, a)
	}

	if textutil.ContainsAny(text, analyzer.FormatWords) || textutil.ContainsAny(text, analyzer.OutputWords) {
		return change{}, false, nil
	}

	ch, ok := appendScaffold(text, formatScaffold[analyzer.DetectLanguage(text)], domain.ImpactMedium)
	ch.description = "Added an output format directive"
	ch.rationale = "An explicit format makes the answer easier to consume"
	return ch, ok, nil
}

func lengthStrategy(e *Engine, rule *domain.OptimizationRule, text string, a *domain.PromptAnalysis) (change, bool, error) {
	if rule.Transform.Kind != domain.TransformNone {
		return e.runTransform(rule.Transform, text, a)
	}

	if textutil.Words(text) <= fillerWordThreshold {
		return change{}, false, nil
	}

	ch, ok := stripFillers(text, fillerPhrases)
	return ch, ok, nil
}

func specificityStrategy(e *Engine, rule *domain.OptimizationRule, text string, a *domain.PromptAnalysis) (change, bool, error) {
	if rule.Transform.Kind != domain.TransformNone {
		return e.runTransform(rule.Transform, text, a)
	}

	out, n := replaceTerms(text, quantifierReplacements)
	if n == 0 {
		return change{}, false, nil
	}

	return change{
		text:        out,
		description: fmt.Sprintf("Replaced %d generic quantifier(s)", n),
		impact:      domain.ImpactMedium,
		rationale:   "Stated quantities remove guesswork about scope",
	}, true, nil
}

func genericStrategy(e *Engine, rule *domain.OptimizationRule, text string, a *domain.PromptAnalysis) (change, bool, error) {
	if rule.Transform.Kind == domain.TransformNone {
		return change{}, false, nil
	}
	return e.runTransform(rule.Transform, text, a)
}

// runTransform executes a declarative transform descriptor.
func (e *Engine) runTransform(t domain.Transform, text string, a *domain.PromptAnalysis) (change, bool, error) {
	switch t.Kind {
	case domain.TransformLiteralReplace:
		if t.Pattern == "" {
			return change{}, false, errors.New("literal replace requires a pattern")
		}
		out, n := textutil.ReplaceTerm(text, t.Pattern, t.Replacement)
		if n == 0 {
			return change{}, false, nil
		}
		return change{
			text:        out,
			description: fmt.Sprintf("Replaced %q with %q", t.Pattern, t.Replacement),
			impact:      domain.ImpactMedium,
			rationale:   "Preferred wording substituted",
		}, true, nil

	case domain.TransformRegexReplace:
		re, err := e.compile(t.Pattern)
		if err != nil {
			return change{}, false, err
		}
		if !re.MatchString(text) {
			return change{}, false, nil
		}
		out := re.ReplaceAllString(text, t.Replacement)
		if out == text {
			return change{}, false, nil
		}
		return change{
			text:        out,
			description: fmt.Sprintf("Rewrote text matching %s", t.Pattern),
			impact:      domain.ImpactLow,
			rationale:   "Pattern-based rewrite",
		}, true, nil

	case domain.TransformTermMap:
		out, n := replaceTerms(text, t.Terms)
		if n == 0 {
			return change{}, false, nil
		}
		impact := domain.ImpactMedium
		if n >= 2 {
			impact = domain.ImpactHigh
		}
		return change{
			text:        out,
			description: fmt.Sprintf("Replaced %d term(s)", n),
			impact:      impact,
			rationale:   "Specific terms replace vague ones",
		}, true, nil

	case domain.TransformScaffoldAppend:
		ch, ok := appendScaffold(text, t.Scaffold, domain.ImpactMedium)
		return ch, ok, nil

	case domain.TransformListNumbering:
		ch, ok := numberLines(text)
		return ch, ok, nil

	case domain.TransformParagraphBreak:
		ch, ok := breakParagraphs(text)
		return ch, ok, nil

	case domain.TransformFillerStrip:
		phrases := fillerPhrases
		if len(t.Terms) > 0 {
			phrases = sortedKeys(t.Terms)
		}
		ch, ok := stripFillers(text, phrases)
		return ch, ok, nil

	case domain.TransformSentenceSplit:
		out, n := splitLongSentences(text)
		if n == 0 {
			return change{}, false, nil
		}
		return change{
			text:        out,
			description: fmt.Sprintf("Split %d long sentence(s)", n),
			impact:      domain.ImpactLow,
			rationale:   "Shorter sentences are easier to follow",
		}, true, nil

	default:
		return change{}, false, fmt.Errorf("unknown transform kind %q", t.Kind)
	}
}

func (e *Engine) compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, errors.New("regex replace requires a pattern")
	}
	if re, ok := e.patterns.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	e.patterns.Add(pattern, re)
	return re, nil
}

// replaceTerms applies terms longest-first so overlapping entries are deterministic.
func replaceTerms(text string, terms map[string]string) (string, int) {
	keys := sortedKeys(terms)
	sort.SliceStable(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	total := 0
	for _, term := range keys {
		var n int
		text, n = textutil.ReplaceTerm(text, term, terms[term])
		total += n
	}
	return text, total
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendScaffold(text, scaffold string, impact domain.Impact) (change, bool) {
	scaffold = strings.TrimSpace(scaffold)
	if scaffold == "" || strings.Contains(text, scaffold) {
		return change{}, false
	}
	return change{
		text:        strings.TrimRight(text, " \t\n") + "\n\n" + scaffold,
		description: "Appended a scaffold section",
		impact:      impact,
		rationale:   "Placeholder section prompts the author for missing detail",
	}, true
}

// numberLines numbers the non-empty lines of a text with at least minListLines of
// them when none is already listed.
func numberLines(text string) (change, bool) {
	lines := strings.Split(text, "\n")
	candidates := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if listedLine.MatchString(line) {
			return change{}, false
		}
		candidates++
	}
	if candidates < minListLines {
		return change{}, false
	}

	n := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n++
		lines[i] = fmt.Sprintf("%d. %s", n, strings.TrimSpace(line))
	}

	return change{
		text:        strings.Join(lines, "\n"),
		description: fmt.Sprintf("Numbered %d instruction lines", n),
		impact:      domain.ImpactHigh,
		rationale:   "Numbered steps make the task sequence explicit",
	}, true
}

// breakParagraphs splits a long single paragraph every few sentences.
func breakParagraphs(text string) (change, bool) {
	if len(textutil.Paragraphs(text)) != 1 || textutil.RuneLen(text) < minParagraphChars {
		return change{}, false
	}

	trimmed := strings.TrimSpace(text)
	sentences := sentenceWithEnd.FindAllString(trimmed, -1)
	if len(sentences) <= sentencesPerBreak || strings.Join(sentences, "") != trimmed {
		return change{}, false
	}

	var b strings.Builder
	for i, s := range sentences {
		if i > 0 && i%sentencesPerBreak == 0 {
			b.WriteString("\n\n")
		}
		if i%sentencesPerBreak == 0 {
			s = strings.TrimLeft(s, " \t\n")
		}
		b.WriteString(s)
	}

	return change{
		text:        strings.TrimSpace(b.String()),
		description: "Inserted paragraph breaks",
		impact:      domain.ImpactMedium,
		rationale:   "Shorter paragraphs separate distinct parts of the request",
	}, true
}

func stripFillers(text string, phrases []string) (change, bool) {
	total := 0
	out := text
	for _, p := range phrases {
		var n int
		out, n = textutil.ReplaceTerm(out, p, "")
		total += n
	}
	if total == 0 {
		return change{}, false
	}

	return change{
		text:        textutil.CollapseSpaces(out),
		description: fmt.Sprintf("Removed %d filler phrase(s)", total),
		impact:      domain.ImpactLow,
		rationale:   "Filler words spend tokens without adding meaning",
	}, true
}

// splitLongSentences turns the comma closest to the middle of each long sentence
// into a sentence terminator. Paragraphs holding a [placeholder] are scaffolds
// and stay untouched.
func splitLongSentences(text string) (string, int) {
	blocks := strings.Split(text, "\n\n")

	split := 0
	for i, block := range blocks {
		if placeholder.MatchString(block) {
			continue
		}
		var n int
		blocks[i], n = splitBlockSentences(block)
		split += n
	}

	return strings.Join(blocks, "\n\n"), split
}

func splitBlockSentences(text string) (string, int) {
	sentences := sentenceWithEnd.FindAllString(text, -1)
	if len(sentences) == 0 || strings.Join(sentences, "") != text {
		return text, 0
	}

	split := 0
	var b strings.Builder
	for _, s := range sentences {
		runes := []rune(s)
		if len(runes) <= longSentenceRunes {
			b.WriteString(s)
			continue
		}

		mid := len(runes) / 2
		best := -1
		depth := 0
		for i, r := range runes {
			switch r {
			case '[', '(':
				depth++
				continue
			case ']', ')':
				depth--
				continue
			}
			if depth > 0 || (r != ',' && r != '，') {
				continue
			}
			if best < 0 || abs(i-mid) < abs(best-mid) {
				best = i
			}
		}
		if best < 0 {
			b.WriteString(s)
			continue
		}

		if runes[best] == '，' {
			runes[best] = '。'
		} else {
			runes[best] = '.'
			capitalizeNext(runes, best+1)
		}
		split++
		b.WriteString(string(runes))
	}

	return b.String(), split
}

// capitalizeNext upper-cases the first letter at or after from when it is a
// lowercase Latin letter.
func capitalizeNext(runes []rune, from int) {
	for i := from; i < len(runes); i++ {
		r := runes[i]
		if unicode.IsSpace(r) {
			continue
		}
		if unicode.IsLower(r) && unicode.Is(unicode.Latin, r) {
			runes[i] = unicode.ToUpper(r)
		}
		return
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
