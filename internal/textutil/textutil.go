// Package textutil holds the bilingual (English/Chinese) text primitives shared by
// the analyzer, the rules engine and the best-practices transformer.
package textutil

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

var (
	sentenceEnd   = regexp.MustCompile(`[.!?。！？]+`)
	paragraphGap  = regexp.MustCompile(`\n\s*\n`)
	latinWord     = regexp.MustCompile(`[\p{L}\p{N}'_-]+`)
	boundaryCache sync.Map // term -> *regexp.Regexp
)

// IsCJK reports whether r belongs to the CJK unified ideograph ranges.
func IsCJK(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// CountCJK counts the CJK runes in s.
func CountCJK(s string) int {
	n := 0
	for _, r := range s {
		if IsCJK(r) {
			n++
		}
	}
	return n
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Words counts words: every CJK rune is a word, other words are letter/digit runs.
func Words(s string) int {
	cjk := CountCJK(s)
	stripped := strings.Map(func(r rune) rune {
		if IsCJK(r) {
			return ' '
		}
		return r
	}, s)
	return cjk + len(latinWord.FindAllString(stripped, -1))
}

// Sentences splits s on sentence terminators and drops empty pieces.
func Sentences(s string) []string {
	parts := sentenceEnd.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Paragraphs splits s on blank lines and drops empty pieces.
func Paragraphs(s string) []string {
	parts := paragraphGap.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// isASCII reports whether term can use word-boundary matching.
func isASCII(term string) bool {
	for i := 0; i < len(term); i++ {
		if term[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func boundaryPattern(term string) *regexp.Regexp {
	if re, ok := boundaryCache.Load(term); ok {
		return re.(*regexp.Regexp)
	}
	pattern := regexp.QuoteMeta(term)
	if isWordByte(term[0]) {
		pattern = `\b` + pattern
	}
	if isWordByte(term[len(term)-1]) {
		pattern += `\b`
	}
	re := regexp.MustCompile(`(?i)` + pattern)
	boundaryCache.Store(term, re)
	return re
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// CountTerm counts occurrences of term. ASCII terms match case-insensitively on word
// boundaries; other terms match as plain substrings.
func CountTerm(s, term string) int {
	if term == "" {
		return 0
	}
	if isASCII(term) {
		return len(boundaryPattern(term).FindAllStringIndex(s, -1))
	}
	return strings.Count(s, term)
}

// ContainsTerm reports whether term occurs in s (see CountTerm).
func ContainsTerm(s, term string) bool {
	return CountTerm(s, term) > 0
}

// ContainsAny reports whether any of terms occurs in s.
func ContainsAny(s string, terms []string) bool {
	for _, t := range terms {
		if ContainsTerm(s, t) {
			return true
		}
	}
	return false
}

// CountAll sums CountTerm over terms.
func CountAll(s string, terms []string) int {
	n := 0
	for _, t := range terms {
		n += CountTerm(s, t)
	}
	return n
}

// ReplaceTerm replaces every occurrence of term and returns the count replaced.
func ReplaceTerm(s, term, replacement string) (string, int) {
	n := CountTerm(s, term)
	if n == 0 {
		return s, 0
	}
	if isASCII(term) {
		return boundaryPattern(term).ReplaceAllLiteralString(s, replacement), n
	}
	return strings.ReplaceAll(s, term, replacement), n
}

// CollapseSpaces squeezes runs of spaces and trims trailing spaces on each line.
func CollapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		body := strings.TrimLeft(line, " \t")
		indent := line[:len(line)-len(body)]
		lines[i] = indent + strings.Join(strings.Fields(body), " ")
	}
	return strings.Join(lines, "\n")
}

// IsChinese reports whether the CJK share of s exceeds threshold.
func IsChinese(s string, threshold float64) bool {
	total := RuneLen(s)
	if total == 0 {
		return false
	}
	return float64(CountCJK(s))/float64(total) > threshold
}
