package analyzer

import (
	"github.com/davidbz/promptsmith/internal/textutil"
)

const (
	vaguePenalty       = 0.05
	longSentenceChars  = 200
	shortSentenceChars = 20
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func structureScore(s *scan) float64 {
	score := 0.5

	if numberedLine.MatchString(s.text) {
		score += 0.15
	}
	if bulletLine.MatchString(s.text) {
		score += 0.1
	}
	if headerLine.MatchString(s.text) {
		score += 0.1
	}
	if separator.MatchString(s.text) {
		score += 0.1
	}

	switch n := len(s.paragraphs); {
	case n >= 2 && n <= 5:
		score += 0.1
	case n > 5:
		score -= 0.05
	}

	return clamp01(score)
}

func clarityScore(s *scan) float64 {
	score := 0.7 - vaguePenalty*float64(s.vague)
	if score < 0 {
		score = 0
	}

	if len(s.sentences) > 0 {
		total := 0
		for _, sentence := range s.sentences {
			total += textutil.RuneLen(sentence)
		}
		avg := total / len(s.sentences)
		if avg > longSentenceChars || avg < shortSentenceChars {
			score -= 0.1
		}
	}

	if s.instructions > 0 {
		score += 0.1
	}

	return clamp01(score)
}

func specificityScore(s *scan) float64 {
	score := 0.5

	if numeral.MatchString(s.text) {
		score += 0.1
	}
	if datePattern.MatchString(s.text) {
		score += 0.1
	}
	if quoted.MatchString(s.text) {
		score += 0.1
	}
	if properNoun.MatchString(s.text) {
		score += 0.05
	}
	if s.constraints > 0 {
		score += 0.1
	}
	if s.formatHits > 0 {
		score += 0.1
	}

	return clamp01(score)
}

func completenessScore(s *scan) float64 {
	score := 0.6

	if s.contextHits > 0 || s.hasSystem {
		score += 0.1
	}
	if s.instructions > 0 {
		score += 0.1
	}
	if s.outputHits > 0 {
		score += 0.1
	}
	if s.exampleHits > 0 {
		score += 0.1
	}

	return clamp01(score)
}
