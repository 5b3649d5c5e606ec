package domain

import "math"

const (
	confidenceBase = 0.5
	confidenceMin  = 0.1
	confidenceMax  = 1.0

	perRule      = 0.05
	maxRuleBonus = 0.2

	perPractice      = 0.03
	maxPracticeBonus = 0.15

	perHighImpact   = 0.1
	perMediumImpact = 0.05

	qualityThreshold = 0.8
	qualityBonus     = 0.1
)

// ScoreConfidence combines applied-rule and applied-practice counts, the impact
// of every improvement and the structure and clarity of the input into [0.1, 1.0].
func ScoreConfidence(appliedRules, appliedPractices int, improvements []Improvement, analysis *PromptAnalysis) float64 {
	score := confidenceBase
	score += math.Min(maxRuleBonus, perRule*float64(appliedRules))
	score += math.Min(maxPracticeBonus, perPractice*float64(appliedPractices))

	for _, imp := range improvements {
		switch imp.Impact {
		case ImpactHigh:
			score += perHighImpact
		case ImpactMedium:
			score += perMediumImpact
		}
	}

	if analysis != nil {
		if analysis.StructureScore > qualityThreshold {
			score += qualityBonus
		}
		if analysis.ClarityScore > qualityThreshold {
			score += qualityBonus
		}
	}

	return math.Min(confidenceMax, math.Max(confidenceMin, score))
}
