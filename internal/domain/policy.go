package domain

// LevelPolicy maps an optimization level to the highest rule priority it admits.
// A ceiling of zero admits every priority.
type LevelPolicy map[Level]int

// DefaultLevelPolicy returns basic ⇒ 5, advanced ⇒ 8, expert ⇒ unrestricted.
func DefaultLevelPolicy() LevelPolicy {
	return LevelPolicy{
		LevelBasic:    5,
		LevelAdvanced: 8,
		LevelExpert:   0,
	}
}

// MaxPriority returns the ceiling for level; unknown levels are unrestricted.
func (p LevelPolicy) MaxPriority(level Level) int {
	return p[level]
}

// Matches reports whether rule passes every filter of the query.
func (q RuleQuery) Matches(rule *OptimizationRule) bool {
	if q.ActiveOnly && !rule.Active {
		return false
	}

	if q.Model != "" && !rule.AppliesToModel(q.Model) {
		return false
	}

	if q.MaxPriority > 0 && rule.Priority > q.MaxPriority {
		return false
	}

	return q.matchesCategories(rule)
}

func (q RuleQuery) matchesCategories(rule *OptimizationRule) bool {
	if len(q.Categories) == 0 || len(rule.Domains) == 0 {
		return true
	}

	for _, want := range q.Categories {
		for _, got := range rule.Domains {
			if want == got {
				return true
			}
		}
	}
	return false
}
