package domain

// MergeOverrides applies request overrides to the queried candidates. An
// override replaces the candidate with the same id in place, an inactive
// override removes it, and unknown ids are appended. Overrides are held to the
// active and model filters but not to the level ceiling.
func MergeOverrides(candidates, overrides []OptimizationRule, model string) []OptimizationRule {
	if len(overrides) == 0 {
		return candidates
	}

	byID := make(map[string]OptimizationRule, len(overrides))
	order := make([]string, 0, len(overrides))
	for _, o := range overrides {
		if o.ID == "" {
			continue
		}
		if _, dup := byID[o.ID]; !dup {
			order = append(order, o.ID)
		}
		byID[o.ID] = o
	}

	keep := func(r *OptimizationRule) bool {
		return r.Active && r.AppliesToModel(model)
	}

	out := make([]OptimizationRule, 0, len(candidates)+len(order))
	used := make(map[string]bool, len(order))
	for _, c := range candidates {
		o, ok := byID[c.ID]
		if !ok {
			out = append(out, c)
			continue
		}
		used[c.ID] = true
		if keep(&o) {
			out = append(out, o)
		}
	}

	for _, ruleID := range order {
		if used[ruleID] {
			continue
		}
		o := byID[ruleID]
		if keep(&o) {
			out = append(out, o)
		}
	}

	return out
}
