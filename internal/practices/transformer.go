// Package practices applies the curated best-practice catalogue: provider
// family guidance first, then universal writing craft. Every practice is gated
// on the analysis and on the current text so that reapplying is a no-op.
package practices

import (
	"context"
	"strings"

	"github.com/davidbz/promptsmith/internal/analyzer"
	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/id"
	"github.com/davidbz/promptsmith/internal/observability"
)

// Provider families.
const (
	FamilyOpenAI    = "openai"
	FamilyAnthropic = "anthropic"
	FamilyDeepSeek  = "deepseek"
	FamilyGemini    = "gemini"
)

var familyPrefixes = []struct {
	prefix string
	family string
}{
	{"gpt", FamilyOpenAI},
	{"o1", FamilyOpenAI},
	{"o3", FamilyOpenAI},
	{"claude", FamilyAnthropic},
	{"deepseek", FamilyDeepSeek},
	{"gemini", FamilyGemini},
}

// Family returns the provider family of model, or "" when none matches.
func Family(model string) string {
	model = strings.ToLower(strings.TrimSpace(model))
	for _, fp := range familyPrefixes {
		if strings.HasPrefix(model, fp.prefix) {
			return fp.family
		}
	}
	return ""
}

// input is what a practice sees.
type input struct {
	text     string
	role     domain.Role
	lang     string
	analysis *domain.PromptAnalysis
}

func (in input) zh() bool {
	return in.lang == "zh"
}

// Practice is one curated transformation.
type Practice struct {
	ID          string
	Name        string
	Family      string
	Category    string
	Description string
	Rationale   string
	Impact      domain.Impact

	applies func(in input) bool
	apply   func(in input) string
}

// Transformer implements domain.PracticeApplier.
type Transformer struct {
	families  map[string][]Practice
	universal []Practice
}

// NewTransformer creates a transformer over the built-in catalogue.
func NewTransformer() *Transformer {
	t := &Transformer{families: make(map[string][]Practice)}
	for _, p := range catalogue() {
		if p.Family == "" {
			t.universal = append(t.universal, p)
			continue
		}
		t.families[p.Family] = append(t.families[p.Family], p)
	}
	return t
}

// Practices returns the practices that run for model, in order.
func (t *Transformer) Practices(model string) []Practice {
	out := append([]Practice(nil), t.families[Family(model)]...)
	return append(out, t.universal...)
}

// Apply runs the family catalogue of targetModel and then the universal one.
func (t *Transformer) Apply(ctx context.Context, text, targetModel string, role domain.Role, analysis *domain.PromptAnalysis) domain.PracticeOutcome {
	logger := observability.FromContext(ctx)

	if analysis == nil {
		analysis = &domain.PromptAnalysis{}
	}

	lang := analysis.Language
	if lang == "" {
		lang = analyzer.DetectLanguage(text)
	}

	outcome := domain.PracticeOutcome{
		Text:               text,
		AppliedPracticeIDs: []string{},
		Improvements:       []domain.Improvement{},
	}

	for _, p := range t.Practices(targetModel) {
		in := input{text: outcome.Text, role: role, lang: lang, analysis: analysis}
		if !p.applies(in) {
			continue
		}

		after := p.apply(in)
		if after == outcome.Text {
			continue
		}

		outcome.Improvements = append(outcome.Improvements, domain.Improvement{
			ID:          id.NewImprovement(),
			Source:      "practice:" + p.ID,
			Category:    p.Category,
			Description: p.Description,
			Impact:      p.Impact,
			Before:      outcome.Text,
			After:       after,
			Rationale:   p.Rationale,
		})
		outcome.AppliedPracticeIDs = append(outcome.AppliedPracticeIDs, p.ID)
		outcome.Text = after

		logger.Debug("best practice applied", observability.String("practice_id", p.ID))
	}

	return outcome
}
