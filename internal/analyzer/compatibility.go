package analyzer

import (
	"github.com/davidbz/promptsmith/internal/domain"
)

// Provider names used as ModelCompatibility keys.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderDeepSeek  = "deepseek"
	ProviderGemini    = "gemini"
)

//nolint:gochecknoglobals // read-only lookup table
var baseCompatibility = map[string]float64{
	ProviderOpenAI:    0.85,
	ProviderAnthropic: 0.85,
	ProviderDeepSeek:  0.8,
	ProviderGemini:    0.8,
}

func compatibility(s *scan, a *domain.PromptAnalysis) map[string]float64 {
	out := make(map[string]float64, len(baseCompatibility))
	for provider, base := range baseCompatibility {
		out[provider] = base
	}

	codeHeavy := a.HasCategory(domain.CategoryTechnical) || codeFence.MatchString(s.text)
	if codeHeavy {
		out[ProviderDeepSeek] += 0.1
		out[ProviderOpenAI] += 0.05
	}

	if s.words > 500 {
		out[ProviderAnthropic] += 0.05
		out[ProviderGemini] += 0.05
		out[ProviderDeepSeek] -= 0.05
	}

	if s.words < 10 {
		for provider := range out {
			out[provider] -= 0.05
		}
	}

	if a.Language == "zh" {
		out[ProviderDeepSeek] += 0.05
	}

	if a.HasCategory(domain.CategoryCreative) {
		out[ProviderAnthropic] += 0.05
	}

	if a.HasCategory(domain.CategoryAnalytical) {
		out[ProviderGemini] += 0.05
	}

	for provider, v := range out {
		out[provider] = clamp01(v)
	}
	return out
}
