package anthropic

import (
	"context"

	"github.com/davidbz/promptsmith/internal/domain"
)

const (
	opusInputCostPer1K  = 0.015
	opusOutputCostPer1K = 0.075

	// Sonnet pricing per 1K tokens, shared by 3 and 3.5
	sonnetInputCostPer1K  = 0.003
	sonnetOutputCostPer1K = 0.015

	haikuInputCostPer1K  = 0.00025
	haikuOutputCostPer1K = 0.00125
)

// RegisterPricing registers Claude model pricing with the registry.
func RegisterPricing(ctx context.Context, registry domain.PricingRegistry) error {
	models := map[string]domain.PricingConfig{
		"claude-3-opus":     {InputCostPer1K: opusInputCostPer1K, OutputCostPer1K: opusOutputCostPer1K},
		"claude-3-sonnet":   {InputCostPer1K: sonnetInputCostPer1K, OutputCostPer1K: sonnetOutputCostPer1K},
		"claude-3-5-sonnet": {InputCostPer1K: sonnetInputCostPer1K, OutputCostPer1K: sonnetOutputCostPer1K},
		"claude-3-haiku":    {InputCostPer1K: haikuInputCostPer1K, OutputCostPer1K: haikuOutputCostPer1K},
	}

	return domain.RegisterPricingTable(ctx, registry, models)
}
