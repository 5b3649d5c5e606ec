package deepseek

import (
	"context"

	"github.com/davidbz/promptsmith/internal/domain"
)

const (
	chatInputCostPer1K  = 0.00027
	chatOutputCostPer1K = 0.0011

	reasonerInputCostPer1K  = 0.00055
	reasonerOutputCostPer1K = 0.00219
)

// RegisterPricing registers DeepSeek model pricing with the registry.
func RegisterPricing(ctx context.Context, registry domain.PricingRegistry) error {
	models := map[string]domain.PricingConfig{
		"deepseek-chat":     {InputCostPer1K: chatInputCostPer1K, OutputCostPer1K: chatOutputCostPer1K},
		"deepseek-coder":    {InputCostPer1K: chatInputCostPer1K, OutputCostPer1K: chatOutputCostPer1K},
		"deepseek-reasoner": {InputCostPer1K: reasonerInputCostPer1K, OutputCostPer1K: reasonerOutputCostPer1K},
	}

	return domain.RegisterPricingTable(ctx, registry, models)
}
