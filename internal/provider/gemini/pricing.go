package gemini

import (
	"context"

	"github.com/davidbz/promptsmith/internal/domain"
)

const (
	proInputCostPer1K  = 0.00125
	proOutputCostPer1K = 0.005

	flashInputCostPer1K  = 0.000075
	flashOutputCostPer1K = 0.0003

	flash2InputCostPer1K  = 0.0001
	flash2OutputCostPer1K = 0.0004
)

// RegisterPricing registers Gemini model pricing with the registry.
func RegisterPricing(ctx context.Context, registry domain.PricingRegistry) error {
	models := map[string]domain.PricingConfig{
		"gemini-1.5-pro":   {InputCostPer1K: proInputCostPer1K, OutputCostPer1K: proOutputCostPer1K},
		"gemini-1.5-flash": {InputCostPer1K: flashInputCostPer1K, OutputCostPer1K: flashOutputCostPer1K},
		"gemini-2.0-flash": {InputCostPer1K: flash2InputCostPer1K, OutputCostPer1K: flash2OutputCostPer1K},
	}

	return domain.RegisterPricingTable(ctx, registry, models)
}
