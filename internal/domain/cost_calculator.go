package domain

import (
	"context"
)

const tokensToPerK = 1000.0

// StandardCostCalculator prices prompts as input tokens.
type StandardCostCalculator struct {
	pricingRegistry PricingRegistry
}

// NewStandardCostCalculator creates a new cost calculator.
func NewStandardCostCalculator(registry PricingRegistry) *StandardCostCalculator {
	return &StandardCostCalculator{
		pricingRegistry: registry,
	}
}

// Estimate computes the cost of the original and optimized prompt.
// A model without pricing yields nil rather than a zero cost.
func (c *StandardCostCalculator) Estimate(
	ctx context.Context,
	model string,
	originalTokens, optimizedTokens int,
) *CostEstimate {
	if model == "" || c.pricingRegistry == nil {
		return nil
	}

	pricing, err := c.pricingRegistry.GetPricing(ctx, model)
	if err != nil {
		return nil
	}

	return &CostEstimate{
		OriginalCost:  float64(originalTokens) / tokensToPerK * pricing.InputCostPer1K,
		OptimizedCost: float64(optimizedTokens) / tokensToPerK * pricing.InputCostPer1K,
		Currency:      Currency,
	}
}
