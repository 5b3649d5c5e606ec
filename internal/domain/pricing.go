package domain

import "context"

// Currency of every configured price.
const Currency = "USD"

// PricingConfig contains model pricing information.
type PricingConfig struct {
	InputCostPer1K  float64 // USD per 1K input tokens
	OutputCostPer1K float64 // USD per 1K output tokens
}

// PricingRegistry maintains pricing information for models.
type PricingRegistry interface {
	// GetPricing returns pricing config for a model.
	GetPricing(ctx context.Context, model string) (PricingConfig, error)

	// RegisterPricing adds pricing for a model.
	RegisterPricing(ctx context.Context, model string, config PricingConfig) error
}

// CostCalculator prices prompt tokens for a model.
type CostCalculator interface {
	// Estimate returns the cost of both prompts, or nil when the model has no price.
	Estimate(ctx context.Context, model string, originalTokens, optimizedTokens int) *CostEstimate
}
