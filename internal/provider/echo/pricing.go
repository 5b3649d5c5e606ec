package echo

import (
	"context"

	"github.com/davidbz/promptsmith/internal/domain"
)

// RegisterPricing prices the echo model at zero so cost estimates stay populated
// in offline runs.
func RegisterPricing(ctx context.Context, registry domain.PricingRegistry) error {
	return domain.RegisterPricingTable(ctx, registry, map[string]domain.PricingConfig{
		modelName: {},
	})
}
