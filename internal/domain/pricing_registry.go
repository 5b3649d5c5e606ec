package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrPricingNotFound indicates the model has no configured price.
var ErrPricingNotFound = errors.New("pricing not found")

// InMemoryPricingRegistry stores prices keyed by normalized model id.
type InMemoryPricingRegistry struct {
	mu      sync.RWMutex
	pricing map[string]PricingConfig
}

// NewInMemoryPricingRegistry creates a new in-memory pricing registry.
func NewInMemoryPricingRegistry() *InMemoryPricingRegistry {
	return &InMemoryPricingRegistry{
		mu:      sync.RWMutex{},
		pricing: make(map[string]PricingConfig),
	}
}

func normalizeModel(model string) string {
	return strings.ToLower(strings.TrimSpace(model))
}

// GetPricing returns the price of model or an error wrapping ErrPricingNotFound.
func (r *InMemoryPricingRegistry) GetPricing(_ context.Context, model string) (PricingConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, ok := r.pricing[normalizeModel(model)]
	if !ok {
		return PricingConfig{}, fmt.Errorf("%w for model: %s", ErrPricingNotFound, model)
	}
	return config, nil
}

// RegisterPricing sets the price of model. Negative prices are rejected.
func (r *InMemoryPricingRegistry) RegisterPricing(_ context.Context, model string, config PricingConfig) error {
	key := normalizeModel(model)
	if key == "" {
		return errors.New("model cannot be empty")
	}
	if config.InputCostPer1K < 0 || config.OutputCostPer1K < 0 {
		return fmt.Errorf("negative price for model %s", model)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pricing[key] = config
	return nil
}

// Models lists the priced models in lexical order.
func (r *InMemoryPricingRegistry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.pricing))
	for model := range r.pricing {
		out = append(out, model)
	}
	sort.Strings(out)
	return out
}

// RegisterPricingTable registers every entry of table in model order, stopping at
// the first failure.
func RegisterPricingTable(ctx context.Context, registry PricingRegistry, table map[string]PricingConfig) error {
	if registry == nil {
		return errors.New("pricing registry cannot be nil")
	}

	models := make([]string, 0, len(table))
	for model := range table {
		models = append(models, model)
	}
	sort.Strings(models)

	for _, model := range models {
		if err := registry.RegisterPricing(ctx, model, table[model]); err != nil {
			return fmt.Errorf("failed to register pricing for model %s: %w", model, err)
		}
	}
	return nil
}
