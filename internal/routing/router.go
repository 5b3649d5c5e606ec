package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davidbz/promptsmith/internal/domain"
)

// Resolver maps target models to adapters through the registry.
type Resolver struct {
	registry domain.AdapterRegistry
}

// NewResolver creates a new resolver.
func NewResolver(registry domain.AdapterRegistry) (*Resolver, error) {
	if registry == nil {
		return nil, errors.New("registry cannot be nil")
	}

	return &Resolver{
		registry: registry,
	}, nil
}

// Resolve returns the adapter serving model. Every failure wraps
// domain.ErrModelUnavailable.
func (r *Resolver) Resolve(ctx context.Context, model string) (domain.ModelAdapter, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("%w: target model is required", domain.ErrModelUnavailable)
	}

	adapter, err := r.registry.GetByModel(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%v)", domain.ErrModelUnavailable, model, err)
	}

	return adapter, nil
}

// Catalog lists every registered adapter with its models.
func (r *Resolver) Catalog(ctx context.Context) ([]domain.ModelAdapter, error) {
	names, err := r.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list adapters: %w", err)
	}

	adapters := make([]domain.ModelAdapter, 0, len(names))
	for _, name := range names {
		adapter, getErr := r.registry.Get(ctx, name)
		if getErr != nil {
			continue
		}
		adapters = append(adapters, adapter)
	}

	return adapters, nil
}
