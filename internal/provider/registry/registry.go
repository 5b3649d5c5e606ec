package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/davidbz/promptsmith/internal/domain"
)

// Registry implements the AdapterRegistry interface.
type Registry struct {
	mu             sync.RWMutex
	adapters       map[string]domain.ModelAdapter
	modelToAdapter map[string]string
}

// NewRegistry creates a new adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:             sync.RWMutex{},
		adapters:       make(map[string]domain.ModelAdapter),
		modelToAdapter: make(map[string]string),
	}
}

// Register adds an adapter to the registry.
func (r *Registry) Register(_ context.Context, adapter domain.ModelAdapter) error {
	if adapter == nil {
		return errors.New("adapter cannot be nil")
	}

	name := adapter.Info().Provider
	if name == "" {
		return errors.New("adapter provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("adapter %s already registered", name)
	}

	for _, model := range adapter.SupportedModels() {
		if owner, taken := r.modelToAdapter[model]; taken {
			return fmt.Errorf("model %s already served by %s", model, owner)
		}
	}

	r.adapters[name] = adapter

	// Build reverse index from adapter's supported models
	for _, model := range adapter.SupportedModels() {
		r.modelToAdapter[model] = name
	}

	return nil
}

// Get retrieves an adapter by provider name.
func (r *Registry) Get(_ context.Context, providerName string) (domain.ModelAdapter, error) {
	if providerName == "" {
		return nil, errors.New("provider name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.adapters[providerName]
	if !exists {
		return nil, fmt.Errorf("adapter %s not found", providerName)
	}

	return adapter, nil
}

// List returns the registered provider names in sorted order.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// GetByModel retrieves the adapter that serves the given model.
func (r *Registry) GetByModel(_ context.Context, model string) (domain.ModelAdapter, error) {
	if model == "" {
		return nil, errors.New("model cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	name, exists := r.modelToAdapter[model]
	if !exists {
		// Adapters may accept models outside their advertised list
		for _, adapterName := range sortedKeys(r.adapters) {
			if r.adapters[adapterName].IsModelSupported(model) {
				return r.adapters[adapterName], nil
			}
		}
		return nil, fmt.Errorf("no adapter found for model: %s", model)
	}

	return r.adapters[name], nil
}

func sortedKeys(m map[string]domain.ModelAdapter) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
