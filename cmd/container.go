package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/promptsmith/internal/analyzer"
	"github.com/davidbz/promptsmith/internal/cache"
	"github.com/davidbz/promptsmith/internal/cache/memory"
	"github.com/davidbz/promptsmith/internal/cache/redis"
	"github.com/davidbz/promptsmith/internal/config"
	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/httpserver"
	"github.com/davidbz/promptsmith/internal/httpserver/middleware"
	"github.com/davidbz/promptsmith/internal/observability"
	"github.com/davidbz/promptsmith/internal/practices"
	"github.com/davidbz/promptsmith/internal/provider/anthropic"
	"github.com/davidbz/promptsmith/internal/provider/deepseek"
	"github.com/davidbz/promptsmith/internal/provider/echo"
	"github.com/davidbz/promptsmith/internal/provider/gemini"
	"github.com/davidbz/promptsmith/internal/provider/openai"
	"github.com/davidbz/promptsmith/internal/provider/registry"
	"github.com/davidbz/promptsmith/internal/routing"
	"github.com/davidbz/promptsmith/internal/rules"
	"github.com/davidbz/promptsmith/internal/storage/postgres"
)

type pricingFunc func(ctx context.Context, registry domain.PricingRegistry) error

func buildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []struct {
		name        string
		constructor any
	}{
		// Configuration
		{"config", config.Load},
		{"config dependencies", config.ParseDependenciesConfig},

		// Observability
		{"logger", observability.InitLogger},
		{"event publisher", func(logger *zap.Logger) domain.EventPublisher {
			return observability.NewEventBus(logger)
		}},

		// Pricing
		{"pricing registry", providePricing},
		{"cost calculator", func(reg domain.PricingRegistry) domain.CostCalculator {
			return domain.NewStandardCostCalculator(reg)
		}},

		// Adapters
		{"adapter registry", provideAdapters},
		{"resolver", routing.NewResolver},
		{"adapter resolver", func(r *routing.Resolver) domain.AdapterResolver { return r }},
		{"model catalog", func(r *routing.Resolver) domain.ModelCatalog { return r }},

		// Pipeline
		{"rule source", provideRuleSource},
		{"analyzer", func() domain.Analyzer { return analyzer.New() }},
		{"rule engine", func() (domain.RuleEngine, error) { return rules.NewEngine() }},
		{"practices", func() domain.PracticeApplier { return practices.NewTransformer() }},
		{"optimizer service", provideOptimizerService},
		{"optimizer", provideOptimizer},

		// HTTP Layer
		{"http handler", httpserver.NewHandler},
		{"middleware", middleware.BuildMiddlewareChain},
		{"http server", httpserver.NewServer},
	}

	for _, p := range providers {
		if err := container.Provide(p.constructor); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", p.name, err)
		}
	}

	return container, nil
}

func providePricing() (domain.PricingRegistry, error) {
	ctx := context.Background()
	reg := domain.NewInMemoryPricingRegistry()

	for _, register := range []pricingFunc{
		echo.RegisterPricing,
		openai.RegisterPricing,
		anthropic.RegisterPricing,
		deepseek.RegisterPricing,
		gemini.RegisterPricing,
	} {
		if err := register(ctx, reg); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// provideAdapters registers every adapter. Adapters without an API key stay
// registered and run their local rules only.
func provideAdapters(cfg *config.ProvidersConfig) (domain.AdapterRegistry, error) {
	ctx := context.Background()
	logger := observability.FromContext(ctx)
	reg := registry.NewRegistry()

	echoAdapter, err := echo.NewAdapter()
	if err != nil {
		return nil, fmt.Errorf("failed to create echo adapter: %w", err)
	}
	openaiAdapter, err := openai.NewAdapter(cfg.OpenAI)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai adapter: %w", err)
	}
	anthropicAdapter, err := anthropic.NewAdapter(cfg.Anthropic)
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic adapter: %w", err)
	}
	deepseekAdapter, err := deepseek.NewAdapter(cfg.DeepSeek)
	if err != nil {
		return nil, fmt.Errorf("failed to create deepseek adapter: %w", err)
	}
	geminiAdapter, err := gemini.NewAdapter(ctx, cfg.Gemini)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini adapter: %w", err)
	}

	remote := map[string]bool{
		"openai":    cfg.OpenAI.Enabled(),
		"anthropic": cfg.Anthropic.Enabled(),
		"deepseek":  cfg.DeepSeek.Enabled(),
		"gemini":    cfg.Gemini.Enabled(),
	}

	for _, adapter := range []domain.ModelAdapter{echoAdapter, openaiAdapter, anthropicAdapter, deepseekAdapter, geminiAdapter} {
		if err := reg.Register(ctx, adapter); err != nil {
			return nil, fmt.Errorf("failed to register %s adapter: %w", adapter.Info().Provider, err)
		}

		name := adapter.Info().Provider
		logger.Info("adapter registered",
			observability.String("adapter", name),
			observability.Bool("remote_rewrite", remote[name]),
			observability.Int("models", len(adapter.SupportedModels())),
		)
	}

	return reg, nil
}

func provideRuleSource(cfg *config.RulesConfig) (domain.RuleSource, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return rules.NewMemorySource(rules.DefaultRules()), nil
	case config.BackendPostgres:
		pool, err := postgres.Connect(context.Background(), cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewRuleSource(pool)
	default:
		return nil, fmt.Errorf("unknown rules backend %q", cfg.Backend)
	}
}

func provideOptimizerService(
	a domain.Analyzer,
	source domain.RuleSource,
	engine domain.RuleEngine,
	applier domain.PracticeApplier,
	resolver domain.AdapterResolver,
	costs domain.CostCalculator,
	events domain.EventPublisher,
	cfg *config.OptimizerConfig,
) (*domain.OptimizerService, error) {
	return domain.NewOptimizerService(a, source, engine, applier, resolver, costs, events, cfg.Settings())
}

// provideOptimizer wraps the service with the configured result cache.
func provideOptimizer(svc *domain.OptimizerService, cfg *config.CacheConfig) (domain.Optimizer, error) {
	var store domain.ResultCache

	switch cfg.Backend {
	case config.BackendNone, "":
		return svc, nil
	case config.BackendMemory:
		mem, err := memory.NewStore(cfg.Size)
		if err != nil {
			return nil, err
		}
		store = mem
	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		rs, err := redis.NewStore(client)
		if err != nil {
			return nil, err
		}
		if err := rs.Ping(context.Background()); err != nil {
			observability.FromContext(context.Background()).Warn("redis unreachable, cache lookups will fail open",
				observability.Error(err))
		}
		store = rs
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}

	return cache.NewOptimizer(svc, store, cfg.Backend, cfg.TTL())
}
