package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/provider/base"
)

// Rule and cache backends.
const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config represents the service configuration.
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	Optimizer OptimizerConfig
	Rules     RulesConfig
	Cache     CacheConfig
	Tracing   TracingConfig
	Providers ProvidersConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"120"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// OptimizerConfig tunes request limits and the level policy.
type OptimizerConfig struct {
	MaxPromptRunes      int `env:"OPTIMIZER_MAX_PROMPT_LENGTH"     envDefault:"50000"`
	BasicMaxPriority    int `env:"OPTIMIZER_BASIC_MAX_PRIORITY"    envDefault:"5"`
	AdvancedMaxPriority int `env:"OPTIMIZER_ADVANCED_MAX_PRIORITY" envDefault:"8"`
	ExpertMaxPriority   int `env:"OPTIMIZER_EXPERT_MAX_PRIORITY"   envDefault:"0"`
}

// Settings converts the section into orchestrator settings.
func (c OptimizerConfig) Settings() domain.OptimizerSettings {
	return domain.OptimizerSettings{
		MaxPromptRunes: c.MaxPromptRunes,
		Policy: domain.LevelPolicy{
			domain.LevelBasic:    c.BasicMaxPriority,
			domain.LevelAdvanced: c.AdvancedMaxPriority,
			domain.LevelExpert:   c.ExpertMaxPriority,
		},
	}
}

// RulesConfig selects the rule repository.
type RulesConfig struct {
	Backend     string `env:"RULES_BACKEND" envDefault:"memory"`
	PostgresDSN string `env:"POSTGRES_DSN"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend       string `env:"CACHE_BACKEND"   envDefault:"none"`
	Size          int    `env:"CACHE_SIZE"      envDefault:"1024"`
	TTLSeconds    int    `env:"CACHE_TTL"       envDefault:"3600"`
	RedisAddr     string `env:"REDIS_ADDR"      envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"        envDefault:"0"`
}

// TTL returns the entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// TracingConfig toggles the stdout span exporter.
type TracingConfig struct {
	Enabled bool `env:"TRACING_ENABLED" envDefault:"false"`
}

// ProvidersConfig holds the remote settings of every adapter.
type ProvidersConfig struct {
	OpenAI    base.RemoteConfig `envPrefix:"OPENAI_"`
	Anthropic base.RemoteConfig `envPrefix:"ANTHROPIC_"`
	DeepSeek  base.RemoteConfig `envPrefix:"DEEPSEEK_"`
	Gemini    base.RemoteConfig `envPrefix:"GEMINI_"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*OptimizerConfig
	*RulesConfig
	*CacheConfig
	*TracingConfig
	*ProvidersConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Optimizer,
		&cfg.Rules,
		&cfg.Cache,
		&cfg.Tracing,
		&cfg.Providers,
	}
}
