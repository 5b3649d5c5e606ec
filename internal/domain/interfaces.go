package domain

import "context"

// ModelAdapter is the capability set of one provider family.
type ModelAdapter interface {
	// Info returns the adapter identity.
	Info() ModelInfo

	// MaxTokens is the context budget used by validation.
	MaxTokens() int

	// SupportedRoles lists the message roles the provider accepts.
	SupportedRoles() []Role

	// SupportedModels lists the model ids served by this adapter.
	SupportedModels() []string

	// IsModelSupported checks if the adapter serves the given model.
	IsModelSupported(model string) bool

	// Optimize performs the provider-tuned final rewrite. Remote failures are
	// absorbed and reported through AdapterResult.Degraded.
	Optimize(ctx context.Context, req *AdapterRequest) (*AdapterResult, error)

	// Validate checks safety and format constraints of text.
	Validate(text string) ValidationReport

	// ModelSpecificRules returns the provider rule catalogue.
	ModelSpecificRules() []OptimizationRule

	// FormatForModel renders a structured prompt in the provider's preferred layout.
	FormatForModel(prompt StructuredPrompt) string

	// EstimateTokens estimates the token count of text.
	EstimateTokens(text string) (int, error)

	// CheckConnection reports whether the upstream API is reachable.
	CheckConnection(ctx context.Context) bool
}

// AdapterRegistry manages available adapters.
type AdapterRegistry interface {
	// Register adds an adapter to the registry.
	Register(ctx context.Context, adapter ModelAdapter) error

	// Get retrieves an adapter by provider name.
	Get(ctx context.Context, providerName string) (ModelAdapter, error)

	// GetByModel retrieves the adapter serving the given model.
	GetByModel(ctx context.Context, model string) (ModelAdapter, error)

	// List returns the registered provider names.
	List(ctx context.Context) ([]string, error)
}

// AdapterResolver maps a target model to its adapter.
type AdapterResolver interface {
	// Resolve returns the adapter for model or an error wrapping ErrModelUnavailable.
	Resolve(ctx context.Context, model string) (ModelAdapter, error)
}

// RuleQuery filters candidate rules.
type RuleQuery struct {
	ActiveOnly bool
	Model      string
	// MaxPriority of zero means unrestricted.
	MaxPriority int
	Categories  []PromptCategory
}

// RuleSource supplies ordered candidate rules.
type RuleSource interface {
	// FindRules returns the rules matching query, in source order.
	FindRules(ctx context.Context, query RuleQuery) ([]OptimizationRule, error)
}

// Analyzer derives a PromptAnalysis from text.
type Analyzer interface {
	Analyze(text string, actx AnalysisContext) *PromptAnalysis
}

// AnalysisContext carries request data that informs, but is not part of, the text.
type AnalysisContext struct {
	SystemPrompt string
	Role         Role
	TargetModel  string
	Hints        map[string]string
}

// RuleLogEntry records the engine's decision for one rule.
type RuleLogEntry struct {
	RuleID  string `json:"rule_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RuleOutcome is the output of RuleEngine.Apply.
type RuleOutcome struct {
	Text           string
	AppliedRuleIDs []string
	Improvements   []Improvement
	Log            []RuleLogEntry
}

// RuleEngine applies a candidate rule set to text.
type RuleEngine interface {
	Apply(ctx context.Context, text string, rules []OptimizationRule, analysis *PromptAnalysis) RuleOutcome
}

// PracticeOutcome is the output of PracticeApplier.Apply.
type PracticeOutcome struct {
	Text               string
	AppliedPracticeIDs []string
	Improvements       []Improvement
}

// PracticeApplier applies the curated best-practice catalogue.
type PracticeApplier interface {
	Apply(ctx context.Context, text, targetModel string, role Role, analysis *PromptAnalysis) PracticeOutcome
}

// Optimizer is the core-exposed operation.
type Optimizer interface {
	// Optimize returns a result or a *ValidationError.
	Optimize(ctx context.Context, req *OptimizationRequest) (*OptimizationResult, error)
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// ModelCatalog lists the registered adapters.
type ModelCatalog interface {
	Catalog(ctx context.Context) ([]ModelAdapter, error)
}
