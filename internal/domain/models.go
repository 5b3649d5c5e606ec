package domain

import (
	"maps"
	"slices"
)

// Role is the chat role the optimized prompt will be sent as.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the supported message roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Level controls how aggressive the optimization is.
type Level string

const (
	LevelBasic    Level = "basic"
	LevelAdvanced Level = "advanced"
	LevelExpert   Level = "expert"
)

// Valid reports whether l is a known optimization level.
func (l Level) Valid() bool {
	switch l {
	case LevelBasic, LevelAdvanced, LevelExpert:
		return true
	default:
		return false
	}
}

// OptimizationRequest is the immutable input of one optimization run.
type OptimizationRequest struct {
	Prompt        string             `json:"prompt"`
	TargetModel   string             `json:"target_model"`
	Role          Role               `json:"role"`
	SystemPrompt  string             `json:"system_prompt,omitempty"`
	Level         Level              `json:"level"`
	RuleOverrides []OptimizationRule `json:"rule_overrides,omitempty"`
	RequesterID   string             `json:"requester_id,omitempty"`
	Context       map[string]string  `json:"context,omitempty"`
}

// PromptCategory tags the kind of task a prompt describes.
type PromptCategory string

const (
	CategoryCreative       PromptCategory = "creative"
	CategoryAnalytical     PromptCategory = "analytical"
	CategoryConversational PromptCategory = "conversational"
	CategoryTechnical      PromptCategory = "technical"
	CategoryEducational    PromptCategory = "educational"
	CategoryBusiness       PromptCategory = "business"
	CategoryGeneral        PromptCategory = "general"
)

// Complexity is the coarse size/effort tier of a prompt.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// PromptAnalysis is a read-only snapshot of the input prompt.
type PromptAnalysis struct {
	WordCount      int `json:"word_count"`
	CharacterCount int `json:"character_count"`
	SentenceCount  int `json:"sentence_count"`
	ParagraphCount int `json:"paragraph_count"`

	StructureScore    float64 `json:"structure_score"`
	ClarityScore      float64 `json:"clarity_score"`
	SpecificityScore  float64 `json:"specificity_score"`
	CompletenessScore float64 `json:"completeness_score"`

	HasVagueInstructions       bool `json:"has_vague_instructions"`
	LacksContext               bool `json:"lacks_context"`
	MissingExamples            bool `json:"missing_examples"`
	TooManyInstructions        bool `json:"too_many_instructions"`
	HasConflictingInstructions bool `json:"has_conflicting_instructions"`

	InstructionCount int `json:"instruction_count"`
	VagueCount       int `json:"vague_count"`

	Categories         []PromptCategory   `json:"categories"`
	Complexity         Complexity         `json:"complexity"`
	Language           string             `json:"language"`
	Tone               string             `json:"tone"`
	ModelCompatibility map[string]float64 `json:"model_compatibility"`
}

// HasCategory reports whether the analysis detected category c.
func (a *PromptAnalysis) HasCategory(c PromptCategory) bool {
	for _, got := range a.Categories {
		if got == c {
			return true
		}
	}
	return false
}

// RuleCategory selects the transformation strategy of a rule.
type RuleCategory string

const (
	RuleClarity     RuleCategory = "clarity"
	RuleStructure   RuleCategory = "structure"
	RuleContext     RuleCategory = "context"
	RuleExamples    RuleCategory = "examples"
	RuleFormat      RuleCategory = "format"
	RuleLength      RuleCategory = "length"
	RuleSpecificity RuleCategory = "specificity"
	RuleGeneric     RuleCategory = "generic"
)

// ConditionKind is the tag of a Condition.
type ConditionKind string

const (
	ConditionAlways  ConditionKind = "always"
	ConditionCompare ConditionKind = "compare"
	ConditionFlag    ConditionKind = "flag"
	// ConditionInvalid marks a condition that could not be parsed; it never matches.
	ConditionInvalid ConditionKind = "invalid"
)

// Comparator is the operator of a compare condition.
type Comparator string

const (
	OpGreater      Comparator = ">"
	OpLess         Comparator = "<"
	OpGreaterEqual Comparator = ">="
	OpLessEqual    Comparator = "<="
	OpEqual        Comparator = "=="
)

// Condition gates a rule on the analysis snapshot.
// The zero value always matches.
type Condition struct {
	Kind      ConditionKind `json:"kind,omitempty"`
	Field     string        `json:"field,omitempty"`
	Op        Comparator    `json:"op,omitempty"`
	Threshold float64       `json:"threshold,omitempty"`
	Flag      string        `json:"flag,omitempty"`
	Negate    bool          `json:"negate,omitempty"`
	// Source keeps the original text of parsed conditions for logging.
	Source string `json:"source,omitempty"`
}

// TransformKind is the tag of a Transform.
type TransformKind string

const (
	TransformNone           TransformKind = ""
	TransformLiteralReplace TransformKind = "literal_replace"
	TransformRegexReplace   TransformKind = "regex_replace"
	TransformTermMap        TransformKind = "term_map"
	TransformScaffoldAppend TransformKind = "scaffold_append"
	TransformListNumbering  TransformKind = "list_numbering"
	TransformParagraphBreak TransformKind = "paragraph_break"
	TransformFillerStrip    TransformKind = "filler_strip"
	TransformSentenceSplit  TransformKind = "sentence_split"
)

// Transform is the declarative edit a rule performs.
type Transform struct {
	Kind        TransformKind     `json:"kind,omitempty"`
	Pattern     string            `json:"pattern,omitempty"`
	Replacement string            `json:"replacement,omitempty"`
	Terms       map[string]string `json:"terms,omitempty"`
	Scaffold    string            `json:"scaffold,omitempty"`
}

// OptimizationRule is a declarative, conditionally applied text transformation.
type OptimizationRule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Category         RuleCategory     `json:"category"`
	ApplicableModels []string         `json:"applicable_models,omitempty"`
	Domains          []PromptCategory `json:"domains,omitempty"`
	Condition        Condition        `json:"condition"`
	Transform        Transform        `json:"transform"`
	Priority         int              `json:"priority"`
	Active           bool             `json:"active"`
}

// AppliesToModel reports whether the rule targets model (empty list = universal).
func (r *OptimizationRule) AppliesToModel(model string) bool {
	if len(r.ApplicableModels) == 0 {
		return true
	}
	for _, m := range r.ApplicableModels {
		if m == model {
			return true
		}
	}
	return false
}

// Impact is the qualitative effect size of an improvement.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Improvement records one applied change.
type Improvement struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Impact      Impact `json:"impact"`
	Before      string `json:"before"`
	After       string `json:"after"`
	Rationale   string `json:"rationale"`
}

// Suggestion is advisory only; it is never applied to the text.
type Suggestion struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Example     string `json:"example,omitempty"`
}

// CostEstimate is present only when the model has a known price.
type CostEstimate struct {
	OriginalCost  float64 `json:"original_cost"`
	OptimizedCost float64 `json:"optimized_cost"`
	Currency      string  `json:"currency"`
}

// TokenEstimate compares the token footprint before and after optimization.
type TokenEstimate struct {
	OriginalTokens  int           `json:"original_tokens"`
	OptimizedTokens int           `json:"optimized_tokens"`
	Delta           int           `json:"delta"`
	Cost            *CostEstimate `json:"cost,omitempty"`
}

// ValidationReport is the adapter's verdict on a prompt.
type ValidationReport struct {
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// OptimizationResult is the assembled output of one run.
type OptimizationResult struct {
	ID               string            `json:"id"`
	OriginalPrompt   string            `json:"original_prompt"`
	OptimizedPrompt  string            `json:"optimized_prompt"`
	Improvements     []Improvement     `json:"improvements"`
	Confidence       float64           `json:"confidence"`
	ModelConfidence  float64           `json:"model_confidence"`
	AppliedRules     []string          `json:"applied_rules"`
	AppliedPractices []string          `json:"applied_practices"`
	Suggestions      []Suggestion      `json:"suggestions"`
	TokenEstimate    TokenEstimate     `json:"token_estimate"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
	ModelUsed        string            `json:"model_used"`
	Degraded         bool              `json:"degraded"`
	Analysis         *PromptAnalysis   `json:"analysis,omitempty"`
	Validation       *ValidationReport `json:"validation,omitempty"`
	// CacheHit is set on results served from a ResultCache.
	CacheHit bool `json:"cache_hit,omitempty"`
}

// Clone returns a deep copy of r.
func (r *OptimizationResult) Clone() *OptimizationResult {
	if r == nil {
		return nil
	}

	cp := *r
	cp.Improvements = slices.Clone(r.Improvements)
	cp.AppliedRules = slices.Clone(r.AppliedRules)
	cp.AppliedPractices = slices.Clone(r.AppliedPractices)
	cp.Suggestions = slices.Clone(r.Suggestions)

	if r.TokenEstimate.Cost != nil {
		cost := *r.TokenEstimate.Cost
		cp.TokenEstimate.Cost = &cost
	}

	if r.Analysis != nil {
		a := *r.Analysis
		a.Categories = slices.Clone(r.Analysis.Categories)
		a.ModelCompatibility = maps.Clone(r.Analysis.ModelCompatibility)
		cp.Analysis = &a
	}

	if r.Validation != nil {
		v := *r.Validation
		v.Errors = slices.Clone(r.Validation.Errors)
		v.Warnings = slices.Clone(r.Validation.Warnings)
		v.Suggestions = slices.Clone(r.Validation.Suggestions)
		cp.Validation = &v
	}

	return &cp
}

// StructuredPrompt is the sectioned form rendered by FormatForModel.
type StructuredPrompt struct {
	Role         string   `json:"role,omitempty"`
	Task         string   `json:"task"`
	Context      string   `json:"context,omitempty"`
	Constraints  []string `json:"constraints,omitempty"`
	Examples     []string `json:"examples,omitempty"`
	OutputFormat string   `json:"output_format,omitempty"`
}

// ModelInfo identifies an adapter.
type ModelInfo struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Version  string `json:"version"`
}

// AdapterRequest is the input of ModelAdapter.Optimize.
type AdapterRequest struct {
	Text     string
	Request  *OptimizationRequest
	Analysis *PromptAnalysis
}

// AdapterResult is the fragment an adapter contributes to the final result.
type AdapterResult struct {
	Text         string
	AppliedRules []string
	Improvements []Improvement
	Suggestions  []Suggestion
	Confidence   float64
	// Degraded is set when the remote rewrite failed and Text is the adapter input.
	Degraded bool
}
