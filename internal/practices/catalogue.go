package practices

import (
	"regexp"
	"strings"

	"github.com/davidbz/promptsmith/internal/analyzer"
	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/textutil"
)

const (
	lowSpecificity = 0.5
	headerMinWords = 15
	multiParagraph = 2
	tripleQuote    = `"""`
	codeFence      = "```"
	thinkingTag    = "<thinking>"
)

var (
	xmlTag        = regexp.MustCompile(`</?[a-zA-Z_][\w-]*>`)
	headingLine   = regexp.MustCompile(`(?m)^\s*#`)
	audienceWords = []string{"audience", "students", "beginners", "readers", "level", "受众", "读者", "学生", "初学者"}
)

// rolePhrases is the default role line per prompt category and language.
var rolePhrases = map[domain.PromptCategory][2]string{
	domain.CategoryTechnical:      {"You are an experienced software engineer.", "你是一名经验丰富的软件工程师。"},
	domain.CategoryCreative:       {"You are a skilled creative writer.", "你是一名富有创造力的作家。"},
	domain.CategoryAnalytical:     {"You are a meticulous analyst.", "你是一名严谨的分析师。"},
	domain.CategoryEducational:    {"You are a patient and knowledgeable teacher.", "你是一名耐心且知识渊博的老师。"},
	domain.CategoryBusiness:       {"You are a seasoned business consultant.", "你是一名资深的商业顾问。"},
	domain.CategoryConversational: {"You are a friendly and helpful assistant.", "你是一名友好且乐于助人的助手。"},
	domain.CategoryGeneral:        {"You are a knowledgeable assistant.", "你是一名知识渊博的助手。"},
}

func pick(in input, en, zh string) string {
	if in.zh() {
		return zh
	}
	return en
}

func appendBlock(text, block string) string {
	return strings.TrimRight(text, " \t\n") + "\n\n" + block
}

func hasReasoning(text string) bool {
	return textutil.ContainsAny(text, analyzer.ReasoningWords)
}

func isComplex(in input) bool {
	return in.analysis.Complexity == domain.ComplexityComplex
}

func splitFirstParagraph(text string) (string, string, bool) {
	paras := textutil.Paragraphs(text)
	if len(paras) < multiParagraph {
		return "", "", false
	}
	return paras[0], strings.Join(paras[1:], "\n\n"), true
}

func catalogue() []Practice {
	return []Practice{
		{
			ID:          "openai-step-by-step",
			Name:        "Step-by-step reasoning",
			Family:      FamilyOpenAI,
			Category:    "reasoning",
			Description: "Asked the model to work through the task step by step",
			Rationale:   "GPT models answer multi-part tasks more reliably when asked to reason in steps",
			Impact:      domain.ImpactMedium,
			applies: func(in input) bool {
				return in.analysis.Complexity != domain.ComplexitySimple && !hasReasoning(in.text)
			},
			apply: func(in input) string {
				return appendBlock(in.text, pick(in,
					"Work through this step by step before giving the final answer.",
					"请一步一步地分析，再给出最终答案。"))
			},
		},
		{
			ID:          "openai-delimiters",
			Name:        "Delimit the input",
			Family:      FamilyOpenAI,
			Category:    "structure",
			Description: "Separated the instruction from the input with triple quotes",
			Rationale:   "Delimiters keep GPT models from confusing instructions with the material they operate on",
			Impact:      domain.ImpactMedium,
			applies: func(in input) bool {
				return in.analysis.ParagraphCount >= multiParagraph &&
					!strings.Contains(in.text, tripleQuote) && !strings.Contains(in.text, "###")
			},
			apply: func(in input) string {
				first, rest, ok := splitFirstParagraph(in.text)
				if !ok {
					return in.text
				}
				return first + "\n\n" + tripleQuote + "\n" + rest + "\n" + tripleQuote
			},
		},
		{
			ID:          "claude-xml-tags",
			Name:        "XML sections",
			Family:      FamilyAnthropic,
			Category:    "structure",
			Description: "Wrapped the instructions and the material in XML tags",
			Rationale:   "Claude is trained to attend to XML-tagged sections of a prompt",
			Impact:      domain.ImpactHigh,
			applies: func(in input) bool {
				return !xmlTag.MatchString(in.text)
			},
			apply: func(in input) string {
				first, rest, ok := splitFirstParagraph(in.text)
				if !ok {
					return "<instructions>\n" + strings.TrimSpace(in.text) + "\n</instructions>"
				}
				return "<instructions>\n" + first + "\n</instructions>\n\n<context>\n" + rest + "\n</context>"
			},
		},
		{
			ID:          "claude-thinking",
			Name:        "Thinking space",
			Family:      FamilyAnthropic,
			Category:    "reasoning",
			Description: "Gave Claude a <thinking> section to reason in before answering",
			Rationale:   "Room to think before answering improves Claude's accuracy on complex tasks",
			Impact:      domain.ImpactMedium,
			applies: func(in input) bool {
				return isComplex(in) && !hasReasoning(in.text) && !strings.Contains(in.text, thinkingTag)
			},
			apply: func(in input) string {
				return appendBlock(in.text, pick(in,
					"Think through the problem inside <thinking> tags, then give your final answer.",
					"请先在 <thinking> 标签内思考，再给出最终答案。"))
			},
		},
		{
			ID:          "deepseek-code-block",
			Name:        "Fenced code",
			Family:      FamilyDeepSeek,
			Category:    "format",
			Description: "Asked for code in fenced blocks with a language tag",
			Rationale:   "DeepSeek produces cleaner, copyable code when the fence and language are requested",
			Impact:      domain.ImpactLow,
			applies: func(in input) bool {
				return in.analysis.HasCategory(domain.CategoryTechnical) && !strings.Contains(in.text, codeFence)
			},
			apply: func(in input) string {
				return appendBlock(in.text, pick(in,
					"Return code in fenced ``` blocks tagged with the language.",
					"请将代码放在带语言标记的 ``` 代码块中。"))
			},
		},
		{
			ID:          "deepseek-reasoning",
			Name:        "Explicit reasoning",
			Family:      FamilyDeepSeek,
			Category:    "reasoning",
			Description: "Asked for explicit reasoning before the final answer",
			Rationale:   "DeepSeek models are tuned for visible chains of reasoning on hard problems",
			Impact:      domain.ImpactMedium,
			applies: func(in input) bool {
				return isComplex(in) && !hasReasoning(in.text)
			},
			apply: func(in input) string {
				return appendBlock(in.text, pick(in,
					"Reason through the problem step by step, then state the final answer.",
					"请逐步推理，然后给出最终答案。"))
			},
		},
		{
			ID:          "gemini-task-header",
			Name:        "Task header",
			Family:      FamilyGemini,
			Category:    "structure",
			Description: "Opened the prompt with a markdown task header",
			Rationale:   "Gemini follows prompts organised under markdown headings more closely",
			Impact:      domain.ImpactLow,
			applies: func(in input) bool {
				return in.analysis.WordCount >= headerMinWords && !headingLine.MatchString(in.text)
			},
			apply: func(in input) string {
				return pick(in, "## Task\n", "## 任务\n") + strings.TrimSpace(in.text)
			},
		},
		{
			ID:          "gemini-output-format",
			Name:        "Output format",
			Family:      FamilyGemini,
			Category:    "format",
			Description: "Stated the expected output format",
			Rationale:   "Gemini is more consistent when the answer format is stated explicitly",
			Impact:      domain.ImpactMedium,
			applies: func(in input) bool {
				return !textutil.ContainsAny(in.text, analyzer.FormatWords)
			},
			apply: func(in input) string {
				return appendBlock(in.text, pick(in,
					"Output format: [e.g. a short bulleted list]",
					"输出格式：[例如：简短的要点列表]"))
			},
		},
		{
			ID:          "role-definition",
			Name:        "Role definition",
			Category:    "role",
			Description: "Opened the prompt with a role for the model to take",
			Rationale:   "A stated role anchors vocabulary, depth and tone of the answer",
			Impact:      domain.ImpactMedium,
			applies: func(in input) bool {
				return in.role != domain.RoleAssistant && !textutil.ContainsAny(in.text, analyzer.RoleWords)
			},
			apply: func(in input) string {
				category := domain.CategoryGeneral
				if len(in.analysis.Categories) > 0 {
					category = in.analysis.Categories[0]
				}
				phrases, ok := rolePhrases[category]
				if !ok {
					phrases = rolePhrases[domain.CategoryGeneral]
				}
				return pick(in, phrases[0], phrases[1]) + "\n\n" + strings.TrimLeft(in.text, " \t\n")
			},
		},
		{
			ID:          "thinking-process",
			Name:        "Thinking process",
			Category:    "reasoning",
			Description: "Asked the model to plan its answer before writing it",
			Rationale:   "Complex tasks benefit from an explicit planning step",
			Impact:      domain.ImpactMedium,
			applies: func(in input) bool {
				return isComplex(in) && !hasReasoning(in.text)
			},
			apply: func(in input) string {
				return appendBlock(in.text, pick(in,
					"Before answering, think through the main steps and how they depend on each other.",
					"回答之前，请先思考主要步骤以及它们之间的关系。"))
			},
		},
		{
			ID:          "explicit-constraints",
			Name:        "Explicit constraints",
			Category:    "constraints",
			Description: "Added a constraints section to fill in",
			Rationale:   "Unstated constraints are the most common cause of answers that miss the point",
			Impact:      domain.ImpactMedium,
			applies: func(in input) bool {
				return in.analysis.SpecificityScore < lowSpecificity &&
					!textutil.ContainsAny(in.text, analyzer.ConstraintWords)
			},
			apply: func(in input) string {
				return appendBlock(in.text, pick(in,
					"Constraints:\n- Must: [what the answer has to include]\n- Avoid: [what to leave out]",
					"约束条件：\n- 必须：[回答必须包含的内容]\n- 不要：[需要避免的内容]"))
			},
		},
		{
			ID:          "audience",
			Name:        "Target audience",
			Category:    "audience",
			Description: "Asked for the target audience of the explanation",
			Rationale:   "Educational answers depend on who is learning; naming the audience sets the level",
			Impact:      domain.ImpactLow,
			applies: func(in input) bool {
				return in.analysis.HasCategory(domain.CategoryEducational) &&
					!textutil.ContainsAny(in.text, audienceWords)
			},
			apply: func(in input) string {
				return appendBlock(in.text, pick(in,
					"Target audience: [e.g. high school students new to the topic]",
					"目标受众：[例如：初次接触该主题的高中生]"))
			},
		},
	}
}
