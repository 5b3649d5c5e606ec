package analyzer

import (
	"regexp"

	"github.com/davidbz/promptsmith/internal/domain"
)

// Keyword tables are bilingual; ASCII entries match on word boundaries.
//
//nolint:gochecknoglobals // read-only lookup tables
var (
	VagueWords = []string{
		"good", "nice", "stuff", "things", "something", "somehow", "maybe",
		"kind of", "sort of", "etc", "better", "appropriate", "various", "whatever",
		"好的", "一些", "东西", "大概", "可能", "差不多", "适当", "之类", "等等", "比较好", "合适的", "随便",
	}

	InstructionWords = []string{
		"write", "create", "generate", "explain", "describe", "list", "analyze", "analyse",
		"summarize", "translate", "compare", "design", "implement", "provide", "give",
		"make", "help", "review", "rewrite", "build", "draft", "calculate", "identify",
		"写", "创建", "生成", "解释", "描述", "列出", "分析", "总结", "翻译", "比较",
		"设计", "实现", "提供", "给出", "帮我", "编写", "制定", "计算",
	}

	ContextWords = []string{
		"background", "context", "given", "currently", "i am", "i'm", "we are", "scenario",
		"situation", "audience", "because", "goal",
		"背景", "情况", "目前", "场景", "前提", "我是", "我们", "目标", "受众",
	}

	OutputWords = []string{
		"output", "format", "return", "respond", "response", "result", "json", "table",
		"markdown", "bullet", "words",
		"输出", "格式", "返回", "结果", "表格", "字以内", "字数",
	}

	ExampleMarkers = []string{
		"example", "examples", "e.g.", "for instance", "such as", "sample",
		"例如", "比如", "示例", "举例", "样例", "例子",
	}

	ConstraintWords = []string{
		"must", "should", "need to", "required", "only", "never", "at least", "at most",
		"no more than", "avoid",
		"不能", "必须", "需要", "应该", "不要", "至少", "最多", "只能", "禁止",
	}

	FormatWords = []string{
		"json", "markdown", "table", "list", "bullet", "csv", "yaml", "xml", "format",
		"heading", "headings",
		"格式", "表格", "列表", "要点", "标题",
	}

	RoleWords = []string{
		"you are", "act as", "pretend to be", "your role",
		"你是", "作为一名", "作为一个", "扮演", "你的角色",
	}

	ReasoningWords = []string{
		"step by step", "step-by-step", "think", "reason", "reasoning", "explain your",
		"逐步", "一步一步", "思考", "推理", "分步",
	}

	PoliteWords = []string{
		"please", "kindly", "thank", "thanks", "could you", "would you",
		"请", "谢谢", "麻烦", "劳驾", "能否",
	}

	conflictPairs = [][2]string{
		{"brief", "detailed"},
		{"short", "long"},
		{"concise", "comprehensive"},
		{"formal", "casual"},
		{"simple", "complex"},
		{"简短", "详细"},
		{"简洁", "全面"},
		{"正式", "随意"},
		{"简单", "复杂"},
	}

	categoryWords = []struct {
		category domain.PromptCategory
		words    []string
	}{
		{domain.CategoryCreative, []string{
			"story", "poem", "novel", "creative", "imagine", "fiction", "lyrics", "essay", "article", "slogan",
			"故事", "诗", "小说", "创意", "想象", "文章", "剧本", "作文", "文案",
		}},
		{domain.CategoryAnalytical, []string{
			"analyze", "analyse", "analysis", "compare", "evaluate", "data", "statistics", "trend", "insight",
			"分析", "比较", "评估", "数据", "统计", "趋势", "洞察",
		}},
		{domain.CategoryConversational, []string{
			"chat", "talk", "conversation", "discuss", "reply", "dialogue",
			"聊天", "对话", "讨论", "回复", "聊聊",
		}},
		{domain.CategoryTechnical, []string{
			"code", "function", "api", "bug", "program", "algorithm", "database", "sql", "python",
			"golang", "java", "javascript", "debug", "deploy", "server",
			"代码", "函数", "程序", "算法", "数据库", "接口", "部署", "编程",
		}},
		{domain.CategoryEducational, []string{
			"explain", "teach", "learn", "lesson", "student", "tutorial", "course", "beginner",
			"解释", "教", "学习", "课程", "学生", "教程", "入门",
		}},
		{domain.CategoryBusiness, []string{
			"business", "market", "marketing", "sales", "customer", "strategy", "revenue", "product", "brand",
			"商业", "市场", "销售", "客户", "策略", "产品", "营销", "品牌",
		}},
	}

	toneWords = []struct {
		tone  string
		words []string
	}{
		{"polite", PoliteWords},
		{"urgent", []string{"urgent", "asap", "immediately", "quickly", "right now", "紧急", "尽快", "马上", "立即", "立刻"}},
		{"professional", []string{"professional", "formal", "report", "proposal", "专业", "正式", "报告", "方案"}},
		{"casual", []string{"hey", "cool", "lol", "btw", "随便", "轻松", "哈哈", "嘿"}},
	}

	numberedLine = regexp.MustCompile(`(?m)^\s*\d+[.)、]\s*\S`)
	bulletLine   = regexp.MustCompile(`(?m)^\s*[-*•]\s+\S`)
	headerLine   = regexp.MustCompile(`(?m)^\s*(#{1,6}\s+\S.*|[^\n.。]{1,40}[:：])\s*$`)
	separator    = regexp.MustCompile(`(?m)^\s*(-{3,}|={3,}|\*{3,})\s*$`)
	numeral      = regexp.MustCompile(`\d`)
	datePattern  = regexp.MustCompile(`(?i)\d{4}[-/年]\d{1,2}|\d{1,2}月\d{1,2}日|\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}\b`)
	quoted       = regexp.MustCompile("\"[^\"]+\"|“[^”]+”|「[^」]+」|『[^』]+』|`[^`]+`")
	properNoun   = regexp.MustCompile(`[a-z,;]\s+[A-Z][a-zA-Z]+`)
	codeFence    = regexp.MustCompile("```")
)
