package base

import (
	"fmt"
	"strings"

	"github.com/davidbz/promptsmith/internal/domain"
)

// Layout selects how FormatSections renders a structured prompt.
type Layout int

const (
	LayoutPlain Layout = iota
	LayoutXML
	LayoutH2
	LayoutH3
)

type section struct {
	key   string
	title string
	body  string
}

func sections(p domain.StructuredPrompt) []section {
	out := make([]section, 0, 6)
	add := func(key, title, body string) {
		if strings.TrimSpace(body) != "" {
			out = append(out, section{key: key, title: title, body: strings.TrimSpace(body)})
		}
	}

	add("role", "Role", p.Role)
	add("context", "Context", p.Context)
	add("task", "Task", p.Task)
	add("constraints", "Constraints", bullets(p.Constraints))
	add("examples", "Examples", numbered(p.Examples))
	add("output_format", "Output Format", p.OutputFormat)

	return out
}

// FormatSections renders the non-empty sections of p in layout.
func FormatSections(p domain.StructuredPrompt, layout Layout) string {
	parts := sections(p)
	rendered := make([]string, 0, len(parts))

	for _, s := range parts {
		switch layout {
		case LayoutXML:
			rendered = append(rendered, fmt.Sprintf("<%s>\n%s\n</%s>", s.key, s.body, s.key))
		case LayoutH2:
			rendered = append(rendered, "## "+s.title+"\n"+s.body)
		case LayoutH3:
			rendered = append(rendered, "### "+s.title+"\n"+s.body)
		default:
			rendered = append(rendered, s.title+": "+s.body)
		}
	}

	return strings.Join(rendered, "\n\n")
}

func bullets(items []string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			lines = append(lines, "- "+it)
		}
	}
	return strings.Join(lines, "\n")
}

func numbered(items []string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			lines = append(lines, fmt.Sprintf("%d. %s", len(lines)+1, it))
		}
	}
	return strings.Join(lines, "\n")
}

// RewriteInstruction is the system message sent with every remote rewrite.
func RewriteInstruction(family, guidance string) string {
	var b strings.Builder
	b.WriteString("You are an expert prompt engineer. Rewrite the prompt you receive so that it works well with ")
	b.WriteString(family)
	b.WriteString(" models.\n")
	if guidance != "" {
		b.WriteString(guidance)
		b.WriteString("\n")
	}
	b.WriteString("Keep the original intent, language and every concrete detail. Do not answer the prompt. ")
	b.WriteString("Return only the rewritten prompt, with no preamble.")
	return b.String()
}
