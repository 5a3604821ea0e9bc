package repl

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Theme 控制台配色
// Theme holds the console styles
type Theme struct {
	PromptStyle lipgloss.Style
	BotStyle    lipgloss.Style
	MutedStyle  lipgloss.Style
	ErrorStyle  lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		PromptStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")).Bold(true),
		BotStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true),
		MutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		ErrorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	}
}

// nil-safe helpers; a nil theme prints text as is

func (t *Theme) prompt(s string) string {
	if t == nil {
		return s
	}
	return t.PromptStyle.Render(s)
}

func (t *Theme) bot(s string) string {
	if t == nil {
		return s
	}
	return t.BotStyle.Render(s)
}

func (t *Theme) muted(s string) string {
	if t == nil {
		return s
	}
	return t.MutedStyle.Render(s)
}

func (t *Theme) failure(s string) string {
	if t == nil {
		return s
	}
	return t.ErrorStyle.Render(s)
}

// RenderMarkdown 使用 Glamour 渲染 markdown 文本
// RenderMarkdown renders markdown text using Glamour
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.Trim(rendered, "\n")
}
