package i18n

import (
	"fmt"
	"os"
	"strings"
)

// Message keys for every fixed text the bot sends to chat users.
const (
	KeyErrorMessage     = "error.message"
	KeyErrorSummarize   = "error.summarize"
	KeyTicketCreated    = "ticket.created"
	KeySummaryHeader    = "summary.header"
	KeySummarizePrompt  = "summary.prompt"
	KeyContextCleared   = "context.cleared"
	KeyBackendSwitched  = "backend.switched"
	KeyUnknownCommand   = "command.unknown"
	KeyConsoleHelp      = "console.help"
	KeyConsoleContext   = "console.context"
	KeyConsoleNoContext = "console.no_context"
)

// Catalog 机器人对用户展示的文案表
// Catalog holds the bot's user-visible texts for one locale. It is immutable
// after New, so it can be shared across request goroutines.
type Catalog struct {
	locale   string
	messages map[string]string
}

// New 创建文案表；locale 为空时从环境变量探测
// New creates a catalog; an empty locale is detected from the environment
func New(locale string) *Catalog {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DetectLocale()
	}
	locale = normalizeLocale(locale)

	c := &Catalog{
		locale:   locale,
		messages: make(map[string]string, len(EnMessages)),
	}
	// 先加载英文作为 fallback / English is the fallback
	for k, v := range EnMessages {
		c.messages[k] = v
	}
	if locale == "zh-CN" {
		for k, v := range ZhCNMessages {
			c.messages[k] = v
		}
	}
	return c
}

// T 翻译函数 / Translation function
func (c *Catalog) T(key string, args ...any) string {
	tmpl, ok := c.messages[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

func (c *Catalog) Locale() string {
	return c.locale
}

// DetectLocale 自动检测 locale
// DetectLocale auto-detects the locale from the environment
func DetectLocale() string {
	for _, env := range []string{"IDEABOT_LANG", "LANG", "LC_ALL", "LC_MESSAGES"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return normalizeLocale(v)
		}
	}
	return "en"
}

func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "en"
	}
	// 去掉 .UTF-8 等后缀 / Remove .UTF-8 suffix
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	lower := strings.ToLower(strings.ReplaceAll(s, "_", "-"))
	switch {
	case strings.HasPrefix(lower, "zh"):
		return "zh-CN"
	case strings.HasPrefix(lower, "en"), lower == "c", lower == "posix":
		return "en"
	}
	return s
}
