package provider

import (
	"context"

	"ideabot/internal/chat"
)

// DefaultMaxTokens is the output budget used when no CallOption overrides it.
const DefaultMaxTokens = 150

// Backend 统一的补全接口，屏蔽各家请求格式差异
// Backend is the uniform completion capability; callers never branch on which
// provider sits behind it.
type Backend interface {
	// Name 返回 provider 名称
	// Name returns the provider name
	Name() string

	// CompleteChat 发送完整的对话轮次并返回生成文本（已去除首尾空白）
	// CompleteChat sends the full turn sequence and returns the trimmed reply
	CompleteChat(ctx context.Context, turns []chat.Turn, opts ...CallOption) (string, error)

	// CompleteSingle 发送单条合成提示词
	// CompleteSingle sends one synthesized prompt
	CompleteSingle(ctx context.Context, prompt string, opts ...CallOption) (string, error)
}

// CallOption tunes a single completion call.
type CallOption func(*callOptions)

type callOptions struct {
	maxTokens int
}

// WithMaxTokens caps the number of generated tokens.
func WithMaxTokens(n int) CallOption {
	return func(o *callOptions) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// resolveOptions applies opts over the backend's configured budget.
func resolveOptions(defaultMax int, opts []CallOption) callOptions {
	if defaultMax <= 0 {
		defaultMax = DefaultMaxTokens
	}
	o := callOptions{maxTokens: defaultMax}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
