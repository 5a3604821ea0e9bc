package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ideabot/internal/chat"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend 使用 go-openai SDK 的聊天式后端
// OpenAIBackend is the chat-style backend built on the go-openai SDK
type OpenAIBackend struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// OpenAIConfig SDK backend 配置
// OpenAIConfig is the SDK backend configuration
type OpenAIConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	TimeoutMS int
	MaxTokens int
}

// NewOpenAIBackend 创建基于 SDK 的 backend
// NewOpenAIBackend creates an SDK-based backend
func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	config := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		config.BaseURL = base
	}

	httpClient := &http.Client{}
	if cfg.TimeoutMS > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	config.HTTPClient = httpClient

	return &OpenAIBackend{
		client:    openai.NewClientWithConfig(config),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

func (b *OpenAIBackend) Name() string {
	return "openai"
}

func (b *OpenAIBackend) Model() string {
	return b.model
}

func (b *OpenAIBackend) CompleteChat(ctx context.Context, turns []chat.Turn, opts ...CallOption) (string, error) {
	return b.complete(ctx, "chat", convertTurns(turns), resolveOptions(b.maxTokens, opts))
}

// CompleteSingle wraps prompt as a single user turn.
func (b *OpenAIBackend) CompleteSingle(ctx context.Context, prompt string, opts ...CallOption) (string, error) {
	return b.complete(ctx, "single", convertTurns([]chat.Turn{chat.UserTurn(prompt)}), resolveOptions(b.maxTokens, opts))
}

func (b *OpenAIBackend) complete(ctx context.Context, op string, messages []openai.ChatCompletionMessage, o callOptions) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     b.model,
		Messages:  messages,
		MaxTokens: o.maxTokens,
	})
	if err != nil {
		return "", &BackendError{Backend: b.Name(), Op: op, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &BackendError{Backend: b.Name(), Op: op, Err: fmt.Errorf("%w: no choices", ErrMalformedResponse)}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func convertTurns(turns []chat.Turn) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(t.Role),
			Content: t.Content,
		})
	}
	return out
}
