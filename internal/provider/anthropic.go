package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ideabot/internal/chat"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicBackend talks to the legacy text-completion endpoint, which takes a
// flat Human/Assistant transcript instead of structured turns.
type AnthropicBackend struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

type AnthropicConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	TimeoutMS int
	MaxTokens int
}

func NewAnthropicBackend(cfg AnthropicConfig) *AnthropicBackend {
	httpClient := &http.Client{}
	if cfg.TimeoutMS > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	opts := []option.RequestOption{
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		opts = append(opts, option.WithAPIKey(key))
	}
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		opts = append(opts, option.WithBaseURL(base+"/"))
	}
	return &AnthropicBackend{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

func (b *AnthropicBackend) Name() string {
	return "anthropic"
}

func (b *AnthropicBackend) Model() string {
	return b.model
}

// CompleteChat renders turns as a transcript ending with an open Assistant line.
func (b *AnthropicBackend) CompleteChat(ctx context.Context, turns []chat.Turn, opts ...CallOption) (string, error) {
	return b.complete(ctx, "chat", renderTranscript(turns), resolveOptions(b.maxTokens, opts))
}

func (b *AnthropicBackend) CompleteSingle(ctx context.Context, prompt string, opts ...CallOption) (string, error) {
	return b.complete(ctx, "single", renderTranscript([]chat.Turn{chat.UserTurn(prompt)}), resolveOptions(b.maxTokens, opts))
}

func (b *AnthropicBackend) complete(ctx context.Context, op, prompt string, o callOptions) (string, error) {
	wrap := func(err error) error {
		return &BackendError{Backend: b.Name(), Op: op, Err: err}
	}

	resp, err := b.client.Completions.New(ctx, anthropic.CompletionNewParams{
		Model:             anthropic.Model(b.model),
		Prompt:            prompt,
		MaxTokensToSample: int64(o.maxTokens),
	})
	if err != nil {
		return "", wrap(err)
	}
	if !resp.JSON.Completion.Valid() {
		return "", wrap(fmt.Errorf("%w: missing completion", ErrMalformedResponse))
	}
	return strings.TrimSpace(resp.Completion), nil
}

// renderTranscript 将对话轮次转换为 Human/Assistant 文本格式
// renderTranscript converts turns to the Human/Assistant text format
func renderTranscript(turns []chat.Turn) string {
	var sb strings.Builder
	for _, t := range turns {
		if t.Role == chat.RoleAssistant {
			sb.WriteString("\n\nAssistant: ")
		} else {
			sb.WriteString("\n\nHuman: ")
		}
		sb.WriteString(t.Content)
	}
	sb.WriteString("\n\nAssistant:")
	return sb.String()
}
