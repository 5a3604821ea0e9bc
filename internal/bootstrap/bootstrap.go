package bootstrap

import (
	"fmt"

	"ideabot/internal/config"
	"ideabot/internal/contextmgr"
	"ideabot/internal/i18n"
	"ideabot/internal/ideas"
	"ideabot/internal/orchestrator"
	"ideabot/internal/provider"
	"ideabot/internal/slack"

	"go.uber.org/zap"
)

// Options carries what Build cannot derive from config.
type Options struct {
	Logger *zap.Logger
	// History overrides the Slack channel history, e.g. with a console transcript.
	History orchestrator.HistoryFetcher
}

// BuildResult 与传输层无关的构建结果，供 main 构造 HTTP 服务或控制台
// BuildResult is transport-agnostic; main wires it into the HTTP server or
// the console.
type BuildResult struct {
	Bot      *orchestrator.Bot
	Store    *contextmgr.Store
	Selector *provider.Selector
	Catalog  *i18n.Catalog
	// Slack is nil when no bot token is configured.
	Slack          *slack.Client
	TicketsEnabled bool
}

// Build 按依赖顺序初始化并返回 BuildResult
// Build initializes components in dependency order and returns BuildResult
func Build(cfg config.Config, opts Options) (*BuildResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	initial, err := provider.ParseKind(cfg.Bot.DefaultBackend)
	if err != nil {
		return nil, fmt.Errorf("default backend: %w", err)
	}

	gpt := provider.NewOpenAIBackend(provider.OpenAIConfig{
		BaseURL:   cfg.OpenAI.BaseURL,
		APIKey:    cfg.OpenAI.APIKey,
		Model:     cfg.OpenAI.Model,
		TimeoutMS: cfg.OpenAI.TimeoutMS,
		MaxTokens: cfg.OpenAI.MaxTokens,
	})
	claude := provider.NewAnthropicBackend(provider.AnthropicConfig{
		BaseURL:   cfg.Anthropic.BaseURL,
		APIKey:    cfg.Anthropic.APIKey,
		Model:     cfg.Anthropic.Model,
		TimeoutMS: cfg.Anthropic.TimeoutMS,
		MaxTokens: cfg.Anthropic.MaxTokens,
	})
	selector := provider.NewSelector(gpt, claude, initial)

	tokenizer := contextmgr.NewTokenizerForModel(gpt.Model())
	store := contextmgr.NewStore(cfg.Bot.MaxContextLength).WithTokenizer(tokenizer)

	catalog := i18n.New(cfg.Bot.Locale)

	var filer ideas.Filer = ideas.NopFiler{}
	if cfg.TicketsEnabled() {
		filer = ideas.NewNotionFiler(cfg.Notion.APIKey, cfg.Notion.DatabaseID)
	} else {
		logger.Info("notion not configured, idea tickets disabled")
	}

	var slackClient *slack.Client
	if cfg.Slack.BotToken != "" {
		slackClient = slack.NewClient(cfg.Slack.BotToken, logger.Named("slack"))
	}

	history := opts.History
	if history == nil && slackClient != nil {
		history = slackClient
	}

	bot := orchestrator.New(orchestrator.Options{
		Store:        store,
		Selector:     selector,
		Classifier:   ideas.NewClassifier(selector, logger.Named("ideas")),
		Filer:        filer,
		History:      history,
		Catalog:      catalog,
		Logger:       logger.Named("bot"),
		HistoryLimit: cfg.Bot.HistoryLimit,
	})

	logger.Info("bot ready",
		zap.Stringer("backend", initial),
		zap.String("openai_model", gpt.Model()),
		zap.String("anthropic_model", claude.Model()),
		zap.String("token_encoding", tokenizer.EncodingName()),
		zap.Bool("precise_tokens", tokenizer.IsPrecise()),
		zap.Int("max_context_length", store.MaxLength()),
		zap.String("locale", catalog.Locale()))

	return &BuildResult{
		Bot:            bot,
		Store:          store,
		Selector:       selector,
		Catalog:        catalog,
		Slack:          slackClient,
		TicketsEnabled: cfg.TicketsEnabled(),
	}, nil
}
