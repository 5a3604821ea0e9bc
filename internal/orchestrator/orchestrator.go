package orchestrator

import (
	"context"
	"strings"

	"ideabot/internal/chat"
	"ideabot/internal/contextmgr"
	"ideabot/internal/i18n"
	"ideabot/internal/ideas"
	"ideabot/internal/provider"

	"go.uber.org/zap"
)

// Bot 编排消息与命令处理：上下文窗口、想法识别、工单、模型回复
// Bot orchestrates message and command handling. All of its state is owned
// by the injected Store and Selector; a Bot is safe for concurrent use.
type Bot struct {
	store        *contextmgr.Store
	selector     *provider.Selector
	classifier   *ideas.Classifier
	filer        ideas.Filer
	history      HistoryFetcher
	catalog      *i18n.Catalog
	logger       *zap.Logger
	historyLimit int
	chatOptions  []provider.CallOption
	userLocks    *keyedMutex
}

func New(opts Options) *Bot {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Store
	if store == nil {
		store = contextmgr.NewStore(0)
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = i18n.New("en")
	}
	filer := opts.Filer
	if filer == nil {
		filer = ideas.NopFiler{}
	}
	classifier := opts.Classifier
	if classifier == nil {
		var completer ideas.Completer
		if opts.Selector != nil {
			completer = opts.Selector
		}
		classifier = ideas.NewClassifier(completer, logger)
	}
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Bot{
		store:        store,
		selector:     opts.Selector,
		classifier:   classifier,
		filer:        filer,
		history:      opts.History,
		catalog:      catalog,
		logger:       logger,
		historyLimit: limit,
		chatOptions:  opts.ChatOptions,
		userLocks:    newKeyedMutex(),
	}
}

func (b *Bot) Store() *contextmgr.Store {
	return b.store
}

func (b *Bot) Selector() *provider.Selector {
	return b.selector
}

func (b *Bot) Catalog() *i18n.Catalog {
	return b.catalog
}

// HandleMessage runs the full reply pipeline for one channel message. Messages
// from the same user are processed one at a time. Failures while producing
// the reply become the fixed apology text; the returned error only reports a
// failure to deliver the reply.
func (b *Bot) HandleMessage(ctx context.Context, msg Message, out Responder) error {
	unlock := b.userLocks.Lock(msg.UserID)
	defer unlock()

	log := b.logger.With(zap.String("user", msg.UserID), zap.String("channel", msg.ChannelID))
	log.Info("received message", zap.Int("length", contextmgr.Length(msg.Text)))

	reply, err := b.reply(ctx, msg, log)
	if err != nil {
		log.Error("error processing message", zap.Error(err))
		reply = b.catalog.T(i18n.KeyErrorMessage)
	}
	return b.say(ctx, out, reply, log)
}

func (b *Bot) reply(ctx context.Context, msg Message, log *zap.Logger) (string, error) {
	window := b.store.Append(msg.UserID, chat.UserTurn(msg.Text))

	var ticketURL string
	if b.classifier.Classify(ctx, msg.Text) {
		url, err := b.filer.FileTicket(ctx, msg.Text, msg.UserID)
		if err != nil {
			// ticket outages must not cost the user their reply
			log.Warn("ticket filing failed", zap.Error(err))
		} else {
			ticketURL = url
			if url != "" {
				log.Info("filed idea ticket", zap.String("url", url))
			}
		}
	}

	if log.Core().Enabled(zap.DebugLevel) {
		st := b.store.Stats(msg.UserID)
		log.Debug("completing chat",
			zap.Stringer("backend", b.selector.Current()),
			zap.Int("turns", len(window)),
			zap.Int("context_length", st.Length),
			zap.Int("estimated_tokens", st.EstimatedTokens))
	}

	text, err := b.selector.CompleteChat(ctx, window, b.chatOptions...)
	if err != nil {
		return "", err
	}
	b.store.Append(msg.UserID, chat.AssistantTurn(text))

	if ticketURL != "" {
		text += b.catalog.T(i18n.KeyTicketCreated, ticketURL)
	}
	log.Debug("generated response", zap.String("response", text))
	return text, nil
}

// Summarize replies with a model summary of the channel's recent history.
// An unavailable history degrades to summarizing nothing.
func (b *Bot) Summarize(ctx context.Context, cmd Command, out Responder) error {
	log := b.logger.With(zap.String("command", "summarize"), zap.String("channel", cmd.ChannelID))

	texts := b.fetchHistory(ctx, cmd.ChannelID, log)
	chronological := make([]string, len(texts))
	for i, t := range texts {
		chronological[len(texts)-1-i] = t
	}
	prompt := b.catalog.T(i18n.KeySummarizePrompt, strings.Join(chronological, "\n"))

	kind := b.selector.Current()
	summary, err := b.selector.CompleteSingle(ctx, prompt)
	if err != nil {
		log.Error("error processing summarize command", zap.Error(err))
		return b.say(ctx, out, b.catalog.T(i18n.KeyErrorSummarize), log)
	}
	return b.say(ctx, out, b.catalog.T(i18n.KeySummaryHeader, kind.Label(), summary), log)
}

func (b *Bot) fetchHistory(ctx context.Context, channelID string, log *zap.Logger) []string {
	if b.history == nil {
		return nil
	}
	texts, err := b.history.History(ctx, channelID, b.historyLimit)
	if err != nil {
		log.Warn("error fetching channel history", zap.Error(err))
		return nil
	}
	return texts
}

// ClearContext forgets the invoking user's conversation window.
func (b *Bot) ClearContext(ctx context.Context, cmd Command, out Responder) error {
	b.store.Clear(cmd.UserID)
	log := b.logger.With(zap.String("command", "clear_context"), zap.String("user", cmd.UserID))
	log.Info("cleared conversation context")
	return b.say(ctx, out, b.catalog.T(i18n.KeyContextCleared), log)
}

// SwitchAI toggles the process-wide backend.
func (b *Bot) SwitchAI(ctx context.Context, cmd Command, out Responder) error {
	kind := b.selector.Toggle()
	log := b.logger.With(zap.String("command", "switch_ai"), zap.String("user", cmd.UserID))
	log.Info("switched backend", zap.Stringer("backend", kind))
	return b.say(ctx, out, b.catalog.T(i18n.KeyBackendSwitched, kind.Label()), log)
}

func (b *Bot) say(ctx context.Context, out Responder, text string, log *zap.Logger) error {
	if out == nil {
		return nil
	}
	if err := out.Say(ctx, text); err != nil {
		log.Error("failed to send reply", zap.Error(err))
		return err
	}
	return nil
}
