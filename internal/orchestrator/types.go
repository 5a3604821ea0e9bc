package orchestrator

import (
	"context"
	"errors"

	"ideabot/internal/contextmgr"
	"ideabot/internal/i18n"
	"ideabot/internal/ideas"
	"ideabot/internal/provider"

	"go.uber.org/zap"
)

// DefaultHistoryLimit is how many channel messages /summarize reads.
const DefaultHistoryLimit = 20

// ErrUnknownCommand is returned by Dispatch for names it does not route.
var ErrUnknownCommand = errors.New("unknown command")

// Responder 将文本发回对话来源（Slack 频道、控制台等）
// Responder sends text back to where the event came from
type Responder interface {
	Say(ctx context.Context, text string) error
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, text string) error

func (f ResponderFunc) Say(ctx context.Context, text string) error {
	return f(ctx, text)
}

// HistoryFetcher returns the texts of the most recent channel messages,
// newest first, as chat platforms list them.
type HistoryFetcher interface {
	History(ctx context.Context, channelID string, limit int) ([]string, error)
}

// Message is one inbound channel message.
type Message struct {
	UserID    string
	ChannelID string
	Text      string
}

// Command is one inbound slash command. Name may carry its leading slash.
type Command struct {
	Name      string
	UserID    string
	ChannelID string
	Text      string
}

type Options struct {
	Store        *contextmgr.Store
	Selector     *provider.Selector
	Classifier   *ideas.Classifier
	Filer        ideas.Filer
	History      HistoryFetcher
	Catalog      *i18n.Catalog
	Logger       *zap.Logger
	HistoryLimit int
	ChatOptions  []provider.CallOption
}
