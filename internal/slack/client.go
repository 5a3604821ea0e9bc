package slack

import (
	"context"

	"ideabot/internal/orchestrator"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Client 封装 Slack Web API：发消息、读频道历史
// Client wraps the Slack Web API calls the bot needs.
type Client struct {
	api    *slackapi.Client
	logger *zap.Logger
}

func NewClient(botToken string, logger *zap.Logger, opts ...slackapi.Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		api:    slackapi.New(botToken, opts...),
		logger: logger,
	}
}

// PostMessage posts text to a channel as the bot user.
func (c *Client) PostMessage(ctx context.Context, channelID, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, channelID, slackapi.MsgOptionText(text, false))
	if err != nil {
		return &TransportError{Op: "chat.postMessage", Channel: channelID, Err: err}
	}
	return nil
}

// Responder returns a Responder that posts into channelID.
func (c *Client) Responder(channelID string) orchestrator.Responder {
	return orchestrator.ResponderFunc(func(ctx context.Context, text string) error {
		return c.PostMessage(ctx, channelID, text)
	})
}

// History returns the texts of up to limit recent messages, newest first.
func (c *Client) History(ctx context.Context, channelID string, limit int) ([]string, error) {
	resp, err := c.api.GetConversationHistoryContext(ctx, &slackapi.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
	})
	if err != nil {
		return nil, &HistoryFetchError{Channel: channelID, Err: err}
	}
	texts := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		texts = append(texts, m.Text)
	}
	c.logger.Debug("fetched channel history", zap.String("channel", channelID), zap.Int("messages", len(texts)))
	return texts, nil
}
