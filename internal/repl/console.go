package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"ideabot/internal/i18n"
	"ideabot/internal/orchestrator"

	"go.uber.org/zap"
)

const (
	DefaultUserID    = "console-user"
	DefaultChannelID = "console"
)

type Options struct {
	Bot        *orchestrator.Bot
	Transcript *Transcript
	// In is read line by line when Interactive is false.
	In  io.Reader
	Out io.Writer
	// Interactive enables readline editing and history.
	Interactive bool
	HistoryPath string
	Markdown    bool
	Width       int

	// Theme nil prints unstyled text.
	Theme     *Theme
	UserID    string
	ChannelID string
	Logger    *zap.Logger
}

// Console 本地控制台：将输入的文本和命令交给同一个 Bot 处理
// Console drives the bot from a terminal, playing the role of one user in
// one channel.
type Console struct {
	bot        *orchestrator.Bot
	transcript *Transcript
	in         lineSource
	out        io.Writer
	markdown   bool
	width      int
	theme      *Theme
	userID     string
	channelID  string
	logger     *zap.Logger
}

func New(opts Options) *Console {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	transcript := opts.Transcript
	if transcript == nil {
		transcript = NewTranscript(0)
	}
	var in lineSource
	if opts.Interactive {
		var err error
		in, err = openTerminalSource(opts.HistoryPath)
		if err != nil {
			logger.Warn("readline unavailable, using plain input", zap.Error(err))
		}
	} else {
		src := opts.In
		if src == nil {
			src = os.Stdin
		}
		in = newPlainSource(src, nil)
	}
	userID := strings.TrimSpace(opts.UserID)
	if userID == "" {
		userID = DefaultUserID
	}
	channelID := strings.TrimSpace(opts.ChannelID)
	if channelID == "" {
		channelID = DefaultChannelID
	}
	return &Console{
		bot:        opts.Bot,
		transcript: transcript,
		in:         in,
		out:        out,
		markdown:   opts.Markdown,
		width:      opts.Width,
		theme:      opts.Theme,
		userID:     userID,
		channelID:  channelID,
		logger:     logger,
	}
}

// Run reads input until /exit, EOF, an interrupt or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	if c.bot == nil {
		return errors.New("console: bot is nil")
	}
	defer c.in.Close()

	for {
		if ctx.Err() != nil {
			return nil
		}
		text, err := c.in.Next(c.prompt())
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if text == "" {
			continue
		}

		if command, _, ok := orchestrator.ParseSlashCommand(text); ok {
			if c.runCommand(ctx, command) {
				return nil
			}
			continue
		}

		c.transcript.Add(text)
		msg := orchestrator.Message{UserID: c.userID, ChannelID: c.channelID, Text: text}
		if err := c.bot.HandleMessage(ctx, msg, c.responder()); err != nil {
			c.printError(err)
		}
	}
}

// runCommand handles one slash command and reports whether to exit.
func (c *Console) runCommand(ctx context.Context, command string) bool {
	catalog := c.bot.Catalog()
	switch command {
	case "exit", "quit":
		return true
	case "help":
		c.println(c.theme.muted(catalog.T(i18n.KeyConsoleHelp)))
		return false
	case "context":
		c.println(c.theme.muted(c.contextLine()))
		return false
	}
	if !orchestrator.IsKnownCommand(command) {
		c.println(c.theme.failure(catalog.T(i18n.KeyUnknownCommand, "/"+command)))
		return false
	}
	cmd := orchestrator.Command{Name: "/" + command, UserID: c.userID, ChannelID: c.channelID}
	if err := c.bot.Dispatch(ctx, cmd, c.responder()); err != nil {
		c.printError(err)
	}
	return false
}

func (c *Console) contextLine() string {
	catalog := c.bot.Catalog()
	store := c.bot.Store()
	label := c.bot.Selector().Current().Label()
	st := store.Stats(c.userID)
	if st.Turns == 0 {
		return catalog.T(i18n.KeyConsoleNoContext, label)
	}
	return catalog.T(i18n.KeyConsoleContext, st.Turns, st.Length, store.MaxLength(), st.EstimatedTokens, label)
}

// responder prints bot replies and records them, as a channel would.
func (c *Console) responder() orchestrator.Responder {
	return orchestrator.ResponderFunc(func(_ context.Context, text string) error {
		c.transcript.Add(text)
		body := text
		if c.markdown {
			body = RenderMarkdown(text, c.width)
		}
		c.println(c.theme.bot("bot:") + " " + body)
		return nil
	})
}

func (c *Console) prompt() string {
	label := c.bot.Selector().Current().Label()
	return c.theme.prompt(fmt.Sprintf("[%s] %s> ", label, c.userID))
}

func (c *Console) printError(err error) {
	c.logger.Debug("console turn failed", zap.Error(err))
	c.println(c.theme.failure("error: "+err.Error()))
}

func (c *Console) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}
