package main

import (
	"fmt"
	"os"

	"ideabot/internal/bootstrap"
	"ideabot/internal/config"
	"ideabot/internal/repl"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var consoleUser string

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Talk to the bot from the terminal",
	Long: `Runs the bot against standard input, as one user in one channel.
Plain lines are chat messages; /summarize, /clear_context and /switch_ai
behave as the Slack commands do, and /context, /help and /exit are
console-only. /summarize reads the console's own transcript.`,
	RunE: runConsole,
}

func init() {
	consoleCmd.Flags().StringVar(&consoleUser, "user", repl.DefaultUserID, "user id the console speaks as")
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(config.ModeConsole)
	if err != nil {
		return err
	}
	// console output and logs share the terminal; keep logs quiet by default
	logger, err := newLogger("warn", "console")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	transcript := repl.NewTranscript(0)
	res, err := bootstrap.Build(cfg, bootstrap.Options{Logger: logger, History: transcript})
	if err != nil {
		return fmt.Errorf("build bot: %w", err)
	}

	stdoutFd := int(os.Stdout.Fd())
	tty := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(stdoutFd)
	width := 80
	if w, _, err := term.GetSize(stdoutFd); err == nil && w > 0 {
		width = w
	}
	var theme *repl.Theme
	if tty {
		t := repl.DefaultTheme()
		theme = &t
	}

	console := repl.New(repl.Options{
		Bot:         res.Bot,
		Transcript:  transcript,
		In:          os.Stdin,
		Out:         cmd.OutOrStdout(),
		Interactive: tty,
		HistoryPath: repl.DefaultHistoryPath(),
		Markdown:    tty,
		Width:       width,
		Theme:       theme,
		UserID:      consoleUser,
		Logger:      logger.Named("console"),
	})

	// readline reports ^C itself; piped input keeps the default SIGINT behavior
	return console.Run(cmd.Context())
}
