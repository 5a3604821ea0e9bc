package main

import (
	"fmt"
	"os"
	"strings"

	"ideabot/internal/config"
	"ideabot/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "ideabot",
	Short: "Slack bot that chats through GPT or Claude and files ideas to Notion",
	Long: `ideabot relays Slack channel messages to a language model, keeping a
bounded conversation window per user. Messages the model classifies as new
ideas are filed as tickets in a Notion database.

Run "ideabot serve" to receive Slack events over HTTP, or "ideabot console"
to talk to the bot from a terminal.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ideabot version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "ideabot", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default ./.ideabot/config.json (secrets stay in the environment)",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.InitProjectConfigScaffold("")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "config:", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config JSON/JSONC")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, consoleCmd, initCmd, versionCmd)
}

// loadConfig resolves configuration and validates it for mode.
func loadConfig(mode config.Mode) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(mode); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger; the --log-level flag beats config.
func newLogger(fallbackLevel, format string) (*zap.Logger, error) {
	level := strings.TrimSpace(logLevel)
	if level == "" {
		level = fallbackLevel
	}
	return logging.New(logging.Options{Level: level, Format: format})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
