package orchestrator

import (
	"context"
	"fmt"
	"strings"
)

// Command names, without the leading slash.
const (
	CommandSummarize    = "summarize"
	CommandClearContext = "clear_context"
	CommandSwitchAI     = "switch_ai"
)

// ParseSlashCommand 解析 "/" 命令：返回 command 与 args（剩余部分）
// ParseSlashCommand parses a "/" command line into its name and the rest
func ParseSlashCommand(input string) (command string, args string, ok bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return "", "", false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "/"))
	if rest == "" {
		return "", "", true
	}
	parts := strings.SplitN(rest, " ", 2)
	command = strings.ToLower(strings.TrimSpace(parts[0]))
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}
	return command, args, true
}

// CommandName normalizes "/Summarize" and "summarize" alike.
func CommandName(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
}

// IsKnownCommand reports whether Dispatch routes name.
func IsKnownCommand(name string) bool {
	switch CommandName(name) {
	case CommandSummarize, CommandClearContext, CommandSwitchAI:
		return true
	}
	return false
}

// Dispatch routes a slash command to its handler.
func (b *Bot) Dispatch(ctx context.Context, cmd Command, out Responder) error {
	switch CommandName(cmd.Name) {
	case CommandSummarize:
		return b.Summarize(ctx, cmd, out)
	case CommandClearContext:
		return b.ClearContext(ctx, cmd, out)
	case CommandSwitchAI:
		return b.SwitchAI(ctx, cmd, out)
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name)
}
