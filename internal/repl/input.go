package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ideabot/internal/orchestrator"

	"github.com/chzyer/readline"
)

// errInputClosed 用户以 EOF 或 ^C 结束会话，等同于 /exit
// errInputClosed means the user ended the session with EOF or ^C; the
// console treats it exactly like /exit.
var errInputClosed = errors.New("console input closed")

const consoleHistoryLimit = 500

// lineSource yields one trimmed input line per call.
type lineSource interface {
	Next(prompt string) (string, error)
	Close() error
}

// consoleCommands lists every slash command the console accepts, bot
// commands first.
func consoleCommands() []string {
	return []string{
		"/" + orchestrator.CommandSummarize,
		"/" + orchestrator.CommandClearContext,
		"/" + orchestrator.CommandSwitchAI,
		"/context",
		"/help",
		"/exit",
	}
}

// plainSource reads piped or redirected input. The prompt is echoed only
// when echo is set, so transcripts of scripted sessions stay clean.
type plainSource struct {
	reader *bufio.Reader
	echo   io.Writer
}

func newPlainSource(in io.Reader, echo io.Writer) *plainSource {
	return &plainSource{reader: bufio.NewReader(in), echo: echo}
}

func (p *plainSource) Next(prompt string) (string, error) {
	if p.echo != nil {
		fmt.Fprint(p.echo, prompt)
	}
	line, err := p.reader.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
		// last line without a trailing newline still counts
	case errors.Is(err, io.EOF):
		return "", errInputClosed
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *plainSource) Close() error { return nil }

// terminalSource edits lines with readline, keeps a history file and
// completes slash commands on Tab.
type terminalSource struct {
	instance *readline.Instance
}

func newTerminalSource(historyPath string) (*terminalSource, error) {
	if historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	items := make([]readline.PrefixCompleterInterface, 0, len(consoleCommands()))
	for _, name := range consoleCommands() {
		items = append(items, readline.PcItem(name))
	}
	instance, err := readline.NewEx(&readline.Config{
		HistoryFile:       historyPath,
		HistoryLimit:      consoleHistoryLimit,
		HistorySearchFold: true,
		AutoComplete:      readline.NewPrefixCompleter(items...),
		InterruptPrompt:   "^C",
		EOFPrompt:         "/exit",
	})
	if err != nil {
		return nil, err
	}
	return &terminalSource{instance: instance}, nil
}

func (s *terminalSource) Next(prompt string) (string, error) {
	s.instance.SetPrompt(prompt)
	line, err := s.instance.Readline()
	if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
		return "", errInputClosed
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *terminalSource) Close() error {
	if s == nil || s.instance == nil {
		return nil
	}
	return s.instance.Close()
}

// openTerminalSource prefers readline; on failure it reads stdin plainly,
// echoing the prompt, and returns the readline error for logging.
func openTerminalSource(historyPath string) (lineSource, error) {
	src, err := newTerminalSource(historyPath)
	if err == nil {
		return src, nil
	}
	return newPlainSource(os.Stdin, os.Stdout), err
}

// DefaultHistoryPath is where console input history is kept.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ideabot", "console_history")
}
