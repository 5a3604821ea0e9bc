package repl

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"ideabot/internal/orchestrator"
)

func TestPlainSource_TrimsAndEndsWithInputClosed(t *testing.T) {
	src := newPlainSource(strings.NewReader("  hello \r\n\nlast line"), nil)

	want := []string{"hello", "", "last line"}
	for i, w := range want {
		got, err := src.Next("> ")
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("line %d = %q, want %q", i, got, w)
		}
	}
	if _, err := src.Next("> "); !errors.Is(err, errInputClosed) {
		t.Fatalf("expected errInputClosed after EOF, got %v", err)
	}
}

func TestPlainSource_EchoesPromptOnlyWhenAsked(t *testing.T) {
	echo := &bytes.Buffer{}
	src := newPlainSource(strings.NewReader("a\n"), echo)
	if _, err := src.Next("[GPT] u> "); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if echo.String() != "[GPT] u> " {
		t.Fatalf("echo = %q", echo.String())
	}

	quiet := newPlainSource(strings.NewReader("a\n"), nil)
	if _, err := quiet.Next("[GPT] u> "); err != nil {
		t.Fatalf("Next: %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestPlainSource_ReadErrorIsNotInputClosed(t *testing.T) {
	_, err := newPlainSource(failingReader{}, nil).Next("> ")
	if err == nil || errors.Is(err, errInputClosed) {
		t.Fatalf("expected a read error, got %v", err)
	}
}

func TestConsoleCommands_CoverBotCommands(t *testing.T) {
	names := consoleCommands()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !strings.HasPrefix(n, "/") {
			t.Fatalf("command %q lacks a leading slash", n)
		}
		seen[n] = true
	}
	for _, cmd := range []string{orchestrator.CommandSummarize, orchestrator.CommandClearContext, orchestrator.CommandSwitchAI} {
		if !seen["/"+cmd] {
			t.Fatalf("completion misses /%s", cmd)
		}
	}
	if !seen["/exit"] {
		t.Fatal("completion misses /exit")
	}
}
