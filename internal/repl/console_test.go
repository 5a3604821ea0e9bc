package repl

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"ideabot/internal/chat"
	"ideabot/internal/contextmgr"
	"ideabot/internal/i18n"
	"ideabot/internal/orchestrator"
	"ideabot/internal/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoBackend struct {
	name string

	mu      sync.Mutex
	prompts []string
	chats   int
}

func (b *echoBackend) Name() string { return b.name }

func (b *echoBackend) CompleteChat(context.Context, []chat.Turn, ...provider.CallOption) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chats++
	return "hi there", nil
}

func (b *echoBackend) CompleteSingle(_ context.Context, prompt string, _ ...provider.CallOption) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if strings.HasPrefix(prompt, "Does this message") {
		return "false", nil
	}
	b.prompts = append(b.prompts, prompt)
	return "a short summary", nil
}

func newConsole(t *testing.T, script string) (*Console, *bytes.Buffer, *echoBackend, *echoBackend) {
	t.Helper()
	gpt := &echoBackend{name: "openai"}
	claude := &echoBackend{name: "anthropic"}
	transcript := NewTranscript(20)
	bot := orchestrator.New(orchestrator.Options{
		Store:    contextmgr.NewStore(contextmgr.MaxContextLength),
		Selector: provider.NewSelector(gpt, claude, provider.KindGPT),
		History:  transcript,
		Catalog:  i18n.New("en"),
	})
	out := &bytes.Buffer{}
	c := New(Options{
		Bot:        bot,
		Transcript: transcript,
		In:         strings.NewReader(script),
		Out:        out,
	})
	return c, out, gpt, claude
}

func TestConsoleSession(t *testing.T) {
	script := strings.Join([]string{
		"hello",
		"/context",
		"/switch_ai",
		"/summarize",
		"/clear_context",
		"/context",
		"/bogus",
		"",
		"/exit",
		"never sent",
	}, "\n") + "\n"
	c, out, gpt, claude := newConsole(t, script)

	require.NoError(t, c.Run(context.Background()))
	got := out.String()

	assert.Contains(t, got, "bot: hi there\n")
	assert.Contains(t, got, "Context: 2 turns, 13/4096 chars")
	assert.Contains(t, got, "(backend GPT)")
	assert.Contains(t, got, "bot: AI model switched to CLAUDE\n")
	assert.Contains(t, got, "bot: Recent conversation summary (using CLAUDE):\na short summary\n")
	assert.Contains(t, got, "bot: Conversation context has been cleared.\n")
	assert.Contains(t, got, "Context: empty (backend CLAUDE)")
	assert.Contains(t, got, "Unknown command: /bogus")

	assert.Equal(t, 1, gpt.chats)
	require.Len(t, claude.prompts, 1)
	assert.Equal(t,
		"Please summarize the following conversation:\n\nhello\nhi there\nAI model switched to CLAUDE\n\nSummary:",
		claude.prompts[0])
}

func TestConsoleStopsAtEOF(t *testing.T) {
	c, out, gpt, _ := newConsole(t, "one\ntwo")
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, 2, gpt.chats)
	assert.Equal(t, 2, strings.Count(out.String(), "bot: hi there"))
}

func TestConsoleHelp(t *testing.T) {
	c, out, _, _ := newConsole(t, "/help\n")
	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "/clear_context")
	assert.Contains(t, out.String(), "/switch_ai")
}

func TestConsoleCancelledContext(t *testing.T) {
	c, _, gpt, _ := newConsole(t, "hello\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, c.Run(ctx))
	assert.Zero(t, gpt.chats)
}

func TestTranscriptHistory(t *testing.T) {
	tr := NewTranscript(3)
	for _, s := range []string{"a", "b", "c", "d"} {
		tr.Add(s)
	}
	assert.Equal(t, 3, tr.Len())

	all, err := tr.History(context.Background(), "any", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b"}, all)

	two, _ := tr.History(context.Background(), "any", 2)
	assert.Equal(t, []string{"d", "c"}, two)
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := RenderMarkdown("   ", 40); got != "" {
		t.Fatalf("RenderMarkdown(blank) = %q", got)
	}
	if got := RenderMarkdown("**bold**", 40); !strings.Contains(got, "bold") {
		t.Fatalf("RenderMarkdown lost text: %q", got)
	}
}

func TestNilThemeIsPlain(t *testing.T) {
	var theme *Theme
	if got := theme.prompt("x> "); got != "x> " {
		t.Fatalf("prompt = %q", got)
	}
	if got := theme.failure("boom"); got != "boom" {
		t.Fatalf("failure = %q", got)
	}
}
