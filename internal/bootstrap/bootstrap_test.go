package bootstrap

import (
	"context"
	"strings"
	"testing"

	"ideabot/internal/config"
	"ideabot/internal/provider"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type staticHistory []string

func (h staticHistory) History(context.Context, string, int) ([]string, error) {
	return h, nil
}

func TestBuildDefaults(t *testing.T) {
	cfg := config.Default()
	res, err := Build(cfg, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if res.Bot == nil || res.Store == nil || res.Selector == nil || res.Catalog == nil {
		t.Fatalf("incomplete result: %+v", res)
	}
	if res.Selector.Current() != provider.KindGPT {
		t.Fatalf("initial backend = %v", res.Selector.Current())
	}
	if res.Store.MaxLength() != 4096 {
		t.Fatalf("max length = %d", res.Store.MaxLength())
	}
	if res.Slack != nil {
		t.Fatal("slack client built without a bot token")
	}
	if res.TicketsEnabled {
		t.Fatal("tickets enabled without notion config")
	}
}

func TestBuildWiresConfiguredParts(t *testing.T) {
	cfg := config.Default()
	cfg.Bot.DefaultBackend = config.BackendClaude
	cfg.Bot.MaxContextLength = 1000
	cfg.Slack.BotToken = "xoxb-test"
	cfg.Notion.APIKey = "secret_test"
	cfg.Notion.DatabaseID = "db"

	res, err := Build(cfg, Options{History: staticHistory{"hi"}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if res.Selector.Current() != provider.KindClaude {
		t.Fatalf("initial backend = %v", res.Selector.Current())
	}
	if res.Store.MaxLength() != 1000 {
		t.Fatalf("max length = %d", res.Store.MaxLength())
	}
	if res.Slack == nil {
		t.Fatal("slack client missing")
	}
	if !res.TicketsEnabled {
		t.Fatal("tickets should be enabled")
	}
}

func TestBuildRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Bot.DefaultBackend = "llama"
	_, err := Build(cfg, Options{})
	if err == nil || !strings.Contains(err.Error(), "default backend") {
		t.Fatalf("expected default backend error, got %v", err)
	}
}

func TestBuildLogsBackendModelsAndEncoding(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := config.Default()
	cfg.OpenAI.Model = "gpt-4o-mini"
	cfg.Anthropic.Model = "claude-instant-1"

	if _, err := Build(cfg, Options{Logger: zap.New(core)}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	ready := logs.FilterMessage("bot ready").All()
	if len(ready) != 1 {
		t.Fatalf("bot ready logged %d times", len(ready))
	}
	fields := ready[0].ContextMap()
	if fields["openai_model"] != "gpt-4o-mini" || fields["anthropic_model"] != "claude-instant-1" {
		t.Fatalf("model fields = %v / %v", fields["openai_model"], fields["anthropic_model"])
	}
	if fields["token_encoding"] != "o200k_base" {
		t.Fatalf("token_encoding = %v", fields["token_encoding"])
	}
	if _, ok := fields["precise_tokens"].(bool); !ok {
		t.Fatalf("precise_tokens missing: %v", fields)
	}
}
