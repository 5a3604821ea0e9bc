package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ideabot/internal/chat"
	"ideabot/internal/contextmgr"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := out.String(); !strings.HasPrefix(got, "ideabot ") {
		t.Fatalf("version output = %q", got)
	}
}

func TestServeRequiresSlackSecrets(t *testing.T) {
	for _, key := range []string{"SLACK_SIGNING_SECRET", "SLACK_BOT_TOKEN", "OPENAI_API_KEY", "IDEABOT_CONFIG_PATH"} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	var errOut bytes.Buffer
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"serve"})
	t.Cleanup(func() {
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("serve started without Slack credentials")
	}
	if !strings.Contains(err.Error(), "SLACK_SIGNING_SECRET") {
		t.Fatalf("error = %v", err)
	}
}

type stubShutdowner struct {
	called bool
	err    error
}

func (s *stubShutdowner) Shutdown(context.Context) error {
	s.called = true
	return s.err
}

func TestDrainLogsTrackedUsersAndJoinsErrors(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := contextmgr.NewStore(0)
	store.Append("U1", chat.UserTurn("hello"))
	store.Append("U2", chat.UserTurn("hi"))

	httpSrv := &stubShutdowner{}
	handler := &stubShutdowner{err: context.DeadlineExceeded}
	err := drain(zap.New(core), time.Second, httpSrv, handler, store)

	if !httpSrv.called || !handler.called {
		t.Fatalf("shutdown calls: http=%v handler=%v", httpSrv.called, handler.called)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("drain error = %v", err)
	}
	entries := logs.FilterMessage("shutting down").All()
	if len(entries) != 1 {
		t.Fatalf("shutting down logged %d times", len(entries))
	}
	if users := entries[0].ContextMap()["users"]; users != int64(2) {
		t.Fatalf("users field = %v (%T)", users, users)
	}
}
