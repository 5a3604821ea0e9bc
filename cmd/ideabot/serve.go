package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ideabot/internal/bootstrap"
	"ideabot/internal/config"
	"ideabot/internal/contextmgr"
	"ideabot/internal/slack"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Receive Slack events and slash commands over HTTP",
	Long: `Starts the HTTP endpoint Slack delivers to:

  POST /slack/events     Events API (message events, url_verification)
  POST /slack/commands   /summarize, /clear_context, /switch_ai
  GET  /healthz          liveness

Requests are verified with SLACK_SIGNING_SECRET; replies are posted with
SLACK_BOT_TOKEN.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(config.ModeServe)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	res, err := bootstrap.Build(cfg, bootstrap.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("build bot: %w", err)
	}

	handler := slack.NewServer(slack.ServerOptions{
		SigningSecret: cfg.Slack.SigningSecret,
		Bot:           res.Bot,
		Responders:    res.Slack,
		Catalog:       res.Catalog,
		Logger:        logger.Named("http"),
	})
	httpServer := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("ideabot listening", zap.String("addr", httpServer.Addr), zap.String("version", version))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := time.Duration(cfg.Server.ShutdownTimeoutMS) * time.Millisecond
		return drain(logger, timeout, httpServer, handler, res.Store)
	})
	return g.Wait()
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// drain stops accepting requests, then waits for the async handlers, and
// reports how many conversation windows are dropped with the process.
func drain(logger *zap.Logger, timeout time.Duration, httpServer, handler shutdowner, store *contextmgr.Store) error {
	logger.Info("shutting down", zap.Int("users", store.Users()))
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	httpErr := httpServer.Shutdown(ctx)
	handlerErr := handler.Shutdown(ctx)
	return errors.Join(httpErr, handlerErr)
}
