package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"ideabot/internal/i18n"
	"ideabot/internal/orchestrator"

	"github.com/google/uuid"
	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Handler is the bot surface the server drives.
type Handler interface {
	HandleMessage(ctx context.Context, msg orchestrator.Message, out orchestrator.Responder) error
	Dispatch(ctx context.Context, cmd orchestrator.Command, out orchestrator.Responder) error
}

// ResponderFactory yields a Responder bound to one channel.
type ResponderFactory interface {
	Responder(channelID string) orchestrator.Responder
}

type ServerOptions struct {
	SigningSecret string
	Bot           Handler
	Responders    ResponderFactory
	Catalog       *i18n.Catalog
	Logger        *zap.Logger
}

// Server 接收 Slack Events API 与 Slash Command 的 HTTP 回调
// Server receives Slack Events API and slash command callbacks. Requests
// are acknowledged at once and handled on background goroutines tracked
// by Shutdown.
type Server struct {
	signingSecret string
	bot           Handler
	responders    ResponderFactory
	catalog       *i18n.Catalog
	logger        *zap.Logger
	mux           *http.ServeMux

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewServer(opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = i18n.New("en")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		signingSecret: opts.SigningSecret,
		bot:           opts.Bot,
		responders:    opts.Responders,
		catalog:       catalog,
		logger:        logger,
		mux:           http.NewServeMux(),
		baseCtx:       ctx,
		cancel:        cancel,
	}
	s.mux.HandleFunc("POST /slack/events", s.handleEvents)
	s.mux.HandleFunc("POST /slack/commands", s.handleCommand)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Shutdown waits for in-flight handlers. When ctx expires first their
// contexts are cancelled and ctx's error is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// verify reads the body and checks the Slack request signature.
func (s *Server) verify(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	sv, err := slackapi.NewSecretsVerifier(r.Header, s.signingSecret)
	if err != nil {
		return nil, err
	}
	if _, err := sv.Write(body); err != nil {
		return nil, err
	}
	if err := sv.Ensure(); err != nil {
		return nil, err
	}
	return body, nil
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With(zap.String("request_id", uuid.NewString()))

	body, err := s.verify(r)
	if err != nil {
		log.Warn("rejected event request", zap.Error(err))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		log.Warn("malformed event payload", zap.Error(err))
		http.Error(w, "malformed event", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "malformed challenge", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"challenge": challenge.Challenge})
		return
	case slackevents.CallbackEvent:
		w.WriteHeader(http.StatusOK)
		if retry := r.Header.Get("X-Slack-Retry-Num"); retry != "" {
			log.Info("ignoring event redelivery", zap.String("retry", retry),
				zap.String("reason", r.Header.Get("X-Slack-Retry-Reason")))
			return
		}
		s.routeCallback(event, log)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) routeCallback(event slackevents.EventsAPIEvent, log *zap.Logger) {
	ev, ok := event.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok {
		log.Debug("ignoring event", zap.String("type", event.InnerEvent.Type))
		return
	}
	// bot posts (our own replies included) and edits/joins carry these
	if ev.BotID != "" || ev.SubType != "" || ev.User == "" {
		return
	}
	msg := orchestrator.Message{UserID: ev.User, ChannelID: ev.Channel, Text: ev.Text}
	out := s.responders.Responder(ev.Channel)
	s.spawn(log, func(ctx context.Context) error {
		return s.bot.HandleMessage(ctx, msg, out)
	})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With(zap.String("request_id", uuid.NewString()))

	body, err := s.verify(r)
	if err != nil {
		log.Warn("rejected command request", zap.Error(err))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	sc, err := slackapi.SlashCommandParse(r)
	if err != nil {
		log.Warn("malformed slash command", zap.Error(err))
		http.Error(w, "malformed command", http.StatusBadRequest)
		return
	}

	log = log.With(zap.String("command", sc.Command), zap.String("user", sc.UserID))
	if !orchestrator.IsKnownCommand(sc.Command) {
		log.Warn("unknown slash command")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, s.catalog.T(i18n.KeyUnknownCommand, sc.Command))
		return
	}
	w.WriteHeader(http.StatusOK)

	cmd := orchestrator.Command{Name: sc.Command, UserID: sc.UserID, ChannelID: sc.ChannelID, Text: sc.Text}
	out := s.responders.Responder(sc.ChannelID)
	s.spawn(log, func(ctx context.Context) error {
		return s.bot.Dispatch(ctx, cmd, out)
	})
}

func (s *Server) spawn(log *zap.Logger, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(s.baseCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("event handling failed", zap.Error(err))
		}
	}()
}
