package slack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSlackAPI serves the two Web API methods the client calls.
func fakeSlackAPI(t *testing.T, historyJSON string) (*httptest.Server, *[]string) {
	t.Helper()
	var posted []string
	mux := http.NewServeMux()
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.FormValue("channel") == "C404" {
			_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
			return
		}
		posted = append(posted, r.FormValue("channel")+": "+r.FormValue("text"))
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C1","ts":"1700000000.000200"}`))
	})
	mux.HandleFunc("/conversations.history", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.FormValue("channel") == "C404" {
			_, _ = w.Write([]byte(`{"ok":false,"error":"not_in_channel"}`))
			return
		}
		if r.FormValue("limit") != "20" {
			t.Errorf("limit = %q", r.FormValue("limit"))
		}
		_, _ = w.Write([]byte(historyJSON))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &posted
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient("xoxb-test", nil,
		slackapi.OptionAPIURL(srv.URL+"/"),
		slackapi.OptionHTTPClient(srv.Client()))
}

func TestClientResponderPosts(t *testing.T) {
	srv, posted := fakeSlackAPI(t, `{"ok":true,"messages":[]}`)
	c := newTestClient(srv)

	require.NoError(t, c.Responder("C1").Say(context.Background(), "hello"))
	assert.Equal(t, []string{"C1: hello"}, *posted)

	err := c.Responder("C404").Say(context.Background(), "lost")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "C404", te.Channel)
	assert.Equal(t, "chat.postMessage", te.Op)
}

func TestClientHistory(t *testing.T) {
	srv, _ := fakeSlackAPI(t, `{"ok":true,"messages":[
		{"type":"message","user":"U2","text":"newest","ts":"3"},
		{"type":"message","user":"U1","text":"older","ts":"2"},
		{"type":"message","user":"U1","text":"","ts":"1"}
	],"has_more":false}`)
	c := newTestClient(srv)

	texts, err := c.History(context.Background(), "C1", 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "older", ""}, texts)

	_, err = c.History(context.Background(), "C404", 20)
	var he *HistoryFetchError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "C404", he.Channel)
}
