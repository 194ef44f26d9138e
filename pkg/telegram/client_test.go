package telegram

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBotAPI struct {
	mu   sync.Mutex
	sent []map[string]string
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"radar","username":"radar_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		_ = r.ParseForm()
		f.mu.Lock()
		f.sent = append(f.sent, map[string]string{
			"chat_id":                  r.PostForm.Get("chat_id"),
			"text":                     r.PostForm.Get("text"),
			"parse_mode":               r.PostForm.Get("parse_mode"),
			"disable_web_page_preview": r.PostForm.Get("disable_web_page_preview"),
		})
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
	}
}

func TestClient_SendMessage(t *testing.T) {
	api := &fakeBotAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	n, err := NewClientWithEndpoint("token", 42, srv.URL+"/bot%s/%s")
	require.NoError(t, err)

	require.NoError(t, n.SendMessage("*hello*"))

	require.Len(t, api.sent, 1)
	assert.Equal(t, "42", api.sent[0]["chat_id"])
	assert.Equal(t, "*hello*", api.sent[0]["text"])
	assert.Equal(t, "Markdown", api.sent[0]["parse_mode"])
	assert.Equal(t, "true", api.sent[0]["disable_web_page_preview"])
}

func TestNewClient_RequiresChatID(t *testing.T) {
	_, err := NewClientWithEndpoint("token", 0, "http://127.0.0.1:1/bot%s/%s")
	assert.Error(t, err)
}
