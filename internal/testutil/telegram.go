package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

// TelegramCall is one Bot API request seen by TelegramServer
type TelegramCall struct {
	Method string
	Params map[string]any
}

// TelegramServer is a fake Bot API endpoint recording every call
type TelegramServer struct {
	*httptest.Server

	mu    sync.Mutex
	calls []TelegramCall
}

// NewTelegramServer starts a fake Bot API server
func NewTelegramServer(t *testing.T) *TelegramServer {
	t.Helper()

	ts := &TelegramServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

		params := map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&params)

		ts.mu.Lock()
		ts.calls = append(ts.calls, TelegramCall{Method: method, Params: params})
		ts.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "answerCallbackQuery", "deleteMessage":
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":100,"date":0,"chat":{"id":42,"type":"private"}}}`))
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

// Calls returns the recorded calls
func (ts *TelegramServer) Calls() []TelegramCall {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]TelegramCall(nil), ts.calls...)
}

// Texts returns the text of every sent or edited message, in order
func (ts *TelegramServer) Texts() []string {
	var texts []string
	for _, call := range ts.Calls() {
		if text, ok := call.Params["text"].(string); ok && call.Method != "answerCallbackQuery" {
			texts = append(texts, text)
		}
	}
	return texts
}

// Methods returns the Bot API methods called, in order
func (ts *TelegramServer) Methods() []string {
	var methods []string
	for _, call := range ts.Calls() {
		methods = append(methods, call.Method)
	}
	return methods
}

// NewTestBot creates an offline bot talking to ts
func NewTestBot(t *testing.T, ts *TelegramServer) *tele.Bot {
	t.Helper()

	bot, err := tele.NewBot(tele.Settings{
		URL:     ts.URL,
		Token:   "test-token",
		Offline: true,
	})
	require.NoError(t, err)
	return bot
}

// TextUpdate builds an update carrying a text message from chatID
func TextUpdate(chatID int64, text string) tele.Update {
	return tele.Update{
		Message: &tele.Message{
			ID:     1,
			Sender: &tele.User{ID: chatID},
			Chat:   &tele.Chat{ID: chatID, Type: tele.ChatPrivate},
			Text:   text,
		},
	}
}

// CallbackUpdate builds an update carrying an inline button press from chatID
func CallbackUpdate(chatID int64, unique, data string) tele.Update {
	return tele.Update{
		Callback: &tele.Callback{
			ID:     "cb-1",
			Sender: &tele.User{ID: chatID},
			Message: &tele.Message{
				ID:   5,
				Chat: &tele.Chat{ID: chatID, Type: tele.ChatPrivate},
			},
			Unique: unique,
			Data:   data,
		},
	}
}
