package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketapi/internal/config"
)

func TestNewTelegram_Validation(t *testing.T) {
	_, err := NewTelegram(config.TelegramConfig{ChatID: "1"})
	assert.EqualError(t, err, "telegram bot token is required")

	_, err = NewTelegram(config.TelegramConfig{BotToken: "tok"})
	assert.EqualError(t, err, "telegram chat id is required")
}

func TestTelegram_Send(t *testing.T) {
	var got sendMessageRequest
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram(config.TelegramConfig{BotToken: "123:abc", ChatID: "-1001", APIURL: srv.URL + "/", Timeout: time.Second})
	require.NoError(t, err)

	require.NoError(t, tg.Send(context.Background(), "<b>hello</b>"))
	assert.Equal(t, "/bot123:abc/sendMessage", path)
	assert.Equal(t, "-1001", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.True(t, got.DisableWebPagePreview)
	assert.Equal(t, "<b>hello</b>", got.Text)
}

func TestTelegram_SendErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
		}))
		defer srv.Close()

		tg, err := NewTelegram(config.TelegramConfig{BotToken: "t", ChatID: "1", APIURL: srv.URL})
		require.NoError(t, err)
		err = tg.Send(context.Background(), "x")
		assert.EqualError(t, err, "telegram: status 400: Bad Request: chat not found")
	})

	t.Run("transport error hides token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		tg, err := NewTelegram(config.TelegramConfig{BotToken: "secret-token", ChatID: "1", APIURL: srv.URL})
		require.NoError(t, err)
		err = tg.Send(context.Background(), "x")
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "secret-token")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	long := strings.Repeat("ก", 10)
	out := truncate(long, 5)
	assert.Equal(t, 5, len([]rune(out)))
	assert.True(t, strings.HasSuffix(out, "…"))
}

func TestTruncate_KeepsMarkupIntact(t *testing.T) {
	assert.Equal(t, "aaaa…", truncate("aaaa&amp;bbbb", 7))
	assert.Equal(t, "ab…", truncate("ab<b>cd</b>", 5))
	assert.Equal(t, "<b>one</b>\n…", truncate("<b>one</b>\n<b>two</b>", 14))
}

func TestTelegram_SendLongMessage(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram(config.TelegramConfig{BotToken: "t", ChatID: "1", APIURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	text := strings.Repeat("<b>Tom &amp; Jerry</b>\n", 400)
	require.NoError(t, tg.Send(context.Background(), text))

	assert.LessOrEqual(t, len([]rune(got.Text)), maxMessageLen)
	assert.True(t, strings.HasSuffix(got.Text, "</b>\n…"))
	assert.Equal(t, strings.Count(got.Text, "<b>"), strings.Count(got.Text, "</b>"))
}
