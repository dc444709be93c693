package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"douvigia/internal/common"
)

func newTestTelegram(t *testing.T, handler http.HandlerFunc) *Telegram {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	telegram, err := NewTelegram("test-token", "-100123")
	require.NoError(t, err)
	telegram.apiBase = server.URL
	return telegram
}

func TestTelegram_Send(t *testing.T) {
	var got map[string]string
	telegram := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, telegram.Send(context.Background(), "⚓ MB: R$ 1.500,00"))
	assert.Equal(t, "-100123", got["chat_id"])
	assert.Equal(t, "⚓ MB: R$ 1.500,00", got["text"])
	assert.Equal(t, "Markdown", got["parse_mode"])
}

func TestTelegram_SendTruncatesLongMessages(t *testing.T) {
	var got map[string]string
	telegram := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, telegram.Send(context.Background(), strings.Repeat("a", 5000)))
	runes := []rune(got["text"])
	assert.LessOrEqual(t, len(runes), maxMessageRunes)
	assert.True(t, strings.HasSuffix(got["text"], "(...)"))
}

func TestTelegram_SendAPIError(t *testing.T) {
	telegram := newTestTelegram(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok":false,"description":"bot was kicked"}`))
	})

	err := telegram.Send(context.Background(), "hello")
	require.ErrorIs(t, err, common.ErrNotifyFailed)
	assert.Contains(t, err.Error(), "403")
}

func TestNewTelegram_MissingConfig(t *testing.T) {
	_, err := NewTelegram("", "-100123")
	require.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = NewTelegram("token", "")
	require.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestConsole_Send(t *testing.T) {
	var out strings.Builder
	console := NewConsole(&out)
	require.NoError(t, console.Send(context.Background(), "report"))
	assert.Equal(t, "report\n", out.String())
}
