// Package notify delivers rendered order reports to their destination
// channels.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"douvigia/internal/common"
)

const (
	telegramAPIBase = "https://api.telegram.org"

	// Telegram rejects messages above 4096 characters; leave room for
	// the truncation marker.
	maxMessageRunes = 4096
	truncateAtRunes = 4090
)

// Telegram sends messages through the Bot API's sendMessage method.
type Telegram struct {
	httpClient *http.Client
	apiBase    string
	token      string
	chatID     string
}

// NewTelegram builds a Telegram notifier for one bot and chat.
func NewTelegram(token, chatID string) (*Telegram, error) {
	if token == "" || chatID == "" {
		return nil, fmt.Errorf("%w: telegram token and chat_id", common.ErrMissingConfig)
	}
	return &Telegram{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiBase:    telegramAPIBase,
		token:      token,
		chatID:     chatID,
	}, nil
}

// Send posts one message to the configured chat, truncating oversized
// texts to the API limit.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if runes := []rune(text); len(runes) > maxMessageRunes {
		text = string(runes[:truncateAtRunes]) + "\n(...)"
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return fmt.Errorf("encode telegram payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNotifyFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: HTTP %d: %s", common.ErrNotifyFailed, resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
