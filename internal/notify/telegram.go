// Package notify posts run notifications to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"iglesia/internal/config"
	"iglesia/internal/logger"
)

const apiBase = "https://api.telegram.org"

// Telegram sends messages through the Bot API.
type Telegram struct {
	token  string
	chatID string
	base   string
	client *http.Client
}

// NewTelegram returns a notifier for one bot and chat.
func NewTelegram(cfg config.Telegram) *Telegram {
	return &Telegram{
		token:  cfg.BotToken,
		chatID: cfg.ChatID,
		base:   apiBase,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether credentials are present. Notifications are
// optional; an unconfigured notifier is silently skipped.
func (t *Telegram) Configured() bool {
	return t.token != "" && t.chatID != ""
}

// markdownV2Escapes are the characters Telegram's MarkdownV2 parser
// requires escaped in regular text.
const markdownV2Escapes = "_*[]()~`>#+-=|{}.!"

// EscapeMarkdownV2 escapes message text for parse_mode MarkdownV2.
func EscapeMarkdownV2(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(markdownV2Escapes, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Send posts one message to the configured chat.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if !t.Configured() {
		logger.Debug("telegram not configured, notification skipped")
		return nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.base, t.token)
	form := url.Values{
		"chat_id":    {t.chatID},
		"text":       {text},
		"parse_mode": {"MarkdownV2"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach telegram: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
