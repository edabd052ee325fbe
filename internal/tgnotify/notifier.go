// Package tgnotify delivers operational alerts to a Telegram chat.
// It is a send-only channel: WARN+ log records are forwarded through the
// slog handler in lib/logger, nothing flows back into the application.
package tgnotify

import (
	"fmt"
	"log/slog"
	"strings"

	"bonuspoint/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

type Config struct {
	APIKey string
	ChatID int64
}

type Notifier struct {
	log    *slog.Logger
	api    *tgbotapi.Bot
	chatID int64
}

func New(cfg Config, log *slog.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBot(cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	return &Notifier{
		log:    log.With(sl.Module("tgnotify")),
		api:    api,
		chatID: cfg.ChatID,
	}, nil
}

// Send posts a markdown message to the configured chat. Delivery errors
// are logged and swallowed; alerting must never fail a request.
func (n *Notifier) Send(msg string) {
	if n == nil || n.api == nil {
		return
	}
	_, err := n.api.SendMessage(n.chatID, msg, &tgbotapi.SendMessageOpts{
		ParseMode: "Markdown",
	})
	if err != nil {
		n.log.Debug("send notification", sl.Err(err))
	}
}

// Sanitize escapes characters that break Telegram markdown parsing.
func Sanitize(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"`", "\\`",
		"[", "\\[",
	)
	return replacer.Replace(text)
}
