package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"bonuspoint/internal/tgnotify"
)

// TelegramHandler is a slog.Handler that mirrors log records at or above
// minLevel to the operations Telegram chat.
type TelegramHandler struct {
	handler  slog.Handler
	notifier *tgnotify.Notifier
	minLevel slog.Level
	mu       sync.Mutex
	attrs    []slog.Attr
	group    string
}

func NewTelegramHandler(handler slog.Handler, notifier *tgnotify.Notifier, minLevel slog.Level) *TelegramHandler {
	return &TelegramHandler{
		handler:  handler,
		notifier: notifier,
		minLevel: minLevel,
		attrs:    make([]slog.Attr, 0),
	}
}

// Enabled follows the wrapped handler: minLevel only decides what gets
// mirrored to Telegram, not what gets logged at all.
func (h *TelegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *TelegramHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.handler.Handle(ctx, record)
	if err != nil {
		return err
	}

	if record.Level >= h.minLevel && h.notifier != nil {
		h.mu.Lock()
		defer h.mu.Unlock()

		var msg string
		if h.group != "" {
			msg = fmt.Sprintf("*%s* `%s.%s`", record.Level.String(), h.group, record.Message)
		} else {
			msg = fmt.Sprintf("*%s* `%s`", record.Level.String(), record.Message)
		}

		for _, attr := range h.attrs {
			if attr.Key == "error" {
				msg += fmt.Sprintf("\n%s: ```error %v ```", attr.Key, attr.Value)
			} else {
				msg += tgnotify.Sanitize(fmt.Sprintf("\n%s: %v", attr.Key, attr.Value))
			}
		}
		record.Attrs(func(attr slog.Attr) bool {
			msg += tgnotify.Sanitize(fmt.Sprintf("\n%s: %v", attr.Key, attr.Value))
			return true
		})

		h.notifier.Send(msg)
	}

	return nil
}

func (h *TelegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &TelegramHandler{
		handler:  h.handler.WithAttrs(attrs),
		notifier: h.notifier,
		minLevel: h.minLevel,
		attrs:    newAttrs,
		group:    h.group,
	}
}

func (h *TelegramHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}

	return &TelegramHandler{
		handler:  h.handler.WithGroup(name),
		notifier: h.notifier,
		minLevel: h.minLevel,
		attrs:    h.attrs,
		group:    group,
	}
}
