package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestTelegramHandlerPassesRecordsBelowMirrorLevel(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := slog.New(NewTelegramHandler(base, nil, slog.LevelWarn))

	log.Info("server started")

	if !strings.Contains(buf.String(), "server started") {
		t.Errorf("info record never reached the wrapped handler, output: %q", buf.String())
	}
}

func TestTelegramHandlerEnabledFollowsWrapped(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := NewTelegramHandler(base, nil, slog.LevelWarn)

	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info must stay enabled when the wrapped handler accepts it")
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug must stay disabled when the wrapped handler rejects it")
	}
}

func TestTelegramHandlerKeepsGroupPrefix(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := slog.New(NewTelegramHandler(base, nil, slog.LevelWarn)).WithGroup("api")

	log.Warn("listener stopped", slog.String("addr", ":8080"))

	if !strings.Contains(buf.String(), "api.addr") {
		t.Errorf("group prefix lost, output: %q", buf.String())
	}
}
