// Package telegram sends ops alerts to a Telegram chat. It is the
// observability sink for failures the chat pipeline swallows by design.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/set-night/chatd/internal/config"
)

const maxMessageLen = 4096

type AlertLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

// NewAlertLogger returns nil when alerts are not configured; callers treat a
// nil logger as disabled.
func NewAlertLogger(cfg *config.Config) (*AlertLogger, error) {
	if !cfg.AlertsEnabled() {
		return nil, nil
	}

	b, err := bot.New(cfg.AlertToken, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("create alert bot: %w", err)
	}
	return &AlertLogger{bot: b, cfg: cfg}, nil
}

func (l *AlertLogger) Error(op string, err error) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Op:* %s\n*Error:* `%s`\n*Time:* %s",
		op, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.send(msg)
}

func (l *AlertLogger) send(message string) {
	if l == nil {
		return
	}

	if len([]rune(message)) > maxMessageLen {
		message = string([]rune(message)[:maxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    l.cfg.AlertChatID,
		Text:      message,
		ParseMode: "Markdown",
	})
	if err != nil {
		slog.Error("failed to send telegram alert", "error", err)
	}
}
