package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"recon-tracker/internal/model"
)

// Telegram posts notifications to a team chat. It is an optional secondary
// channel next to mail; both receive the same records.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) Deliver(ctx context.Context, rec *model.NotificationRecord, task *model.Task, addresses []string) error {
	text := rec.Message
	if rec.Severity == model.SeverityDanger {
		text = "⚠️ " + text
	}
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
