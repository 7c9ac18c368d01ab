package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram delivers rendered news messages to subscribers via the
// Telegram Bot API
type Telegram struct {
	api *tgbotapi.BotAPI
}

// NewTelegram authenticates the bot token and returns the sink.
// An empty endpoint selects the public Bot API.
func NewTelegram(token, endpoint string) (*Telegram, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{api: api}, nil
}

// Send delivers one HTML-formatted message to a user. Failures come back
// as errors for the caller to log and retry on a later cycle.
func (t *Telegram) Send(ctx context.Context, userID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(userID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send message to %d: %w", userID, err)
	}
	return nil
}
