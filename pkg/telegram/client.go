package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers run digests and alerts to a chat.
type Notifier interface {
	SendMessage(text string) error
}

type client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewClient connects to the Telegram Bot API with the given token.
func NewClient(botToken string, chatID int64) (Notifier, error) {
	return NewClientWithEndpoint(botToken, chatID, tgbotapi.APIEndpoint)
}

// NewClientWithEndpoint is NewClient against a custom API endpoint,
// a format string taking the token and the method name.
func NewClientWithEndpoint(botToken string, chatID int64, endpoint string) (Notifier, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is not configured")
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(botToken, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	return &client{bot: bot, chatID: chatID}, nil
}

// SendMessage posts one Markdown message. Link previews are disabled since digests carry several URLs.
func (c *client) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
