// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

// Button is one inline or reply keyboard button. URL buttons open a link,
// Data buttons send callback data back to the bot.
type Button struct {
	Text string
	Data string
	URL  string
}

// ReplyMarkup is a keyboard attached to an outgoing message.
type ReplyMarkup struct {
	Buttons  [][]Button
	IsInline bool
	Resize   bool
}

type SendMessageParams struct {
	ChatID      int64
	Text        string
	ParseMode   string // "" | "Markdown" | "MarkdownV2"
	ReplyMarkup *ReplyMarkup
}

// BotTransport is the narrow surface the core needs from the bot. The real
// adapter maps it onto the Telegram Bot API; the noop adapter logs instead.
type BotTransport interface {
	SendMessage(ctx context.Context, p SendMessageParams) error
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, markup *ReplyMarkup) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}
