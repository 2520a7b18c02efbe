package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"earn-notification-bot/internal/domain/ports/adapter"
)

var _ adapter.BotTransport = (*NoopBot)(nil)

// NoopBot logs outgoing traffic instead of calling Telegram. Used in dev runs
// without a bot token.
type NoopBot struct {
	log *zerolog.Logger
}

func NewNoopBot(logger *zerolog.Logger) *NoopBot {
	componentLogger := logger.With().Str("component", "noop-bot").Logger()
	return &NoopBot{log: &componentLogger}
}

func (n *NoopBot) SendMessage(_ context.Context, p adapter.SendMessageParams) error {
	n.log.Info().Int64("chat_id", p.ChatID).Str("text", p.Text).Msg("send message (noop)")
	return nil
}

func (n *NoopBot) EditMessage(_ context.Context, chatID int64, messageID int, text string, _ *adapter.ReplyMarkup) error {
	n.log.Info().Int64("chat_id", chatID).Int("message_id", messageID).Str("text", text).Msg("edit message (noop)")
	return nil
}

func (n *NoopBot) AnswerCallback(_ context.Context, callbackID, text string) error {
	n.log.Info().Str("callback_id", callbackID).Str("text", text).Msg("answer callback (noop)")
	return nil
}
