package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"earn-notification-bot/internal/config"
	"earn-notification-bot/internal/domain/ports/adapter"
	"earn-notification-bot/internal/infra/i18n"
	"earn-notification-bot/internal/infra/logging"
	"earn-notification-bot/internal/infra/metrics"
	red "earn-notification-bot/internal/infra/redis"
	"earn-notification-bot/internal/usecase"
)

var _ adapter.BotTransport = (*Bot)(nil)

// Bot wires the Telegram Bot API to the preference and setup use cases. It
// serves both update modes: long polling with a worker pool, or webhook via
// HandleWebhookUpdate called from the web server.
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	prefUC      usecase.PreferenceUseCase
	setupUC     usecase.SetupUseCase
	rateLimiter *red.RateLimiter
	tr          *i18n.Translator
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewBot(
	cfg *config.BotConfig,
	prefUC usecase.PreferenceUseCase,
	setupUC usecase.SetupUseCase,
	rateLimiter *red.RateLimiter,
	tr *i18n.Translator,
	logger *zerolog.Logger,
) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if prefUC == nil {
		return nil, errors.New("preference usecase is nil")
	}
	if setupUC == nil {
		return nil, errors.New("setup usecase is nil")
	}
	if tr == nil {
		return nil, errors.New("translator is nil")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}

	componentLogger := logger.With().Str("component", "telegram").Logger()
	return &Bot{
		api:           api,
		cfg:           cfg,
		prefUC:        prefUC,
		setupUC:       setupUC,
		rateLimiter:   rateLimiter,
		tr:            tr,
		log:           &componentLogger,
		updateWorkers: workers,
	}, nil
}

// StartPolling polls Telegram for updates and fans them out to a worker pool.
// It blocks until ctx is canceled.
func (b *Bot) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	b.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < b.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up, ok := <-updateChan:
					if !ok {
						return
					}
					if err := b.handleUpdate(ctx, up); err != nil {
						b.log.Error().Err(err).Int("worker", id).Msg("failed to handle update")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			select {
			case updateChan <- up:
			case <-ctx.Done():
			}
		}
	}
}

// StopPolling stops the polling loop gracefully.
func (b *Bot) StopPolling() {
	if b.cancelPolling != nil {
		b.cancelPolling()
	}
}

// SetWebhook registers the webhook URL with Telegram. The secret token, when
// configured, lets the web handler authenticate incoming calls.
func (b *Bot) SetWebhook(url string) error {
	params := tgbotapi.Params{"url": url}
	if b.cfg.SecretToken != "" {
		params["secret_token"] = b.cfg.SecretToken
	}
	_, err := b.api.MakeRequest("setWebhook", params)
	return err
}

// DeleteWebhook removes a previously registered webhook so polling can resume.
func (b *Bot) DeleteWebhook() error {
	_, err := b.api.Request(tgbotapi.DeleteWebhookConfig{})
	return err
}

// HandleWebhookUpdate parses one update delivered over the webhook and runs it
// through the same routing as polled updates.
func (b *Bot) HandleWebhookUpdate(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}
	return b.handleUpdate(ctx, update)
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		metrics.IncBotUpdate("callback")
		return b.handleQuery(ctx, update.CallbackQuery)
	}

	if update.Message == nil || update.Message.From == nil {
		return nil
	}
	metrics.IncBotUpdate("message")

	tgID := update.Message.From.ID
	ctx = logging.WithTgID(ctx, tgID)

	text := strings.TrimSpace(update.Message.Text)
	command := "message"
	if fields := strings.Fields(text); len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		// "/setup@earn_bot arg" -> "/setup"
		command = strings.SplitN(fields[0], "@", 2)[0]
	}

	if b.rateLimiter != nil {
		allowed, err := b.rateLimiter.Allow(ctx, red.UserCommandKey(tgID, command), 20, time.Minute)
		if err != nil {
			b.log.Warn().Err(err).Msg("rate limiter unavailable")
		} else if !allowed {
			return b.reply(ctx, tgID, b.tr.T("error_rate_limited"), nil)
		}
	}

	if fn, ok := b.commandRoutes()[command]; ok {
		return fn(ctx, tgID)
	}
	if fn, ok := b.hears()[text]; ok {
		return fn(ctx, tgID)
	}
	if command != "message" {
		return b.reply(ctx, tgID, b.tr.T("help_message"), nil)
	}
	return nil
}

// SendMessage implements adapter.BotTransport.
func (b *Bot) SendMessage(ctx context.Context, p adapter.SendMessageParams) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := tgbotapi.NewMessage(p.ChatID, p.Text)
	if p.ParseMode != "" {
		msg.ParseMode = p.ParseMode
	}
	if p.ReplyMarkup != nil {
		msg.ReplyMarkup = toMarkup(*p.ReplyMarkup)
	}
	_, err := b.api.Send(msg)
	return err
}

// EditMessage replaces the text and inline keyboard of an existing message.
func (b *Bot) EditMessage(ctx context.Context, chatID int64, messageID int, text string, markup *adapter.ReplyMarkup) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if markup != nil {
		kb := toInlineKeyboard(*markup)
		edit.ReplyMarkup = &kb
	}
	_, err := b.api.Send(edit)
	return err
}

// AnswerCallback acknowledges an inline button press so the client spinner
// stops; text shows as a toast when non-empty.
func (b *Bot) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := b.api.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string, markup *adapter.ReplyMarkup) error {
	return b.SendMessage(ctx, adapter.SendMessageParams{ChatID: chatID, Text: text, ReplyMarkup: markup})
}

// toMarkup converts the port-level keyboard into a tgbotapi markup. Reply
// keyboards and inline keyboards are different API types, so the return is
// the interface{} the message struct expects.
func toMarkup(m adapter.ReplyMarkup) interface{} {
	if m.IsInline {
		return toInlineKeyboard(m)
	}
	rows := make([][]tgbotapi.KeyboardButton, 0, len(m.Buttons))
	for _, row := range m.Buttons {
		if len(row) == 0 {
			continue
		}
		r := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, btn := range row {
			r = append(r, tgbotapi.NewKeyboardButton(btn.Text))
		}
		rows = append(rows, r)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = m.Resize
	return kb
}

func toInlineKeyboard(m adapter.ReplyMarkup) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(m.Buttons))
	for _, row := range m.Buttons {
		if len(row) == 0 {
			continue
		}
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			switch {
			case btn.URL != "":
				r = append(r, tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL))
			case btn.Data != "":
				r = append(r, tgbotapi.NewInlineKeyboardButtonData(label, btn.Data))
			default:
				r = append(r, tgbotapi.NewInlineKeyboardButtonData(label, label))
			}
		}
		rows = append(rows, r)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
