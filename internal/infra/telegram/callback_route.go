package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"earn-notification-bot/internal/domain"
	"earn-notification-bot/internal/domain/model"
	"earn-notification-bot/internal/domain/ports/repository"
	"earn-notification-bot/internal/infra/logging"
)

type cbHandler func(ctx context.Context, query *tgbotapi.CallbackQuery, data string) error

// Exact-match callbacks
func (b *Bot) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		"save":  b.cbSave,
		"reset": b.cbReset,
	}
}

// Prefix-match callbacks; the handler receives data with the prefix stripped.
func (b *Bot) cbPrefixRoutes() []struct {
	Prefix string
	Fn     cbHandler
} {
	return []struct {
		Prefix string
		Fn     cbHandler
	}{
		{Prefix: "type:", Fn: b.cbListingType},
		{Prefix: "minusd:", Fn: b.cbMinUSD},
		{Prefix: "maxusd:", Fn: b.cbMaxUSD},
		{Prefix: "skill:", Fn: b.cbSkill},
	}
}

func (b *Bot) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil || query.Message == nil {
		return errors.New("invalid callback query")
	}
	ctx = logging.WithTgID(ctx, query.From.ID)

	data := strings.TrimSpace(query.Data)

	if fn, ok := b.cbRoutes()[data]; ok {
		return fn(ctx, query, data)
	}
	for _, pr := range b.cbPrefixRoutes() {
		if strings.HasPrefix(data, pr.Prefix) {
			return pr.Fn(ctx, query, strings.TrimPrefix(data, pr.Prefix))
		}
	}
	// Stale button from an old keyboard layout; just stop the spinner.
	return b.AnswerCallback(ctx, query.ID, "")
}

func (b *Bot) cbListingType(ctx context.Context, query *tgbotapi.CallbackQuery, data string) error {
	tgID := query.From.ID
	t := model.ListingType(data)
	if _, err := b.setupUC.ChooseListingType(ctx, tgID, t); err != nil {
		return b.cbError(ctx, query, err)
	}
	_ = b.AnswerCallback(ctx, query.ID, b.tr.T("cb_selected", b.typeLabel(t)))

	kb := b.minUSDKeyboard()
	return b.EditMessage(ctx, query.Message.Chat.ID, query.Message.MessageID,
		b.tr.T("min_usd_prompt", b.typeLabel(t)), &kb)
}

func (b *Bot) cbMinUSD(ctx context.Context, query *tgbotapi.CallbackQuery, data string) error {
	tgID := query.From.ID
	v, err := strconv.ParseFloat(data, 64)
	if err != nil {
		return b.cbError(ctx, query, domain.ErrInvalidArgument)
	}
	if _, err := b.setupUC.ChooseMinUSD(ctx, tgID, v); err != nil {
		return b.cbError(ctx, query, err)
	}
	_ = b.AnswerCallback(ctx, query.ID, b.tr.T("cb_selected", "$"+fmtUSD(v)))

	kb := b.maxUSDKeyboard()
	return b.EditMessage(ctx, query.Message.Chat.ID, query.Message.MessageID,
		b.tr.T("max_usd_prompt", fmtUSD(v)), &kb)
}

func (b *Bot) cbMaxUSD(ctx context.Context, query *tgbotapi.CallbackQuery, data string) error {
	tgID := query.From.ID

	var max *float64
	maxText := b.tr.T("no_upper_limit")
	if data != "null" {
		v, err := strconv.ParseFloat(data, 64)
		if err != nil {
			return b.cbError(ctx, query, domain.ErrInvalidArgument)
		}
		max = &v
		maxText = "$" + fmtUSD(v)
	}
	st, err := b.setupUC.ChooseMaxUSD(ctx, tgID, max)
	if err != nil {
		return b.cbError(ctx, query, err)
	}
	_ = b.AnswerCallback(ctx, query.ID, b.tr.T("cb_selected", maxText))

	kb := b.skillsKeyboard(st.Data.Skills)
	return b.EditMessage(ctx, query.Message.Chat.ID, query.Message.MessageID,
		b.tr.T("skills_prompt", maxText, b.selectedLine(st.Data.Skills)), &kb)
}

func (b *Bot) cbSkill(ctx context.Context, query *tgbotapi.CallbackQuery, data string) error {
	tgID := query.From.ID
	st, added, err := b.setupUC.ToggleSkill(ctx, tgID, data)
	if err != nil {
		return b.cbError(ctx, query, err)
	}
	toastKey := "cb_removed"
	if added {
		toastKey = "cb_added"
	}
	_ = b.AnswerCallback(ctx, query.ID, b.tr.T(toastKey, data))

	kb := b.skillsKeyboard(st.Data.Skills)
	return b.EditMessage(ctx, query.Message.Chat.ID, query.Message.MessageID,
		b.skillsProgress(st), &kb)
}

func (b *Bot) cbSave(ctx context.Context, query *tgbotapi.CallbackQuery, _ string) error {
	tgID := query.From.ID
	prefs, err := b.setupUC.Save(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNoSetupInProgress) {
			return b.AnswerCallback(ctx, query.ID, b.tr.T("cb_nothing_to_save"))
		}
		return b.cbError(ctx, query, err)
	}
	_ = b.AnswerCallback(ctx, query.ID, b.tr.T("cb_saved"))

	if err := b.EditMessage(ctx, query.Message.Chat.ID, query.Message.MessageID,
		b.tr.T("saved_message"), nil); err != nil {
		return err
	}
	return b.reply(ctx, tgID, b.formatPreferences(prefs), nil)
}

func (b *Bot) cbReset(ctx context.Context, query *tgbotapi.CallbackQuery, _ string) error {
	tgID := query.From.ID
	if err := b.setupUC.Start(ctx, tgID); err != nil {
		return b.cbError(ctx, query, err)
	}
	_ = b.AnswerCallback(ctx, query.ID, b.tr.T("cb_reset"))

	kb := b.listingTypeKeyboard()
	return b.EditMessage(ctx, query.Message.Chat.ID, query.Message.MessageID,
		b.tr.T("setup_prompt"), &kb)
}

func (b *Bot) cbError(ctx context.Context, query *tgbotapi.CallbackQuery, err error) error {
	if errors.Is(err, domain.ErrInvalidArgument) {
		return b.AnswerCallback(ctx, query.ID, b.tr.T("error_invalid_amount"))
	}
	b.log.Error().Err(err).Int64("tg_id", query.From.ID).Str("data", query.Data).Msg("callback failed")
	return b.AnswerCallback(ctx, query.ID, b.tr.T("error_generic"))
}

func (b *Bot) selectedLine(skills []string) string {
	if len(skills) == 0 {
		return ""
	}
	return b.tr.T("skills_selected_line", strings.Join(skills, ", "))
}

func (b *Bot) skillsProgress(st *repository.ConversationState) string {
	min := 0.0
	if st.Data.MinUSDValue != nil {
		min = *st.Data.MinUSDValue
	}
	maxText := b.tr.T("no_upper_limit")
	if st.Data.MaxUSDValue != nil {
		maxText = "$" + fmtUSD(*st.Data.MaxUSDValue)
	}
	skillsText := b.tr.T("none_label")
	if len(st.Data.Skills) > 0 {
		skillsText = strings.Join(st.Data.Skills, ", ")
	}
	return b.tr.T("skills_progress", fmtUSD(min), maxText, skillsText)
}
