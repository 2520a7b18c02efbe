package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"earn-notification-bot/internal/domain"
	"earn-notification-bot/internal/domain/model"
)

type msgHandler func(ctx context.Context, tgID int64) error

func (b *Bot) commandRoutes() map[string]msgHandler {
	return map[string]msgHandler{
		"/start":       b.handleStart,
		"/help":        b.handleHelp,
		"/setup":       b.handleSetup,
		"/preferences": b.handlePreferences,
		"/pause":       b.handlePause,
		"/resume":      b.handleResume,
	}
}

// hears maps the persistent reply-keyboard labels onto the same handlers as
// the slash commands they mirror.
func (b *Bot) hears() map[string]msgHandler {
	return map[string]msgHandler{
		b.tr.T("keyboard_setup"): b.handleSetup,
		b.tr.T("keyboard_view"):  b.handlePreferences,
		b.tr.T("keyboard_help"):  b.handleHelp,
	}
}

func (b *Bot) handleStart(ctx context.Context, tgID int64) error {
	kb := b.mainKeyboard()
	return b.reply(ctx, tgID, b.tr.T("welcome_message"), &kb)
}

func (b *Bot) handleHelp(ctx context.Context, tgID int64) error {
	return b.reply(ctx, tgID, b.tr.T("help_message"), nil)
}

func (b *Bot) handleSetup(ctx context.Context, tgID int64) error {
	if err := b.setupUC.Start(ctx, tgID); err != nil {
		b.log.Error().Err(err).Int64("tg_id", tgID).Msg("failed to start setup")
		return b.reply(ctx, tgID, b.tr.T("error_generic"), nil)
	}
	kb := b.listingTypeKeyboard()
	return b.reply(ctx, tgID, b.tr.T("setup_prompt"), &kb)
}

func (b *Bot) handlePreferences(ctx context.Context, tgID int64) error {
	prefs, err := b.prefUC.Get(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return b.reply(ctx, tgID, b.tr.T("prefs_none"), nil)
		}
		b.log.Error().Err(err).Int64("tg_id", tgID).Msg("failed to load preferences")
		return b.reply(ctx, tgID, b.tr.T("error_generic"), nil)
	}
	return b.reply(ctx, tgID, b.formatPreferences(prefs), nil)
}

func (b *Bot) handlePause(ctx context.Context, tgID int64) error {
	return b.setActive(ctx, tgID, false, "paused_message")
}

func (b *Bot) handleResume(ctx context.Context, tgID int64) error {
	return b.setActive(ctx, tgID, true, "resumed_message")
}

func (b *Bot) setActive(ctx context.Context, tgID int64, active bool, okKey string) error {
	if _, err := b.prefUC.SetActive(ctx, tgID, active); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return b.reply(ctx, tgID, b.tr.T("error_not_setup"), nil)
		}
		b.log.Error().Err(err).Int64("tg_id", tgID).Msg("failed to update active flag")
		return b.reply(ctx, tgID, b.tr.T("error_generic"), nil)
	}
	return b.reply(ctx, tgID, b.tr.T(okKey), nil)
}

func (b *Bot) formatPreferences(p *model.Preferences) string {
	maxText := b.tr.T("no_upper_limit")
	if p.MaxUSDValue != nil {
		maxText = "$" + fmtUSD(*p.MaxUSDValue)
	}
	skillsText := b.tr.T("all_skills")
	if len(p.Skills) > 0 {
		skillsText = strings.Join(p.Skills, ", ")
	}
	statusText := b.tr.T("status_active")
	if !p.Active {
		statusText = b.tr.T("status_inactive")
	}
	return b.tr.T("prefs_summary", b.typeLabel(p.ListingTypes), fmtUSD(p.MinUSDValue), maxText, skillsText, statusText)
}

func (b *Bot) typeLabel(t model.ListingType) string {
	switch t {
	case model.ListingTypeBounty:
		return b.tr.T("button_bounties")
	case model.ListingTypeProject:
		return b.tr.T("button_projects")
	default:
		return b.tr.T("button_both")
	}
}

func fmtUSD(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
