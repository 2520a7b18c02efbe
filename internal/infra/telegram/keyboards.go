package telegram

import (
	"earn-notification-bot/internal/domain/model"
	"earn-notification-bot/internal/domain/ports/adapter"
)

// mainKeyboard is the persistent reply keyboard shown after /start.
func (b *Bot) mainKeyboard() adapter.ReplyMarkup {
	return adapter.ReplyMarkup{
		Resize: true,
		Buttons: [][]adapter.Button{
			{{Text: b.tr.T("keyboard_setup")}, {Text: b.tr.T("keyboard_view")}},
			{{Text: b.tr.T("keyboard_help")}},
		},
	}
}

func (b *Bot) listingTypeKeyboard() adapter.ReplyMarkup {
	return adapter.ReplyMarkup{
		IsInline: true,
		Buttons: [][]adapter.Button{{
			{Text: b.tr.T("button_bounties"), Data: "type:" + string(model.ListingTypeBounty)},
			{Text: b.tr.T("button_projects"), Data: "type:" + string(model.ListingTypeProject)},
			{Text: b.tr.T("button_both"), Data: "type:" + string(model.ListingTypeAll)},
		}},
	}
}

func (b *Bot) minUSDKeyboard() adapter.ReplyMarkup {
	return amountKeyboard("minusd:", []float64{0, 100, 500, 1000, 2000, 5000}, "")
}

func (b *Bot) maxUSDKeyboard() adapter.ReplyMarkup {
	return amountKeyboard("maxusd:", []float64{1000, 5000, 10000, 20000, 50000}, b.tr.T("no_limit"))
}

// amountKeyboard lays dollar choices out three per row; noLimitLabel, when
// non-empty, appends a "no limit" button carrying the sentinel value "null".
func amountKeyboard(prefix string, amounts []float64, noLimitLabel string) adapter.ReplyMarkup {
	buttons := make([]adapter.Button, 0, len(amounts)+1)
	for _, v := range amounts {
		buttons = append(buttons, adapter.Button{Text: "$" + fmtUSD(v), Data: prefix + fmtUSD(v)})
	}
	if noLimitLabel != "" {
		buttons = append(buttons, adapter.Button{Text: noLimitLabel, Data: prefix + "null"})
	}

	var rows [][]adapter.Button
	for len(buttons) > 0 {
		n := 3
		if len(buttons) < n {
			n = len(buttons)
		}
		rows = append(rows, buttons[:n])
		buttons = buttons[n:]
	}
	return adapter.ReplyMarkup{IsInline: true, Buttons: rows}
}

// skillsKeyboard renders every known skill two per row, marking the ones
// already in the draft. The footer offers save ("All Skills" while nothing is
// selected) and reset.
func (b *Bot) skillsKeyboard(selected []string) adapter.ReplyMarkup {
	chosen := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		chosen[s] = struct{}{}
	}

	var rows [][]adapter.Button
	var row []adapter.Button
	for _, skill := range model.AvailableSkills {
		label := skill
		if _, ok := chosen[skill]; ok {
			label = "✅ " + skill
		}
		row = append(row, adapter.Button{Text: label, Data: "skill:" + skill})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	saveLabel := b.tr.T("button_all_skills")
	if len(selected) > 0 {
		saveLabel = b.tr.T("button_save")
	}
	rows = append(rows, []adapter.Button{
		{Text: saveLabel, Data: "save"},
		{Text: b.tr.T("button_reset"), Data: "reset"},
	})
	return adapter.ReplyMarkup{IsInline: true, Buttons: rows}
}
