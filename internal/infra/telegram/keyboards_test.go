package telegram

import (
	"strings"
	"testing"

	"earn-notification-bot/internal/domain/model"
	"earn-notification-bot/internal/infra/i18n"
)

func testBot(t *testing.T) *Bot {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	return &Bot{tr: tr}
}

func TestListingTypeKeyboard(t *testing.T) {
	kb := testBot(t).listingTypeKeyboard()

	if !kb.IsInline {
		t.Error("listing type keyboard must be inline")
	}
	if len(kb.Buttons) != 1 || len(kb.Buttons[0]) != 3 {
		t.Fatalf("unexpected layout: %+v", kb.Buttons)
	}
	wantData := []string{"type:Bounty", "type:Project", "type:All"}
	for i, btn := range kb.Buttons[0] {
		if btn.Data != wantData[i] {
			t.Errorf("button %d data = %q, want %q", i, btn.Data, wantData[i])
		}
	}
}

func TestAmountKeyboards(t *testing.T) {
	b := testBot(t)

	t.Run("min has no no-limit option", func(t *testing.T) {
		kb := b.minUSDKeyboard()
		for _, row := range kb.Buttons {
			for _, btn := range row {
				if strings.HasSuffix(btn.Data, ":null") {
					t.Errorf("min keyboard should not offer no-limit, got %q", btn.Data)
				}
			}
		}
	})

	t.Run("max ends with no limit", func(t *testing.T) {
		kb := b.maxUSDKeyboard()
		lastRow := kb.Buttons[len(kb.Buttons)-1]
		last := lastRow[len(lastRow)-1]
		if last.Data != "maxusd:null" {
			t.Errorf("last button data = %q, want maxusd:null", last.Data)
		}
	})

	t.Run("rows hold at most three buttons", func(t *testing.T) {
		for _, row := range b.maxUSDKeyboard().Buttons {
			if len(row) > 3 {
				t.Errorf("row too wide: %d buttons", len(row))
			}
		}
	})
}

func TestSkillsKeyboard(t *testing.T) {
	b := testBot(t)

	t.Run("covers the whole taxonomy", func(t *testing.T) {
		kb := b.skillsKeyboard(nil)
		seen := map[string]bool{}
		for _, row := range kb.Buttons {
			for _, btn := range row {
				if strings.HasPrefix(btn.Data, "skill:") {
					seen[strings.TrimPrefix(btn.Data, "skill:")] = true
				}
			}
		}
		for _, s := range model.AvailableSkills {
			if !seen[s] {
				t.Errorf("skill %q missing from keyboard", s)
			}
		}
	})

	t.Run("marks selected skills", func(t *testing.T) {
		kb := b.skillsKeyboard([]string{"Design"})
		var found bool
		for _, row := range kb.Buttons {
			for _, btn := range row {
				if btn.Data == "skill:Design" {
					found = true
					if !strings.HasPrefix(btn.Text, "✅") {
						t.Errorf("selected skill label = %q, want checkmark prefix", btn.Text)
					}
				}
			}
		}
		if !found {
			t.Fatal("Design button not found")
		}
	})

	t.Run("footer save label depends on selection", func(t *testing.T) {
		empty := b.skillsKeyboard(nil)
		footer := empty.Buttons[len(empty.Buttons)-1]
		if footer[0].Data != "save" || footer[0].Text != "All Skills" {
			t.Errorf("empty-selection footer = %+v", footer[0])
		}

		some := b.skillsKeyboard([]string{"Design"})
		footer = some.Buttons[len(some.Buttons)-1]
		if footer[0].Data != "save" || footer[0].Text != "Save Preferences" {
			t.Errorf("selection footer = %+v", footer[0])
		}
		if footer[1].Data != "reset" {
			t.Errorf("footer reset button = %+v", footer[1])
		}
	})
}
