package usecase

import (
	"context"
	"errors"
	"testing"

	"earn-notification-bot/internal/domain"
	"earn-notification-bot/internal/domain/model"
	"earn-notification-bot/internal/domain/ports/repository"
)

func newSetupUC() (*setupUC, *memStateRepo, *memPrefRepo) {
	states := newMemStateRepo()
	prefs := newMemPrefRepo()
	prefUC := NewPreferenceUseCase(prefs, newTestLogger())
	return NewSetupUseCase(states, prefUC, newTestLogger()), states, prefs
}

func TestSetupFlow(t *testing.T) {
	ctx := context.Background()
	const tgID int64 = 42

	t.Run("full flow commits the draft", func(t *testing.T) {
		// --- Arrange ---
		uc, _, prefs := newSetupUC()

		// --- Act ---
		if err := uc.Start(ctx, tgID); err != nil {
			t.Fatalf("Start: %v", err)
		}
		if _, err := uc.ChooseListingType(ctx, tgID, model.ListingTypeBounty); err != nil {
			t.Fatalf("ChooseListingType: %v", err)
		}
		if _, err := uc.ChooseMinUSD(ctx, tgID, 500); err != nil {
			t.Fatalf("ChooseMinUSD: %v", err)
		}
		max := 5000.0
		if _, err := uc.ChooseMaxUSD(ctx, tgID, &max); err != nil {
			t.Fatalf("ChooseMaxUSD: %v", err)
		}
		if _, _, err := uc.ToggleSkill(ctx, tgID, "Development"); err != nil {
			t.Fatalf("ToggleSkill: %v", err)
		}
		saved, err := uc.Save(ctx, tgID)

		// --- Assert ---
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if saved.ListingTypes != model.ListingTypeBounty {
			t.Errorf("listing types = %q, want Bounty", saved.ListingTypes)
		}
		if saved.MinUSDValue != 500 {
			t.Errorf("min usd = %v, want 500", saved.MinUSDValue)
		}
		if saved.MaxUSDValue == nil || *saved.MaxUSDValue != 5000 {
			t.Errorf("max usd = %v, want 5000", saved.MaxUSDValue)
		}
		if len(saved.Skills) != 1 || saved.Skills[0] != "Development" {
			t.Errorf("skills = %v, want [Development]", saved.Skills)
		}
		if !saved.Active {
			t.Error("saved record should be active")
		}

		stored, err := prefs.Find(ctx, tgID)
		if err != nil {
			t.Fatalf("Find after save: %v", err)
		}
		if stored.MinUSDValue != 500 {
			t.Errorf("stored min usd = %v, want 500", stored.MinUSDValue)
		}
	})

	t.Run("save clears conversation state", func(t *testing.T) {
		uc, states, _ := newSetupUC()

		if err := uc.Start(ctx, tgID); err != nil {
			t.Fatalf("Start: %v", err)
		}
		if _, err := uc.Save(ctx, tgID); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if _, err := states.GetState(ctx, tgID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("state after save: err = %v, want ErrNotFound", err)
		}
	})

	t.Run("save with defaults only", func(t *testing.T) {
		uc, _, _ := newSetupUC()

		if err := uc.Start(ctx, tgID); err != nil {
			t.Fatalf("Start: %v", err)
		}
		saved, err := uc.Save(ctx, tgID)
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if saved.ListingTypes != model.ListingTypeAll {
			t.Errorf("listing types = %q, want All", saved.ListingTypes)
		}
		if saved.MinUSDValue != 0 {
			t.Errorf("min usd = %v, want 0", saved.MinUSDValue)
		}
		if saved.MaxUSDValue != nil {
			t.Errorf("max usd = %v, want nil", saved.MaxUSDValue)
		}
		if len(saved.Skills) != 0 {
			t.Errorf("skills = %v, want empty", saved.Skills)
		}
	})

	t.Run("save without setup in progress", func(t *testing.T) {
		uc, _, _ := newSetupUC()

		_, err := uc.Save(ctx, tgID)
		if !errors.Is(err, domain.ErrNoSetupInProgress) {
			t.Errorf("err = %v, want ErrNoSetupInProgress", err)
		}
	})

	t.Run("toggle skill twice is a no-op", func(t *testing.T) {
		uc, _, _ := newSetupUC()

		st, added, err := uc.ToggleSkill(ctx, tgID, "Design")
		if err != nil {
			t.Fatalf("first toggle: %v", err)
		}
		if !added || len(st.Data.Skills) != 1 {
			t.Fatalf("first toggle: added=%v skills=%v", added, st.Data.Skills)
		}

		st, added, err = uc.ToggleSkill(ctx, tgID, "Design")
		if err != nil {
			t.Fatalf("second toggle: %v", err)
		}
		if added || len(st.Data.Skills) != 0 {
			t.Errorf("second toggle: added=%v skills=%v, want removal", added, st.Data.Skills)
		}
	})

	t.Run("toggle preserves order of remaining skills", func(t *testing.T) {
		uc, _, _ := newSetupUC()

		for _, s := range []string{"Design", "Development", "Content"} {
			if _, _, err := uc.ToggleSkill(ctx, tgID, s); err != nil {
				t.Fatalf("toggle %s: %v", s, err)
			}
		}
		st, _, err := uc.ToggleSkill(ctx, tgID, "Development")
		if err != nil {
			t.Fatalf("toggle off: %v", err)
		}
		want := []string{"Design", "Content"}
		if len(st.Data.Skills) != len(want) {
			t.Fatalf("skills = %v, want %v", st.Data.Skills, want)
		}
		for i := range want {
			if st.Data.Skills[i] != want[i] {
				t.Errorf("skills = %v, want %v", st.Data.Skills, want)
				break
			}
		}
	})

	t.Run("unknown skill is rejected", func(t *testing.T) {
		uc, _, _ := newSetupUC()

		if _, _, err := uc.ToggleSkill(ctx, tgID, "Astrology"); !errors.Is(err, domain.ErrUnknownSkill) {
			t.Errorf("err = %v, want ErrUnknownSkill", err)
		}
	})

	t.Run("invalid listing type is rejected", func(t *testing.T) {
		uc, _, _ := newSetupUC()

		if _, err := uc.ChooseListingType(ctx, tgID, model.ListingType("Gig")); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("err = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("negative amounts are rejected", func(t *testing.T) {
		uc, _, _ := newSetupUC()

		if _, err := uc.ChooseMinUSD(ctx, tgID, -1); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("min: err = %v, want ErrInvalidArgument", err)
		}
		neg := -5.0
		if _, err := uc.ChooseMaxUSD(ctx, tgID, &neg); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("max: err = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("save reactivates a paused user", func(t *testing.T) {
		uc, _, prefs := newSetupUC()

		if err := uc.Start(ctx, tgID); err != nil {
			t.Fatalf("Start: %v", err)
		}
		if _, err := uc.Save(ctx, tgID); err != nil {
			t.Fatalf("first save: %v", err)
		}
		if _, err := prefs.Update(ctx, tgID, func(p *model.Preferences) { p.Active = false }); err != nil {
			t.Fatalf("pause: %v", err)
		}

		if err := uc.Start(ctx, tgID); err != nil {
			t.Fatalf("restart: %v", err)
		}
		saved, err := uc.Save(ctx, tgID)
		if err != nil {
			t.Fatalf("second save: %v", err)
		}
		if !saved.Active {
			t.Error("save should force the record active")
		}
	})

	t.Run("redoing setup overwrites the previous max", func(t *testing.T) {
		uc, _, _ := newSetupUC()

		if err := uc.Start(ctx, tgID); err != nil {
			t.Fatalf("Start: %v", err)
		}
		max := 5000.0
		if _, err := uc.ChooseMaxUSD(ctx, tgID, &max); err != nil {
			t.Fatalf("ChooseMaxUSD: %v", err)
		}
		if _, err := uc.Save(ctx, tgID); err != nil {
			t.Fatalf("first save: %v", err)
		}

		// The second run never answers the max question, so the saved
		// record goes back to "no limit" rather than keeping 5000.
		if err := uc.Start(ctx, tgID); err != nil {
			t.Fatalf("restart: %v", err)
		}
		saved, err := uc.Save(ctx, tgID)
		if err != nil {
			t.Fatalf("second save: %v", err)
		}
		if saved.MaxUSDValue != nil {
			t.Errorf("max usd = %v, want nil after redo", *saved.MaxUSDValue)
		}
	})

	t.Run("reset discards the draft", func(t *testing.T) {
		uc, states, _ := newSetupUC()

		if _, err := uc.ChooseMinUSD(ctx, tgID, 100); err != nil {
			t.Fatalf("ChooseMinUSD: %v", err)
		}
		if err := uc.Reset(ctx, tgID); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		if _, err := states.GetState(ctx, tgID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("state after reset: err = %v, want ErrNotFound", err)
		}
	})

	t.Run("stale skill tap without a draft still works", func(t *testing.T) {
		// A callback can arrive after the redis state expired; the flow
		// restarts from a fresh draft instead of failing.
		uc, _, _ := newSetupUC()

		st, added, err := uc.ToggleSkill(ctx, tgID, "Content")
		if err != nil {
			t.Fatalf("ToggleSkill: %v", err)
		}
		if !added || st.Step != repository.StepSetupSkills {
			t.Errorf("added=%v step=%q, want added on setup_skills", added, st.Step)
		}
	})
}
