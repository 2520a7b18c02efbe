package usecase

import (
	"context"
	"errors"

	"earn-notification-bot/internal/domain"
	"earn-notification-bot/internal/domain/model"
	"earn-notification-bot/internal/domain/ports/repository"
	"earn-notification-bot/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ PreferenceUseCase = (*preferenceUC)(nil)

// PreferenceUseCase exposes the saved-preference operations used by the bot
// and the dispatcher.
type PreferenceUseCase interface {
	// Get returns domain.ErrNotFound when the user never completed setup.
	Get(ctx context.Context, tgID int64) (*model.Preferences, error)
	// Set merges the patch onto the stored record, creating it with defaults
	// first when absent, and returns the full resulting record.
	Set(ctx context.Context, tgID int64, patch model.PreferencesPatch) (*model.Preferences, error)
	// IsActive is true iff a record exists and notifications are switched on.
	IsActive(ctx context.Context, tgID int64) (bool, error)
	// SetActive flips the master switch on an existing record. It refuses to
	// create one: only the setup flow may do that.
	SetActive(ctx context.Context, tgID int64, active bool) (*model.Preferences, error)
}

type preferenceUC struct {
	prefs repository.PreferenceRepository
	log   *zerolog.Logger
}

func NewPreferenceUseCase(prefs repository.PreferenceRepository, logger *zerolog.Logger) *preferenceUC {
	return &preferenceUC{prefs: prefs, log: logger}
}

func (u *preferenceUC) Get(ctx context.Context, tgID int64) (*model.Preferences, error) {
	defer logging.TraceDuration(u.log, "PreferenceUC.Get")()
	return u.prefs.Find(ctx, tgID)
}

func (u *preferenceUC) Set(ctx context.Context, tgID int64, patch model.PreferencesPatch) (*model.Preferences, error) {
	defer logging.TraceDuration(u.log, "PreferenceUC.Set")()
	return u.prefs.Update(ctx, tgID, func(p *model.Preferences) {
		patch.Apply(p)
	})
}

func (u *preferenceUC) IsActive(ctx context.Context, tgID int64) (bool, error) {
	p, err := u.prefs.Find(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.Active, nil
}

func (u *preferenceUC) SetActive(ctx context.Context, tgID int64, active bool) (*model.Preferences, error) {
	defer logging.TraceDuration(u.log, "PreferenceUC.SetActive")()
	if _, err := u.prefs.Find(ctx, tgID); err != nil {
		return nil, err
	}
	return u.Set(ctx, tgID, model.PreferencesPatch{Active: &active})
}
