package repository

import (
	"context"

	"earn-notification-bot/internal/domain/model"
)

// PreferenceRepository is the keyed store of saved notification preferences.
//
// Update must be atomic per key: the load (or default-initialization), the
// mutate callback and the write may not interleave with another Update for
// the same Telegram ID. The record passed to mutate is the existing one, or
// a fresh default record when the user has none yet.
type PreferenceRepository interface {
	// Find returns domain.ErrNotFound when the user never saved preferences.
	Find(ctx context.Context, tgID int64) (*model.Preferences, error)
	// All returns a snapshot of every stored record, in no particular order.
	All(ctx context.Context) ([]*model.Preferences, error)
	Update(ctx context.Context, tgID int64, mutate func(*model.Preferences)) (*model.Preferences, error)
}
