// Package memory holds the in-process store implementations used when no
// database or redis URL is configured (the dev default).
package memory

import (
	"context"
	"sync"

	"earn-notification-bot/internal/domain"
	"earn-notification-bot/internal/domain/model"
	"earn-notification-bot/internal/domain/ports/repository"
)

var _ repository.PreferenceRepository = (*PreferenceRepo)(nil)

// PreferenceRepo keeps saved preferences in a mutex-guarded map. The mutex is
// held across the whole read-modify-write in Update, which gives the atomic
// per-key semantics the port requires.
type PreferenceRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.Preferences
}

func NewPreferenceRepo() *PreferenceRepo {
	return &PreferenceRepo{store: make(map[int64]*model.Preferences)}
}

func (r *PreferenceRepo) Find(ctx context.Context, tgID int64) (*model.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *PreferenceRepo) All(ctx context.Context) ([]*model.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Preferences, 0, len(r.store))
	for _, p := range r.store {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (r *PreferenceRepo) Update(ctx context.Context, tgID int64, mutate func(*model.Preferences)) (*model.Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.store[tgID]
	if !ok {
		p = model.NewPreferences(tgID)
	} else {
		p = p.Clone()
	}
	mutate(p)
	r.store[tgID] = p
	return p.Clone(), nil
}
