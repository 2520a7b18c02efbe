package memory

import (
	"context"
	"sync"

	"earn-notification-bot/internal/domain"
	"earn-notification-bot/internal/domain/ports/repository"
)

var _ repository.StateRepository = (*StateRepo)(nil)

// StateRepo keeps conversation state in memory. Unlike the redis variant it
// never expires entries; acceptable for dev where the process is short-lived.
type StateRepo struct {
	mu    sync.Mutex
	store map[int64]repository.ConversationState
}

func NewStateRepo() *StateRepo {
	return &StateRepo{store: make(map[int64]repository.ConversationState)}
}

func (r *StateRepo) SetState(ctx context.Context, tgID int64, state *repository.ConversationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *state
	cp.Data.Skills = append([]string(nil), state.Data.Skills...)
	r.store[tgID] = cp
	return nil
}

func (r *StateRepo) GetState(ctx context.Context, tgID int64) (*repository.ConversationState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := st
	cp.Data.Skills = append([]string(nil), st.Data.Skills...)
	return &cp, nil
}

func (r *StateRepo) ClearState(ctx context.Context, tgID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, tgID)
	return nil
}
