package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"earn-notification-bot/internal/domain"
	"earn-notification-bot/internal/domain/ports/repository"
)

var _ repository.StateRepository = (*StateRepo)(nil)

// StateRepo manages setup conversation state in Redis. Entries expire so an
// abandoned setup flow does not linger forever.
type StateRepo struct {
	client Client
	ttl    time.Duration
}

func NewStateRepo(client Client, ttl time.Duration) *StateRepo {
	if ttl <= 0 {
		ttl = 15 * time.Minute // Give users 15 minutes to finish the setup flow.
	}
	return &StateRepo{client: client, ttl: ttl}
}

func (s *StateRepo) stateKey(tgID int64) string {
	return fmt.Sprintf("setup_state:%d", tgID)
}

func (s *StateRepo) SetState(ctx context.Context, tgID int64, state *repository.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.stateKey(tgID), data, s.ttl)
}

func (s *StateRepo) GetState(ctx context.Context, tgID int64) (*repository.ConversationState, error) {
	data, err := s.client.Get(ctx, s.stateKey(tgID))
	if err != nil {
		if errors.Is(err, Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var state repository.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *StateRepo) ClearState(ctx context.Context, tgID int64) error {
	return s.client.Del(ctx, s.stateKey(tgID))
}
