package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"earn-notification-bot/internal/domain"
	"earn-notification-bot/internal/domain/model"
	"earn-notification-bot/internal/domain/ports/adapter"
	"earn-notification-bot/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- Mock BotTransport ----

type MockBotTransport struct {
	mu   sync.Mutex
	Sent []adapter.SendMessageParams // capture all sent message parameters

	SendMessageFunc func(ctx context.Context, p adapter.SendMessageParams) error
}

var _ adapter.BotTransport = (*MockBotTransport)(nil)

func (m *MockBotTransport) SendMessage(ctx context.Context, p adapter.SendMessageParams) error {
	if m.SendMessageFunc != nil {
		if err := m.SendMessageFunc(ctx, p); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, p)
	return nil
}

func (m *MockBotTransport) EditMessage(ctx context.Context, chatID int64, messageID int, text string, markup *adapter.ReplyMarkup) error {
	return nil
}

func (m *MockBotTransport) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return nil
}

// ---- Mock PreferenceRepository ----

// memPrefRepo is a small in-memory implementation used by unit tests.
type memPrefRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.Preferences

	AllFunc func(ctx context.Context) ([]*model.Preferences, error)
}

var _ repository.PreferenceRepository = (*memPrefRepo)(nil)

func newMemPrefRepo() *memPrefRepo {
	return &memPrefRepo{store: make(map[int64]*model.Preferences)}
}

func (m *memPrefRepo) Find(ctx context.Context, tgID int64) (*model.Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (m *memPrefRepo) All(ctx context.Context) ([]*model.Preferences, error) {
	if m.AllFunc != nil {
		return m.AllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Preferences, 0, len(m.store))
	for _, p := range m.store {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (m *memPrefRepo) Update(ctx context.Context, tgID int64, mutate func(*model.Preferences)) (*model.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[tgID]
	if !ok {
		p = model.NewPreferences(tgID)
	}
	cp := p.Clone()
	mutate(cp)
	m.store[tgID] = cp
	return cp.Clone(), nil
}

// ---- Mock StateRepository ----

type memStateRepo struct {
	mu    sync.RWMutex
	store map[int64]*repository.ConversationState

	SetStateFunc   func(ctx context.Context, tgID int64, state *repository.ConversationState) error
	ClearStateFunc func(ctx context.Context, tgID int64) error
}

var _ repository.StateRepository = (*memStateRepo)(nil)

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{store: make(map[int64]*repository.ConversationState)}
}

func (m *memStateRepo) SetState(ctx context.Context, tgID int64, state *repository.ConversationState) error {
	if m.SetStateFunc != nil {
		return m.SetStateFunc(ctx, tgID, state)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *state
	cp.Data.Skills = append([]string(nil), state.Data.Skills...)
	m.store[tgID] = &cp
	return nil
}

func (m *memStateRepo) GetState(ctx context.Context, tgID int64) (*repository.ConversationState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *st
	cp.Data.Skills = append([]string(nil), st.Data.Skills...)
	return &cp, nil
}

func (m *memStateRepo) ClearState(ctx context.Context, tgID int64) error {
	if m.ClearStateFunc != nil {
		return m.ClearStateFunc(ctx, tgID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, tgID)
	return nil
}

// ---- Mock NotificationLogRepository ----

type memNotifLogRepo struct {
	mu    sync.RWMutex
	store map[string]struct{}

	ExistsFunc   func(ctx context.Context, listingID string, tgID int64) (bool, error)
	MarkSentFunc func(ctx context.Context, listingID string, tgID int64) error
}

var _ repository.NotificationLogRepository = (*memNotifLogRepo)(nil)

func newMemNotifLogRepo() *memNotifLogRepo {
	return &memNotifLogRepo{store: make(map[string]struct{})}
}

func notifKey(listingID string, tgID int64) string {
	return fmt.Sprintf("%s:%d", listingID, tgID)
}

func (m *memNotifLogRepo) Exists(ctx context.Context, listingID string, tgID int64) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, listingID, tgID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.store[notifKey(listingID, tgID)]
	return ok, nil
}

func (m *memNotifLogRepo) MarkSent(ctx context.Context, listingID string, tgID int64) error {
	if m.MarkSentFunc != nil {
		return m.MarkSentFunc(ctx, listingID, tgID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[notifKey(listingID, tgID)] = struct{}{}
	return nil
}
