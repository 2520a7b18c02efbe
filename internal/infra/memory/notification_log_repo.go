package memory

import (
	"context"
	"fmt"
	"sync"

	"earn-notification-bot/internal/domain/ports/repository"
)

var _ repository.NotificationLogRepository = (*NotificationLogRepo)(nil)

// NotificationLogRepo remembers which (listing, user) pairs were notified.
type NotificationLogRepo struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewNotificationLogRepo() *NotificationLogRepo {
	return &NotificationLogRepo{seen: make(map[string]struct{})}
}

func key(listingID string, tgID int64) string {
	return fmt.Sprintf("%s:%d", listingID, tgID)
}

func (r *NotificationLogRepo) Exists(ctx context.Context, listingID string, tgID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[key(listingID, tgID)]
	return ok, nil
}

func (r *NotificationLogRepo) MarkSent(ctx context.Context, listingID string, tgID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[key(listingID, tgID)] = struct{}{}
	return nil
}
