package repository

import "context"

// NotificationLogRepository records which (listing, user) pairs were already
// notified, so a listing observed twice inside the dispatch window does not
// produce duplicate messages.
type NotificationLogRepository interface {
	Exists(ctx context.Context, listingID string, tgID int64) (bool, error)
	MarkSent(ctx context.Context, listingID string, tgID int64) error
}
