package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"earn-notification-bot/internal/domain/ports/repository"
)

var _ repository.NotificationLogRepository = (*NotificationLogRepo)(nil)

// NotificationLogRepo records sent notifications.
//
// Expected table:
//
//	CREATE TABLE listing_notifications (
//	    listing_id  TEXT NOT NULL,
//	    telegram_id BIGINT NOT NULL,
//	    sent_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (listing_id, telegram_id)
//	);
type NotificationLogRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationLogRepo(pool *pgxpool.Pool) *NotificationLogRepo {
	return &NotificationLogRepo{pool: pool}
}

func (r *NotificationLogRepo) Exists(ctx context.Context, listingID string, tgID int64) (bool, error) {
	// SELECT EXISTS(...) stops on the first match.
	const q = `
SELECT EXISTS(
    SELECT 1 FROM listing_notifications
    WHERE listing_id = $1 AND telegram_id = $2
)`
	var exists bool
	if err := r.pool.QueryRow(ctx, q, listingID, tgID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *NotificationLogRepo) MarkSent(ctx context.Context, listingID string, tgID int64) error {
	const q = `INSERT INTO listing_notifications (listing_id, telegram_id) VALUES ($1, $2)`

	// The primary key already guards against duplicates; a concurrent insert
	// losing the race is not an error.
	_, err := r.pool.Exec(ctx, q, listingID, tgID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil
	}
	return err
}
