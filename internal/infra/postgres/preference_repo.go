package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"earn-notification-bot/internal/domain"
	"earn-notification-bot/internal/domain/model"
	"earn-notification-bot/internal/domain/ports/repository"
)

var _ repository.PreferenceRepository = (*PreferenceRepo)(nil)

// PreferenceRepo persists notification preferences.
//
// Expected table:
//
//	CREATE TABLE notification_preferences (
//	    telegram_id   BIGINT PRIMARY KEY,
//	    min_usd_value DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    max_usd_value DOUBLE PRECISION,
//	    listing_types TEXT NOT NULL DEFAULT 'All',
//	    skills        TEXT[] NOT NULL DEFAULT '{}',
//	    geography     TEXT,
//	    active        BOOLEAN NOT NULL DEFAULT TRUE,
//	    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PreferenceRepo struct {
	pool *pgxpool.Pool
}

func NewPreferenceRepo(pool *pgxpool.Pool) *PreferenceRepo {
	return &PreferenceRepo{pool: pool}
}

const prefColumns = `telegram_id, min_usd_value, max_usd_value, listing_types, skills, geography, active`

func scanPreferences(row pgx.Row) (*model.Preferences, error) {
	var p model.Preferences
	var listingTypes string
	if err := row.Scan(&p.TelegramID, &p.MinUSDValue, &p.MaxUSDValue, &listingTypes, &p.Skills, &p.Geography, &p.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.ListingTypes = model.ListingType(listingTypes)
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return &p, nil
}

func (r *PreferenceRepo) Find(ctx context.Context, tgID int64) (*model.Preferences, error) {
	const q = `SELECT ` + prefColumns + ` FROM notification_preferences WHERE telegram_id=$1;`
	return scanPreferences(r.pool.QueryRow(ctx, q, tgID))
}

func (r *PreferenceRepo) All(ctx context.Context) ([]*model.Preferences, error) {
	const q = `SELECT ` + prefColumns + ` FROM notification_preferences;`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Preferences
	for rows.Next() {
		p, err := scanPreferences(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update runs the read-modify-write inside a transaction with a row lock, so
// concurrent updates for the same user serialize instead of interleaving.
func (r *PreferenceRepo) Update(ctx context.Context, tgID int64, mutate func(*model.Preferences)) (*model.Preferences, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const sel = `SELECT ` + prefColumns + ` FROM notification_preferences WHERE telegram_id=$1 FOR UPDATE;`
	p, err := scanPreferences(tx.QueryRow(ctx, sel, tgID))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		p = model.NewPreferences(tgID)
	}

	mutate(p)

	const upsert = `
INSERT INTO notification_preferences (telegram_id, min_usd_value, max_usd_value, listing_types, skills, geography, active, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (telegram_id) DO UPDATE SET
  min_usd_value=$2, max_usd_value=$3, listing_types=$4, skills=$5, geography=$6, active=$7, updated_at=now();`
	if _, err := tx.Exec(ctx, upsert, p.TelegramID, p.MinUSDValue, p.MaxUSDValue, string(p.ListingTypes), p.Skills, p.Geography, p.Active); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}
