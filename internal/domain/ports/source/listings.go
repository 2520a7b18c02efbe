package source

import (
	"context"

	"earn-notification-bot/internal/domain/model"
)

// ListingSource supplies recently published listings to the dispatcher.
// Implementations: the Superteam Earn HTTP client and a mock source for dev.
type ListingSource interface {
	FetchRecent(ctx context.Context) ([]model.Listing, error)
}
