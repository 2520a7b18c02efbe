package earn

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"earn-notification-bot/internal/domain/model"
	"earn-notification-bot/internal/domain/ports/source"
)

var _ source.ListingSource = (*MockSource)(nil)

// MockSource serves canned listings published near the notification window.
// It backs dev runs against an empty or unreachable listings API.
type MockSource struct {
	now func() time.Time
}

func NewMockSource() *MockSource {
	return &MockSource{now: time.Now}
}

func (m *MockSource) FetchRecent(_ context.Context) ([]model.Listing, error) {
	now := m.now()
	apac := "APAC"
	return []model.Listing{
		{
			ID:          ulid.Make().String(),
			Title:       "Frontend Developer for Solana DApp",
			Sponsor:     "Solana Foundation",
			URL:         "https://earn.superteam.fun/bounty/frontend-developer",
			Type:        model.ListingTypeBounty,
			Skills:      []string{"Development", "Design"},
			Deadline:    now.Add(7 * 24 * time.Hour),
			PublishedAt: now.Add(-12 * time.Hour),
			USDValue:    2000,
			RewardToken: "USDC",
			RewardValue: 2000,
		},
		{
			ID:                   ulid.Make().String(),
			Title:                "Content Writer for Educational Materials",
			Sponsor:              "Superteam",
			URL:                  "https://earn.superteam.fun/project/content-writer",
			Type:                 model.ListingTypeProject,
			Skills:               []string{"Content", "Marketing"},
			Geography:            &apac,
			Deadline:             now.Add(14 * 24 * time.Hour),
			PublishedAt:          now.Add(-time.Duration(11.8 * float64(time.Hour))),
			USDValue:             3000,
			RewardToken:          "USDC",
			VariableCompensation: true,
		},
		{
			ID:          ulid.Make().String(),
			Title:       "Solana Smart Contract Audit",
			Sponsor:     "Anonymous Protocol",
			URL:         "https://earn.superteam.fun/bounty/smart-contract-audit",
			Type:        model.ListingTypeBounty,
			Skills:      []string{"Development", "Security"},
			Deadline:    now.Add(5 * 24 * time.Hour),
			PublishedAt: now.Add(-time.Duration(12.5 * float64(time.Hour))),
			USDValue:    1500,
			RewardToken: "SOL",
			RewardValue: 10,
			RewardRange: &model.RewardRange{Min: 10, Max: 15},
		},
	}, nil
}
