package earn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"earn-notification-bot/internal/domain/model"
)

const listingsPayload = `{
  "data": [
    {
      "id": "abc",
      "slug": "frontend-developer",
      "title": "Frontend Developer for Solana DApp",
      "type": "bounty",
      "token": "USDC",
      "rewardAmount": 2000,
      "compensationType": "fixed",
      "usdValue": 2000,
      "deadline": "2025-03-17T18:00:00Z",
      "publishedAt": "2025-03-10T06:00:00Z",
      "skills": ["Development", "Design"],
      "region": "Global",
      "sponsor": {"name": "Solana Foundation"}
    },
    {
      "id": "def",
      "slug": "smart-contract-audit",
      "title": "Solana Smart Contract Audit",
      "type": "project",
      "token": "SOL",
      "rewardAmount": 0,
      "minRewardAsk": 10,
      "maxRewardAsk": 15,
      "compensationType": "range",
      "usdValue": 1500,
      "deadline": "2025-03-15T18:00:00Z",
      "publishedAt": "2025-03-10T05:30:00Z",
      "skills": ["Development"],
      "region": "APAC",
      "sponsor": {"name": "Anonymous Protocol"}
    },
    {
      "id": "ghi",
      "slug": "content-writer",
      "title": "Content Writer",
      "type": "project",
      "token": "USDC",
      "rewardAmount": 3000,
      "compensationType": "variable",
      "deadline": "2025-03-24T18:00:00Z",
      "publishedAt": "2025-03-10T06:12:00Z",
      "skills": ["Content"],
      "sponsor": {"name": "Superteam"}
    }
  ],
  "total": 3, "page": 0, "limit": 30
}`

func TestClientFetchRecent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/listings" {
			t.Errorf("path = %q, want /api/listings", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "30" {
			t.Errorf("limit = %q, want 30", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listingsPayload))
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	client := NewClient(srv.URL, 30, &logger)

	listings, err := client.FetchRecent(context.Background())
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("got %d listings, want 3", len(listings))
	}

	fixed := listings[0]
	if fixed.Type != model.ListingTypeBounty {
		t.Errorf("type = %q, want Bounty", fixed.Type)
	}
	if fixed.Geography != nil {
		t.Error("region Global should map to nil geography")
	}
	if want := srv.URL + "/bounty/frontend-developer"; fixed.URL != want {
		t.Errorf("url = %q, want %q", fixed.URL, want)
	}
	if fixed.Sponsor != "Solana Foundation" {
		t.Errorf("sponsor = %q", fixed.Sponsor)
	}

	ranged := listings[1]
	if ranged.Type != model.ListingTypeProject {
		t.Errorf("type = %q, want Project", ranged.Type)
	}
	if ranged.RewardRange == nil || ranged.RewardRange.Min != 10 || ranged.RewardRange.Max != 15 {
		t.Errorf("reward range = %+v, want 10-15", ranged.RewardRange)
	}
	if ranged.Geography == nil || *ranged.Geography != "APAC" {
		t.Errorf("geography = %v, want APAC", ranged.Geography)
	}
	if ranged.USDValue != 1500 {
		t.Errorf("usd value = %v, want 1500", ranged.USDValue)
	}

	variable := listings[2]
	if !variable.VariableCompensation {
		t.Error("compensationType variable should set the flag")
	}
	if variable.USDValue != 3000 {
		t.Errorf("usd value = %v, want rewardAmount fallback 3000", variable.USDValue)
	}
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	client := NewClient(srv.URL, 30, &logger)

	if _, err := client.FetchRecent(context.Background()); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestMockSourceWindow(t *testing.T) {
	src := NewMockSource()
	listings, err := src.FetchRecent(context.Background())
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("got %d listings, want 3", len(listings))
	}
	for _, l := range listings {
		if l.ID == "" {
			t.Error("mock listing missing ID")
		}
		elapsed := time.Since(l.PublishedAt)
		if elapsed < 11*time.Hour+30*time.Minute || elapsed > 12*time.Hour+31*time.Minute {
			t.Errorf("%s published %v ago, outside the dispatch window", l.Title, elapsed)
		}
	}
}
