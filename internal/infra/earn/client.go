package earn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"earn-notification-bot/internal/domain/model"
	"earn-notification-bot/internal/domain/ports/source"
)

var _ source.ListingSource = (*Client)(nil)

// Client fetches recent listings from the Superteam Earn listings API.
type Client struct {
	baseURL  string
	pageSize int
	http     *http.Client
	log      *zerolog.Logger
}

func NewClient(baseURL string, pageSize int, logger *zerolog.Logger) *Client {
	if pageSize <= 0 {
		pageSize = 30
	}
	componentLogger := logger.With().Str("component", "earn-client").Logger()
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: pageSize,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      &componentLogger,
	}
}

// wireListing mirrors the listings API response item.
type wireListing struct {
	ID               string    `json:"id"`
	Slug             string    `json:"slug"`
	Title            string    `json:"title"`
	Type             string    `json:"type"`
	Token            string    `json:"token"`
	RewardAmount     float64   `json:"rewardAmount"`
	MinRewardAsk     *float64  `json:"minRewardAsk"`
	MaxRewardAsk     *float64  `json:"maxRewardAsk"`
	CompensationType string    `json:"compensationType"`
	USDValue         float64   `json:"usdValue"`
	Deadline         time.Time `json:"deadline"`
	PublishedAt      time.Time `json:"publishedAt"`
	Skills           []string  `json:"skills"`
	Region           string    `json:"region"`
	Sponsor          struct {
		Name string `json:"name"`
	} `json:"sponsor"`
}

type wireResponse struct {
	Data  []wireListing `json:"data"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (c *Client) FetchRecent(ctx context.Context) ([]model.Listing, error) {
	url := fmt.Sprintf("%s/api/listings?limit=%d&page=0", c.baseURL, c.pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listings: unexpected status %s", resp.Status)
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	listings := make([]model.Listing, 0, len(wire.Data))
	for _, w := range wire.Data {
		listings = append(listings, c.toListing(w))
	}
	c.log.Debug().Int("count", len(listings)).Msg("fetched listings")
	return listings, nil
}

func (c *Client) toListing(w wireListing) model.Listing {
	l := model.Listing{
		ID:          w.ID,
		Title:       w.Title,
		Sponsor:     w.Sponsor.Name,
		Type:        normalizeType(w.Type),
		Skills:      w.Skills,
		Deadline:    w.Deadline,
		PublishedAt: w.PublishedAt,
		USDValue:    w.USDValue,
		RewardToken: w.Token,
		RewardValue: w.RewardAmount,
	}
	l.URL = fmt.Sprintf("%s/%s/%s", c.baseURL, strings.ToLower(string(l.Type)), w.Slug)

	// Region "Global" (or absent) means no geographic restriction.
	if w.Region != "" && !strings.EqualFold(w.Region, "Global") {
		region := w.Region
		l.Geography = &region
	}

	switch strings.ToLower(w.CompensationType) {
	case "variable":
		l.VariableCompensation = true
	case "range":
		if w.MinRewardAsk != nil && w.MaxRewardAsk != nil {
			l.RewardRange = &model.RewardRange{Min: *w.MinRewardAsk, Max: *w.MaxRewardAsk}
		}
	}
	if l.USDValue == 0 {
		l.USDValue = w.RewardAmount
	}
	return l
}

func normalizeType(t string) model.ListingType {
	if strings.EqualFold(t, "project") {
		return model.ListingTypeProject
	}
	return model.ListingTypeBounty
}
