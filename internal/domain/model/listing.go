package model

import "time"

// ListingType classifies a Superteam Earn opportunity. Preferences additionally
// use ListingTypeAll to accept both kinds.
type ListingType string

const (
	ListingTypeBounty  ListingType = "Bounty"
	ListingTypeProject ListingType = "Project"
	ListingTypeAll     ListingType = "All"
)

// ValidListingType reports whether t is acceptable as a preference filter.
func ValidListingType(t ListingType) bool {
	switch t {
	case ListingTypeBounty, ListingTypeProject, ListingTypeAll:
		return true
	}
	return false
}

// RewardRange is the min/max of a listing whose reward is quoted as a range.
type RewardRange struct {
	Min float64
	Max float64
}

// Listing is an opportunity ingested from Superteam Earn. It is read-only to
// this service; USDValue is the single numeric value all matching runs against
// regardless of how the reward is presented.
type Listing struct {
	ID          string
	Title       string
	Sponsor     string
	URL         string
	Type        ListingType // Bounty or Project, never All
	Skills      []string
	Geography   *string // nil means global
	Deadline    time.Time
	PublishedAt time.Time
	USDValue    float64

	// Reward presentation fields.
	RewardToken          string
	RewardValue          float64
	RewardRange          *RewardRange
	VariableCompensation bool
}
