package repository

import (
	"context"

	"earn-notification-bot/internal/domain/model"
)

// Setup flow steps. Absence of a ConversationState record means idle.
const (
	StepSetup       = "setup"
	StepSetupMinUSD = "setup_min_usd"
	StepSetupMaxUSD = "setup_max_usd"
	StepSetupSkills = "setup_skills"
)

// SetupDraft accumulates answers during the setup flow before they are
// committed to the preference store. Save treats unanswered questions as
// their defaults, so a nil MaxUSDValue always commits as "no limit".
type SetupDraft struct {
	ListingTypes *model.ListingType `json:"listing_types,omitempty"`
	MinUSDValue  *float64           `json:"min_usd_value,omitempty"`
	MaxUSDValue  *float64           `json:"max_usd_value,omitempty"`
	Skills       []string           `json:"skills,omitempty"`
}

// ConversationState holds one user's progress through the setup flow.
type ConversationState struct {
	Step string     `json:"step"`
	Data SetupDraft `json:"data"`
}

// StateRepository is the port for transient per-user conversation state.
type StateRepository interface {
	SetState(ctx context.Context, tgID int64, state *ConversationState) error
	// GetState returns domain.ErrNotFound when the user is idle.
	GetState(ctx context.Context, tgID int64) (*ConversationState, error)
	ClearState(ctx context.Context, tgID int64) error
}
