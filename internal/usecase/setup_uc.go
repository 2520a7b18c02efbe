package usecase

import (
	"context"
	"errors"

	"earn-notification-bot/internal/domain"
	"earn-notification-bot/internal/domain/model"
	"earn-notification-bot/internal/domain/ports/repository"
	"earn-notification-bot/internal/infra/logging"
	"earn-notification-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ SetupUseCase = (*setupUC)(nil)

// SetupUseCase drives the guided preference-setup conversation:
//
//	idle -> setup -> setup_min_usd -> setup_max_usd -> setup_skills -> idle
//
// Each step records the user's answer in a transient draft; Save commits the
// draft to the preference store and returns the user to idle. Reset discards
// the draft from any step. Handlers are permissive about the current step so
// a tap on a stale inline keyboard still lands somewhere sensible.
type SetupUseCase interface {
	Start(ctx context.Context, tgID int64) error
	ChooseListingType(ctx context.Context, tgID int64, t model.ListingType) (*repository.ConversationState, error)
	ChooseMinUSD(ctx context.Context, tgID int64, v float64) (*repository.ConversationState, error)
	// ChooseMaxUSD accepts nil for "no limit".
	ChooseMaxUSD(ctx context.Context, tgID int64, v *float64) (*repository.ConversationState, error)
	// ToggleSkill flips membership of skill in the draft and reports whether
	// it was added (true) or removed (false).
	ToggleSkill(ctx context.Context, tgID int64, skill string) (*repository.ConversationState, bool, error)
	// Save commits the draft. It returns domain.ErrNoSetupInProgress when no
	// setup is underway; callers treat that as "nothing to save".
	Save(ctx context.Context, tgID int64) (*model.Preferences, error)
	Reset(ctx context.Context, tgID int64) error
}

type setupUC struct {
	states repository.StateRepository
	prefs  PreferenceUseCase
	log    *zerolog.Logger
}

func NewSetupUseCase(states repository.StateRepository, prefs PreferenceUseCase, logger *zerolog.Logger) *setupUC {
	return &setupUC{states: states, prefs: prefs, log: logger}
}

// loadDraft returns the current state, or a fresh one when the user is idle.
func (u *setupUC) loadDraft(ctx context.Context, tgID int64) (*repository.ConversationState, error) {
	st, err := u.states.GetState(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &repository.ConversationState{Step: repository.StepSetup}, nil
		}
		return nil, err
	}
	return st, nil
}

func (u *setupUC) Start(ctx context.Context, tgID int64) error {
	defer logging.TraceDuration(u.log, "SetupUC.Start")()
	st := &repository.ConversationState{Step: repository.StepSetup}
	return u.states.SetState(ctx, tgID, st)
}

func (u *setupUC) ChooseListingType(ctx context.Context, tgID int64, t model.ListingType) (*repository.ConversationState, error) {
	defer logging.TraceDuration(u.log, "SetupUC.ChooseListingType")()
	if !model.ValidListingType(t) {
		return nil, domain.ErrInvalidArgument
	}
	st, err := u.loadDraft(ctx, tgID)
	if err != nil {
		return nil, err
	}
	st.Step = repository.StepSetupMinUSD
	st.Data.ListingTypes = &t
	if err := u.states.SetState(ctx, tgID, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (u *setupUC) ChooseMinUSD(ctx context.Context, tgID int64, v float64) (*repository.ConversationState, error) {
	defer logging.TraceDuration(u.log, "SetupUC.ChooseMinUSD")()
	if v < 0 {
		return nil, domain.ErrInvalidArgument
	}
	st, err := u.loadDraft(ctx, tgID)
	if err != nil {
		return nil, err
	}
	st.Step = repository.StepSetupMaxUSD
	st.Data.MinUSDValue = &v
	if err := u.states.SetState(ctx, tgID, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (u *setupUC) ChooseMaxUSD(ctx context.Context, tgID int64, v *float64) (*repository.ConversationState, error) {
	defer logging.TraceDuration(u.log, "SetupUC.ChooseMaxUSD")()
	if v != nil && *v < 0 {
		return nil, domain.ErrInvalidArgument
	}
	st, err := u.loadDraft(ctx, tgID)
	if err != nil {
		return nil, err
	}
	st.Step = repository.StepSetupSkills
	st.Data.MaxUSDValue = v
	if err := u.states.SetState(ctx, tgID, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (u *setupUC) ToggleSkill(ctx context.Context, tgID int64, skill string) (*repository.ConversationState, bool, error) {
	defer logging.TraceDuration(u.log, "SetupUC.ToggleSkill")()
	if !model.KnownSkill(skill) {
		return nil, false, domain.ErrUnknownSkill
	}
	st, err := u.loadDraft(ctx, tgID)
	if err != nil {
		return nil, false, err
	}
	st.Step = repository.StepSetupSkills

	added := true
	next := st.Data.Skills[:0:0]
	for _, s := range st.Data.Skills {
		if s == skill {
			added = false
			continue
		}
		next = append(next, s)
	}
	if added {
		next = append(next, skill)
	}
	st.Data.Skills = next

	if err := u.states.SetState(ctx, tgID, st); err != nil {
		return nil, false, err
	}
	return st, added, nil
}

func (u *setupUC) Save(ctx context.Context, tgID int64) (*model.Preferences, error) {
	defer logging.TraceDuration(u.log, "SetupUC.Save")()
	st, err := u.states.GetState(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoSetupInProgress
		}
		return nil, err
	}

	// Unanswered questions fall back to defaults; Active is forced on and
	// Geography stays global until profile-based regions are wired in.
	listingTypes := model.ListingTypeAll
	if st.Data.ListingTypes != nil {
		listingTypes = *st.Data.ListingTypes
	}
	minUSD := 0.0
	if st.Data.MinUSDValue != nil {
		minUSD = *st.Data.MinUSDValue
	}
	skills := st.Data.Skills
	if skills == nil {
		skills = []string{}
	}
	active := true

	patch := model.PreferencesPatch{
		MinUSDValue:  &minUSD,
		MaxUSDValue:  st.Data.MaxUSDValue,
		MaxUSDSet:    true,
		ListingTypes: &listingTypes,
		Skills:       &skills,
		Geography:    nil,
		GeographySet: true,
		Active:       &active,
	}

	prefs, err := u.prefs.Set(ctx, tgID, patch)
	if err != nil {
		return nil, err
	}
	if err := u.states.ClearState(ctx, tgID); err != nil {
		u.log.Warn().Err(err).Int64("tg_id", tgID).Msg("failed to clear setup state after save")
	}
	metrics.IncPreferenceSave()
	return prefs, nil
}

func (u *setupUC) Reset(ctx context.Context, tgID int64) error {
	defer logging.TraceDuration(u.log, "SetupUC.Reset")()
	return u.states.ClearState(ctx, tgID)
}
