package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNoSetupInProgress = errors.New("no setup in progress")
	ErrUnknownSkill      = errors.New("unknown skill")
)
