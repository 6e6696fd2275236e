package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by every lookup miss below.
	ErrNotFound               = errors.New("not found")
	ErrTournamentNotFound     = fmt.Errorf("tournament %w", ErrNotFound)
	ErrGroupNotFound          = fmt.Errorf("group %w", ErrNotFound)
	ErrKnockoutMatchNotFound  = fmt.Errorf("knockout match %w", ErrNotFound)
	ErrValidationFailed       = errors.New("validation failed")
	ErrInvalidCredentials     = errors.New("invalid operator credentials")
	ErrAuthenticationFailed   = errors.New("authentication failed")
	ErrExportUnavailable      = errors.New("snapshot export is not configured")
	ErrTeamCatalogUnavailable = errors.New("team catalog could not be loaded")
	ErrInvalidFormat          = errors.New("invalid competition format")

	// Stage transition errors.
	ErrInvalidStatusTransition = errors.New("invalid tournament status transition")
	ErrStageClosed             = errors.New("results are only accepted while the stage is in progress")
	ErrStageIncomplete         = errors.New("stage has unplayed matches")
	ErrQualifiedCountMismatch  = errors.New("qualified team count does not match the world cup size")
	ErrDrawLocked              = errors.New("draw cannot be regenerated after a match has been played")
	ErrInvalidTeamCount        = errors.New("invalid team count for the draw")
)
