package services

import "errors"

// Shared sentinel errors, compared with errors.Is across services and the
// HTTP mapping layer.
var (
	// Authorization
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Domain validation and business rules
	ErrTournamentNotActive       = errors.New("tournament is not in an active phase")
	ErrTournamentFinished        = errors.New("tournament is already finished")
	ErrWrongTournamentFormat     = errors.New("operation does not match the tournament format")
	ErrMatchesAlreadyExist       = errors.New("matches have already been generated for this tournament")
	ErrMatchTeamsNotSet          = errors.New("match participants are not determined yet")
	ErrByeMatchImmutable         = errors.New("bye matches cannot accept results")
	ErrNegativeScore             = errors.New("scores must be non-negative")
	ErrTieRequiresOvertimeWinner = errors.New("tied elimination match requires an overtime winner")
	ErrInvalidOvertimeWinner     = errors.New("overtime winner must be one of the match participants")
	ErrInvalidForfeitTeam        = errors.New("forfeiting team must be one of the match participants")
	ErrDownstreamMatchCompleted  = errors.New("cannot correct a result: the next match already has a recorded result")
)
