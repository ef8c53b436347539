package brackets

import "errors"

// Engine errors. All deterministic: the engine has no transient failure
// modes and never recovers on the caller's behalf.
var (
	ErrInvalidTeamComposition = errors.New("team composition does not match the tournament team size")
	ErrInsufficientTeams      = errors.New("team count cannot be split into pools of 3 or 4")
	ErrPoolPhaseIncomplete    = errors.New("pool phase has unfinished matches")
	ErrInsufficientQualifiers = errors.New("not enough qualifiers to build a bracket")
	ErrInvalidSetScore        = errors.New("set scores cannot be negative")
	ErrIndeterminateResult    = errors.New("set scores are tied, a decisive result is required")
	ErrResultAlreadyRecorded  = errors.New("match already has a different recorded result")
	ErrMatchNotFound          = errors.New("bracket match not found")
	ErrMatchNotReady          = errors.New("match participants are not resolved yet")
	ErrFirstRoundIncomplete   = errors.New("first knockout round is not finished")
)
