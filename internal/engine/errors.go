package engine

import "errors"

var (
	// ErrMatchCompleted rejects any mutation of a finalized match.
	ErrMatchCompleted = errors.New("match is completed and immutable")

	// ErrMissingSchedule rejects starting a match that has no scheduled
	// start timestamp.
	ErrMissingSchedule = errors.New("match has no scheduled start time")

	ErrNotLive        = errors.New("match is not live")
	ErrWrongPeriod    = errors.New("period can only be advanced from period 1")
	ErrTargetRequired = errors.New("card type requires a target player")
	ErrUnknownPlayer  = errors.New("player is not on the match roster")
	ErrUnknownTeam    = errors.New("team does not play in this match")
	ErrUnknownStat    = errors.New("unknown stat kind")

	// ErrScoresLevel blocks finalization while regulation scores are equal
	// and no shootout has been played.
	ErrScoresLevel = errors.New("scores are level, shootout required")

	ErrNoShootout   = errors.New("no shootout in progress")
	ErrShootoutTied = errors.New("shootout scores are level")
)
