package domain

import (
	"time"
)

type MatchStatus string

const (
	StatusScheduled MatchStatus = "SCHEDULED"
	StatusLive      MatchStatus = "LIVE"
	StatusCompleted MatchStatus = "COMPLETED"
)

type CardType string

const (
	CardKingPlayer      CardType = "KING_PLAYER"
	CardDoubleGoal      CardType = "DOUBLE_GOAL"
	CardExclusion       CardType = "EXCLUSION"
	CardGKSurprise      CardType = "GK_SURPRISE"
	CardPenaltyFutkings CardType = "PENALTY_FUTKINGS"
)

// RequiresTarget reports whether a card type must name a target player.
func (t CardType) RequiresTarget() bool {
	return t == CardKingPlayer || t == CardExclusion
}

type SanctionKind string

const (
	SanctionYellow SanctionKind = "YELLOW"
	SanctionRed    SanctionKind = "RED"
)

type Position string

const (
	PositionGoalkeeper Position = "GOALKEEPER"
	PositionField      Position = "FIELD"
)

type AttemptOutcome string

const (
	AttemptGoal AttemptOutcome = "GOAL"
	AttemptMiss AttemptOutcome = "MISS"
)

type Team struct {
	ID   string
	Name string
}

// Player is read-only to the engine; rosters come from the store at match load.
type Player struct {
	ID       string
	TeamID   string
	Number   int
	Position Position
	Starter  bool
}

type Match struct {
	ID              string
	Home            Team
	Away            Team
	Players         []Player
	Period          int
	Status          MatchStatus
	ElapsedSeconds  int
	ExtraMinutes    int
	DurationMinutes int
	ScheduledAt     *time.Time
}

// PlayerMatchStat holds the authoritative per-player counters for one match.
// All counters are clamped at zero; a decrement below zero is a no-op.
type PlayerMatchStat struct {
	Goals         int
	Assists       int
	YellowCards   int
	RedCards      int
	Fouls         int
	Saves         int
	GoalsConceded int
}

// ActiveCard is a team-scoped, time-boxed rule modifier. Expiry is wall-clock
// based and keeps counting while the match clock is paused.
type ActiveCard struct {
	ID             string
	TeamID         string
	Type           CardType
	TargetPlayerID string
	StartedAt      time.Time
	ExpiresAt      time.Time
}

// Sanction is a player-scoped temporary removal triggered by a yellow or red
// card stat increment.
type Sanction struct {
	ID        string
	PlayerID  string
	TeamID    string
	Kind      SanctionKind
	StartedAt time.Time
	ExpiresAt time.Time
}

type ShootoutAttempt struct {
	TeamID  string
	Outcome AttemptOutcome
}
