package engine

import (
	"futkings-live/internal/domain"
)

// State is an immutable copy of everything the sync layer and the operator
// read view need, taken under the engine mutex.
type State struct {
	MatchID    string
	HomeTeamID string
	AwayTeamID string

	Status  domain.MatchStatus
	Period  int
	Running bool

	ElapsedSeconds int
	ExtraMinutes   int

	HomeScore int
	AwayScore int

	HomeCollectiveFouls int
	AwayCollectiveFouls int

	HomeDirectorBonus int
	AwayDirectorBonus int

	ActiveCards []domain.ActiveCard
	Sanctions   []domain.Sanction

	Stats map[string]domain.PlayerMatchStat

	Shootout *ShootoutState
}

type ShootoutState struct {
	HomeScore int
	AwayScore int
	Decided   bool
	Attempts  []domain.ShootoutAttempt
}

// State snapshots the engine. Expired modifiers are filtered by the current
// wall clock even if the sweep has not run yet this second.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Engine) stateLocked() State {
	now := e.now()
	st := State{
		MatchID:             e.match.ID,
		HomeTeamID:          e.match.Home.ID,
		AwayTeamID:          e.match.Away.ID,
		Status:              e.match.Status,
		Period:              e.clock.Period,
		Running:             e.clock.Running,
		ElapsedSeconds:      e.clock.Elapsed,
		ExtraMinutes:        e.clock.ExtraMinutes,
		HomeScore:           e.ledger.DerivedScore(e.match.Home.ID),
		AwayScore:           e.ledger.DerivedScore(e.match.Away.ID),
		HomeCollectiveFouls: e.ledger.CollectiveFouls(e.match.Home.ID, e.clock.Period),
		AwayCollectiveFouls: e.ledger.CollectiveFouls(e.match.Away.ID, e.clock.Period),
		HomeDirectorBonus:   e.ledger.DirectorBonus(e.match.Home.ID),
		AwayDirectorBonus:   e.ledger.DirectorBonus(e.match.Away.ID),
		ActiveCards:         e.registry.ActiveCards(now),
		Sanctions:           e.registry.ActiveSanctions(now),
		Stats:               e.ledger.Stats(),
	}
	if e.shootout != nil {
		home, away := e.shootout.Scores()
		st.Shootout = &ShootoutState{
			HomeScore: home,
			AwayScore: away,
			Decided:   e.shootout.Decided(),
			Attempts:  e.shootout.Attempts(),
		}
	}
	return st
}
