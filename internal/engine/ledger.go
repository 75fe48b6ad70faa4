package engine

import (
	"futkings-live/internal/domain"
)

// Ledger is the authoritative stat store for one match: per-player counters
// plus the per-team director bonus. It is deliberately unaware of goal
// valuation; the Engine decides the applied delta before calling Apply.
type Ledger struct {
	stats  map[string]*domain.PlayerMatchStat
	teamOf map[string]string
	bonus  map[string]int

	// Team foul totals at the moment period 2 started, so collective fouls
	// for period 2 exclude period-1 fouls.
	foulBaseline map[string]int
}

func NewLedger(players []domain.Player) *Ledger {
	l := &Ledger{
		stats:        make(map[string]*domain.PlayerMatchStat),
		teamOf:       make(map[string]string, len(players)),
		bonus:        make(map[string]int),
		foulBaseline: make(map[string]int),
	}
	for _, p := range players {
		l.teamOf[p.ID] = p.TeamID
	}
	return l
}

// Seed overwrites a player's counters, used once at match load to rebuild
// state from the store's read model.
func (l *Ledger) Seed(playerID string, s domain.PlayerMatchStat) {
	copied := s
	l.stats[playerID] = &copied
}

// TeamOf resolves a rostered player's team.
func (l *Ledger) TeamOf(playerID string) (string, bool) {
	teamID, ok := l.teamOf[playerID]
	return teamID, ok
}

// Apply adds delta to the player's counter for kind, clamping the result at
// zero, and returns the delta actually applied (zero when fully clamped).
// The stat line is created lazily on first touch.
func (l *Ledger) Apply(playerID string, kind domain.StatKind, delta int) int {
	line, ok := l.stats[playerID]
	if !ok {
		line = &domain.PlayerMatchStat{}
		l.stats[playerID] = line
	}
	before := line.Value(kind)
	after := before + delta
	if after < 0 {
		after = 0
	}
	line.Set(kind, after)
	return after - before
}

func (l *Ledger) Get(playerID string) domain.PlayerMatchStat {
	if line, ok := l.stats[playerID]; ok {
		return *line
	}
	return domain.PlayerMatchStat{}
}

// Stats returns a copy of every materialized stat line.
func (l *Ledger) Stats() map[string]domain.PlayerMatchStat {
	out := make(map[string]domain.PlayerMatchStat, len(l.stats))
	for id, line := range l.stats {
		out[id] = *line
	}
	return out
}

func (l *Ledger) AddDirectorBonus(teamID string) {
	l.bonus[teamID]++
}

// RemoveDirectorBonus decrements the team's bonus, floored at zero.
func (l *Ledger) RemoveDirectorBonus(teamID string) {
	if l.bonus[teamID] > 0 {
		l.bonus[teamID]--
	}
}

func (l *Ledger) DirectorBonus(teamID string) int {
	return l.bonus[teamID]
}

// DerivedScore is the sum of the team's player goals plus its director bonus.
func (l *Ledger) DerivedScore(teamID string) int {
	score := l.bonus[teamID]
	for id, line := range l.stats {
		if l.teamOf[id] == teamID {
			score += line.Goals
		}
	}
	return score
}

// TeamFouls is the raw foul total across the team's players.
func (l *Ledger) TeamFouls(teamID string) int {
	total := 0
	for id, line := range l.stats {
		if l.teamOf[id] == teamID {
			total += line.Fouls
		}
	}
	return total
}

// SnapshotFoulBaseline records the current team foul totals; called exactly
// once, when period 2 starts.
func (l *Ledger) SnapshotFoulBaseline(teamIDs ...string) {
	for _, id := range teamIDs {
		l.foulBaseline[id] = l.TeamFouls(id)
	}
}

// CollectiveFouls is the foul count feeding the 5-foul threshold: raw fouls
// in period 1, fouls since the period-2 baseline afterwards. Raw per-player
// counters are never reduced.
func (l *Ledger) CollectiveFouls(teamID string, period int) int {
	total := l.TeamFouls(teamID)
	if period > 1 {
		total -= l.foulBaseline[teamID]
	}
	if total < 0 {
		total = 0
	}
	return total
}
