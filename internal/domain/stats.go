package domain

// StatKind tags one of the seven per-player counters. The values double as
// the wire names the persistence boundary expects in events[].
type StatKind string

const (
	StatGoal         StatKind = "GOAL"
	StatAssist       StatKind = "ASSIST"
	StatYellow       StatKind = "YELLOW"
	StatRed          StatKind = "RED"
	StatFoul         StatKind = "FOUL"
	StatSave         StatKind = "SAVE"
	StatGoalConceded StatKind = "GOAL_CONCEDED"
)

var statKinds = []StatKind{
	StatGoal,
	StatAssist,
	StatYellow,
	StatRed,
	StatFoul,
	StatSave,
	StatGoalConceded,
}

// StatKinds returns every stat kind in a fixed order.
func StatKinds() []StatKind {
	out := make([]StatKind, len(statKinds))
	copy(out, statKinds)
	return out
}

func (k StatKind) Valid() bool {
	for _, s := range statKinds {
		if k == s {
			return true
		}
	}
	return false
}

// Value returns the counter tagged by k.
func (s PlayerMatchStat) Value(k StatKind) int {
	switch k {
	case StatGoal:
		return s.Goals
	case StatAssist:
		return s.Assists
	case StatYellow:
		return s.YellowCards
	case StatRed:
		return s.RedCards
	case StatFoul:
		return s.Fouls
	case StatSave:
		return s.Saves
	case StatGoalConceded:
		return s.GoalsConceded
	}
	return 0
}

// Set overwrites the counter tagged by k.
func (s *PlayerMatchStat) Set(k StatKind, v int) {
	switch k {
	case StatGoal:
		s.Goals = v
	case StatAssist:
		s.Assists = v
	case StatYellow:
		s.YellowCards = v
	case StatRed:
		s.RedCards = v
	case StatFoul:
		s.Fouls = v
	case StatSave:
		s.Saves = v
	case StatGoalConceded:
		s.GoalsConceded = v
	}
}
