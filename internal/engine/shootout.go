package engine

import "futkings-live/internal/domain"

// Shootout records ordered attempt outcomes per team during the tie-break
// sub-flow. Scores are derived, never stored.
type Shootout struct {
	homeTeamID string
	awayTeamID string
	attempts   []domain.ShootoutAttempt
}

func NewShootout(homeTeamID, awayTeamID string) *Shootout {
	return &Shootout{homeTeamID: homeTeamID, awayTeamID: awayTeamID}
}

func (s *Shootout) Record(teamID string, outcome domain.AttemptOutcome) error {
	if teamID != s.homeTeamID && teamID != s.awayTeamID {
		return ErrUnknownTeam
	}
	s.attempts = append(s.attempts, domain.ShootoutAttempt{TeamID: teamID, Outcome: outcome})
	return nil
}

// UndoLast removes the most recent attempt, reporting whether one existed.
func (s *Shootout) UndoLast() bool {
	if len(s.attempts) == 0 {
		return false
	}
	s.attempts = s.attempts[:len(s.attempts)-1]
	return true
}

func (s *Shootout) Score(teamID string) int {
	score := 0
	for _, a := range s.attempts {
		if a.TeamID == teamID && a.Outcome == domain.AttemptGoal {
			score++
		}
	}
	return score
}

func (s *Shootout) Scores() (home, away int) {
	return s.Score(s.homeTeamID), s.Score(s.awayTeamID)
}

// Decided reports whether the shootout can settle the match.
func (s *Shootout) Decided() bool {
	home, away := s.Scores()
	return home != away
}

func (s *Shootout) Attempts() []domain.ShootoutAttempt {
	out := make([]domain.ShootoutAttempt, len(s.attempts))
	copy(out, s.attempts)
	return out
}
