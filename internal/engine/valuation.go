package engine

import (
	"time"

	"futkings-live/internal/domain"
)

// GoalValue returns the point value of a goal scored by the given player for
// the given team. Precedence, per the rulebook:
//
//  1. Inside the final-minutes window every goal is worth 2, regardless of
//     cards. The window does not stack with cards: the value stays 2, not 4.
//  2. An active DOUBLE_GOAL card for the scoring team: 2.
//  3. An active KING_PLAYER card targeting the scoring player: 2.
//  4. Otherwise: 1.
func GoalValue(playerID, teamID string, clock *Clock, reg *Registry, now time.Time) int {
	if clock.InFinalWindow() {
		return 2
	}
	for _, c := range reg.CardsFor(teamID, now) {
		if c.Type == domain.CardDoubleGoal {
			return 2
		}
	}
	for _, c := range reg.CardsFor(teamID, now) {
		if c.Type == domain.CardKingPlayer && c.TargetPlayerID == playerID {
			return 2
		}
	}
	return 1
}
