package engine

import (
	"testing"
	"time"

	"futkings-live/internal/domain"
)

func TestGoalValue(t *testing.T) {
	now := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed int
		setup   func(r *Registry)
		player  string
		want    int
	}{
		{
			name:    "plain goal outside window",
			elapsed: 300,
			setup:   func(r *Registry) {},
			player:  "p1",
			want:    1,
		},
		{
			name:    "final window doubles without cards",
			elapsed: 18 * 60,
			setup:   func(r *Registry) {},
			player:  "p1",
			want:    2,
		},
		{
			name:    "final window does not stack with double goal",
			elapsed: 19 * 60,
			setup: func(r *Registry) {
				_, _ = r.ActivateCard("team-a", domain.CardDoubleGoal, "", now)
			},
			player: "p1",
			want:   2,
		},
		{
			name:    "double goal card outside window",
			elapsed: 300,
			setup: func(r *Registry) {
				_, _ = r.ActivateCard("team-a", domain.CardDoubleGoal, "", now)
			},
			player: "p1",
			want:   2,
		},
		{
			name:    "king player card for the target",
			elapsed: 300,
			setup: func(r *Registry) {
				_, _ = r.ActivateCard("team-a", domain.CardKingPlayer, "p1", now)
			},
			player: "p1",
			want:   2,
		},
		{
			name:    "king player card for a teammate",
			elapsed: 300,
			setup: func(r *Registry) {
				_, _ = r.ActivateCard("team-a", domain.CardKingPlayer, "p1", now)
			},
			player: "p2",
			want:   1,
		},
		{
			name:    "opponent's double goal card does not apply",
			elapsed: 300,
			setup: func(r *Registry) {
				_, _ = r.ActivateCard("team-b", domain.CardDoubleGoal, "", now)
			},
			player: "p1",
			want:   1,
		},
		{
			name:    "non-scoring card types do not change value",
			elapsed: 300,
			setup: func(r *Registry) {
				_, _ = r.ActivateCard("team-a", domain.CardGKSurprise, "", now)
				_, _ = r.ActivateCard("team-a", domain.CardPenaltyFutkings, "", now)
			},
			player: "p1",
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewClock(20)
			clock.Elapsed = tt.elapsed
			reg := NewRegistry()
			tt.setup(reg)

			if got := GoalValue(tt.player, "team-a", clock, reg, now); got != tt.want {
				t.Fatalf("GoalValue() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGoalValueExpiredCardDoesNotApply(t *testing.T) {
	now := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	clock := NewClock(20)
	clock.Elapsed = 300

	reg := NewRegistry()
	if _, err := reg.ActivateCard("team-a", domain.CardDoubleGoal, "", now); err != nil {
		t.Fatal(err)
	}

	if got := GoalValue("p1", "team-a", clock, reg, now.Add(120*time.Second)); got != 1 {
		t.Fatalf("expired card granted value %d, want 1", got)
	}
}
