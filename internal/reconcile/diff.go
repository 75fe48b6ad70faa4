package reconcile

import (
	"sort"

	"futkings-live/internal/api"
	"futkings-live/internal/domain"
	"futkings-live/internal/engine"
)

// StatEvent is one signed increment owed to the store: the net change of a
// single player counter since the last acknowledged baseline.
type StatEvent struct {
	PlayerID string
	Kind     domain.StatKind
	Value    int
}

// computeDiff compares current stat lines against the baseline and emits one
// event per changed counter. Untouched counters emit nothing; a net decrease
// emits a negative value. Output order is deterministic (player, then kind).
func computeDiff(baseline, current map[string]domain.PlayerMatchStat) []StatEvent {
	var events []StatEvent
	for playerID, line := range current {
		base := baseline[playerID]
		for _, kind := range domain.StatKinds() {
			if d := line.Value(kind) - base.Value(kind); d != 0 {
				events = append(events, StatEvent{PlayerID: playerID, Kind: kind, Value: d})
			}
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].PlayerID != events[j].PlayerID {
			return events[i].PlayerID < events[j].PlayerID
		}
		return kindOrder(events[i].Kind) < kindOrder(events[j].Kind)
	})
	return events
}

func kindOrder(k domain.StatKind) int {
	for i, kind := range domain.StatKinds() {
		if k == kind {
			return i
		}
	}
	return len(domain.StatKinds())
}

// buildRequest assembles the wire payload: the diff events plus a full
// snapshot of scores, status, clock and active cards.
func buildRequest(st engine.State, events []StatEvent) api.PutMatchRequest {
	req := api.PutMatchRequest{
		HomeScore:    st.HomeScore,
		AwayScore:    st.AwayScore,
		Status:       string(st.Status),
		ElapsedTime:  st.ElapsedSeconds,
		ActiveEvents: make([]api.ActiveEventPayload, 0, len(st.ActiveCards)),
		Events:       make([]api.StatEventPayload, 0, len(events)),
	}
	for _, c := range st.ActiveCards {
		req.ActiveEvents = append(req.ActiveEvents, api.ActiveEventPayload{
			TeamID:         c.TeamID,
			CardID:         c.ID,
			Type:           string(c.Type),
			StartTime:      c.StartedAt,
			EndTime:        c.ExpiresAt,
			TargetPlayerID: c.TargetPlayerID,
		})
	}
	for _, ev := range events {
		req.Events = append(req.Events, api.StatEventPayload{
			PlayerID: ev.PlayerID,
			Type:     string(ev.Kind),
			Value:    ev.Value,
		})
	}
	if st.Shootout != nil {
		home, away := st.Shootout.HomeScore, st.Shootout.AwayScore
		req.HomeShootoutScore = &home
		req.AwayShootoutScore = &away
	}
	return req
}
