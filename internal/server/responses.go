package server

import (
	"encoding/json"
	"net/http"
	"time"

	"futkings-live/internal/constants"
	"futkings-live/internal/engine"
)

// StateResponse is the operator read view of a live engine snapshot.
type StateResponse struct {
	MatchID string `json:"matchId"`
	Status  string `json:"status"`
	Period  int    `json:"period"`
	Running bool   `json:"running"`

	ElapsedSeconds int `json:"elapsedSeconds"`
	ExtraMinutes   int `json:"extraMinutes"`

	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`

	HomeCollectiveFouls int  `json:"homeCollectiveFouls"`
	AwayCollectiveFouls int  `json:"awayCollectiveFouls"`
	HomeFoulLimit       bool `json:"homeFoulLimitReached"`
	AwayFoulLimit       bool `json:"awayFoulLimitReached"`

	HomeDirectorBonus int `json:"homeDirectorBonus"`
	AwayDirectorBonus int `json:"awayDirectorBonus"`

	ActiveCards []ActiveCardView `json:"activeCards"`
	Sanctions   []SanctionView   `json:"sanctions"`

	Shootout *ShootoutView `json:"shootout,omitempty"`
}

type ActiveCardView struct {
	ID               string `json:"id"`
	TeamID           string `json:"teamId"`
	Type             string `json:"type"`
	TargetPlayerID   string `json:"targetPlayerId,omitempty"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

type SanctionView struct {
	ID               string `json:"id"`
	PlayerID         string `json:"playerId"`
	TeamID           string `json:"teamId"`
	Kind             string `json:"kind"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

type ShootoutView struct {
	HomeScore int  `json:"homeScore"`
	AwayScore int  `json:"awayScore"`
	Decided   bool `json:"decided"`
	Attempts  int  `json:"attempts"`
}

func toStateResponse(st engine.State, now time.Time) StateResponse {
	resp := StateResponse{
		MatchID:             st.MatchID,
		Status:              string(st.Status),
		Period:              st.Period,
		Running:             st.Running,
		ElapsedSeconds:      st.ElapsedSeconds,
		ExtraMinutes:        st.ExtraMinutes,
		HomeScore:           st.HomeScore,
		AwayScore:           st.AwayScore,
		HomeCollectiveFouls: st.HomeCollectiveFouls,
		AwayCollectiveFouls: st.AwayCollectiveFouls,
		HomeFoulLimit:       st.HomeCollectiveFouls >= constants.CollectiveFoulLimit,
		AwayFoulLimit:       st.AwayCollectiveFouls >= constants.CollectiveFoulLimit,
		HomeDirectorBonus:   st.HomeDirectorBonus,
		AwayDirectorBonus:   st.AwayDirectorBonus,
		ActiveCards:         make([]ActiveCardView, 0, len(st.ActiveCards)),
		Sanctions:           make([]SanctionView, 0, len(st.Sanctions)),
	}
	for _, c := range st.ActiveCards {
		resp.ActiveCards = append(resp.ActiveCards, ActiveCardView{
			ID:               c.ID,
			TeamID:           c.TeamID,
			Type:             string(c.Type),
			TargetPlayerID:   c.TargetPlayerID,
			RemainingSeconds: remainingSeconds(c.ExpiresAt, now),
		})
	}
	for _, s := range st.Sanctions {
		resp.Sanctions = append(resp.Sanctions, SanctionView{
			ID:               s.ID,
			PlayerID:         s.PlayerID,
			TeamID:           s.TeamID,
			Kind:             string(s.Kind),
			RemainingSeconds: remainingSeconds(s.ExpiresAt, now),
		})
	}
	if st.Shootout != nil {
		resp.Shootout = &ShootoutView{
			HomeScore: st.Shootout.HomeScore,
			AwayScore: st.Shootout.AwayScore,
			Decided:   st.Shootout.Decided,
			Attempts:  len(st.Shootout.Attempts),
		}
	}
	return resp
}

func remainingSeconds(expiry, now time.Time) int {
	d := int(expiry.Sub(now).Seconds())
	if d < 0 {
		return 0
	}
	return d
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
