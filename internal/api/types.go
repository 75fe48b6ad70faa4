package api

import "time"

// PutMatchRequest is the upsert payload for PUT /matches/{id}. Events carry
// signed increments relative to the last acknowledged baseline; everything
// else is a full snapshot.
type PutMatchRequest struct {
	HomeScore         int                  `json:"homeScore"`
	AwayScore         int                  `json:"awayScore"`
	Status            string               `json:"status"`
	ElapsedTime       int                  `json:"elapsedTime"`
	ActiveEvents      []ActiveEventPayload `json:"activeEvents"`
	Events            []StatEventPayload   `json:"events"`
	HomeShootoutScore *int                 `json:"homeShootoutScore,omitempty"`
	AwayShootoutScore *int                 `json:"awayShootoutScore,omitempty"`
}

type ActiveEventPayload struct {
	TeamID         string    `json:"teamId"`
	CardID         string    `json:"cardId"`
	Type           string    `json:"type"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	TargetPlayerID string    `json:"targetPlayerId,omitempty"`
}

type StatEventPayload struct {
	PlayerID string `json:"playerId"`
	Type     string `json:"type"`
	Value    int    `json:"value"`
}

// MatchResponse is the read model returned by GET /matches/{id}.
type MatchResponse struct {
	ID              string              `json:"id"`
	HomeTeam        TeamPayload         `json:"homeTeam"`
	AwayTeam        TeamPayload         `json:"awayTeam"`
	Status          string              `json:"status"`
	Period          int                 `json:"period"`
	ElapsedTime     int                 `json:"elapsedTime"`
	ExtraMinutes    int                 `json:"extraMinutes"`
	DurationMinutes int                 `json:"durationMinutes"`
	ScheduledAt     *time.Time          `json:"scheduledAt"`
	PlayerStats     []PlayerStatPayload `json:"playerStats"`
}

type TeamPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TeamPlayersResponse struct {
	Players []PlayerPayload `json:"players"`
}

type PlayerPayload struct {
	ID       string `json:"id"`
	TeamID   string `json:"teamId"`
	Number   int    `json:"number"`
	Position string `json:"position"`
	Starter  bool   `json:"starter"`
}

type PlayerStatPayload struct {
	PlayerID      string `json:"playerId"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	YellowCards   int    `json:"yellowCards"`
	RedCards      int    `json:"redCards"`
	Fouls         int    `json:"fouls"`
	Saves         int    `json:"saves"`
	GoalsConceded int    `json:"goalsConceded"`
}
