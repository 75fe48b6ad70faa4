package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"futkings-live/internal/domain"
	"futkings-live/internal/engine"
	"futkings-live/internal/service"
)

// MatchServer exposes the operator JSON API over the match service.
type MatchServer struct {
	svc    *service.MatchService
	logger zerolog.Logger
}

func NewMatchServer(svc *service.MatchService, logger zerolog.Logger) *MatchServer {
	return &MatchServer{svc: svc, logger: logger}
}

// Register wires every operator route onto the mux.
func (s *MatchServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /matches/{id}/open", s.handleOpen)
	mux.HandleFunc("POST /matches/{id}/start", s.lifecycle(s.svc.Start))
	mux.HandleFunc("POST /matches/{id}/pause", s.lifecycle(s.svc.Pause))
	mux.HandleFunc("POST /matches/{id}/resume", s.lifecycle(s.svc.Resume))
	mux.HandleFunc("POST /matches/{id}/extra-minute", s.lifecycle(s.svc.AddExtraMinute))
	mux.HandleFunc("POST /matches/{id}/period-advance", s.lifecycle(s.svc.AdvancePeriod))
	mux.HandleFunc("POST /matches/{id}/stats", s.handleStat)
	mux.HandleFunc("POST /matches/{id}/cards", s.handleCard)
	mux.HandleFunc("POST /matches/{id}/director-bonus", s.handleDirectorBonus)
	mux.HandleFunc("POST /matches/{id}/shootout/attempts", s.handleShootoutAttempt)
	mux.HandleFunc("POST /matches/{id}/shootout/undo", s.lifecycle(s.svc.UndoShootoutAttempt))
	mux.HandleFunc("POST /matches/{id}/save", s.handleSave)
	mux.HandleFunc("POST /matches/{id}/finalize", s.handleFinalize)
	mux.HandleFunc("GET /matches/{id}/state", s.handleState)
}

// lifecycle adapts the no-body operations that only take a match ID.
func (s *MatchServer) lifecycle(op func(matchID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.PathValue("id")
		if err := op(matchID); err != nil {
			s.fail(w, err)
			return
		}
		s.respondState(w, matchID)
	}
}

func (s *MatchServer) handleOpen(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	if err := s.svc.Open(r.Context(), matchID); err != nil {
		s.fail(w, err)
		return
	}
	s.respondState(w, matchID)
}

type statRequest struct {
	PlayerID string `json:"playerId"`
	Type     string `json:"type"`
	Delta    int    `json:"delta"`
}

func (s *MatchServer) handleStat(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	var req statRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	applied, err := s.svc.ApplyStat(matchID, req.PlayerID, domain.StatKind(req.Type), req.Delta)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"applied": applied})
}

type cardRequest struct {
	TeamID         string `json:"teamId"`
	Type           string `json:"type"`
	TargetPlayerID string `json:"targetPlayerId"`
}

func (s *MatchServer) handleCard(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	card, err := s.svc.ActivateCard(matchID, req.TeamID, domain.CardType(req.Type), req.TargetPlayerID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ActiveCardView{
		ID:               card.ID,
		TeamID:           card.TeamID,
		Type:             string(card.Type),
		TargetPlayerID:   card.TargetPlayerID,
		RemainingSeconds: remainingSeconds(card.ExpiresAt, time.Now()),
	})
}

type directorBonusRequest struct {
	TeamID string `json:"teamId"`
	Delta  int    `json:"delta"`
}

func (s *MatchServer) handleDirectorBonus(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	var req directorBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.svc.AdjustDirectorBonus(matchID, req.TeamID, req.Delta); err != nil {
		s.fail(w, err)
		return
	}
	s.respondState(w, matchID)
}

type shootoutAttemptRequest struct {
	TeamID  string `json:"teamId"`
	Outcome string `json:"outcome"`
}

func (s *MatchServer) handleShootoutAttempt(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	var req shootoutAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	outcome := domain.AttemptOutcome(req.Outcome)
	if outcome != domain.AttemptGoal && outcome != domain.AttemptMiss {
		writeError(w, http.StatusBadRequest, errors.New("outcome must be GOAL or MISS"))
		return
	}
	if err := s.svc.RecordShootoutAttempt(matchID, req.TeamID, outcome); err != nil {
		s.fail(w, err)
		return
	}
	s.respondState(w, matchID)
}

func (s *MatchServer) handleSave(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	if err := s.svc.Save(r.Context(), matchID); err != nil {
		s.fail(w, err)
		return
	}
	s.respondState(w, matchID)
}

func (s *MatchServer) handleFinalize(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	finalized, needShootout, err := s.svc.RequestFinalize(r.Context(), matchID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"finalized": finalized,
		"shootout":  needShootout,
	})
}

func (s *MatchServer) handleState(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	st, err := s.svc.State(matchID)
	if err == nil {
		writeJSON(w, http.StatusOK, toStateResponse(st, time.Now()))
		return
	}
	if !errors.Is(err, service.ErrMatchNotOpen) {
		s.fail(w, err)
		return
	}

	// Not live: fall back to the local archive of completed matches.
	archived, archiveErr := s.svc.Archived(r.Context(), matchID)
	if archiveErr != nil {
		if errors.Is(archiveErr, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.fail(w, archiveErr)
		return
	}
	writeJSON(w, http.StatusOK, archived)
}

// fail maps engine preconditions to client errors and everything else to 500.
func (s *MatchServer) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMatchNotOpen):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, engine.ErrMatchCompleted),
		errors.Is(err, engine.ErrNotLive),
		errors.Is(err, engine.ErrWrongPeriod),
		errors.Is(err, engine.ErrScoresLevel),
		errors.Is(err, engine.ErrShootoutTied),
		errors.Is(err, engine.ErrNoShootout):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, engine.ErrMissingSchedule),
		errors.Is(err, engine.ErrTargetRequired),
		errors.Is(err, engine.ErrUnknownPlayer),
		errors.Is(err, engine.ErrUnknownTeam),
		errors.Is(err, engine.ErrUnknownStat):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *MatchServer) respondState(w http.ResponseWriter, matchID string) {
	st, err := s.svc.State(matchID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(st, time.Now()))
}
