package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"futkings-live/internal/api"
	"futkings-live/internal/config"
	"futkings-live/internal/constants"
	"futkings-live/internal/domain"
	"futkings-live/internal/engine"
	"futkings-live/internal/reconcile"
	"futkings-live/internal/repository"
)

var ErrMatchNotOpen = errors.New("match is not open")

// MatchService owns the registry of live engines, one per open match, and
// routes operator actions into the owning engine. Opening a match loads the
// read model from the store exactly once and seeds both the ledger and the
// sync baseline from it.
type MatchService struct {
	store   *api.StoreClient
	archive *repository.ArchiveRepository
	cfg     *config.Config
	logger  zerolog.Logger

	mu   sync.Mutex
	live map[string]*liveMatch
}

type liveMatch struct {
	eng    *engine.Engine
	syncer *reconcile.Syncer
}

func NewMatchService(store *api.StoreClient, archive *repository.ArchiveRepository, cfg *config.Config, logger zerolog.Logger) *MatchService {
	return &MatchService{
		store:   store,
		archive: archive,
		cfg:     cfg,
		logger:  logger,
		live:    make(map[string]*liveMatch),
	}
}

// Open loads a match and brings its engine online. Idempotent: opening an
// already-open match is a no-op.
func (s *MatchService) Open(ctx context.Context, matchID string) error {
	s.mu.Lock()
	if _, ok := s.live[matchID]; ok {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	resp, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to load match")
		return fmt.Errorf("load match: %w", err)
	}
	if domain.MatchStatus(resp.Status) == domain.StatusCompleted {
		return engine.ErrMatchCompleted
	}

	players, err := s.loadRosters(ctx, resp.HomeTeam.ID, resp.AwayTeam.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to load rosters")
		return fmt.Errorf("load rosters: %w", err)
	}

	match := &domain.Match{
		ID:              resp.ID,
		Home:            domain.Team{ID: resp.HomeTeam.ID, Name: resp.HomeTeam.Name},
		Away:            domain.Team{ID: resp.AwayTeam.ID, Name: resp.AwayTeam.Name},
		Players:         players,
		Period:          resp.Period,
		Status:          domain.MatchStatus(resp.Status),
		ElapsedSeconds:  resp.ElapsedTime,
		ExtraMinutes:    resp.ExtraMinutes,
		DurationMinutes: resp.DurationMinutes,
		ScheduledAt:     resp.ScheduledAt,
	}
	if match.DurationMinutes <= 0 {
		match.DurationMinutes = s.cfg.PeriodMinutes
	}

	stats := make(map[string]domain.PlayerMatchStat, len(resp.PlayerStats))
	for _, line := range resp.PlayerStats {
		stats[line.PlayerID] = domain.PlayerMatchStat{
			Goals:         line.Goals,
			Assists:       line.Assists,
			YellowCards:   line.YellowCards,
			RedCards:      line.RedCards,
			Fouls:         line.Fouls,
			Saves:         line.Saves,
			GoalsConceded: line.GoalsConceded,
		}
	}

	eng := engine.New(match, engine.WithLogger(s.logger))
	eng.SeedStats(stats)

	syncer := reconcile.New(eng, s.store, s.logger, s.cfg.SyncDebounce, s.cfg.SyncInterval)
	syncer.SeedBaseline(stats)
	eng.SetOnDirty(syncer.MarkDirty)

	s.mu.Lock()
	if _, ok := s.live[matchID]; ok {
		// Lost the race to another opener; keep theirs.
		s.mu.Unlock()
		return nil
	}
	s.live[matchID] = &liveMatch{eng: eng, syncer: syncer}
	s.mu.Unlock()

	eng.StartTicker(constants.TickInterval)
	go syncer.Run()

	s.logger.Info().
		Str("match_id", matchID).
		Str("home", match.Home.Name).
		Str("away", match.Away.Name).
		Int("players", len(players)).
		Msg("match opened")
	return nil
}

func (s *MatchService) loadRosters(ctx context.Context, homeID, awayID string) ([]domain.Player, error) {
	g, gCtx := errgroup.WithContext(ctx)
	var homePlayers, awayPlayers []api.PlayerPayload

	g.Go(func() error {
		var err error
		homePlayers, err = s.store.GetTeamPlayers(gCtx, homeID)
		return err
	})
	g.Go(func() error {
		var err error
		awayPlayers, err = s.store.GetTeamPlayers(gCtx, awayID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	players := make([]domain.Player, 0, len(homePlayers)+len(awayPlayers))
	for _, p := range append(homePlayers, awayPlayers...) {
		players = append(players, domain.Player{
			ID:       p.ID,
			TeamID:   p.TeamID,
			Number:   p.Number,
			Position: domain.Position(p.Position),
			Starter:  p.Starter,
		})
	}
	return players, nil
}

func (s *MatchService) get(matchID string) (*liveMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lm, ok := s.live[matchID]
	if !ok {
		return nil, ErrMatchNotOpen
	}
	return lm, nil
}

func (s *MatchService) Start(matchID string) error {
	lm, err := s.get(matchID)
	if err != nil {
		return err
	}
	return lm.eng.Start()
}

func (s *MatchService) Pause(matchID string) error {
	lm, err := s.get(matchID)
	if err != nil {
		return err
	}
	return lm.eng.Pause()
}

func (s *MatchService) Resume(matchID string) error {
	lm, err := s.get(matchID)
	if err != nil {
		return err
	}
	return lm.eng.Resume()
}

func (s *MatchService) AddExtraMinute(matchID string) error {
	lm, err := s.get(matchID)
	if err != nil {
		return err
	}
	return lm.eng.AddExtraMinute()
}

func (s *MatchService) AdvancePeriod(matchID string) error {
	lm, err := s.get(matchID)
	if err != nil {
		return err
	}
	return lm.eng.AdvancePeriod()
}

func (s *MatchService) ApplyStat(matchID, playerID string, kind domain.StatKind, delta int) (int, error) {
	lm, err := s.get(matchID)
	if err != nil {
		return 0, err
	}
	return lm.eng.ApplyStat(playerID, kind, delta)
}

func (s *MatchService) ActivateCard(matchID, teamID string, cardType domain.CardType, targetPlayerID string) (domain.ActiveCard, error) {
	lm, err := s.get(matchID)
	if err != nil {
		return domain.ActiveCard{}, err
	}
	return lm.eng.ActivateCard(teamID, cardType, targetPlayerID)
}

func (s *MatchService) AdjustDirectorBonus(matchID, teamID string, delta int) error {
	lm, err := s.get(matchID)
	if err != nil {
		return err
	}
	if delta >= 0 {
		return lm.eng.AddDirectorBonus(teamID)
	}
	return lm.eng.RemoveDirectorBonus(teamID)
}

func (s *MatchService) RecordShootoutAttempt(matchID, teamID string, outcome domain.AttemptOutcome) error {
	lm, err := s.get(matchID)
	if err != nil {
		return err
	}
	return lm.eng.RecordShootoutAttempt(teamID, outcome)
}

func (s *MatchService) UndoShootoutAttempt(matchID string) error {
	lm, err := s.get(matchID)
	if err != nil {
		return err
	}
	return lm.eng.UndoShootoutAttempt()
}

// Save performs an explicit, blocking push; the error is surfaced to the
// operator rather than retried silently.
func (s *MatchService) Save(ctx context.Context, matchID string) error {
	lm, err := s.get(matchID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, constants.PushTimeout)
	defer cancel()
	return lm.syncer.Flush(ctx)
}

// RequestFinalize either finalizes the match outright, or opens the shootout
// sub-flow when regulation scores are level.
func (s *MatchService) RequestFinalize(ctx context.Context, matchID string) (finalized, needShootout bool, err error) {
	lm, err := s.get(matchID)
	if err != nil {
		return false, false, err
	}
	needShootout, err = lm.eng.RequestFinalize()
	if err != nil {
		return false, false, err
	}
	if needShootout {
		return false, true, nil
	}
	if err := s.finalize(ctx, matchID, lm); err != nil {
		return false, false, err
	}
	return true, false, nil
}

// Finalize completes the match; with a shootout in progress it requires the
// shootout to be decided.
func (s *MatchService) Finalize(ctx context.Context, matchID string) error {
	lm, err := s.get(matchID)
	if err != nil {
		return err
	}
	return s.finalize(ctx, matchID, lm)
}

func (s *MatchService) finalize(ctx context.Context, matchID string, lm *liveMatch) error {
	st, err := lm.eng.PrepareFinalize()
	if err != nil {
		return err
	}

	pushCtx, cancel := context.WithTimeout(ctx, constants.PushTimeout)
	defer cancel()
	if err := lm.syncer.PushState(pushCtx, st); err != nil {
		// The store never acknowledged the terminal write: stay LIVE so the
		// operator can retry, instead of disagreeing with the store.
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("terminal push rejected")
		return fmt.Errorf("finalize match: %w", err)
	}

	lm.eng.CommitFinalize()
	lm.eng.StopTicker()
	lm.syncer.Stop()

	archiveCtx, archiveCancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer archiveCancel()
	if err := s.archive.SaveCompleted(archiveCtx, st, time.Now()); err != nil {
		// The store holds the terminal record; a local archive miss is not
		// worth failing the finalize over.
		s.logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to archive completed match")
	}

	s.mu.Lock()
	delete(s.live, matchID)
	s.mu.Unlock()
	return nil
}

// State returns the live engine snapshot for an open match.
func (s *MatchService) State(matchID string) (engine.State, error) {
	lm, err := s.get(matchID)
	if err != nil {
		return engine.State{}, err
	}
	return lm.eng.State(), nil
}

// Archived looks up the local terminal record of a completed match.
func (s *MatchService) Archived(ctx context.Context, matchID string) (*repository.ArchivedMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.archive.Get(ctx, matchID)
}

// Shutdown stops every live engine and attempts one best-effort push per
// match so readers see the freshest pre-shutdown state.
func (s *MatchService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	open := make(map[string]*liveMatch, len(s.live))
	for id, lm := range s.live {
		open[id] = lm
	}
	s.mu.Unlock()

	for id, lm := range open {
		lm.eng.StopTicker()
		lm.syncer.Stop()
		if err := lm.syncer.Flush(ctx); err != nil {
			s.logger.Warn().Err(err).Str("match_id", id).Msg("final push on shutdown failed")
		}
	}
}
