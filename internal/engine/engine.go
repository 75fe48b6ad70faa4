package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"futkings-live/internal/domain"
)

// Engine owns all live state for one match and serializes every mutation
// behind a single mutex: the 1s tick, operator actions, and sync snapshots
// never interleave partial updates.
//
// All operations are pure in-memory transitions; the Engine performs no I/O.
// Pushing to the persistence boundary belongs to the reconcile package, which
// reads Engine state through State at call time.
type Engine struct {
	mu sync.Mutex

	match    *domain.Match
	clock    *Clock
	registry *Registry
	ledger   *Ledger
	shootout *Shootout

	logger zerolog.Logger
	now    func() time.Time

	// onDirty is invoked after any mutation the sync layer should
	// eventually push. It runs with the engine mutex held, so it must not
	// block and must not call back into the engine.
	onDirty func()

	loop *tickLoop
}

type Option func(*Engine)

// WithNow injects the wall clock, used by tests to control card expiry.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func New(match *domain.Match, opts ...Option) *Engine {
	if match.Period == 0 {
		match.Period = 1
	}
	e := &Engine{
		match:    match,
		registry: NewRegistry(),
		ledger:   NewLedger(match.Players),
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	clock := NewClock(match.DurationMinutes)
	clock.Period = match.Period
	clock.Elapsed = match.ElapsedSeconds
	clock.ExtraMinutes = match.ExtraMinutes
	e.clock = clock
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetOnDirty registers the sync trigger. Call before starting the tick loop.
func (e *Engine) SetOnDirty(fn func()) {
	e.mu.Lock()
	e.onDirty = fn
	e.mu.Unlock()
}

// SeedStats rebuilds the ledger from the store's read model, exactly once at
// match load.
func (e *Engine) SeedStats(stats map[string]domain.PlayerMatchStat) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for playerID, line := range stats {
		e.ledger.Seed(playerID, line)
	}
}

// Start begins (or resumes) the match clock. Starting a SCHEDULED match
// transitions it to LIVE, which requires a scheduled start timestamp.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return ErrMatchCompleted
	}
	if e.match.Status == domain.StatusScheduled {
		if e.match.ScheduledAt == nil {
			return ErrMissingSchedule
		}
		e.match.Status = domain.StatusLive
		e.logger.Info().Str("match_id", e.match.ID).Msg("match is live")
	}
	e.clock.Running = true
	e.markDirtyLocked()
	return nil
}

// Pause stops the match clock. Cards and sanctions keep counting down
// against wall-clock time.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return ErrMatchCompleted
	}
	if e.match.Status != domain.StatusLive {
		return ErrNotLive
	}
	e.clock.Running = false
	e.markDirtyLocked()
	return nil
}

// Resume restarts a paused clock within a live match.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return ErrMatchCompleted
	}
	if e.match.Status != domain.StatusLive {
		return ErrNotLive
	}
	e.clock.Running = true
	e.markDirtyLocked()
	return nil
}

// Tick runs one scheduler beat: advance the clock if running, then sweep
// expired modifiers. The sweep always runs so that card countdowns honor
// wall-clock time even while the match clock is paused. Steady clock ticks
// do not mark state dirty (the periodic sync keeps readers fresh); a modifier
// expiry or an automatic period-end stop does.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return
	}
	dirty := false
	if e.match.Status == domain.StatusLive && e.clock.Tick() {
		e.logger.Info().
			Str("match_id", e.match.ID).
			Int("period", e.clock.Period).
			Msg("period time expired, clock stopped")
		dirty = true
	}
	e.match.ElapsedSeconds = e.clock.Elapsed
	if removed := e.registry.Sweep(e.now()); removed > 0 {
		e.logger.Debug().
			Str("match_id", e.match.ID).
			Int("expired", removed).
			Msg("swept expired modifiers")
		dirty = true
	}
	if dirty {
		e.markDirtyLocked()
	}
}

func (e *Engine) AddExtraMinute() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return ErrMatchCompleted
	}
	e.clock.AddExtraMinute()
	e.match.ExtraMinutes = e.clock.ExtraMinutes
	e.markDirtyLocked()
	return nil
}

// AdvancePeriod moves from period 1 to period 2, snapshotting each team's
// foul total so period-2 collective fouls start from zero.
func (e *Engine) AdvancePeriod() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return ErrMatchCompleted
	}
	if e.clock.Period != 1 {
		return ErrWrongPeriod
	}
	e.ledger.SnapshotFoulBaseline(e.match.Home.ID, e.match.Away.ID)
	e.clock.AdvancePeriod()
	e.match.Period = e.clock.Period
	e.match.ElapsedSeconds = 0
	e.match.ExtraMinutes = 0
	e.logger.Info().Str("match_id", e.match.ID).Msg("second period ready")
	e.markDirtyLocked()
	return nil
}

// ApplyStat applies a signed stat delta for a rostered player and returns
// the delta actually recorded. A positive goal delta is replaced by the
// valuation policy's result; a negative goal delta always removes exactly
// one goal. Yellow and red deltas activate or revoke the matching sanction.
func (e *Engine) ApplyStat(playerID string, kind domain.StatKind, delta int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return 0, ErrMatchCompleted
	}
	if !kind.Valid() {
		return 0, ErrUnknownStat
	}
	teamID, ok := e.ledger.TeamOf(playerID)
	if !ok {
		return 0, ErrUnknownPlayer
	}
	if delta == 0 {
		return 0, nil
	}

	now := e.now()
	// A card that expired between ticks must not influence valuation.
	e.registry.Sweep(now)

	if kind == domain.StatGoal {
		if delta > 0 {
			delta = GoalValue(playerID, teamID, e.clock, e.registry, now)
		} else {
			delta = -1
		}
	}

	applied := e.ledger.Apply(playerID, kind, delta)

	switch kind {
	case domain.StatYellow, domain.StatRed:
		sanctionKind := domain.SanctionYellow
		if kind == domain.StatRed {
			sanctionKind = domain.SanctionRed
		}
		if delta > 0 {
			e.registry.ActivateSanction(playerID, teamID, sanctionKind, now)
		} else {
			e.registry.RevokeSanction(playerID, sanctionKind)
		}
	}

	e.logger.Info().
		Str("match_id", e.match.ID).
		Str("player_id", playerID).
		Str("stat", string(kind)).
		Int("applied", applied).
		Msg("stat applied")
	e.markDirtyLocked()
	return applied, nil
}

// ActivateCard puts a power card in play for a team.
func (e *Engine) ActivateCard(teamID string, cardType domain.CardType, targetPlayerID string) (domain.ActiveCard, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return domain.ActiveCard{}, ErrMatchCompleted
	}
	if teamID != e.match.Home.ID && teamID != e.match.Away.ID {
		return domain.ActiveCard{}, ErrUnknownTeam
	}
	card, err := e.registry.ActivateCard(teamID, cardType, targetPlayerID, e.now())
	if err != nil {
		return domain.ActiveCard{}, err
	}
	e.logger.Info().
		Str("match_id", e.match.ID).
		Str("team_id", teamID).
		Str("card", string(cardType)).
		Str("card_id", card.ID).
		Msg("card activated")
	e.markDirtyLocked()
	return card, nil
}

func (e *Engine) AddDirectorBonus(teamID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return ErrMatchCompleted
	}
	if teamID != e.match.Home.ID && teamID != e.match.Away.ID {
		return ErrUnknownTeam
	}
	e.ledger.AddDirectorBonus(teamID)
	e.markDirtyLocked()
	return nil
}

func (e *Engine) RemoveDirectorBonus(teamID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return ErrMatchCompleted
	}
	if teamID != e.match.Home.ID && teamID != e.match.Away.ID {
		return ErrUnknownTeam
	}
	e.ledger.RemoveDirectorBonus(teamID)
	e.markDirtyLocked()
	return nil
}

// RequestFinalize checks whether the match can finalize directly. With level
// scores it opens the shootout sub-flow instead and reports needShootout.
// Once a decided shootout exists the match can finalize again.
func (e *Engine) RequestFinalize() (needShootout bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return false, ErrMatchCompleted
	}
	if e.match.Status != domain.StatusLive {
		return false, ErrNotLive
	}
	if e.shootout != nil {
		return !e.shootout.Decided(), nil
	}
	home := e.ledger.DerivedScore(e.match.Home.ID)
	away := e.ledger.DerivedScore(e.match.Away.ID)
	if home == away {
		e.shootout = NewShootout(e.match.Home.ID, e.match.Away.ID)
		e.clock.Running = false
		e.logger.Info().
			Str("match_id", e.match.ID).
			Int("score", home).
			Msg("scores level, shootout started")
		e.markDirtyLocked()
		return true, nil
	}
	return false, nil
}

func (e *Engine) RecordShootoutAttempt(teamID string, outcome domain.AttemptOutcome) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return ErrMatchCompleted
	}
	if e.shootout == nil {
		return ErrNoShootout
	}
	if err := e.shootout.Record(teamID, outcome); err != nil {
		return err
	}
	e.markDirtyLocked()
	return nil
}

func (e *Engine) UndoShootoutAttempt() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return ErrMatchCompleted
	}
	if e.shootout == nil {
		return ErrNoShootout
	}
	if e.shootout.UndoLast() {
		e.markDirtyLocked()
	}
	return nil
}

// PrepareFinalize validates the terminal preconditions, freezes the clock,
// and returns the COMPLETED snapshot to push to the store. The engine stays
// LIVE until CommitFinalize: if the terminal push fails the operator can fix
// the problem and retry without the local state claiming the match ended.
func (e *Engine) PrepareFinalize() (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.match.Status == domain.StatusCompleted {
		return State{}, ErrMatchCompleted
	}
	if e.match.Status != domain.StatusLive {
		return State{}, ErrNotLive
	}
	home := e.ledger.DerivedScore(e.match.Home.ID)
	away := e.ledger.DerivedScore(e.match.Away.ID)
	if e.shootout == nil && home == away {
		return State{}, ErrScoresLevel
	}
	if e.shootout != nil && !e.shootout.Decided() {
		return State{}, ErrShootoutTied
	}
	e.clock.Running = false
	st := e.stateLocked()
	st.Status = domain.StatusCompleted
	st.Running = false
	st.ActiveCards = nil
	st.Sanctions = nil
	return st, nil
}

// CommitFinalize makes COMPLETED local truth after the store has
// acknowledged the terminal write. Every modifier is cleared; the match is
// immutable from here on.
func (e *Engine) CommitFinalize() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.match.Status = domain.StatusCompleted
	e.clock.Running = false
	e.registry.Clear()
	e.logger.Info().Str("match_id", e.match.ID).Msg("match completed")
}

func (e *Engine) markDirtyLocked() {
	if e.onDirty != nil {
		e.onDirty()
	}
}
