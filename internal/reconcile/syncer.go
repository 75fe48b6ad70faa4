package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"futkings-live/internal/api"
	"futkings-live/internal/constants"
	"futkings-live/internal/domain"
	"futkings-live/internal/engine"
)

// Source is the live truth the syncer reads at push time. Handing the syncer
// the engine itself (rather than a captured snapshot) means a push can never
// transmit stale state.
type Source interface {
	State() engine.State
}

// Store is the persistence boundary. Implemented by api.StoreClient.
type Store interface {
	PutMatch(ctx context.Context, matchID string, payload api.PutMatchRequest) error
}

// Syncer keeps the remote store converged with local match state using a
// baseline diff: only counters changed since the last acknowledged push are
// re-sent, and the baseline advances only on acknowledgment, giving
// at-least-once delivery of every net change.
//
// Triggers: a debounced push after any local mutation (bursts of operator
// clicks collapse into one push), an unconditional periodic push while the
// match is live with a running clock, and forced blocking pushes on explicit
// save and on finalize.
type Syncer struct {
	source Source
	store  Store
	logger zerolog.Logger

	debounce time.Duration
	interval time.Duration

	mu       sync.Mutex
	baseline map[string]domain.PlayerMatchStat
	inflight bool
	pending  bool

	// pushMu serializes the actual store calls so an async push and a
	// blocking flush never race on the same baseline.
	pushMu sync.Mutex

	dirty    chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func New(source Source, store Store, logger zerolog.Logger, debounce, interval time.Duration) *Syncer {
	if debounce <= 0 {
		debounce = constants.SyncDebounce
	}
	if interval <= 0 {
		interval = constants.LiveSyncInterval
	}
	return &Syncer{
		source:   source,
		store:    store,
		logger:   logger,
		debounce: debounce,
		interval: interval,
		baseline: make(map[string]domain.PlayerMatchStat),
		dirty:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// SeedBaseline sets the acknowledged snapshot, exactly once at match load,
// so the first diff only carries changes made after loading.
func (s *Syncer) SeedBaseline(stats map[string]domain.PlayerMatchStat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseline = make(map[string]domain.PlayerMatchStat, len(stats))
	for id, line := range stats {
		s.baseline[id] = line
	}
}

// MarkDirty schedules a debounced push. Never blocks; extra signals while
// one is queued are coalesced.
func (s *Syncer) MarkDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// Run drives the debounce and periodic triggers until Stop. Run on its own
// goroutine.
func (s *Syncer) Run() {
	timer := time.NewTimer(s.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			timer.Stop()
			return
		case <-s.dirty:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.debounce)
		case <-timer.C:
			s.pushAsync()
		case <-ticker.C:
			st := s.source.State()
			if st.Status == domain.StatusLive && st.Running {
				s.pushAsync()
			}
		}
	}
}

// Stop cancels the sync timers for this match instance.
func (s *Syncer) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

// Flush performs a forced, blocking push and surfaces the error to the
// caller; used for explicit operator saves.
func (s *Syncer) Flush(ctx context.Context) error {
	return s.PushState(ctx, s.source.State())
}

// PushState pushes a specific snapshot, blocking. Finalize uses it with the
// prepared COMPLETED state so the terminal write is acknowledged before the
// engine commits.
func (s *Syncer) PushState(ctx context.Context, st engine.State) error {
	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	s.mu.Lock()
	events := computeDiff(s.baseline, st.Stats)
	s.mu.Unlock()

	req := buildRequest(st, events)
	if err := s.store.PutMatch(ctx, st.MatchID, req); err != nil {
		return err
	}

	// Acknowledged: these increments are never sent again.
	s.mu.Lock()
	for id, line := range st.Stats {
		s.baseline[id] = line
	}
	s.mu.Unlock()

	s.logger.Debug().
		Str("match_id", st.MatchID).
		Int("events", len(events)).
		Int("active_cards", len(st.ActiveCards)).
		Msg("state pushed")
	return nil
}

// pushAsync runs one push off the trigger goroutine with an in-flight
// guard. Overlapping triggers queue at most one follow-up push rather than
// issuing concurrent conflicting pushes for the same baseline.
func (s *Syncer) pushAsync() {
	s.mu.Lock()
	if s.inflight {
		s.pending = true
		s.mu.Unlock()
		return
	}
	s.inflight = true
	s.mu.Unlock()

	go func() {
		for {
			ctx, cancel := context.WithTimeout(context.Background(), constants.PushTimeout)
			err := s.Flush(ctx)
			cancel()
			if err != nil {
				// Transient: baseline untouched, the same diff is
				// retried on the next trigger.
				s.logger.Warn().Err(err).Msg("sync push failed, will retry")
			}

			s.mu.Lock()
			if s.pending {
				s.pending = false
				s.mu.Unlock()
				continue
			}
			s.inflight = false
			s.mu.Unlock()
			return
		}
	}()
}
