package engine

import (
	"errors"
	"testing"
	"time"

	"futkings-live/internal/domain"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestMatch(status domain.MatchStatus) *domain.Match {
	scheduled := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	return &domain.Match{
		ID:              "m1",
		Home:            domain.Team{ID: "team-a", Name: "Reds"},
		Away:            domain.Team{ID: "team-b", Name: "Blues"},
		Players:         testPlayers(),
		Period:          1,
		Status:          status,
		DurationMinutes: 20,
		ScheduledAt:     &scheduled,
	}
}

func newTestEngine(status domain.MatchStatus, clock *fakeClock) *Engine {
	return New(newTestMatch(status), WithNow(clock.Now))
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)}
}

func TestStartRequiresScheduleTimestamp(t *testing.T) {
	m := newTestMatch(domain.StatusScheduled)
	m.ScheduledAt = nil
	e := New(m)

	if err := e.Start(); !errors.Is(err, ErrMissingSchedule) {
		t.Fatalf("err = %v, want ErrMissingSchedule", err)
	}
	if st := e.State(); st.Status != domain.StatusScheduled {
		t.Fatalf("status = %s after failed start", st.Status)
	}
}

func TestStartTransitionsToLive(t *testing.T) {
	e := newTestEngine(domain.StatusScheduled, newFakeClock())

	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	st := e.State()
	if st.Status != domain.StatusLive {
		t.Fatalf("status = %s, want LIVE", st.Status)
	}
	if !st.Running {
		t.Fatal("clock not running after start")
	}
}

func TestPauseResume(t *testing.T) {
	e := newTestEngine(domain.StatusScheduled, newFakeClock())

	if err := e.Pause(); !errors.Is(err, ErrNotLive) {
		t.Fatalf("pause before live: err = %v, want ErrNotLive", err)
	}

	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	if err := e.Pause(); err != nil {
		t.Fatal(err)
	}
	if e.State().Running {
		t.Fatal("clock running after pause")
	}
	if err := e.Resume(); err != nil {
		t.Fatal(err)
	}
	if !e.State().Running {
		t.Fatal("clock paused after resume")
	}
}

func TestTickAdvancesClockWhileLive(t *testing.T) {
	e := newTestEngine(domain.StatusScheduled, newFakeClock())
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		e.Tick()
	}
	if got := e.State().ElapsedSeconds; got != 3 {
		t.Fatalf("elapsed = %d, want 3", got)
	}

	if err := e.Pause(); err != nil {
		t.Fatal(err)
	}
	e.Tick()
	if got := e.State().ElapsedSeconds; got != 3 {
		t.Fatalf("elapsed advanced while paused: %d", got)
	}
}

func TestTickSweepsExpiredCardsAndMarksDirty(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(domain.StatusScheduled, clock)
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}

	dirty := 0
	e.SetOnDirty(func() { dirty++ })

	if _, err := e.ActivateCard("team-a", domain.CardDoubleGoal, ""); err != nil {
		t.Fatal(err)
	}
	if got := len(e.State().ActiveCards); got != 1 {
		t.Fatalf("active cards = %d, want 1", got)
	}

	dirtyBefore := dirty
	clock.Advance(121 * time.Second)
	e.Tick()

	if got := len(e.State().ActiveCards); got != 0 {
		t.Fatalf("active cards after expiry = %d, want 0", got)
	}
	if dirty <= dirtyBefore {
		t.Fatal("modifier expiry did not mark state dirty")
	}
}

func TestApplyStatGoalUsesValuation(t *testing.T) {
	clock := newFakeClock()
	m := newTestMatch(domain.StatusLive)
	m.ElapsedSeconds = 300 // outside the final window
	e := New(m, WithNow(clock.Now))

	if _, err := e.ActivateCard("team-a", domain.CardDoubleGoal, ""); err != nil {
		t.Fatal(err)
	}

	applied, err := e.ApplyStat("p1", domain.StatGoal, 1)
	if err != nil {
		t.Fatal(err)
	}
	if applied != 2 {
		t.Fatalf("applied = %d, want 2", applied)
	}
	if got := e.State().HomeScore; got != 2 {
		t.Fatalf("home score = %d, want 2", got)
	}
}

func TestApplyStatGoalExpiredCardIsWorthOne(t *testing.T) {
	clock := newFakeClock()
	m := newTestMatch(domain.StatusLive)
	m.ElapsedSeconds = 300
	e := New(m, WithNow(clock.Now))

	if _, err := e.ActivateCard("team-a", domain.CardDoubleGoal, ""); err != nil {
		t.Fatal(err)
	}
	clock.Advance(120 * time.Second)

	applied, err := e.ApplyStat("p1", domain.StatGoal, 1)
	if err != nil {
		t.Fatal(err)
	}
	if applied != 1 {
		t.Fatalf("applied = %d, want 1 once the card lapsed", applied)
	}
}

func TestApplyStatGoalUndoIsAlwaysSingle(t *testing.T) {
	clock := newFakeClock()
	m := newTestMatch(domain.StatusLive)
	m.ElapsedSeconds = 18 * 60 // final window: +1 records 2
	e := New(m, WithNow(clock.Now))

	if applied, _ := e.ApplyStat("p1", domain.StatGoal, 1); applied != 2 {
		t.Fatalf("applied = %d, want 2 in final window", applied)
	}

	applied, err := e.ApplyStat("p1", domain.StatGoal, -1)
	if err != nil {
		t.Fatal(err)
	}
	if applied != -1 {
		t.Fatalf("undo applied = %d, want -1", applied)
	}
	if got := e.State().Stats["p1"].Goals; got != 1 {
		t.Fatalf("goals = %d, want 1", got)
	}
}

func TestApplyStatGoalDecrementAtZeroIsNoop(t *testing.T) {
	e := newTestEngine(domain.StatusLive, newFakeClock())

	applied, err := e.ApplyStat("p1", domain.StatGoal, -1)
	if err != nil {
		t.Fatal(err)
	}
	if applied != 0 {
		t.Fatalf("applied = %d, want 0", applied)
	}
	if got := e.State().Stats["p1"].Goals; got != 0 {
		t.Fatalf("goals = %d, want 0", got)
	}
}

func TestApplyStatYellowManagesSanctionsLIFO(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(domain.StatusLive, clock)

	if _, err := e.ApplyStat("p1", domain.StatYellow, 1); err != nil {
		t.Fatal(err)
	}
	firstID := e.State().Sanctions[0].ID

	clock.Advance(10 * time.Second)
	if _, err := e.ApplyStat("p1", domain.StatYellow, 1); err != nil {
		t.Fatal(err)
	}
	if got := len(e.State().Sanctions); got != 2 {
		t.Fatalf("sanctions = %d, want 2", got)
	}

	if _, err := e.ApplyStat("p1", domain.StatYellow, -1); err != nil {
		t.Fatal(err)
	}
	remaining := e.State().Sanctions
	if len(remaining) != 1 {
		t.Fatalf("sanctions after undo = %d, want 1", len(remaining))
	}
	if remaining[0].ID != firstID {
		t.Fatal("undo removed the oldest sanction instead of the newest")
	}
	if got := e.State().Stats["p1"].YellowCards; got != 1 {
		t.Fatalf("yellow cards = %d, want 1", got)
	}
}

func TestApplyStatRejectsUnknownPlayerAndKind(t *testing.T) {
	e := newTestEngine(domain.StatusLive, newFakeClock())

	if _, err := e.ApplyStat("stranger", domain.StatGoal, 1); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("err = %v, want ErrUnknownPlayer", err)
	}
	if _, err := e.ApplyStat("p1", domain.StatKind("OWN_GOAL"), 1); !errors.Is(err, ErrUnknownStat) {
		t.Fatalf("err = %v, want ErrUnknownStat", err)
	}
}

func TestAdvancePeriodSnapshotsFoulBaseline(t *testing.T) {
	e := newTestEngine(domain.StatusLive, newFakeClock())

	for i := 0; i < 3; i++ {
		if _, err := e.ApplyStat("p1", domain.StatFoul, 1); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.AdvancePeriod(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := e.ApplyStat("p2", domain.StatFoul, 1); err != nil {
			t.Fatal(err)
		}
	}

	st := e.State()
	if st.Period != 2 {
		t.Fatalf("period = %d, want 2", st.Period)
	}
	if st.ElapsedSeconds != 0 || st.ExtraMinutes != 0 {
		t.Fatalf("clock not reset: %d/%d", st.ElapsedSeconds, st.ExtraMinutes)
	}
	if st.HomeCollectiveFouls != 2 {
		t.Fatalf("collective fouls = %d, want 2", st.HomeCollectiveFouls)
	}

	if err := e.AdvancePeriod(); !errors.Is(err, ErrWrongPeriod) {
		t.Fatalf("second advance: err = %v, want ErrWrongPeriod", err)
	}
}

func TestRequestFinalizeWithLevelScoresOpensShootout(t *testing.T) {
	e := newTestEngine(domain.StatusLive, newFakeClock())
	if _, err := e.ApplyStat("p1", domain.StatGoal, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ApplyStat("p3", domain.StatGoal, 1); err != nil {
		t.Fatal(err)
	}

	needShootout, err := e.RequestFinalize()
	if err != nil {
		t.Fatal(err)
	}
	if !needShootout {
		t.Fatal("level scores did not open a shootout")
	}

	if _, err := e.PrepareFinalize(); !errors.Is(err, ErrShootoutTied) {
		t.Fatalf("err = %v, want ErrShootoutTied", err)
	}

	for _, a := range []struct {
		team    string
		outcome domain.AttemptOutcome
	}{
		{"team-a", domain.AttemptGoal},
		{"team-a", domain.AttemptMiss},
		{"team-a", domain.AttemptGoal},
		{"team-b", domain.AttemptMiss},
		{"team-b", domain.AttemptGoal},
		{"team-b", domain.AttemptMiss},
	} {
		if err := e.RecordShootoutAttempt(a.team, a.outcome); err != nil {
			t.Fatal(err)
		}
	}

	st, err := e.PrepareFinalize()
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != domain.StatusCompleted {
		t.Fatalf("prepared status = %s, want COMPLETED", st.Status)
	}
	if st.Shootout == nil || st.Shootout.HomeScore != 2 || st.Shootout.AwayScore != 1 {
		t.Fatalf("shootout state = %+v", st.Shootout)
	}
}

func TestRequestFinalizeAfterDecidedShootout(t *testing.T) {
	e := newTestEngine(domain.StatusLive, newFakeClock())

	needShootout, err := e.RequestFinalize()
	if err != nil {
		t.Fatal(err)
	}
	if !needShootout {
		t.Fatal("level scores did not open a shootout")
	}

	// Still level: a repeated finalize request keeps waiting on the shootout.
	if err := e.RecordShootoutAttempt("team-a", domain.AttemptGoal); err != nil {
		t.Fatal(err)
	}
	if err := e.RecordShootoutAttempt("team-b", domain.AttemptGoal); err != nil {
		t.Fatal(err)
	}
	if needShootout, err = e.RequestFinalize(); err != nil || !needShootout {
		t.Fatalf("tied shootout: needShootout/err = %v/%v, want true/nil", needShootout, err)
	}

	if err := e.RecordShootoutAttempt("team-a", domain.AttemptGoal); err != nil {
		t.Fatal(err)
	}
	if err := e.RecordShootoutAttempt("team-b", domain.AttemptMiss); err != nil {
		t.Fatal(err)
	}

	// Decided: the next finalize request must proceed instead of re-opening
	// the shootout.
	needShootout, err = e.RequestFinalize()
	if err != nil {
		t.Fatal(err)
	}
	if needShootout {
		t.Fatal("decided shootout still reported as pending")
	}
	if _, err := e.PrepareFinalize(); err != nil {
		t.Fatalf("finalize after decided shootout: %v", err)
	}
}

func TestRequestFinalizeWithDifferentScores(t *testing.T) {
	e := newTestEngine(domain.StatusLive, newFakeClock())
	if _, err := e.ApplyStat("p1", domain.StatGoal, 1); err != nil {
		t.Fatal(err)
	}

	needShootout, err := e.RequestFinalize()
	if err != nil {
		t.Fatal(err)
	}
	if needShootout {
		t.Fatal("different scores opened a shootout")
	}
}

func TestPrepareFinalizeRejectsLevelScores(t *testing.T) {
	e := newTestEngine(domain.StatusLive, newFakeClock())
	if _, err := e.PrepareFinalize(); !errors.Is(err, ErrScoresLevel) {
		t.Fatalf("err = %v, want ErrScoresLevel", err)
	}
}

func TestFailedFinalizeLeavesMatchMutable(t *testing.T) {
	e := newTestEngine(domain.StatusLive, newFakeClock())
	if _, err := e.ApplyStat("p1", domain.StatGoal, 1); err != nil {
		t.Fatal(err)
	}

	if _, err := e.PrepareFinalize(); err != nil {
		t.Fatal(err)
	}
	// Simulates a rejected terminal push: no commit happened.
	if _, err := e.ApplyStat("p1", domain.StatAssist, 1); err != nil {
		t.Fatalf("match immutable without commit: %v", err)
	}
	if st := e.State(); st.Status != domain.StatusLive {
		t.Fatalf("status = %s, want LIVE", st.Status)
	}
}

func TestCommitFinalizeMakesMatchImmutable(t *testing.T) {
	e := newTestEngine(domain.StatusLive, newFakeClock())
	if _, err := e.ApplyStat("p1", domain.StatGoal, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ActivateCard("team-a", domain.CardDoubleGoal, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := e.PrepareFinalize(); err != nil {
		t.Fatal(err)
	}
	e.CommitFinalize()

	st := e.State()
	if st.Status != domain.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", st.Status)
	}
	if len(st.ActiveCards) != 0 {
		t.Fatal("cards survived finalization")
	}

	if _, err := e.ApplyStat("p1", domain.StatGoal, 1); !errors.Is(err, ErrMatchCompleted) {
		t.Fatalf("stat on completed match: err = %v", err)
	}
	if _, err := e.ActivateCard("team-a", domain.CardDoubleGoal, ""); !errors.Is(err, ErrMatchCompleted) {
		t.Fatalf("card on completed match: err = %v", err)
	}
	if err := e.Start(); !errors.Is(err, ErrMatchCompleted) {
		t.Fatalf("start on completed match: err = %v", err)
	}
	if err := e.AddExtraMinute(); !errors.Is(err, ErrMatchCompleted) {
		t.Fatalf("extra minute on completed match: err = %v", err)
	}
	if err := e.AddDirectorBonus("team-a"); !errors.Is(err, ErrMatchCompleted) {
		t.Fatalf("director bonus on completed match: err = %v", err)
	}
}

func TestDirectorBonusCountsTowardScore(t *testing.T) {
	e := newTestEngine(domain.StatusLive, newFakeClock())

	if err := e.AddDirectorBonus("team-b"); err != nil {
		t.Fatal(err)
	}
	if got := e.State().AwayScore; got != 1 {
		t.Fatalf("away score = %d, want 1", got)
	}

	if err := e.RemoveDirectorBonus("team-b"); err != nil {
		t.Fatal(err)
	}
	if err := e.RemoveDirectorBonus("team-b"); err != nil {
		t.Fatal(err)
	}
	if got := e.State().AwayScore; got != 0 {
		t.Fatalf("away score floored = %d, want 0", got)
	}
}

func TestShootoutOpsRequireShootout(t *testing.T) {
	e := newTestEngine(domain.StatusLive, newFakeClock())

	if err := e.RecordShootoutAttempt("team-a", domain.AttemptGoal); !errors.Is(err, ErrNoShootout) {
		t.Fatalf("err = %v, want ErrNoShootout", err)
	}
	if err := e.UndoShootoutAttempt(); !errors.Is(err, ErrNoShootout) {
		t.Fatalf("err = %v, want ErrNoShootout", err)
	}
}
