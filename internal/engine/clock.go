package engine

import "futkings-live/internal/constants"

// Clock tracks elapsed seconds within the current period. It is a plain
// counter advanced by the owning Engine once per wall-clock second; it never
// reads the system time itself.
type Clock struct {
	BaseMinutes  int
	Period       int
	Elapsed      int
	ExtraMinutes int
	Running      bool
}

func NewClock(baseMinutes int) *Clock {
	if baseMinutes <= 0 {
		baseMinutes = constants.DefaultPeriodMinutes
	}
	return &Clock{BaseMinutes: baseMinutes, Period: 1}
}

// BaseSeconds is the nominal period length, ignoring operator extra time.
func (c *Clock) BaseSeconds() int {
	return c.BaseMinutes * 60
}

// MaxSeconds is the hard cap for the current period, including extra time.
func (c *Clock) MaxSeconds() int {
	return (c.BaseMinutes + c.ExtraMinutes) * 60
}

// Tick advances the clock by one second while running. Reaching the cap
// clamps Elapsed and forces the clock to stop; Tick reports whether that
// stop happened on this call.
func (c *Clock) Tick() (stopped bool) {
	if !c.Running {
		return false
	}
	if c.Elapsed+1 >= c.MaxSeconds() {
		c.Elapsed = c.MaxSeconds()
		c.Running = false
		return true
	}
	c.Elapsed++
	return false
}

func (c *Clock) AddExtraMinute() {
	c.ExtraMinutes++
}

// AdvancePeriod moves to period 2 and resets the per-period counters. The
// caller is responsible for checking Period == 1 first.
func (c *Clock) AdvancePeriod() {
	c.Period = 2
	c.Elapsed = 0
	c.ExtraMinutes = 0
	c.Running = false
}

// InFinalWindow reports whether the clock sits inside the closing stretch of
// regulation play: [base-120, base). Extra time does not widen the window.
func (c *Clock) InFinalWindow() bool {
	base := c.BaseSeconds()
	return c.Elapsed >= base-constants.FinalWindowSeconds && c.Elapsed < base
}
