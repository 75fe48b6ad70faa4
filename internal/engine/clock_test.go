package engine

import "testing"

func TestClockTickIncrementsWhileRunning(t *testing.T) {
	c := NewClock(20)
	c.Running = true

	for i := 0; i < 5; i++ {
		if stopped := c.Tick(); stopped {
			t.Fatalf("unexpected stop at tick %d", i)
		}
	}
	if c.Elapsed != 5 {
		t.Fatalf("elapsed = %d, want 5", c.Elapsed)
	}
}

func TestClockTickNoopWhilePaused(t *testing.T) {
	c := NewClock(20)
	c.Elapsed = 100

	c.Tick()
	if c.Elapsed != 100 {
		t.Fatalf("paused clock advanced to %d", c.Elapsed)
	}
}

func TestClockClampsAtMaxAndStops(t *testing.T) {
	c := NewClock(20)
	c.Running = true
	c.Elapsed = c.MaxSeconds() - 1

	if stopped := c.Tick(); !stopped {
		t.Fatal("expected clock to stop at period end")
	}
	if c.Elapsed != c.MaxSeconds() {
		t.Fatalf("elapsed = %d, want %d", c.Elapsed, c.MaxSeconds())
	}
	if c.Running {
		t.Fatal("clock still running after clamp")
	}
}

func TestClockExtraMinuteExtendsCap(t *testing.T) {
	c := NewClock(20)
	c.Running = true
	c.Elapsed = 20*60 - 1

	c.AddExtraMinute()
	if stopped := c.Tick(); stopped {
		t.Fatal("clock stopped despite extra minute")
	}
	if c.MaxSeconds() != 21*60 {
		t.Fatalf("max = %d, want %d", c.MaxSeconds(), 21*60)
	}
}

func TestClockAdvancePeriodResets(t *testing.T) {
	c := NewClock(20)
	c.Running = true
	c.Elapsed = 900
	c.ExtraMinutes = 2

	c.AdvancePeriod()

	if c.Period != 2 {
		t.Fatalf("period = %d, want 2", c.Period)
	}
	if c.Elapsed != 0 || c.ExtraMinutes != 0 {
		t.Fatalf("elapsed/extra = %d/%d, want 0/0", c.Elapsed, c.ExtraMinutes)
	}
	if c.Running {
		t.Fatal("clock running after period advance")
	}
}

func TestClockFinalWindow(t *testing.T) {
	tests := []struct {
		name    string
		elapsed int
		extra   int
		want    bool
	}{
		{"well before window", 300, 0, false},
		{"one second before window", 18*60 - 1, 0, false},
		{"window opens", 18 * 60, 0, true},
		{"inside window", 19 * 60, 0, true},
		{"last second of window", 20*60 - 1, 0, true},
		{"window closes at base", 20 * 60, 0, false},
		{"extra time does not extend window", 20 * 60, 2, false},
		{"window position unchanged by extra time", 19 * 60, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock(20)
			c.Elapsed = tt.elapsed
			c.ExtraMinutes = tt.extra
			if got := c.InFinalWindow(); got != tt.want {
				t.Fatalf("InFinalWindow() at %ds = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}
}
