package engine

import "time"

// Advance moves a mock clock forward by d and runs every task that became due, replaying
// all missed periodic ticks. Used by tests and headless simulation.
func Advance(s *Scheduler, clock *ManualClock, d time.Duration) int {
	return s.RunDue(clock.Advance(d), 0)
}

// AdvanceBy steps the mock clock in increments of step until d has elapsed
// Each step runs due tasks, so user code between steps observes intermediate states
func AdvanceBy(s *Scheduler, clock *ManualClock, d, step time.Duration, between func(now time.Time)) int {
	if step <= 0 {
		step = d
	}
	ran := 0
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		inc := step
		if d-elapsed < step {
			inc = d - elapsed
		}
		ran += Advance(s, clock, inc)
		if between != nil {
			between(clock.Now())
		}
	}
	return ran
}
