package engine

import "time"

// TimeProvider is the clock source shared by every periodic component
// Scheduler deadlines are computed against it, never against time.Now directly
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider provides the real system time with monotonic clock readings
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a new monotonic time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// pauser is implemented by clocks that can freeze engine time
type pauser interface {
	IsPaused() bool
}
