package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock provides pausable engine time with pause duration tracking
// While paused, Now is frozen so no scheduled task becomes due
type PausableClock struct {
	mu sync.RWMutex

	source TimeProvider

	realStartTime time.Time // When clock was created (source time)
	epoch         time.Time // Engine time epoch

	isPaused        atomic.Bool
	pauseStartTime  time.Time     // When current pause started (source time)
	totalPausedTime time.Duration // Cumulative pause duration
}

// NewPausableClock creates a pausable clock over the wall clock
func NewPausableClock() *PausableClock {
	return NewPausableClockFrom(NewMonotonicTimeProvider())
}

// NewPausableClockFrom creates a pausable clock over an arbitrary source
// Tests pass a ManualClock to drive pause windows deterministically
func NewPausableClockFrom(source TimeProvider) *PausableClock {
	now := source.Now()
	return &PausableClock{
		source:        source,
		realStartTime: now,
		epoch:         now,
	}
}

// Now returns current engine time (affected by pause)
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.isPaused.Load() {
		return pc.epoch.Add(pc.pauseStartTime.Sub(pc.realStartTime) - pc.totalPausedTime)
	}

	elapsed := pc.source.Now().Sub(pc.realStartTime) - pc.totalPausedTime
	return pc.epoch.Add(elapsed)
}

// RealTime returns source time (unaffected by pause)
func (pc *PausableClock) RealTime() time.Time {
	return pc.source.Now()
}

// Pause stops engine time advancement, returns false if already paused
func (pc *PausableClock) Pause() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if !pc.isPaused.CompareAndSwap(false, true) {
		return false
	}
	pc.pauseStartTime = pc.source.Now()
	return true
}

// Resume continues engine time advancement, returns false if not paused
func (pc *PausableClock) Resume() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if !pc.isPaused.CompareAndSwap(true, false) {
		return false
	}
	if !pc.pauseStartTime.IsZero() {
		pc.totalPausedTime += pc.source.Now().Sub(pc.pauseStartTime)
		pc.pauseStartTime = time.Time{}
	}
	return true
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// TotalPauseDuration returns cumulative pause time including the current pause
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPausedTime
	if pc.isPaused.Load() && !pc.pauseStartTime.IsZero() {
		total += pc.source.Now().Sub(pc.pauseStartTime)
	}
	return total
}
