package systems

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/urgency/components"
	"github.com/lixenwraith/urgency/constants"
	"github.com/lixenwraith/urgency/engine"
	"github.com/lixenwraith/urgency/events"
)

// CountdownSystem decrements the urgency countdown every tick until it reaches zero
type CountdownSystem struct {
	ctx      *engine.Context
	interval time.Duration
	step     uint64 // Hundredths removed per tick

	state   components.CountdownState
	pulsed  bool
	expired bool

	handle    *engine.Handle
	statTicks *atomic.Int64
}

// NewCountdownSystem creates a countdown starting at initial, stepping once per interval
func NewCountdownSystem(ctx *engine.Context, initial components.CountdownState, interval time.Duration) *CountdownSystem {
	if interval <= 0 {
		interval = constants.CountdownTickInterval
	}
	// Each tick removes whole hundredths, so the period is truncated to match
	step := uint64(interval / (10 * time.Millisecond))
	if step == 0 {
		step = 1
	}
	interval = time.Duration(step) * 10 * time.Millisecond
	return &CountdownSystem{
		ctx:       ctx,
		interval:  interval,
		step:      step,
		state:     initial,
		expired:   initial.IsZero(),
		statTicks: ctx.Status.Ints.Get("countdown.ticks"),
	}
}

// Start registers the periodic tick, no-op when already at zero
func (s *CountdownSystem) Start() {
	if s.expired || s.handle != nil {
		return
	}
	s.handle = s.ctx.Scheduler.Every(constants.TaskCountdown, s.interval, s.Tick)
}

// Stop cancels the periodic tick
func (s *CountdownSystem) Stop() {
	s.handle.Cancel()
}

// Tick advances the countdown by one interval
// Terminal once zero: further ticks leave the state unchanged
func (s *CountdownSystem) Tick(now time.Time) {
	if s.expired {
		return
	}
	s.statTicks.Add(1)

	prev := s.state
	s.state = prev.Step(s.step)

	if !s.pulsed && !prev.AtSecondBoundary() && s.state.AtSecondBoundary() {
		s.pulsed = true
		s.ctx.Logger.Debug("urgency pulse", zap.Stringer("countdown", s.state))
		s.ctx.Emit(events.EventUrgencyPulse, &events.CountdownPayload{State: s.state})
	}

	if s.state.IsZero() {
		s.expired = true
		s.handle.Cancel()
		s.ctx.Logger.Info("countdown expired")
		s.ctx.Emit(events.EventCountdownExpired, &events.CountdownPayload{State: s.state})
	}
}

// State returns the current countdown
func (s *CountdownSystem) State() components.CountdownState {
	return s.state
}

// Pulsed reports whether the urgency pulse fired
func (s *CountdownSystem) Pulsed() bool {
	return s.pulsed
}

// Expired reports the terminal state
func (s *CountdownSystem) Expired() bool {
	return s.expired
}
