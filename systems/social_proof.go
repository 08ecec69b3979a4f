package systems

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/urgency/components"
	"github.com/lixenwraith/urgency/constants"
	"github.com/lixenwraith/urgency/engine"
	"github.com/lixenwraith/urgency/events"
)

// SocialProofSystem rotates through a catalog of social proof messages
type SocialProofSystem struct {
	ctx      *engine.Context
	interval time.Duration
	settle   time.Duration

	catalog []string
	state   components.SocialProofState

	handle       *engine.Handle
	settleHandle *engine.Handle
	statRotation *atomic.Int64
}

// NewSocialProofSystem creates the rotator showing the first catalog message
func NewSocialProofSystem(ctx *engine.Context, interval, settle time.Duration, catalog []string) *SocialProofSystem {
	if interval <= 0 {
		interval = constants.SocialProofInterval
	}
	if settle <= 0 {
		settle = constants.SocialProofSettle
	}
	s := &SocialProofSystem{
		ctx:          ctx,
		interval:     interval,
		settle:       settle,
		statRotation: ctx.Status.Ints.Get("social.rotations"),
	}
	s.SetCatalog(catalog)
	return s
}

// Start registers the periodic rotation
func (s *SocialProofSystem) Start() {
	if s.handle != nil {
		return
	}
	s.handle = s.ctx.Scheduler.Every(constants.TaskSocialProof, s.interval, s.Tick)
}

// Stop cancels the rotation and any pending settle
func (s *SocialProofSystem) Stop() {
	s.handle.Cancel()
	s.settleHandle.Cancel()
}

// SetCatalog replaces the messages, keeping the index when still in range
func (s *SocialProofSystem) SetCatalog(catalog []string) {
	s.catalog = append([]string(nil), catalog...)
	if len(s.catalog) == 0 {
		s.state.Index = -1
		s.state.Message = ""
		return
	}
	if s.state.Index < 0 || s.state.Index >= len(s.catalog) {
		s.state.Index = 0
	}
	s.state.Message = s.catalog[s.state.Index]
}

// State returns the visible message and transition flag
func (s *SocialProofSystem) State() components.SocialProofState {
	return s.state
}

// Tick picks a random message and slide direction, then schedules the settle
func (s *SocialProofSystem) Tick(now time.Time) {
	if len(s.catalog) == 0 {
		return
	}
	idx := s.ctx.Rand.IntN(len(s.catalog))
	dir := components.TransitionDirections[s.ctx.Rand.IntN(len(components.TransitionDirections))]

	s.state = components.SocialProofState{
		Index:     idx,
		Message:   s.catalog[idx],
		Direction: dir,
	}
	s.statRotation.Add(1)
	s.ctx.Emit(events.EventSocialProofRotated, &events.SocialProofPayload{State: s.state})

	s.settleHandle.Cancel()
	s.settleHandle = s.ctx.Scheduler.After(constants.TaskSocialSettle, s.settle, s.settleTransition)
}

func (s *SocialProofSystem) settleTransition(now time.Time) {
	s.settleHandle = nil
	s.state.Direction = components.DirectionNone
	s.ctx.Emit(events.EventSocialProofSettled, &events.SocialProofPayload{State: s.state})
}
