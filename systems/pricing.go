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

// PricingConfig tunes the dynamic pricing engine
type PricingConfig struct {
	Interval       time.Duration
	ClimbCeiling   int     // Climb branch is possible at or below this stock
	ClimbThreshold float64 // Second draw must exceed this to climb
	ClimbScale     float64 // Maximum climb is ClimbScale * scarcity factor, in currency units
	JitterMax      components.Cents
}

// DefaultPricingConfig returns the reference tuning
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		Interval:       constants.PricingInterval,
		ClimbCeiling:   constants.PricingClimbStockCeiling,
		ClimbThreshold: constants.PricingClimbThreshold,
		ClimbScale:     constants.PricingClimbScale,
		JitterMax:      constants.PricingJitterMaxCents,
	}
}

// PriceJitter is the last cosmetic flicker, never folded into the price
type PriceJitter struct {
	Offset components.Cents
	At     time.Time
}

// PricingSystem owns the price state
// Climb ticks and scarcity spikes only ever add to the increment; jitter ticks touch presentation only
type PricingSystem struct {
	ctx   *engine.Context
	cfg   PricingConfig
	stock func() components.StockLevel

	state  components.PriceState
	jitter PriceJitter

	handle     *engine.Handle
	statInc    *atomic.Int64
	statClimbs *atomic.Int64
	statJitter *atomic.Int64
}

// NewPricingSystem creates the engine reading stock through the given snapshot accessor
func NewPricingSystem(ctx *engine.Context, cfg PricingConfig, base components.Cents, stock func() components.StockLevel) *PricingSystem {
	if cfg.JitterMax < 0 {
		cfg.JitterMax = 0
	}
	return &PricingSystem{
		ctx:        ctx,
		cfg:        cfg,
		stock:      stock,
		state:      components.PriceState{Base: base},
		statInc:    ctx.Status.Ints.Get("price.increment_cents"),
		statClimbs: ctx.Status.Ints.Get("price.climbs"),
		statJitter: ctx.Status.Ints.Get("price.jitters"),
	}
}

// Start registers the periodic tick
func (s *PricingSystem) Start() {
	if s.handle != nil {
		return
	}
	s.handle = s.ctx.Scheduler.Every(constants.TaskPricing, s.cfg.Interval, s.Tick)
}

// Stop cancels the periodic tick
func (s *PricingSystem) Stop() {
	s.handle.Cancel()
}

// State returns the current price snapshot
func (s *PricingSystem) State() components.PriceState {
	return s.state
}

// Jitter returns the last cosmetic offset
func (s *PricingSystem) Jitter() PriceJitter {
	return s.jitter
}

// SetBase sets the catalog base price, the increment is kept
func (s *PricingSystem) SetBase(base components.Cents) {
	s.state.Base = base
}

// Tick branches on the latest stock snapshot: climb or jitter
func (s *PricingSystem) Tick(now time.Time) {
	stock := s.stock()

	if int(stock) <= s.cfg.ClimbCeiling && s.ctx.Rand.Float64() > s.cfg.ClimbThreshold {
		maxUnits := s.cfg.ClimbScale * stock.ScarcityFactor()
		delta := components.CentsFromUnits(s.ctx.Rand.Float64() * maxUnits)
		s.climb(delta, stock, false)
		return
	}

	var offset components.Cents
	if s.cfg.JitterMax > 0 {
		span := int(s.cfg.JitterMax)
		offset = components.Cents(s.ctx.Rand.IntN(2*span+1) - span)
	}
	s.jitter = PriceJitter{Offset: offset, At: now}
	s.statJitter.Add(1)
	s.ctx.Emit(events.EventPriceJitter, &events.PriceJitterPayload{Offset: offset})
}

func (s *PricingSystem) climb(delta components.Cents, stock components.StockLevel, spike bool) {
	if delta < 0 {
		delta = 0
	}
	s.state.CumulativeIncrement += delta
	s.statInc.Store(int64(s.state.CumulativeIncrement))
	s.statClimbs.Add(1)

	s.ctx.Emit(events.EventPriceClimb, &events.PriceChangePayload{
		Delta:     delta,
		Increment: s.state.CumulativeIncrement,
		Stock:     stock,
		Spike:     spike,
	})
}

// HandleEvent applies scarcity spikes raised by the stock decay simulator
func (s *PricingSystem) HandleEvent(ev events.GameEvent) {
	p, ok := ev.Payload.(*events.ScarcitySpikePayload)
	if !ok {
		return
	}
	s.ctx.Logger.Debug("applying scarcity spike",
		zap.Stringer("nudge", p.Nudge),
		zap.Stringer("increment", s.state.CumulativeIncrement))
	s.climb(p.Nudge, p.Stock, true)
}

// EventTypes implements events.Handler
func (s *PricingSystem) EventTypes() []events.EventType {
	return []events.EventType{events.EventScarcitySpike}
}
