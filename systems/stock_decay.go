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

// StockDecayConfig tunes the stock decay simulator
type StockDecayConfig struct {
	Interval       time.Duration
	Threshold      float64          // Draw must exceed this to reduce stock
	MaxDrop        int              // Drops are uniform in [1, MaxDrop]
	SpikeThreshold int              // Stock below this raises a scarcity spike
	SpikeMax       components.Cents // Spike nudges are uniform in [0, SpikeMax]
}

// DefaultStockDecayConfig returns the reference tuning
func DefaultStockDecayConfig() StockDecayConfig {
	return StockDecayConfig{
		Interval:       constants.StockDecayInterval,
		Threshold:      constants.DecayProbabilityThreshold,
		MaxDrop:        constants.DecayMaxDrop,
		SpikeThreshold: constants.ScarcitySpikeThreshold,
		SpikeMax:       constants.ScarcitySpikeMaxCents,
	}
}

// StockDecaySystem owns the stock level and probabilistically reduces it
type StockDecaySystem struct {
	ctx   *engine.Context
	cfg   StockDecayConfig
	level components.StockLevel

	handle    *engine.Handle
	statLevel *atomic.Int64
	statDrops *atomic.Int64
	statSpike *atomic.Int64
}

// NewStockDecaySystem creates the simulator at the initial stock level
func NewStockDecaySystem(ctx *engine.Context, cfg StockDecayConfig) *StockDecaySystem {
	if cfg.MaxDrop < 1 {
		cfg.MaxDrop = 1
	}
	if cfg.SpikeMax < 0 {
		cfg.SpikeMax = 0
	}
	s := &StockDecaySystem{
		ctx:       ctx,
		cfg:       cfg,
		level:     constants.StockInitial,
		statLevel: ctx.Status.Ints.Get("stock.level"),
		statDrops: ctx.Status.Ints.Get("stock.decay_drops"),
		statSpike: ctx.Status.Ints.Get("stock.scarcity_spikes"),
	}
	s.statLevel.Store(int64(s.level))
	return s
}

// Start registers the periodic tick
func (s *StockDecaySystem) Start() {
	if s.handle != nil {
		return
	}
	s.handle = s.ctx.Scheduler.Every(constants.TaskStockDecay, s.cfg.Interval, s.Tick)
}

// Stop cancels the periodic tick
func (s *StockDecaySystem) Stop() {
	s.handle.Cancel()
}

// Level returns the current stock snapshot
func (s *StockDecaySystem) Level() components.StockLevel {
	return s.level
}

// SetLevel overrides the stock level, clamped into the domain
func (s *StockDecaySystem) SetLevel(v int) {
	s.level = components.ClampStock(v)
	s.statLevel.Store(int64(s.level))
}

// Tick runs one decay draw
func (s *StockDecaySystem) Tick(now time.Time) {
	if s.ctx.Rand.Float64() <= s.cfg.Threshold || s.level.IsLastOne() {
		return
	}

	drop := 1 + s.ctx.Rand.IntN(s.cfg.MaxDrop)
	prev := s.level
	s.level = prev.Deduct(drop)
	s.statLevel.Store(int64(s.level))
	s.statDrops.Add(1)

	s.ctx.Emit(events.EventStockChanged, &events.StockChangedPayload{
		Previous: prev,
		Current:  s.level,
		Reason:   events.StockReasonDecay,
	})

	if int(s.level) < s.cfg.SpikeThreshold {
		nudge := components.Cents(s.ctx.Rand.IntN(int(s.cfg.SpikeMax) + 1))
		s.statSpike.Add(1)
		s.ctx.Logger.Debug("scarcity spike",
			zap.Int("stock", int(s.level)),
			zap.Stringer("nudge", nudge))
		s.ctx.Emit(events.EventScarcitySpike, &events.ScarcitySpikePayload{
			Stock: s.level,
			Nudge: nudge,
		})
	}
}

// HandleEvent deducts fulfilled purchases
func (s *StockDecaySystem) HandleEvent(ev events.GameEvent) {
	p, ok := ev.Payload.(*events.PurchasePayload)
	if !ok || !p.Fulfilled {
		return
	}
	prev := s.level
	s.level = prev.Deduct(p.Quantity)
	s.statLevel.Store(int64(s.level))
	if s.level != prev {
		s.ctx.Emit(events.EventStockChanged, &events.StockChangedPayload{
			Previous: prev,
			Current:  s.level,
			Reason:   events.StockReasonPurchase,
		})
	}
}

// EventTypes implements events.Handler
func (s *StockDecaySystem) EventTypes() []events.EventType {
	return []events.EventType{events.EventPurchaseConfirmed}
}
