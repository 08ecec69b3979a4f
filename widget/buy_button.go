package widget

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/lixenwraith/urgency/components"
	"github.com/lixenwraith/urgency/config"
	"github.com/lixenwraith/urgency/constants"
	"github.com/lixenwraith/urgency/engine"
	"github.com/lixenwraith/urgency/events"
	"github.com/lixenwraith/urgency/systems"
)

var (
	// ErrMounted is returned when mounting twice
	ErrMounted = errors.New("widget already mounted")
	// ErrUnmounted is returned once the widget has been torn down
	ErrUnmounted = errors.New("widget unmounted")
	// ErrNotManual is returned by Advance on a real-time widget
	ErrNotManual = errors.New("widget not driven by a manual clock")
)

// BuyButton is one mounted urgency widget
//
// Every system runs on a single scheduler; user actions and snapshots go through the
// scheduler execution lock, so no two mutations ever interleave.
type BuyButton struct {
	product Product
	opts    options
	logger  *zap.Logger

	clock *engine.PausableClock
	ctx   *engine.Context

	countdown *systems.CountdownSystem
	stock     *systems.StockDecaySystem
	pricing   *systems.PricingSystem
	pool      *systems.EffectPool
	social    *systems.SocialProofSystem
	cart      *systems.CartSystem

	lastTrail time.Time

	mu        sync.Mutex
	mounted   bool
	unmounted bool
	hooks     []func() error

	statActions *atomic.Int64
}

// New builds a widget for product from cfg; nothing runs until Mount
func New(product Product, cfg *config.Config, opts ...Option) (*BuyButton, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("widget config: %w", err)
	}

	o := options{anchors: systems.DefaultCartAnchors()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.clock == nil {
		o.clock = engine.NewMonotonicTimeProvider()
	}
	if o.rand == nil {
		if cfg.Seed != 0 {
			o.rand = engine.NewSeededRand(cfg.Seed)
		} else {
			o.rand = engine.NewTimeSeededRand()
		}
	}

	logger := o.logger.With(zap.String("product", product.ID))
	clock := engine.NewPausableClockFrom(o.clock)

	ctxOpts := []engine.ContextOption{engine.WithRand(o.rand), engine.WithLogger(logger)}
	if o.status != nil {
		ctxOpts = append(ctxOpts, engine.WithStatus(o.status))
	}
	ctx := engine.NewContext(clock, ctxOpts...)

	b := &BuyButton{
		product:     product,
		opts:        o,
		logger:      logger,
		clock:       clock,
		ctx:         ctx,
		statActions: ctx.Status.Ints.Get("widget.actions"),
	}

	b.countdown = systems.NewCountdownSystem(ctx, components.NewCountdown(cfg.Countdown.Initial), cfg.Countdown.Tick)
	b.stock = systems.NewStockDecaySystem(ctx, systems.StockDecayConfig{
		Interval:       cfg.Stock.Interval,
		Threshold:      cfg.Stock.Threshold,
		MaxDrop:        cfg.Stock.MaxDrop,
		SpikeThreshold: cfg.Stock.SpikeThreshold,
		SpikeMax:       components.Cents(cfg.Stock.SpikeMaxCents),
	})
	b.pricing = systems.NewPricingSystem(ctx, systems.PricingConfig{
		Interval:       cfg.Pricing.Interval,
		ClimbCeiling:   cfg.Pricing.ClimbCeiling,
		ClimbThreshold: cfg.Pricing.ClimbThreshold,
		ClimbScale:     cfg.Pricing.ClimbScale,
		JitterMax:      components.Cents(cfg.Pricing.JitterMaxCents),
	}, product.BasePrice, b.stock.Level)
	b.pool = systems.NewEffectPool(ctx)
	b.social = systems.NewSocialProofSystem(ctx, cfg.SocialProof.Interval, cfg.SocialProof.Settle, cfg.SocialProof.Messages)
	b.cart = systems.NewCartSystem(ctx, o.anchors, product.Variants, b.stock.Level,
		func() components.Cents { return b.pricing.State().Effective() })

	// Stock deducts before the cart clamps, pricing applies spikes raised by stock
	ctx.Router.Register(b.stock)
	ctx.Router.Register(b.pricing)
	ctx.Router.Register(b.pool)
	ctx.Router.Register(b.cart)
	ctx.Router.Register(b.bridge())
	for _, h := range o.handlers {
		ctx.Router.Register(h)
	}

	return b, nil
}

// bridge forwards outbound events to the host's collaborators
// Runs inside the router dispatch, so collaborators execute under the executor lock
func (b *BuyButton) bridge() events.Handler {
	return events.HandlerFunc{
		Types: []events.EventType{
			events.EventPurchaseConfirmed,
			events.EventToastRequest,
			events.EventUrgencyPulse,
			events.EventScarcitySpike,
		},
		Fn: func(ev events.GameEvent) {
			switch p := ev.Payload.(type) {
			case *events.PurchasePayload:
				if p.Fulfilled && b.opts.checkout != nil {
					b.opts.checkout.PurchaseConfirmed(PurchaseConfirmation{
						ID:        p.ID,
						ProductID: b.product.ID,
						Quantity:  p.Quantity,
						Variant:   p.Variant,
						UnitPrice: p.UnitPrice,
					})
				}
				if b.opts.cue != nil {
					b.opts.cue.PlayPurchase(p.Fulfilled)
				}
			case *events.ToastPayload:
				if b.opts.notifier != nil {
					b.opts.notifier.Notify(Toast{Kind: p.Kind, Message: p.Message})
				}
			case *events.CountdownPayload:
				if b.opts.cue != nil {
					b.opts.cue.PlayUrgencyPulse()
				}
			case *events.ScarcitySpikePayload:
				if b.opts.cue != nil {
					b.opts.cue.PlayScarcity()
				}
			}
		},
	}
}

// Product returns the product this widget sells
func (b *BuyButton) Product() Product {
	return b.product
}

// Context exposes the engine plumbing for presenters and tests
func (b *BuyButton) Context() *engine.Context {
	return b.ctx
}

// Mount starts every periodic stream and, unless manually clocked, the real-time loop
func (b *BuyButton) Mount() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.unmounted:
		return ErrUnmounted
	case b.mounted:
		return ErrMounted
	}

	ok := b.ctx.Scheduler.RunSafe(func(time.Time) {
		b.countdown.Start()
		b.stock.Start()
		b.pricing.Start()
		b.social.Start()
	})
	if !ok {
		return ErrUnmounted
	}
	if b.opts.manual == nil {
		b.ctx.Scheduler.Start()
	}
	b.mounted = true
	b.logger.Info("widget mounted", zap.Int("pending_tasks", b.ctx.Scheduler.Pending()))
	return nil
}

// OnUnmount registers a teardown hook; hook errors are aggregated by Unmount
func (b *BuyButton) OnUnmount(fn func() error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks = append(b.hooks, fn)
}

// Unmount cancels every periodic and pending one-shot task and drops all effects
// No callback runs after Unmount returns; calling it again is a no-op
func (b *BuyButton) Unmount() error {
	b.mu.Lock()
	if b.unmounted {
		b.mu.Unlock()
		return nil
	}
	b.unmounted = true
	hooks := b.hooks
	b.hooks = nil
	b.mu.Unlock()

	b.ctx.Scheduler.Stop()

	// The executor is closed, nothing else touches the systems now
	b.countdown.Stop()
	b.stock.Stop()
	b.pricing.Stop()
	b.social.Stop()
	b.pool.Close()

	var result *multierror.Error
	for _, fn := range hooks {
		if err := fn(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	b.logger.Info("widget unmounted")
	return result.ErrorOrNil()
}

// Pause freezes the widget clock; periodic streams resume where they left off
func (b *BuyButton) Pause() bool {
	if !b.clock.Pause() {
		return false
	}
	b.ctx.Scheduler.Wake()
	return true
}

// Resume unfreezes the widget clock
func (b *BuyButton) Resume() bool {
	if !b.clock.Resume() {
		return false
	}
	b.ctx.Scheduler.Wake()
	return true
}

// Advance moves a manual clock forward, running every task that falls due
func (b *BuyButton) Advance(d time.Duration) (int, error) {
	if b.opts.manual == nil {
		return 0, ErrNotManual
	}
	b.opts.manual.Advance(d)
	return b.ctx.Scheduler.RunDue(b.clock.Now(), 0), nil
}

// act runs a user action on the executor
func (b *BuyButton) act(fn func(now time.Time)) bool {
	if !b.ctx.Scheduler.RunSafe(fn) {
		return false
	}
	b.statActions.Add(1)
	return true
}

// IncrementQuantity raises the quantity by one if the bound allows it
func (b *BuyButton) IncrementQuantity() bool {
	var ok bool
	b.act(func(time.Time) { ok = b.cart.Increment() })
	return ok
}

// DecrementQuantity lowers the quantity by one if above the minimum
func (b *BuyButton) DecrementQuantity() bool {
	var ok bool
	b.act(func(time.Time) { ok = b.cart.Decrement() })
	return ok
}

// ChangeVariant selects a product variant
func (b *BuyButton) ChangeVariant(v string) bool {
	var ok bool
	b.act(func(time.Time) { ok = b.cart.ChangeVariant(v) })
	return ok
}

// ConfirmPurchase buys the selected quantity against the current stock
func (b *BuyButton) ConfirmPurchase() (systems.PurchaseOutcome, error) {
	var out systems.PurchaseOutcome
	if !b.act(func(time.Time) { out = b.cart.ConfirmPurchase(b.cart.State().Quantity) }) {
		return out, ErrUnmounted
	}
	return out, nil
}

// ToggleFavorite flips the favorite flag and returns the new value
func (b *BuyButton) ToggleFavorite() bool {
	var fav bool
	b.act(func(time.Time) { fav = b.cart.ToggleFavorite() })
	return fav
}

// Share requests the share toast and bubbles
func (b *BuyButton) Share() bool {
	return b.act(func(time.Time) { b.cart.Share() })
}

// PointerMoved leaves a trail point at the pointer, throttled
func (b *BuyButton) PointerMoved(x, y float64) bool {
	var spawned bool
	b.act(func(now time.Time) {
		if !b.lastTrail.IsZero() && now.Sub(b.lastTrail) < constants.TrailSpawnInterval {
			return
		}
		b.lastTrail = now
		spawned = b.pool.SpawnPreset(components.EffectTrailPoint, components.Position{X: x, Y: y}, 0) != 0
	})
	return spawned
}

// SetMessages replaces the social proof catalog
func (b *BuyButton) SetMessages(msgs []string) bool {
	return b.act(func(time.Time) { b.social.SetCatalog(msgs) })
}

// Reload applies the hot-reloadable parts of cfg
func (b *BuyButton) Reload(cfg *config.Config) bool {
	if cfg == nil {
		return false
	}
	b.logger.Info("applying config reload", zap.Int("messages", len(cfg.SocialProof.Messages)))
	return b.SetMessages(cfg.SocialProof.Messages)
}
