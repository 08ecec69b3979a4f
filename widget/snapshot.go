package widget

import (
	"time"

	"github.com/lixenwraith/urgency/components"
	"github.com/lixenwraith/urgency/constants"
)

// Snapshot is a value copy of the whole widget state for presentation
type Snapshot struct {
	Product Product
	Now     time.Time
	Paused  bool

	Countdown components.CountdownState
	Pulsed    bool
	Expired   bool

	Stock       components.StockLevel
	Price       components.PriceState
	Jitter      components.Cents // Visible cosmetic offset, zero when none
	Social      components.SocialProofState
	Cart        components.CartState
	MaxQuantity int

	Effects []components.EffectRecord
}

// DisplayPrice returns the effective price with the cosmetic jitter applied
func (s Snapshot) DisplayPrice() components.Cents {
	return s.Price.Effective() + s.Jitter
}

// Snapshot captures the state under the execution lock
// After Unmount the last state is still readable
func (b *BuyButton) Snapshot() Snapshot {
	var snap Snapshot
	capture := func(now time.Time) {
		snap = Snapshot{
			Product:     b.product,
			Now:         now,
			Paused:      b.clock.IsPaused(),
			Countdown:   b.countdown.State(),
			Pulsed:      b.countdown.Pulsed(),
			Expired:     b.countdown.Expired(),
			Stock:       b.stock.Level(),
			Price:       b.pricing.State(),
			Social:      b.social.State(),
			Cart:        b.cart.State(),
			MaxQuantity: b.cart.Limit(),
			Effects:     b.pool.List(),
		}
		if j := b.pricing.Jitter(); !j.At.IsZero() && now.Sub(j.At) < constants.PriceJitterDisplay {
			snap.Jitter = j.Offset
		}
		snap.Product.Variants = append([]string(nil), b.product.Variants...)
	}

	if !b.ctx.Scheduler.RunSafe(capture) {
		// Executor closed: no callback can run, read directly
		capture(b.clock.Now())
	}
	return snap
}
