package systems

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lixenwraith/urgency/components"
	"github.com/lixenwraith/urgency/constants"
	"github.com/lixenwraith/urgency/engine"
	"github.com/lixenwraith/urgency/events"
)

// CartAnchors are the widget-space origins of effects requested by the controller
type CartAnchors struct {
	Quantity components.Position
	Button   components.Position
	Favorite components.Position
	Share    components.Position
}

// DefaultCartAnchors matches the reference presenter layout
func DefaultCartAnchors() CartAnchors {
	return CartAnchors{
		Quantity: components.Position{X: 12, Y: 6},
		Button:   components.Position{X: 20, Y: 9},
		Favorite: components.Position{X: 36, Y: 1},
		Share:    components.Position{X: 30, Y: 1},
	}
}

// PurchaseOutcome is the result of ConfirmPurchase
type PurchaseOutcome struct {
	ID        uuid.UUID
	Quantity  int
	Variant   string
	UnitPrice components.Cents
	Fulfilled bool
	Available components.StockLevel
}

// CartSystem owns the quantity selector, variant, favorite flag and cart contents
type CartSystem struct {
	ctx      *engine.Context
	anchors  CartAnchors
	stock    func() components.StockLevel
	price    func() components.Cents
	variants []string

	state components.CartState

	statRejected  *atomic.Int64
	statPurchases *atomic.Int64
	statMismatch  *atomic.Int64
}

// NewCartSystem creates the controller at quantity 1 with the first variant selected
func NewCartSystem(ctx *engine.Context, anchors CartAnchors, variants []string, stock func() components.StockLevel, price func() components.Cents) *CartSystem {
	s := &CartSystem{
		ctx:           ctx,
		anchors:       anchors,
		stock:         stock,
		price:         price,
		variants:      append([]string(nil), variants...),
		state:         components.CartState{Quantity: constants.QuantityMin},
		statRejected:  ctx.Status.Ints.Get("cart.rejected"),
		statPurchases: ctx.Status.Ints.Get("cart.purchases"),
		statMismatch:  ctx.Status.Ints.Get("cart.mismatches"),
	}
	if len(s.variants) > 0 {
		s.state.Variant = s.variants[0]
	}
	return s
}

// State returns the cart snapshot
func (s *CartSystem) State() components.CartState {
	return s.state
}

// Limit returns the active upper quantity bound
func (s *CartSystem) Limit() int {
	return components.MaxQuantity(s.stock())
}

// Increment raises quantity by one when below min(QuantityMax, stock)
func (s *CartSystem) Increment() bool {
	limit := s.Limit()
	if s.state.Quantity >= limit {
		s.reject(events.QuantityIncrement, limit)
		return false
	}
	s.change(events.QuantityIncrement, s.state.Quantity+1, limit)
	return true
}

// Decrement lowers quantity by one when above QuantityMin
func (s *CartSystem) Decrement() bool {
	if s.state.Quantity <= constants.QuantityMin {
		s.reject(events.QuantityDecrement, constants.QuantityMin)
		return false
	}
	s.change(events.QuantityDecrement, s.state.Quantity-1, constants.QuantityMin)
	return true
}

func (s *CartSystem) change(op events.QuantityOp, next, limit int) {
	prev := s.state.Quantity
	s.state.Quantity = next
	s.ctx.Emit(events.EventQuantityChanged, &events.QuantityPayload{
		Op:       op,
		Previous: prev,
		Current:  next,
		Limit:    limit,
	})
	if op == events.QuantityIncrement || op == events.QuantityDecrement {
		s.requestEffect(components.EffectParticle, s.anchors.Quantity, 1)
	}
}

func (s *CartSystem) reject(op events.QuantityOp, limit int) {
	s.statRejected.Add(1)
	s.ctx.Emit(events.EventQuantityRejected, &events.QuantityPayload{
		Op:       op,
		Previous: s.state.Quantity,
		Current:  s.state.Quantity,
		Limit:    limit,
	})
}

// ConfirmPurchase requests q items against the current stock snapshot
// Quantities below one are ignored and return a zero outcome
func (s *CartSystem) ConfirmPurchase(q int) PurchaseOutcome {
	if q < constants.QuantityMin {
		return PurchaseOutcome{}
	}

	available := s.stock()
	out := PurchaseOutcome{
		ID:        uuid.New(),
		Quantity:  q,
		Variant:   s.state.Variant,
		UnitPrice: s.price(),
		Fulfilled: q <= int(available),
		Available: available,
	}

	if out.Fulfilled {
		s.state.ItemsInCart += q
		s.statPurchases.Add(1)
		s.toast(events.ToastSuccess, fmt.Sprintf("Added %d to cart", q))
	} else {
		s.statMismatch.Add(1)
		s.ctx.Logger.Info("purchase exceeds stock",
			zap.Stringer("id", out.ID),
			zap.Int("requested", q),
			zap.Int("available", int(available)))
		s.ctx.Emit(events.EventPurchaseMismatch, &events.PurchaseMismatchPayload{
			ID:        out.ID,
			Requested: q,
			Available: available,
		})
		s.toast(events.ToastWarning, fmt.Sprintf("Only %d left in stock", available))
	}

	s.ctx.Emit(events.EventPurchaseConfirmed, &events.PurchasePayload{
		ID:        out.ID,
		Quantity:  q,
		Variant:   out.Variant,
		UnitPrice: out.UnitPrice,
		Fulfilled: out.Fulfilled,
	})

	burst := constants.PurchaseBurstMin + s.ctx.Rand.IntN(constants.PurchaseBurstMax-constants.PurchaseBurstMin+1)
	s.requestEffect(components.EffectConfetti, s.anchors.Button, burst)
	return out
}

// ChangeVariant selects a variant and resets quantity to the minimum
// Unknown variants are ignored when the product declares a variant list
func (s *CartSystem) ChangeVariant(v string) bool {
	if len(s.variants) > 0 && !s.hasVariant(v) {
		return false
	}
	if v == s.state.Variant {
		return false
	}
	prev := s.state.Variant
	s.state.Variant = v
	s.ctx.Emit(events.EventVariantChanged, &events.VariantPayload{Previous: prev, Current: v})

	if s.state.Quantity != constants.QuantityMin {
		s.change(events.QuantityReset, constants.QuantityMin, constants.QuantityMin)
	}
	return true
}

func (s *CartSystem) hasVariant(v string) bool {
	for _, known := range s.variants {
		if known == v {
			return true
		}
	}
	return false
}

// ToggleFavorite flips the favorite flag, floating hearts follow a favorite
func (s *CartSystem) ToggleFavorite() bool {
	s.state.Favorite = !s.state.Favorite
	s.ctx.Emit(events.EventFavoriteToggled, &events.FavoritePayload{Favorite: s.state.Favorite})
	if s.state.Favorite {
		s.requestEffect(components.EffectFloatingHeart, s.anchors.Favorite, constants.FavoriteHeartCount)
	}
	return s.state.Favorite
}

// Share requests a toast and a bubble burst
func (s *CartSystem) Share() {
	s.ctx.Emit(events.EventShareRequested, nil)
	s.toast(events.ToastInfo, "Link copied to clipboard")
	s.requestEffect(components.EffectBubble, s.anchors.Share, constants.ShareBubbleCount)
}

func (s *CartSystem) toast(kind events.ToastKind, msg string) {
	s.ctx.Emit(events.EventToastRequest, &events.ToastPayload{Kind: kind, Message: msg})
}

func (s *CartSystem) requestEffect(kind components.EffectKind, origin components.Position, n int) {
	s.ctx.Emit(events.EventEffectRequest, &events.EffectRequestPayload{
		Kind:   kind,
		Origin: origin,
		Count:  n,
	})
}

// HandleEvent clamps quantity when stock falls below it
func (s *CartSystem) HandleEvent(ev events.GameEvent) {
	p, ok := ev.Payload.(*events.StockChangedPayload)
	if !ok {
		return
	}
	limit := components.MaxQuantity(p.Current)
	if limit < constants.QuantityMin {
		limit = constants.QuantityMin
	}
	if s.state.Quantity > limit {
		s.change(events.QuantityClamp, limit, limit)
	}
}

// EventTypes implements events.Handler
func (s *CartSystem) EventTypes() []events.EventType {
	return []events.EventType{events.EventStockChanged}
}
