package systems

import (
	"testing"

	"github.com/lixenwraith/urgency/components"
	"github.com/lixenwraith/urgency/constants"
	"github.com/lixenwraith/urgency/engine"
	"github.com/lixenwraith/urgency/events"
)

func newTestCart(t *testing.T, stockLevel int) (*CartSystem, *engine.Context, *int) {
	t.Helper()
	ctx, _ := newTestContext(t, nil)
	stock, level := fixedStock(stockLevel)
	cart := NewCartSystem(ctx, DefaultCartAnchors(), []string{"black", "white"}, stock,
		func() components.Cents { return 2499 })
	return cart, ctx, level
}

// TestCartIncrementAtStockBound verifies increment is a no-op at quantity 10 with stock 10
func TestCartIncrementAtStockBound(t *testing.T) {
	cart, ctx, _ := newTestCart(t, 10)
	rec := record(ctx, events.EventQuantityRejected)

	act(t, ctx, func() {
		for i := 0; i < 9; i++ {
			cart.Increment()
		}
	})
	if cart.State().Quantity != 10 {
		t.Fatalf("Expected quantity 10, got %d", cart.State().Quantity)
	}

	var ok bool
	act(t, ctx, func() { ok = cart.Increment() })

	if ok {
		t.Error("Increment succeeded at the bound")
	}
	if cart.State().Quantity != 10 {
		t.Errorf("Expected quantity to stay 10, got %d", cart.State().Quantity)
	}
	if rec.count(events.EventQuantityRejected) != 1 {
		t.Errorf("Expected one rejection, got %d", rec.count(events.EventQuantityRejected))
	}
}

// TestCartQuantityBounds verifies quantity stays within [1, min(10, stock)]
func TestCartQuantityBounds(t *testing.T) {
	tests := []struct {
		name       string
		stock      int
		increments int
		decrements int
		want       int
	}{
		{"plenty of stock", 100, 20, 0, constants.QuantityMax},
		{"stock limited", 4, 20, 0, 4},
		{"floor", 100, 0, 5, constants.QuantityMin},
		{"up then down", 100, 5, 2, 4},
		{"last one", 1, 3, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, ctx, _ := newTestCart(t, tt.stock)
			act(t, ctx, func() {
				for i := 0; i < tt.increments; i++ {
					cart.Increment()
				}
				for i := 0; i < tt.decrements; i++ {
					cart.Decrement()
				}
			})
			if got := cart.State().Quantity; got != tt.want {
				t.Errorf("Expected quantity %d, got %d", tt.want, got)
			}
		})
	}
}

// TestCartChangeRequestsParticle verifies successful changes request a quantity particle
func TestCartChangeRequestsParticle(t *testing.T) {
	cart, ctx, _ := newTestCart(t, 100)
	rec := record(ctx, events.EventEffectRequest, events.EventQuantityChanged)

	act(t, ctx, func() {
		cart.Increment()
		cart.Decrement()
		cart.Decrement() // rejected
	})

	if rec.count(events.EventQuantityChanged) != 2 {
		t.Errorf("Expected 2 changes, got %d", rec.count(events.EventQuantityChanged))
	}
	if rec.count(events.EventEffectRequest) != 2 {
		t.Errorf("Expected 2 effect requests, got %d", rec.count(events.EventEffectRequest))
	}
	ev, _ := rec.last(events.EventEffectRequest)
	req := ev.Payload.(*events.EffectRequestPayload)
	if req.Kind != components.EffectParticle || req.Origin != DefaultCartAnchors().Quantity {
		t.Errorf("Unexpected request %+v", req)
	}
}

// TestCartPurchaseFulfilled verifies a purchase within stock fills the cart and deducts stock
func TestCartPurchaseFulfilled(t *testing.T) {
	r := engine.NewScriptedRand().PushInts(5) // burst 15
	ctx, _ := newTestContext(t, r)
	rec := record(ctx, events.EventPurchaseConfirmed, events.EventPurchaseMismatch, events.EventEffectRequest, events.EventToastRequest)

	sd := NewStockDecaySystem(ctx, DefaultStockDecayConfig())
	cart := NewCartSystem(ctx, DefaultCartAnchors(), nil, sd.Level, func() components.Cents { return 1999 })
	ctx.Router.Register(sd)
	ctx.Router.Register(cart)

	var out PurchaseOutcome
	act(t, ctx, func() { out = cart.ConfirmPurchase(3) })

	if !out.Fulfilled || out.Quantity != 3 || out.UnitPrice != 1999 {
		t.Errorf("Unexpected outcome %+v", out)
	}
	if cart.State().ItemsInCart != 3 {
		t.Errorf("Expected 3 items in cart, got %d", cart.State().ItemsInCart)
	}
	if sd.Level() != 97 {
		t.Errorf("Expected stock 97 after purchase, got %d", sd.Level())
	}
	if rec.count(events.EventPurchaseMismatch) != 0 {
		t.Error("Unexpected mismatch")
	}

	ev, _ := rec.last(events.EventPurchaseConfirmed)
	if p := ev.Payload.(*events.PurchasePayload); p.ID != out.ID || !p.Fulfilled {
		t.Errorf("Confirmation payload mismatch %+v", p)
	}

	ev, _ = rec.last(events.EventEffectRequest)
	req := ev.Payload.(*events.EffectRequestPayload)
	if req.Kind != components.EffectConfetti || req.Count != 15 {
		t.Errorf("Expected confetti burst of 15, got %+v", req)
	}
	if rec.count(events.EventToastRequest) != 1 {
		t.Errorf("Expected one toast, got %d", rec.count(events.EventToastRequest))
	}
}

// TestCartPurchaseMismatch verifies an oversized purchase is observable and not added
func TestCartPurchaseMismatch(t *testing.T) {
	cart, ctx, _ := newTestCart(t, 3)
	rec := record(ctx, events.EventPurchaseConfirmed, events.EventPurchaseMismatch, events.EventEffectRequest, events.EventToastRequest)

	var out PurchaseOutcome
	act(t, ctx, func() { out = cart.ConfirmPurchase(5) })

	if out.Fulfilled {
		t.Error("Expected unfulfilled outcome")
	}
	if out.Available != 3 {
		t.Errorf("Expected available 3, got %d", out.Available)
	}
	if cart.State().ItemsInCart != 0 {
		t.Errorf("Mismatch added %d items", cart.State().ItemsInCart)
	}

	ev, ok := rec.last(events.EventPurchaseMismatch)
	if !ok {
		t.Fatal("Expected mismatch event")
	}
	if p := ev.Payload.(*events.PurchaseMismatchPayload); p.Requested != 5 || p.Available != 3 {
		t.Errorf("Unexpected mismatch payload %+v", p)
	}

	ev, _ = rec.last(events.EventPurchaseConfirmed)
	if ev.Payload.(*events.PurchasePayload).Fulfilled {
		t.Error("Confirmation marked fulfilled")
	}

	ev, _ = rec.last(events.EventEffectRequest)
	req := ev.Payload.(*events.EffectRequestPayload)
	if req.Kind != components.EffectConfetti || req.Count < constants.PurchaseBurstMin || req.Count > constants.PurchaseBurstMax {
		t.Errorf("Expected confetti burst in range, got %+v", req)
	}

	ev, _ = rec.last(events.EventToastRequest)
	if ev.Payload.(*events.ToastPayload).Kind != events.ToastWarning {
		t.Error("Expected warning toast")
	}
}

// TestCartPurchaseIgnoresNonPositive verifies zero quantity is a no-op
func TestCartPurchaseIgnoresNonPositive(t *testing.T) {
	cart, ctx, _ := newTestCart(t, 50)
	rec := record(ctx, events.EventPurchaseConfirmed)

	act(t, ctx, func() { cart.ConfirmPurchase(0) })

	if len(rec.events) != 0 || cart.State().ItemsInCart != 0 {
		t.Error("Zero quantity purchase had effects")
	}
}

// TestCartClampOnStockDrop verifies quantity follows stock down
func TestCartClampOnStockDrop(t *testing.T) {
	cart, ctx, level := newTestCart(t, 100)
	ctx.Router.Register(cart)

	act(t, ctx, func() {
		for i := 0; i < 8; i++ {
			cart.Increment()
		}
	})

	*level = 5
	act(t, ctx, func() {
		ctx.Emit(events.EventStockChanged, &events.StockChangedPayload{Previous: 100, Current: 5})
	})

	if cart.State().Quantity != 5 {
		t.Errorf("Expected clamp to 5, got %d", cart.State().Quantity)
	}
}

// TestCartVariantFavoriteShare verifies the secondary actions
func TestCartVariantFavoriteShare(t *testing.T) {
	cart, ctx, _ := newTestCart(t, 100)
	rec := record(ctx, events.EventVariantChanged, events.EventFavoriteToggled, events.EventEffectRequest, events.EventToastRequest, events.EventShareRequested)

	if cart.State().Variant != "black" {
		t.Fatalf("Expected first variant selected, got %q", cart.State().Variant)
	}

	act(t, ctx, func() {
		cart.Increment()
		cart.Increment()
	})

	tests := []struct {
		name    string
		variant string
		want    bool
	}{
		{"known", "white", true},
		{"same", "white", false},
		{"unknown", "plaid", false},
	}
	for _, tt := range tests {
		var ok bool
		act(t, ctx, func() { ok = cart.ChangeVariant(tt.variant) })
		if ok != tt.want {
			t.Errorf("%s: ChangeVariant(%q) = %v, want %v", tt.name, tt.variant, ok, tt.want)
		}
	}
	if st := cart.State(); st.Variant != "white" || st.Quantity != 1 {
		t.Errorf("Expected white at quantity 1, got %+v", st)
	}

	before := rec.count(events.EventEffectRequest)
	act(t, ctx, func() { cart.ToggleFavorite() })
	ev, _ := rec.last(events.EventEffectRequest)
	if req := ev.Payload.(*events.EffectRequestPayload); req.Kind != components.EffectFloatingHeart || req.Count != constants.FavoriteHeartCount {
		t.Errorf("Expected hearts, got %+v", req)
	}

	act(t, ctx, func() { cart.ToggleFavorite() })
	if cart.State().Favorite {
		t.Error("Expected favorite cleared")
	}
	if n := rec.count(events.EventEffectRequest) - before; n != 1 {
		t.Errorf("Unfavorite requested effects: %d requests", n)
	}

	act(t, ctx, func() { cart.Share() })
	ev, _ = rec.last(events.EventEffectRequest)
	if req := ev.Payload.(*events.EffectRequestPayload); req.Kind != components.EffectBubble {
		t.Errorf("Expected bubbles, got %+v", req)
	}
	if rec.count(events.EventShareRequested) != 1 || rec.count(events.EventToastRequest) != 1 {
		t.Error("Share did not raise its events")
	}

}
