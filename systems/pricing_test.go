package systems

import (
	"testing"
	"time"

	"github.com/lixenwraith/urgency/components"
	"github.com/lixenwraith/urgency/engine"
	"github.com/lixenwraith/urgency/events"
)

// TestPricingClimbScaled verifies a 0.8 draw at stock 60 adds 0.8 of the 0.80 range
func TestPricingClimbScaled(t *testing.T) {
	r := engine.NewScriptedRand().PushFloats(0.9, 0.8)
	ctx, clock := newTestContext(t, r)
	stock, _ := fixedStock(60)

	p := NewPricingSystem(ctx, DefaultPricingConfig(), 1999, stock)
	p.Start()
	engine.Advance(ctx.Scheduler, clock, 15*time.Second)

	inc := p.State().CumulativeIncrement
	if inc != 64 {
		t.Errorf("Expected increment 64c, got %v", inc)
	}
	if inc < 0 || inc > 80 {
		t.Errorf("Increment %v outside [0, 0.80]", inc)
	}
}

// TestPricingJitterCosmetic verifies the jitter branch never persists
func TestPricingJitterCosmetic(t *testing.T) {
	tests := []struct {
		name   string
		stock  int
		floats []float64
		draw   int
		want   components.Cents
	}{
		{"high stock", 80, nil, 0, -25},
		{"low stock lost draw", 40, []float64{0.5}, 50, 25},
		{"center", 100, nil, 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := engine.NewScriptedRand().PushFloats(tt.floats...).PushInts(tt.draw)
			ctx, _ := newTestContext(t, r)
			rec := record(ctx, events.EventPriceJitter, events.EventPriceClimb)
			stock, _ := fixedStock(tt.stock)
			p := NewPricingSystem(ctx, DefaultPricingConfig(), 1000, stock)

			act(t, ctx, func() { p.Tick(testEpoch) })

			if p.State().CumulativeIncrement != 0 {
				t.Errorf("Jitter persisted increment %v", p.State().CumulativeIncrement)
			}
			if p.Jitter().Offset != tt.want {
				t.Errorf("Expected offset %v, got %v", tt.want, p.Jitter().Offset)
			}
			if rec.count(events.EventPriceJitter) != 1 || rec.count(events.EventPriceClimb) != 0 {
				t.Errorf("Unexpected events %+v", rec.events)
			}
		})
	}
}

// TestPricingMonotonic verifies the increment never decreases and each step is bounded
func TestPricingMonotonic(t *testing.T) {
	ctx, clock := newTestContext(t, engine.NewSeededRand(99))
	stock, level := fixedStock(100)
	p := NewPricingSystem(ctx, DefaultPricingConfig(), 1999, stock)
	p.Start()

	prev := p.State().CumulativeIncrement
	engine.AdvanceBy(ctx.Scheduler, clock, time.Hour, 15*time.Second, func(time.Time) {
		cur := p.State().CumulativeIncrement
		if cur < prev {
			t.Fatalf("Increment decreased from %v to %v", prev, cur)
		}
		maxStep := components.CentsFromUnits(2 * components.StockLevel(*level).ScarcityFactor())
		if cur-prev > maxStep {
			t.Fatalf("Step %v exceeds bound %v", cur-prev, maxStep)
		}
		prev = cur
		if *level > 1 {
			*level--
		}
	})

	if p.State().CumulativeIncrement == 0 {
		t.Error("Expected some climbs over an hour of scarcity")
	}
}

// TestPricingSetBaseKeepsIncrement verifies a catalog base change preserves the increment
func TestPricingSetBaseKeepsIncrement(t *testing.T) {
	r := engine.NewScriptedRand().PushFloats(0.9, 1.0)
	ctx, _ := newTestContext(t, r)
	stock, _ := fixedStock(50)
	p := NewPricingSystem(ctx, DefaultPricingConfig(), 1000, stock)

	act(t, ctx, func() { p.Tick(testEpoch) })
	act(t, ctx, func() { p.SetBase(2500) })

	want := components.PriceState{Base: 2500, CumulativeIncrement: 100}
	if got := p.State(); got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}
