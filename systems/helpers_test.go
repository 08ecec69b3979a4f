package systems

import (
	"testing"
	"time"

	"github.com/lixenwraith/urgency/components"
	"github.com/lixenwraith/urgency/engine"
	"github.com/lixenwraith/urgency/events"
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// newTestContext builds a context on a mock clock with the given randomness
func newTestContext(t *testing.T, r engine.Rand) (*engine.Context, *engine.ManualClock) {
	t.Helper()
	clock := engine.NewManualClock(testEpoch)
	if r == nil {
		r = engine.NewSeededRand(42)
	}
	ctx := engine.NewContext(clock, engine.WithRand(r))
	t.Cleanup(ctx.Scheduler.Stop)
	return ctx, clock
}

// eventRecorder captures dispatched events of the given types
type eventRecorder struct {
	events []events.GameEvent
}

func record(ctx *engine.Context, types ...events.EventType) *eventRecorder {
	rec := &eventRecorder{}
	ctx.Router.Register(events.HandlerFunc{
		Types: types,
		Fn:    func(ev events.GameEvent) { rec.events = append(rec.events, ev) },
	})
	return rec
}

func (r *eventRecorder) count(t events.EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (r *eventRecorder) last(t events.EventType) (events.GameEvent, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return events.GameEvent{}, false
}

// act runs fn as a user action so queued events are dispatched
func act(t *testing.T, ctx *engine.Context, fn func()) {
	t.Helper()
	if !ctx.Scheduler.RunSafe(func(time.Time) { fn() }) {
		t.Fatal("RunSafe rejected action on a live scheduler")
	}
}

// fixedStock returns an adjustable stock accessor
func fixedStock(v int) (func() components.StockLevel, *int) {
	level := v
	return func() components.StockLevel { return components.StockLevel(level) }, &level
}
