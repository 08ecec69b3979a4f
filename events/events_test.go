package events

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/lixenwraith/urgency/constants"
)

var evTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestEventQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	q.Emit(EventStockChanged, &StockChangedPayload{Previous: 100, Current: 98}, evTime)
	q.Emit(EventScarcitySpike, &ScarcitySpikePayload{Nudge: 12}, evTime)
	q.Emit(EventShareRequested, nil, evTime)

	if q.Len() != 3 {
		t.Fatalf("Expected 3 pending, got %d", q.Len())
	}

	got := q.Consume()
	var types []EventType
	for _, ev := range got {
		types = append(types, ev.Type)
	}
	want := []EventType{EventStockChanged, EventScarcitySpike, EventShareRequested}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if !got[0].Timestamp.Equal(evTime) {
		t.Errorf("Expected timestamp to be carried, got %v", got[0].Timestamp)
	}
	if q.Consume() != nil || q.Len() != 0 {
		t.Error("Expected queue drained")
	}
}

func TestEventQueueOverflow(t *testing.T) {
	q := NewEventQueue()
	extra := 5
	for i := 0; i < constants.EventQueueSize+extra; i++ {
		q.Push(GameEvent{Type: EventPriceJitter, Payload: i})
	}

	if q.Len() != constants.EventQueueSize {
		t.Errorf("Expected full queue, got %d", q.Len())
	}
	if q.Dropped() != uint64(extra) {
		t.Errorf("Expected %d dropped, got %d", extra, q.Dropped())
	}

	got := q.Consume()
	if len(got) != constants.EventQueueSize {
		t.Fatalf("Expected %d events, got %d", constants.EventQueueSize, len(got))
	}
	if first := got[0].Payload.(int); first != extra {
		t.Errorf("Expected oldest survivor %d, got %d", extra, first)
	}
}

func TestEventQueueConcurrentProducers(t *testing.T) {
	q := NewEventQueue()
	const producers, each = 4, 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Emit(EventEffectExpired, nil, evTime)
			}
		}()
	}
	wg.Wait()

	if got := len(q.Consume()); got != producers*each {
		t.Errorf("Expected %d events, got %d", producers*each, got)
	}
}

// TestRouterCascade verifies handler order and same-call dispatch of emitted events
func TestRouterCascade(t *testing.T) {
	q := NewEventQueue()
	r := NewRouter(q)

	var log []string
	r.Register(HandlerFunc{
		Types: []EventType{EventStockChanged},
		Fn: func(ev GameEvent) {
			log = append(log, "stock")
			q.Emit(EventScarcitySpike, &ScarcitySpikePayload{Nudge: 5}, ev.Timestamp)
		},
	})
	r.Register(HandlerFunc{
		Types: []EventType{EventStockChanged, EventScarcitySpike},
		Fn:    func(ev GameEvent) { log = append(log, "watch:"+ev.Type.String()) },
	})

	q.Emit(EventStockChanged, &StockChangedPayload{}, evTime)
	if n := r.DispatchAll(); n != 2 {
		t.Errorf("Expected 2 events dispatched, got %d", n)
	}

	want := []string{"stock", "watch:StockChanged", "watch:ScarcitySpike"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("Dispatch mismatch (-want +got):\n%s", diff)
	}
	if r.HandlerCount(EventStockChanged) != 2 || r.HandlerCount(EventToastRequest) != 0 {
		t.Error("Unexpected handler counts")
	}
}

// TestRouterRoundLimit verifies a self-feeding handler cannot loop forever
func TestRouterRoundLimit(t *testing.T) {
	q := NewEventQueue()
	r := NewRouter(q)
	r.Register(HandlerFunc{
		Types: []EventType{EventPriceJitter},
		Fn:    func(ev GameEvent) { q.Emit(EventPriceJitter, nil, ev.Timestamp) },
	})

	q.Emit(EventPriceJitter, nil, evTime)
	if n := r.DispatchAll(); n != maxDispatchRounds {
		t.Errorf("Expected %d dispatches, got %d", maxDispatchRounds, n)
	}
	if q.Len() != 1 {
		t.Errorf("Expected the last emission left queued, got %d", q.Len())
	}
}

func TestEventTypeNames(t *testing.T) {
	for _, et := range AllTypes() {
		name := et.String()
		if name == "Unknown" || name == "" {
			t.Errorf("Event type %d has no name", et)
			continue
		}
		back, ok := GetEventType(name)
		if !ok || back != et {
			t.Errorf("GetEventType(%q) = %v, %v", name, back, ok)
		}
	}
	if EventType(-1).String() != "Unknown" {
		t.Error("Expected Unknown for out-of-range type")
	}
	if _, ok := GetEventType("NoSuchEvent"); ok {
		t.Error("Expected lookup miss")
	}
}
