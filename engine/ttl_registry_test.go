package engine

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestTTLRegistryExpiry verifies records are removed exactly once at their TTL
func TestTTLRegistryExpiry(t *testing.T) {
	s, clock := newVirtualScheduler(t)
	reg := NewTTLRegistry[string](s, "expiry")

	var expired []string
	reg.OnExpire(func(e TTLEntry[string]) { expired = append(expired, e.Value) })

	reg.Add("long", 300*time.Millisecond)
	reg.Add("short", 100*time.Millisecond)
	reg.Add("mid", 200*time.Millisecond)

	if n := s.Pending(); n != 1 {
		t.Errorf("Expected a single armed timer, got %d pending", n)
	}

	Advance(s, clock, 100*time.Millisecond-time.Nanosecond)
	if reg.Len() != 3 {
		t.Fatalf("Expected all records live before the first TTL, got %d", reg.Len())
	}

	Advance(s, clock, time.Nanosecond)
	if reg.Len() != 2 {
		t.Errorf("Expected short removed at its TTL, %d live", reg.Len())
	}

	Advance(s, clock, time.Second)
	if diff := cmp.Diff([]string{"short", "mid", "long"}, expired); diff != "" {
		t.Errorf("Expiry order mismatch (-want +got):\n%s", diff)
	}
	if reg.Len() != 0 || s.Pending() != 0 {
		t.Errorf("Expected empty registry and no timer, got %d live %d pending", reg.Len(), s.Pending())
	}
}

// TestTTLRegistryRearm verifies an earlier record re-arms the timer
func TestTTLRegistryRearm(t *testing.T) {
	s, clock := newVirtualScheduler(t)
	reg := NewTTLRegistry[int](s, "expiry")

	reg.Add(1, time.Second)
	reg.Add(2, 10*time.Millisecond)

	next, _ := s.NextDeadline()
	if want := schedEpoch.Add(10 * time.Millisecond); !next.Equal(want) {
		t.Errorf("Expected timer at %v, got %v", want, next)
	}
	if s.Pending() != 1 {
		t.Errorf("Re-arming should replace the timer, got %d pending", s.Pending())
	}

	Advance(s, clock, 10*time.Millisecond)
	if _, ok := reg.Get(2); ok {
		t.Error("Record 2 should have expired")
	}
	if e, ok := reg.Get(1); !ok || e.Value != 1 {
		t.Error("Record 1 should still be live")
	}
}

// TestTTLRegistryList verifies list order and timestamps
func TestTTLRegistryList(t *testing.T) {
	s, clock := newVirtualScheduler(t)
	reg := NewTTLRegistry[string](s, "expiry")

	reg.Add("a", time.Second)
	clock.Advance(5 * time.Millisecond)
	reg.Add("b", 10*time.Millisecond)

	got := reg.List()
	want := []TTLEntry[string]{
		{ID: 1, Value: "a", CreatedAt: schedEpoch, ExpiresAt: schedEpoch.Add(time.Second)},
		{ID: 2, Value: "b", CreatedAt: schedEpoch.Add(5 * time.Millisecond), ExpiresAt: schedEpoch.Add(15 * time.Millisecond)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

// TestTTLRegistryClose verifies Close drops records silently and rejects adds
func TestTTLRegistryClose(t *testing.T) {
	s, clock := newVirtualScheduler(t)
	reg := NewTTLRegistry[int](s, "expiry")

	var expired int
	reg.OnExpire(func(TTLEntry[int]) { expired++ })
	reg.Add(1, 10*time.Millisecond)
	reg.Close()

	if id := reg.Add(2, time.Millisecond); id != 0 {
		t.Errorf("Expected Add after Close to return 0, got %d", id)
	}
	Advance(s, clock, time.Second)
	if expired != 0 || reg.Len() != 0 || s.Pending() != 0 {
		t.Errorf("Closed registry still active: %d expired, %d live, %d pending", expired, reg.Len(), s.Pending())
	}
}

// TestTTLRegistryZeroTTL verifies a zero TTL record expires on the next run
func TestTTLRegistryZeroTTL(t *testing.T) {
	s, _ := newVirtualScheduler(t)
	reg := NewTTLRegistry[int](s, "expiry")

	reg.Add(1, -time.Second)
	if reg.Len() != 1 {
		t.Fatalf("Record should be live until the scheduler runs")
	}
	s.RunDue(schedEpoch, 0)
	if reg.Len() != 0 {
		t.Errorf("Expected zero TTL record removed, %d live", reg.Len())
	}
}
