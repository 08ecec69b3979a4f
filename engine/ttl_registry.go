package engine

import (
	"container/heap"
	"sort"
	"time"
)

// TTLEntry is one live record of a TTLRegistry
type TTLEntry[T any] struct {
	ID        uint64
	Value     T
	CreatedAt time.Time
	ExpiresAt time.Time
}

type ttlItem[T any] struct {
	entry TTLEntry[T]
	index int
}

// TTLRegistry is an arena of records keyed by identity with a min-heap of expiries
// A single scheduler timer is armed for the earliest expiry, so any number of records
// costs one pending task. Every record is removed exactly once, when its TTL elapses.
//
// Not safe for concurrent use: call only from scheduler callbacks or Scheduler.RunSafe
type TTLRegistry[T any] struct {
	sched *Scheduler
	name  string

	entries  map[uint64]*ttlItem[T]
	expiries expiryHeap[T]
	nextID   uint64

	timer   *Handle
	armedAt time.Time

	onExpire func(TTLEntry[T])
	closed   bool
}

// NewTTLRegistry creates a registry whose expiry timer runs on sched under the given task name
func NewTTLRegistry[T any](sched *Scheduler, name string) *TTLRegistry[T] {
	return &TTLRegistry[T]{
		sched:   sched,
		name:    name,
		entries: make(map[uint64]*ttlItem[T]),
	}
}

// OnExpire sets the callback invoked once per record after it is removed
func (r *TTLRegistry[T]) OnExpire(fn func(TTLEntry[T])) {
	r.onExpire = fn
}

// Add inserts v with the given time-to-live and returns its identity
// Returns 0 once the registry is closed
func (r *TTLRegistry[T]) Add(v T, ttl time.Duration) uint64 {
	if r.closed {
		return 0
	}
	if ttl < 0 {
		ttl = 0
	}

	now := r.sched.Now()
	r.nextID++
	item := &ttlItem[T]{
		entry: TTLEntry[T]{
			ID:        r.nextID,
			Value:     v,
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		},
	}
	r.entries[item.entry.ID] = item
	heap.Push(&r.expiries, item)

	if r.timer == nil || item.entry.ExpiresAt.Before(r.armedAt) {
		r.arm()
	}
	return item.entry.ID
}

// Get returns the live record with the given identity
func (r *TTLRegistry[T]) Get(id uint64) (TTLEntry[T], bool) {
	item, ok := r.entries[id]
	if !ok {
		return TTLEntry[T]{}, false
	}
	return item.entry, true
}

// Len returns the number of live records
func (r *TTLRegistry[T]) Len() int {
	return len(r.entries)
}

// List returns a copy of live records in creation order
func (r *TTLRegistry[T]) List() []TTLEntry[T] {
	out := make([]TTLEntry[T], 0, len(r.entries))
	for _, item := range r.entries {
		out = append(out, item.entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clear drops every record without invoking OnExpire and disarms the timer
func (r *TTLRegistry[T]) Clear() {
	r.timer.Cancel()
	r.timer = nil
	r.armedAt = time.Time{}
	r.entries = make(map[uint64]*ttlItem[T])
	r.expiries = nil
}

// Close clears the registry and rejects further Add calls
func (r *TTLRegistry[T]) Close() {
	r.Clear()
	r.closed = true
}

// arm points the single expiry timer at the earliest pending expiry
func (r *TTLRegistry[T]) arm() {
	r.timer.Cancel()
	r.timer = nil
	if len(r.expiries) == 0 {
		r.armedAt = time.Time{}
		return
	}
	r.armedAt = r.expiries[0].entry.ExpiresAt
	r.timer = r.sched.At(r.name, r.armedAt, r.sweep)
}

// sweep removes every record expired at now and re-arms for the next one
func (r *TTLRegistry[T]) sweep(now time.Time) {
	r.timer = nil
	for len(r.expiries) > 0 && !r.expiries[0].entry.ExpiresAt.After(now) {
		item := heap.Pop(&r.expiries).(*ttlItem[T])
		if _, ok := r.entries[item.entry.ID]; !ok {
			continue
		}
		delete(r.entries, item.entry.ID)
		if r.onExpire != nil {
			r.onExpire(item.entry)
		}
	}
	if !r.closed {
		r.arm()
	}
}

type expiryHeap[T any] []*ttlItem[T]

func (h expiryHeap[T]) Len() int { return len(h) }

func (h expiryHeap[T]) Less(i, j int) bool {
	if h[i].entry.ExpiresAt.Equal(h[j].entry.ExpiresAt) {
		return h[i].entry.ID < h[j].entry.ID
	}
	return h[i].entry.ExpiresAt.Before(h[j].entry.ExpiresAt)
}

func (h expiryHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *expiryHeap[T]) Push(x any) {
	item := x.(*ttlItem[T])
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *expiryHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}
