package engine

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the randomness source of the probabilistic systems
// *rand.Rand from math/rand/v2 satisfies it
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewSeededRand returns a deterministic PCG source
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewTimeSeededRand returns a PCG source seeded from the wall clock
func NewTimeSeededRand() *rand.Rand {
	return NewSeededRand(uint64(time.Now().UnixNano()))
}

// ScriptedRand replays fixed draws, then falls back to a deterministic source
// Lets tests force a tick down a specific branch
type ScriptedRand struct {
	mu       sync.Mutex
	floats   []float64
	ints     []int
	fallback Rand
}

// NewScriptedRand creates a scripted source; fallback draws come from seed 1
func NewScriptedRand() *ScriptedRand {
	return &ScriptedRand{fallback: NewSeededRand(1)}
}

// PushFloats queues values returned by Float64
func (r *ScriptedRand) PushFloats(v ...float64) *ScriptedRand {
	r.mu.Lock()
	r.floats = append(r.floats, v...)
	r.mu.Unlock()
	return r
}

// PushInts queues values returned by IntN, clamped into [0, n)
func (r *ScriptedRand) PushInts(v ...int) *ScriptedRand {
	r.mu.Lock()
	r.ints = append(r.ints, v...)
	r.mu.Unlock()
	return r
}

// Float64 implements Rand
func (r *ScriptedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return r.fallback.Float64()
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// IntN implements Rand
func (r *ScriptedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 {
		return r.fallback.IntN(n)
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	switch {
	case v < 0:
		return 0
	case v >= n:
		return n - 1
	}
	return v
}

// Remaining returns the number of unconsumed scripted floats and ints
func (r *ScriptedRand) Remaining() (floats, ints int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.floats), len(r.ints)
}
