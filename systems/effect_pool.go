package systems

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/urgency/components"
	"github.com/lixenwraith/urgency/constants"
	"github.com/lixenwraith/urgency/engine"
	"github.com/lixenwraith/urgency/events"
)

// EffectPreset holds the default lifetime and visual ranges of one kind
type EffectPreset struct {
	TTL      time.Duration
	Speed    float64 // Maximum initial speed, direction is random
	Lift     float64 // Constant upward bias added to the initial velocity
	Gravity  float64
	Rotation float64 // Maximum spin, sign is random
	Colors   []components.EffectColor
	Glyphs   []rune
}

// DefaultEffectPresets returns the reference preset per kind
func DefaultEffectPresets() [components.EffectKindCount]EffectPreset {
	return [components.EffectKindCount]EffectPreset{
		components.EffectParticle: {
			TTL:    1000 * time.Millisecond,
			Speed:  6,
			Colors: []components.EffectColor{components.EffectColorGold, components.EffectColorWhite},
			Glyphs: []rune{'·', '*', '+'},
		},
		components.EffectConfetti: {
			TTL:      3000 * time.Millisecond,
			Speed:    12,
			Lift:     8,
			Gravity:  9,
			Rotation: 2 * math.Pi,
			Colors: []components.EffectColor{
				components.EffectColorGold, components.EffectColorRed, components.EffectColorGreen,
				components.EffectColorBlue, components.EffectColorPink,
			},
			Glyphs: []rune{'▪', '▴', '◆', '●'},
		},
		components.EffectBubble: {
			TTL:    2000 * time.Millisecond,
			Speed:  2,
			Lift:   4,
			Colors: []components.EffectColor{components.EffectColorBlue, components.EffectColorWhite},
			Glyphs: []rune{'o', 'O', '°'},
		},
		components.EffectFloatingHeart: {
			TTL:    1500 * time.Millisecond,
			Speed:  1.5,
			Lift:   5,
			Colors: []components.EffectColor{components.EffectColorPink, components.EffectColorRed},
			Glyphs: []rune{'♥'},
		},
		components.EffectTrailPoint: {
			TTL:    500 * time.Millisecond,
			Colors: []components.EffectColor{components.EffectColorWhite},
			Glyphs: []rune{'.'},
		},
	}
}

// EffectPool is the registry of live ephemeral effect records
// Each record is removed exactly once, when its TTL elapses, by a single shared expiry timer
type EffectPool struct {
	ctx      *engine.Context
	presets  [components.EffectKindCount]EffectPreset
	registry *engine.TTLRegistry[components.EffectRecord]

	statLive    *atomic.Int64
	statSpawned *atomic.Int64
	statExpired *atomic.Int64
}

// NewEffectPool creates an empty pool with the default presets
func NewEffectPool(ctx *engine.Context) *EffectPool {
	p := &EffectPool{
		ctx:         ctx,
		presets:     DefaultEffectPresets(),
		registry:    engine.NewTTLRegistry[components.EffectRecord](ctx.Scheduler, constants.TaskEffectExpiry),
		statLive:    ctx.Status.Ints.Get("effects.live"),
		statSpawned: ctx.Status.Ints.Get("effects.spawned"),
		statExpired: ctx.Status.Ints.Get("effects.expired"),
	}
	p.registry.OnExpire(p.expired)
	return p
}

// SetPreset overrides the preset of one kind
func (p *EffectPool) SetPreset(kind components.EffectKind, preset EffectPreset) {
	if kind < components.EffectKindCount {
		p.presets[kind] = preset
	}
}

// Preset returns the preset of one kind
func (p *EffectPool) Preset(kind components.EffectKind) EffectPreset {
	if kind >= components.EffectKindCount {
		return EffectPreset{}
	}
	return p.presets[kind]
}

// Spawn adds a record with explicit params and lifetime
// Returns zero once the pool is closed
func (p *EffectPool) Spawn(kind components.EffectKind, origin components.Position, params components.EffectParams, ttl time.Duration) components.EffectID {
	rec := components.EffectRecord{
		Kind:   kind,
		Origin: origin,
		Params: params,
		TTL:    ttl,
	}
	id := p.registry.Add(rec, ttl)
	if id == 0 {
		return 0
	}
	p.statSpawned.Add(1)
	p.statLive.Store(int64(p.registry.Len()))
	return components.EffectID(id)
}

// SpawnPreset adds a record with randomized params drawn from the kind's preset
// Non-positive ttl selects the preset lifetime
func (p *EffectPool) SpawnPreset(kind components.EffectKind, origin components.Position, ttl time.Duration) components.EffectID {
	preset := p.Preset(kind)
	if ttl <= 0 {
		ttl = preset.TTL
	}
	return p.Spawn(kind, origin, p.randomParams(preset), ttl)
}

// Burst spawns n preset records at origin and returns their identities in spawn order
func (p *EffectPool) Burst(kind components.EffectKind, origin components.Position, n int) []components.EffectID {
	if n <= 0 {
		return nil
	}
	ids := make([]components.EffectID, 0, n)
	for i := 0; i < n; i++ {
		if id := p.SpawnPreset(kind, origin, 0); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func (p *EffectPool) randomParams(preset EffectPreset) components.EffectParams {
	r := p.ctx.Rand
	params := components.EffectParams{Scale: 1, Gravity: preset.Gravity}

	if preset.Speed > 0 {
		angle := r.Float64() * 2 * math.Pi
		speed := r.Float64() * preset.Speed
		params.Velocity = components.Position{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
	}
	params.Velocity.Y -= preset.Lift
	if preset.Rotation > 0 {
		params.Rotation = (r.Float64()*2 - 1) * preset.Rotation
	}
	if n := len(preset.Colors); n > 0 {
		params.Color = preset.Colors[r.IntN(n)]
	}
	if n := len(preset.Glyphs); n > 0 {
		params.Glyph = preset.Glyphs[r.IntN(n)]
	}
	return params
}

// List returns a snapshot of live records in spawn order
func (p *EffectPool) List() []components.EffectRecord {
	entries := p.registry.List()
	out := make([]components.EffectRecord, len(entries))
	for i, e := range entries {
		rec := e.Value
		rec.ID = components.EffectID(e.ID)
		rec.SpawnedAt = e.CreatedAt
		rec.ExpiresAt = e.ExpiresAt
		out[i] = rec
	}
	return out
}

// Len returns the number of live records
func (p *EffectPool) Len() int {
	return p.registry.Len()
}

// CountByKind returns live record counts indexed by kind
func (p *EffectPool) CountByKind() [components.EffectKindCount]int {
	var counts [components.EffectKindCount]int
	for _, e := range p.registry.List() {
		if e.Value.Kind < components.EffectKindCount {
			counts[e.Value.Kind]++
		}
	}
	return counts
}

// Close drops all records and cancels the pending expiry timer
func (p *EffectPool) Close() {
	p.registry.Close()
	p.statLive.Store(0)
}

func (p *EffectPool) expired(e engine.TTLEntry[components.EffectRecord]) {
	p.statExpired.Add(1)
	p.statLive.Store(int64(p.registry.Len()))
	p.ctx.Emit(events.EventEffectExpired, &events.EffectExpiredPayload{
		ID:       components.EffectID(e.ID),
		Kind:     e.Value.Kind,
		Lifetime: e.ExpiresAt.Sub(e.CreatedAt),
	})
}

// HandleEvent spawns records requested by other systems
func (p *EffectPool) HandleEvent(ev events.GameEvent) {
	req, ok := ev.Payload.(*events.EffectRequestPayload)
	if !ok {
		return
	}
	n := req.Count
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		p.SpawnPreset(req.Kind, req.Origin, req.TTL)
	}
}

// EventTypes implements events.Handler
func (p *EffectPool) EventTypes() []events.EventType {
	return []events.EventType{events.EventEffectRequest}
}
