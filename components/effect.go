// @focus: #core { types } #vfx { effects }
package components

import "time"

// EffectKind selects the visual family of an ephemeral effect record
type EffectKind uint8

const (
	EffectParticle EffectKind = iota
	EffectConfetti
	EffectBubble
	EffectFloatingHeart
	EffectTrailPoint

	EffectKindCount
)

func (k EffectKind) String() string {
	switch k {
	case EffectParticle:
		return "particle"
	case EffectConfetti:
		return "confetti"
	case EffectBubble:
		return "bubble"
	case EffectFloatingHeart:
		return "floating_heart"
	case EffectTrailPoint:
		return "trail_point"
	default:
		return "unknown"
	}
}

// EffectColor is the semantic color of an effect
// Keeps components independent of the presenter palette
type EffectColor uint8

const (
	EffectColorNone EffectColor = iota
	EffectColorGold
	EffectColorRed
	EffectColorGreen
	EffectColorBlue
	EffectColorPink
	EffectColorWhite

	EffectColorCount
)

// EffectID is the unique identity of a record within one pool
type EffectID uint64

// Position is a point in widget space, origin top-left
type Position struct {
	X, Y float64
}

// Add returns p translated by q
func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y}
}

// Scale returns p multiplied by f
func (p Position) Scale(f float64) Position {
	return Position{X: p.X * f, Y: p.Y * f}
}

// EffectParams holds the per-record visual parameters
type EffectParams struct {
	Velocity Position // Units per second
	Gravity  float64  // Units per second squared, positive is down
	Rotation float64  // Radians per second
	Scale    float64
	Color    EffectColor
	Glyph    rune
}

// EffectRecord is one short-lived visual event
// Lives in the pool's active set from SpawnedAt until ExpiresAt, then removed exactly once
type EffectRecord struct {
	ID        EffectID
	Kind      EffectKind
	Origin    Position
	Params    EffectParams
	TTL       time.Duration
	SpawnedAt time.Time
	ExpiresAt time.Time
}

// Age returns the elapsed lifetime at now, clamped to [0, TTL]
func (r EffectRecord) Age(now time.Time) time.Duration {
	age := now.Sub(r.SpawnedAt)
	if age < 0 {
		return 0
	}
	if age > r.TTL {
		return r.TTL
	}
	return age
}

// Progress returns Age / TTL in [0, 1]
func (r EffectRecord) Progress(now time.Time) float64 {
	if r.TTL <= 0 {
		return 1
	}
	return float64(r.Age(now)) / float64(r.TTL)
}

// PositionAt integrates velocity and gravity from the origin
func (r EffectRecord) PositionAt(now time.Time) Position {
	t := r.Age(now).Seconds()
	return Position{
		X: r.Origin.X + r.Params.Velocity.X*t,
		Y: r.Origin.Y + r.Params.Velocity.Y*t + 0.5*r.Params.Gravity*t*t,
	}
}
