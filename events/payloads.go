package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/urgency/components"
)

// CountdownPayload carries the countdown state at the event
type CountdownPayload struct {
	State components.CountdownState
}

// StockChangeReason identifies why stock moved
type StockChangeReason uint8

const (
	StockReasonDecay StockChangeReason = iota
	StockReasonPurchase
)

func (r StockChangeReason) String() string {
	switch r {
	case StockReasonDecay:
		return "decay"
	case StockReasonPurchase:
		return "purchase"
	default:
		return "unknown"
	}
}

// StockChangedPayload carries old and new stock
type StockChangedPayload struct {
	Previous components.StockLevel
	Current  components.StockLevel
	Reason   StockChangeReason
}

// ScarcitySpikePayload carries the price nudge drawn by the decay tick
type ScarcitySpikePayload struct {
	Stock components.StockLevel
	Nudge components.Cents
}

// PriceChangePayload carries a persisted price change
type PriceChangePayload struct {
	Delta     components.Cents
	Increment components.Cents // CumulativeIncrement after the change
	Stock     components.StockLevel
	Spike     bool // True when caused by a scarcity spike rather than a pricing tick
}

// PriceJitterPayload carries a cosmetic offset for presentation
type PriceJitterPayload struct {
	Offset components.Cents
}

// EffectRequestPayload asks for Count records of Kind around Origin
// Zero TTL selects the kind's preset
type EffectRequestPayload struct {
	Kind   components.EffectKind
	Origin components.Position
	Count  int
	TTL    time.Duration
}

// EffectExpiredPayload describes a removed record
type EffectExpiredPayload struct {
	ID       components.EffectID
	Kind     components.EffectKind
	Lifetime time.Duration
}

// SocialProofPayload carries the rotator state
type SocialProofPayload struct {
	State components.SocialProofState
}

// QuantityOp identifies a quantity action
type QuantityOp uint8

const (
	QuantityIncrement QuantityOp = iota
	QuantityDecrement
	QuantityClamp
	QuantityReset
)

func (o QuantityOp) String() string {
	switch o {
	case QuantityIncrement:
		return "increment"
	case QuantityDecrement:
		return "decrement"
	case QuantityClamp:
		return "clamp"
	case QuantityReset:
		return "reset"
	default:
		return "unknown"
	}
}

// QuantityPayload carries a quantity change or rejection
type QuantityPayload struct {
	Op       QuantityOp
	Previous int
	Current  int
	Limit    int // Active bound at the time of the action
}

// PurchasePayload is the purchase confirmation handed to checkout
type PurchasePayload struct {
	ID        uuid.UUID
	Quantity  int
	Variant   string
	UnitPrice components.Cents
	Fulfilled bool // False when quantity exceeded the stock snapshot
}

// PurchaseMismatchPayload makes the quantity/stock mismatch observable
type PurchaseMismatchPayload struct {
	ID        uuid.UUID
	Requested int
	Available components.StockLevel
}

// VariantPayload carries a variant selection
type VariantPayload struct {
	Previous string
	Current  string
}

// FavoritePayload carries the new favorite flag
type FavoritePayload struct {
	Favorite bool
}

// ToastKind classifies notification requests
type ToastKind uint8

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastWarning
)

func (k ToastKind) String() string {
	switch k {
	case ToastInfo:
		return "info"
	case ToastSuccess:
		return "success"
	case ToastWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// ToastPayload is a notification request
type ToastPayload struct {
	Kind    ToastKind
	Message string
}
