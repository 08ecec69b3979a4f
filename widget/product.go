// Package widget is the buy-button facade: it wires the urgency systems onto one
// scheduler, exposes user actions and snapshots, and bridges outbound events to
// the host's collaborators.
package widget

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lixenwraith/urgency/components"
	"github.com/lixenwraith/urgency/events"
)

// ErrUnknownProduct is returned by a Catalog for an id it does not carry
var ErrUnknownProduct = errors.New("unknown product")

// Product is the catalog entry a BuyButton sells
type Product struct {
	ID        string
	Name      string
	BasePrice components.Cents
	Variants  []string
}

// Catalog resolves products by id
type Catalog interface {
	Product(ctx context.Context, id string) (Product, error)
}

// StaticCatalog is an in-memory Catalog
type StaticCatalog map[string]Product

// Product implements Catalog
func (c StaticCatalog) Product(ctx context.Context, id string) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	p, ok := c[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, id)
	}
	return p, nil
}

// DefaultCatalog carries the demo products
func DefaultCatalog() StaticCatalog {
	return StaticCatalog{
		"demo-sneaker": {
			ID:        "demo-sneaker",
			Name:      "Limited Runner",
			BasePrice: 12999,
			Variants:  []string{"black", "white", "volt"},
		},
		"demo-hoodie": {
			ID:        "demo-hoodie",
			Name:      "Drop Hoodie",
			BasePrice: 5900,
			Variants:  []string{"S", "M", "L", "XL"},
		},
		"demo-mug": {
			ID:        "demo-mug",
			Name:      "Countdown Mug",
			BasePrice: 1999,
		},
	}
}

// PurchaseConfirmation is handed to Checkout for every fulfilled purchase
type PurchaseConfirmation struct {
	ID        uuid.UUID
	ProductID string
	Quantity  int
	Variant   string
	UnitPrice components.Cents
}

// Total returns Quantity * UnitPrice
func (c PurchaseConfirmation) Total() components.Cents {
	return components.Cents(c.Quantity) * c.UnitPrice
}

// Checkout receives fulfilled purchases
// Called during event dispatch while the widget's executor lock is held. Calling any
// BuyButton method synchronously from here deadlocks; hand off to another goroutine instead
type Checkout interface {
	PurchaseConfirmed(PurchaseConfirmation)
}

// Toast is a notification request
type Toast struct {
	Kind    events.ToastKind
	Message string
}

// Notifier displays toasts
// Called during event dispatch while the widget's executor lock is held. Calling any
// BuyButton method synchronously from here deadlocks; hand off to another goroutine instead
type Notifier interface {
	Notify(Toast)
}

// Cue plays presentation-only audio cues
// Called during event dispatch while the widget's executor lock is held. Calling any
// BuyButton method synchronously from here deadlocks; hand off to another goroutine instead
type Cue interface {
	PlayUrgencyPulse()
	PlayPurchase(fulfilled bool)
	PlayScarcity()
}
