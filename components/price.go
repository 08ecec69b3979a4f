package components

import (
	"fmt"
	"math"
)

// Cents is a decimal currency amount in minor units
type Cents int64

// CentsFromUnits rounds a currency amount in major units to the nearest cent
func CentsFromUnits(units float64) Cents {
	return Cents(math.Round(units * 100))
}

// Units returns the amount in major units
func (c Cents) Units() float64 {
	return float64(c) / 100
}

// String formats as $D.CC
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}

// PriceState holds the base price and the accumulated scarcity increment
// CumulativeIncrement is never negative and never decreases
type PriceState struct {
	Base                Cents
	CumulativeIncrement Cents
}

// Effective returns Base + CumulativeIncrement
func (p PriceState) Effective() Cents {
	return p.Base + p.CumulativeIncrement
}
