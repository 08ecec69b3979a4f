package components

import "github.com/lixenwraith/urgency/constants"

// StockLevel is the simulated remaining stock, domain [StockFloor, StockMax]
type StockLevel int

// ClampStock maps any integer into the stock domain
func ClampStock(v int) StockLevel {
	switch {
	case v < constants.StockFloor:
		return constants.StockFloor
	case v > constants.StockMax:
		return constants.StockMax
	}
	return StockLevel(v)
}

// Deduct removes n units, never going below the floor
func (s StockLevel) Deduct(n int) StockLevel {
	if n <= 0 {
		return s
	}
	return ClampStock(int(s) - n)
}

// ScarcityFactor returns (100 - stock) / 100
func (s StockLevel) ScarcityFactor() float64 {
	return float64(constants.StockMax-int(s)) / float64(constants.StockMax)
}

// IsLastOne reports the floor
func (s StockLevel) IsLastOne() bool {
	return s <= constants.StockFloor
}
