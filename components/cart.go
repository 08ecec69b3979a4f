package components

import "github.com/lixenwraith/urgency/constants"

// CartState is the user-adjusted purchase request and the accumulated cart
type CartState struct {
	Quantity    int    // [QuantityMin, MaxQuantity(stock)]
	ItemsInCart int    // Grows on fulfilled purchase only
	Variant     string // Selected product variant, empty when the product has none
	Favorite    bool
}

// MaxQuantity returns min(QuantityMax, stock)
func MaxQuantity(stock StockLevel) int {
	if int(stock) < constants.QuantityMax {
		return int(stock)
	}
	return constants.QuantityMax
}
