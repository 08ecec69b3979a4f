package constants

// Stock bounds
const (
	// StockInitial is the stock level every widget starts with
	StockInitial = 100

	// StockMax is the upper bound of the stock domain
	StockMax = 100

	// StockFloor is the "last one" floor, stock never goes below it
	StockFloor = 1
)

// Stock decay simulator
const (
	// DecayProbabilityThreshold is the draw a decay tick must exceed to reduce stock
	DecayProbabilityThreshold = 0.6

	// DecayMaxDrop is the largest single-tick stock reduction, drops are uniform in [1, DecayMaxDrop]
	DecayMaxDrop = 3

	// ScarcitySpikeThreshold raises a scarcity spike when stock falls below it
	ScarcitySpikeThreshold = 50

	// ScarcitySpikeMaxCents bounds the price nudge of a scarcity spike
	ScarcitySpikeMaxCents = 50
)

// Dynamic pricing engine
const (
	// PricingClimbStockCeiling enables the climb branch at or below this stock
	PricingClimbStockCeiling = 70

	// PricingClimbThreshold is the draw a pricing tick must exceed to climb
	PricingClimbThreshold = 0.5

	// PricingClimbScale multiplies the scarcity factor into the maximum climb, in currency units
	PricingClimbScale = 2.0

	// PricingJitterMaxCents bounds the cosmetic jitter offset
	PricingJitterMaxCents = 25
)

// Cart controller
const (
	// QuantityMin is the smallest requestable quantity
	QuantityMin = 1

	// QuantityMax caps requested quantity regardless of stock
	QuantityMax = 10

	// PurchaseBurstMin and PurchaseBurstMax bound the confetti burst of a purchase
	PurchaseBurstMin = 10
	PurchaseBurstMax = 20

	// FavoriteHeartCount is the number of floating hearts spawned on favorite
	FavoriteHeartCount = 5

	// ShareBubbleCount is the number of bubbles spawned on share
	ShareBubbleCount = 6
)
