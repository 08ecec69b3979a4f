package constants

import "time"

// Engine timing
const (
	// FrameUpdateInterval is the presenter frame interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// CountdownTickInterval is the countdown step, one hundredth of a second per tick
	CountdownTickInterval = 10 * time.Millisecond

	// StockDecayInterval is the stock decay simulator period
	StockDecayInterval = 10 * time.Second

	// PricingInterval is the dynamic pricing engine period
	PricingInterval = 15 * time.Second

	// SocialProofInterval is the social proof rotation period
	SocialProofInterval = 8 * time.Second

	// SocialProofSettle is how long a rotation keeps its transition direction
	SocialProofSettle = 500 * time.Millisecond

	// PriceJitterDisplay is how long a cosmetic price flicker stays visible
	PriceJitterDisplay = 400 * time.Millisecond

	// TrailSpawnInterval throttles trail points spawned by pointer movement
	TrailSpawnInterval = 16 * time.Millisecond
)

// Event queue limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = 255
)

// Scheduler task names, also used as status registry keys
const (
	TaskCountdown    = "countdown"
	TaskStockDecay   = "stock_decay"
	TaskPricing      = "pricing"
	TaskSocialProof  = "social_proof"
	TaskSocialSettle = "social_proof_settle"
	TaskEffectExpiry = "effect_expiry"
)
