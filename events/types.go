package events

import (
	"time"
)

// EventType represents the type of engine event
type EventType int

const (
	// EventUrgencyPulse signals the countdown first reached a whole-second boundary with no hundredths
	// Trigger: CountdownSystem tick | Consumer: presentation, audio cue | Payload: *CountdownPayload
	EventUrgencyPulse EventType = iota

	// EventCountdownExpired signals the countdown reached zero and halted
	// Trigger: CountdownSystem tick | Payload: *CountdownPayload
	EventCountdownExpired

	// EventStockChanged signals a new stock level
	// Trigger: StockDecaySystem tick, fulfilled purchase
	// Consumer: CartSystem (quantity clamp) | Payload: *StockChangedPayload
	EventStockChanged

	// EventScarcitySpike signals a decay tick left stock below the scarcity threshold
	// Trigger: StockDecaySystem tick
	// Consumer: PricingSystem (applies nudge immediately) | Payload: *ScarcitySpikePayload
	EventScarcitySpike

	// EventPriceClimb signals a persisted price increase
	// Trigger: PricingSystem climb branch, scarcity spike | Payload: *PriceChangePayload
	EventPriceClimb

	// EventPriceJitter signals a cosmetic price flicker, price state unchanged
	// Trigger: PricingSystem jitter branch | Payload: *PriceJitterPayload
	EventPriceJitter

	// EventEffectRequest asks the effect pool to spawn records
	// Trigger: CartSystem actions, scarcity spike | Consumer: EffectPool | Payload: *EffectRequestPayload
	EventEffectRequest

	// EventEffectExpired signals a record left the active set
	// Trigger: EffectPool expiry | Payload: *EffectExpiredPayload
	EventEffectExpired

	// EventSocialProofRotated signals a new message with its transition direction
	// Trigger: SocialProofSystem tick | Payload: *SocialProofPayload
	EventSocialProofRotated

	// EventSocialProofSettled signals the transition direction was cleared
	// Trigger: SocialProofSystem settle timer | Payload: *SocialProofPayload
	EventSocialProofSettled

	// EventQuantityChanged signals an accepted quantity change
	// Trigger: CartSystem | Payload: *QuantityPayload
	EventQuantityChanged

	// EventQuantityRejected signals a no-op increment or decrement at a bound
	// Trigger: CartSystem | Payload: *QuantityPayload
	EventQuantityRejected

	// EventPurchaseConfirmed signals a purchase confirmation
	// Trigger: CartSystem.ConfirmPurchase
	// Consumer: StockDecaySystem (deduct when fulfilled), checkout bridge | Payload: *PurchasePayload
	EventPurchaseConfirmed

	// EventPurchaseMismatch signals a confirmation requesting more than the stock snapshot
	// Trigger: CartSystem.ConfirmPurchase | Payload: *PurchaseMismatchPayload
	EventPurchaseMismatch

	// EventVariantChanged signals a variant selection
	// Trigger: CartSystem.ChangeVariant | Payload: *VariantPayload
	EventVariantChanged

	// EventFavoriteToggled signals a favorite flip
	// Trigger: CartSystem.ToggleFavorite | Payload: *FavoritePayload
	EventFavoriteToggled

	// EventShareRequested signals the user shared the product
	// Trigger: CartSystem.Share | Payload: nil
	EventShareRequested

	// EventToastRequest asks the notification collaborator to show a toast
	// Trigger: CartSystem | Consumer: notifier bridge | Payload: *ToastPayload
	EventToastRequest

	eventTypeCount
)

// GameEvent is one queued engine event
type GameEvent struct {
	Type      EventType
	Payload   any
	Timestamp time.Time
}
