package events

var typeNames = [eventTypeCount]string{
	EventUrgencyPulse:       "UrgencyPulse",
	EventCountdownExpired:   "CountdownExpired",
	EventStockChanged:       "StockChanged",
	EventScarcitySpike:      "ScarcitySpike",
	EventPriceClimb:         "PriceClimb",
	EventPriceJitter:        "PriceJitter",
	EventEffectRequest:      "EffectRequest",
	EventEffectExpired:      "EffectExpired",
	EventSocialProofRotated: "SocialProofRotated",
	EventSocialProofSettled: "SocialProofSettled",
	EventQuantityChanged:    "QuantityChanged",
	EventQuantityRejected:   "QuantityRejected",
	EventPurchaseConfirmed:  "PurchaseConfirmed",
	EventPurchaseMismatch:   "PurchaseMismatch",
	EventVariantChanged:     "VariantChanged",
	EventFavoriteToggled:    "FavoriteToggled",
	EventShareRequested:     "ShareRequested",
	EventToastRequest:       "ToastRequest",
}

// String returns the registered name of the event type
func (t EventType) String() string {
	if t < 0 || t >= eventTypeCount {
		return "Unknown"
	}
	return typeNames[t]
}

// GetEventType returns the EventType for a registered name
func GetEventType(name string) (EventType, bool) {
	for i, n := range typeNames {
		if n == name {
			return EventType(i), true
		}
	}
	return 0, false
}

// AllTypes returns every event type in declaration order
func AllTypes() []EventType {
	out := make([]EventType, eventTypeCount)
	for i := range out {
		out[i] = EventType(i)
	}
	return out
}
