// Package metrics exports widget activity to Prometheus
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lixenwraith/urgency/events"
)

const namespace = "urgency"

// Recorder maintains domain metrics from the event stream
type Recorder struct {
	stock          prometheus.Gauge
	priceIncrement prometheus.Gauge
	priceClimbs    *prometheus.CounterVec
	priceJitters   prometheus.Counter
	effectsReq     *prometheus.CounterVec
	effectsExpired *prometheus.CounterVec
	effectLifetime prometheus.Histogram
	rotations      prometheus.Counter
	quantity       *prometheus.CounterVec
	purchases      *prometheus.CounterVec
	mismatches     prometheus.Counter
	pulses         prometheus.Counter
	expired        prometheus.Counter
}

// NewRecorder registers the domain metrics with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		stock: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "stock_level",
			Help: "Current simulated stock level.",
		}),
		priceIncrement: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "price_increment_cents",
			Help: "Cumulative scarcity price increment in cents.",
		}),
		priceClimbs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "price_climbs_total",
			Help: "Persisted price increases by source.",
		}, []string{"source"}),
		priceJitters: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "price_jitters_total",
			Help: "Cosmetic price flickers.",
		}),
		effectsReq: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "effects_requested_total",
			Help: "Effect records requested through events, by kind.",
		}, []string{"kind"}),
		effectsExpired: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "effects_expired_total",
			Help: "Effect records removed at TTL, by kind.",
		}, []string{"kind"}),
		effectLifetime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "effect_lifetime_seconds",
			Help:    "Lifetime of expired effect records.",
			Buckets: []float64{0.25, 0.5, 1, 1.5, 2, 3, 5},
		}),
		rotations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "social_proof_rotations_total",
			Help: "Social proof message rotations.",
		}),
		quantity: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "quantity_actions_total",
			Help: "Quantity selector actions by operation and result.",
		}, []string{"op", "result"}),
		purchases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "purchases_total",
			Help: "Purchase confirmations by fulfillment.",
		}, []string{"fulfilled"}),
		mismatches: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "purchase_mismatches_total",
			Help: "Purchases whose quantity exceeded the stock snapshot.",
		}),
		pulses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "urgency_pulses_total",
			Help: "Countdown urgency pulses.",
		}),
		expired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "countdowns_expired_total",
			Help: "Countdowns that reached zero.",
		}),
	}
}

// HandleEvent implements events.Handler
func (r *Recorder) HandleEvent(ev events.GameEvent) {
	switch p := ev.Payload.(type) {
	case *events.StockChangedPayload:
		r.stock.Set(float64(p.Current))
	case *events.PriceChangePayload:
		r.priceIncrement.Set(float64(p.Increment))
		source := "tick"
		if p.Spike {
			source = "spike"
		}
		r.priceClimbs.WithLabelValues(source).Inc()
	case *events.PriceJitterPayload:
		r.priceJitters.Inc()
	case *events.EffectRequestPayload:
		n := p.Count
		if n <= 0 {
			n = 1
		}
		r.effectsReq.WithLabelValues(p.Kind.String()).Add(float64(n))
	case *events.EffectExpiredPayload:
		r.effectsExpired.WithLabelValues(p.Kind.String()).Inc()
		r.effectLifetime.Observe(p.Lifetime.Seconds())
	case *events.SocialProofPayload:
		if ev.Type == events.EventSocialProofRotated {
			r.rotations.Inc()
		}
	case *events.QuantityPayload:
		result := "changed"
		if ev.Type == events.EventQuantityRejected {
			result = "rejected"
		}
		r.quantity.WithLabelValues(p.Op.String(), result).Inc()
	case *events.PurchasePayload:
		r.purchases.WithLabelValues(strconv.FormatBool(p.Fulfilled)).Inc()
	case *events.PurchaseMismatchPayload:
		r.mismatches.Inc()
	case *events.CountdownPayload:
		switch ev.Type {
		case events.EventUrgencyPulse:
			r.pulses.Inc()
		case events.EventCountdownExpired:
			r.expired.Inc()
		}
	}
}

// EventTypes implements events.Handler
func (r *Recorder) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventStockChanged,
		events.EventPriceClimb,
		events.EventPriceJitter,
		events.EventEffectRequest,
		events.EventEffectExpired,
		events.EventSocialProofRotated,
		events.EventQuantityChanged,
		events.EventQuantityRejected,
		events.EventPurchaseConfirmed,
		events.EventPurchaseMismatch,
		events.EventUrgencyPulse,
		events.EventCountdownExpired,
	}
}
