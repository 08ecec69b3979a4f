package widget

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/urgency/engine"
	"github.com/lixenwraith/urgency/events"
	"github.com/lixenwraith/urgency/status"
	"github.com/lixenwraith/urgency/systems"
)

// Option configures a BuyButton
type Option func(*options)

type options struct {
	logger   *zap.Logger
	clock    engine.TimeProvider
	manual   *engine.ManualClock
	rand     engine.Rand
	status   *status.Registry
	checkout Checkout
	notifier Notifier
	cue      Cue
	handlers []events.Handler
	anchors  systems.CartAnchors
}

// WithLogger sets the structured logger
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClock sets the real time source, default is monotonic wall time
func WithClock(c engine.TimeProvider) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithManualClock drives the widget from a mock clock through Advance instead of the real-time loop
func WithManualClock(c *engine.ManualClock) Option {
	return func(o *options) {
		o.manual = c
		o.clock = c
	}
}

// WithRand sets the randomness source
func WithRand(r engine.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithRegistry shares a status registry, e.g. with a metrics exporter
func WithRegistry(reg *status.Registry) Option {
	return func(o *options) {
		o.status = reg
	}
}

// WithCheckout sets the purchase collaborator
func WithCheckout(c Checkout) Option {
	return func(o *options) {
		o.checkout = c
	}
}

// WithNotifier sets the toast collaborator
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithCue sets the audio cue collaborator
func WithCue(c Cue) Option {
	return func(o *options) {
		o.cue = c
	}
}

// WithHandler registers an extra event handler, e.g. a metrics recorder
func WithHandler(h events.Handler) Option {
	return func(o *options) {
		o.handlers = append(o.handlers, h)
	}
}

// WithAnchors overrides the effect anchor positions of the presenter layout
func WithAnchors(a systems.CartAnchors) Option {
	return func(o *options) {
		o.anchors = a
	}
}
