package engine

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/urgency/events"
	"github.com/lixenwraith/urgency/status"
)

// Context holds the shared engine plumbing every system receives
//
// Immutable after NewContext. Systems mutate only their own state, inside scheduler
// callbacks or Scheduler.RunSafe, and talk to each other through Queue.
type Context struct {
	Clock     TimeProvider
	Scheduler *Scheduler
	Queue     *events.EventQueue
	Router    *events.Router
	Status    *status.Registry
	Rand      Rand
	Logger    *zap.Logger
}

// ContextOption configures a Context
type ContextOption func(*contextConfig)

type contextConfig struct {
	rand         Rand
	logger       *zap.Logger
	status       *status.Registry
	catchUpLimit int
}

// WithRand sets the randomness source, default is a time-seeded PCG
func WithRand(r Rand) ContextOption {
	return func(c *contextConfig) {
		c.rand = r
	}
}

// WithLogger sets the logger, default is a no-op logger
func WithLogger(l *zap.Logger) ContextOption {
	return func(c *contextConfig) {
		c.logger = l
	}
}

// WithStatus sets the status registry, default is a fresh registry
func WithStatus(reg *status.Registry) ContextOption {
	return func(c *contextConfig) {
		c.status = reg
	}
}

// WithContextCatchUpLimit forwards to the scheduler's catch-up limit
func WithContextCatchUpLimit(n int) ContextOption {
	return func(c *contextConfig) {
		c.catchUpLimit = n
	}
}

// NewContext wires clock, scheduler, queue and router
// Queued events are dispatched after every scheduler callback and RunSafe body
func NewContext(clock TimeProvider, opts ...ContextOption) *Context {
	cfg := contextConfig{catchUpLimit: DefaultCatchUpLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rand == nil {
		cfg.rand = NewTimeSeededRand()
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.status == nil {
		cfg.status = status.NewRegistry()
	}

	queue := events.NewEventQueue()
	router := events.NewRouter(queue)

	ctx := &Context{
		Clock:  clock,
		Queue:  queue,
		Router: router,
		Status: cfg.status,
		Rand:   cfg.rand,
		Logger: cfg.logger,
	}
	ctx.Scheduler = NewScheduler(clock,
		WithStatusRegistry(cfg.status),
		WithCatchUpLimit(cfg.catchUpLimit),
		WithAfterRun(func() { router.DispatchAll() }),
	)
	return ctx
}

// Emit queues an event stamped with the scheduler's logical time
func (c *Context) Emit(t events.EventType, payload any) {
	c.Queue.Emit(t, payload, c.Scheduler.Now())
}
