package events

// maxDispatchRounds bounds handler cascades within one dispatch
const maxDispatchRounds = 16

// Handler processes specific event types
// Systems implement this interface to receive routed events
type Handler interface {
	// HandleEvent processes a single event
	// Called synchronously during dispatch, under the scheduler execution lock
	HandleEvent(event GameEvent)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// HandlerFunc adapts a function into a Handler for the given types
type HandlerFunc struct {
	Types []EventType
	Fn    func(GameEvent)
}

// HandleEvent implements Handler
func (h HandlerFunc) HandleEvent(event GameEvent) { h.Fn(event) }

// EventTypes implements Handler
func (h HandlerFunc) EventTypes() []EventType { return h.Types }

// Router dispatches events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
//   - Events emitted by handlers are dispatched in the same call, in later rounds
type Router struct {
	handlers map[EventType][]Handler
	queue    *EventQueue
}

// NewRouter creates a router attached to the given queue
func NewRouter(queue *EventQueue) *Router {
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    queue,
	}
}

// Queue returns the queue the router drains
func (r *Router) Queue() *EventQueue {
	return r.queue
}

// Register adds a handler for its declared event types
func (r *Router) Register(handler Handler) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// DispatchAll consumes pending events and routes them in FIFO order until the queue is
// empty or the round limit is hit; returns the number of events dispatched
func (r *Router) DispatchAll() int {
	n := 0
	for round := 0; round < maxDispatchRounds; round++ {
		events := r.queue.Consume()
		if len(events) == 0 {
			return n
		}
		for _, ev := range events {
			for _, h := range r.handlers[ev.Type] {
				h.HandleEvent(ev)
			}
		}
		n += len(events)
	}
	return n
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
