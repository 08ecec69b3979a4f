package engine

import (
	"container/heap"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/urgency/core"
	"github.com/lixenwraith/urgency/status"
)

const (
	// DefaultCatchUpLimit is the lag, in intervals, after which a periodic task is re-anchored
	DefaultCatchUpLimit = 100

	defaultIdlePoll = 250 * time.Millisecond
)

// Handle identifies a scheduled task and cancels it
type Handle struct {
	id        uint64
	name      string
	cancelled atomic.Bool
	sched     *Scheduler
}

// Cancel removes the task from the scheduler, idempotent and nil-safe
// A callback that has not started yet never runs after Cancel returns
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	if h.cancelled.CompareAndSwap(false, true) && h.sched != nil {
		h.sched.remove(h.id)
	}
}

// Cancelled reports whether the task was cancelled or the scheduler stopped
func (h *Handle) Cancelled() bool {
	return h == nil || h.cancelled.Load()
}

// Name returns the task name given at scheduling time
func (h *Handle) Name() string {
	if h == nil {
		return ""
	}
	return h.name
}

type task struct {
	handle   *Handle
	fn       func(now time.Time)
	interval time.Duration // Zero for one-shot
	deadline time.Time
	seq      uint64
	index    int
	runs     *atomic.Int64
}

// Scheduler is the cooperative executor shared by every periodic component
// Callbacks and RunSafe bodies run one at a time under a single execution lock,
// to completion, in (deadline, submission) order
type Scheduler struct {
	clock        TimeProvider
	catchUpLimit int
	idlePoll     time.Duration

	mu      sync.Mutex
	queue   taskHeap
	tasks   map[uint64]*task
	nextID  uint64
	nextSeq uint64
	closed  bool

	// Logical time of the callback in flight, zero outside callbacks
	current time.Time

	execMu   sync.Mutex
	afterRun func()

	wake     chan struct{}
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	wg       sync.WaitGroup

	statusReg  *status.Registry
	statTicks  *atomic.Int64
	statQueued *atomic.Int64
	statLag    *status.AtomicFloat
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithCatchUpLimit sets how many missed intervals a periodic task may replay in the real-time loop
func WithCatchUpLimit(n int) SchedulerOption {
	return func(s *Scheduler) {
		s.catchUpLimit = n
	}
}

// WithStatusRegistry publishes scheduler counters into reg
func WithStatusRegistry(reg *status.Registry) SchedulerOption {
	return func(s *Scheduler) {
		s.statusReg = reg
	}
}

// WithIdlePoll sets the real-time loop sleep while idle or paused
func WithIdlePoll(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.idlePoll = d
		}
	}
}

// WithAfterRun sets a hook run after every callback and RunSafe body, still under the execution lock
// The engine context dispatches queued events here
func WithAfterRun(fn func()) SchedulerOption {
	return func(s *Scheduler) {
		s.afterRun = fn
	}
}

// NewScheduler creates a scheduler driven by clock
func NewScheduler(clock TimeProvider, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		clock:        clock,
		catchUpLimit: DefaultCatchUpLimit,
		idlePoll:     defaultIdlePoll,
		tasks:        make(map[uint64]*task),
		wake:         make(chan struct{}, 1),
		stopChan:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.statusReg == nil {
		s.statusReg = status.NewRegistry()
	}
	s.statTicks = s.statusReg.Ints.Get("sched.ticks")
	s.statQueued = s.statusReg.Ints.Get("sched.queued")
	s.statLag = s.statusReg.Floats.Get("sched.max_lag_ms")
	return s
}

// Status returns the registry receiving scheduler counters
func (s *Scheduler) Status() *status.Registry {
	return s.statusReg
}

// Now returns the logical time: the scheduled deadline inside a callback, the clock otherwise
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	cur := s.current
	s.mu.Unlock()
	if !cur.IsZero() {
		return cur
	}
	return s.clock.Now()
}

// Every schedules fn every interval, first run one interval from now
func (s *Scheduler) Every(name string, interval time.Duration, fn func(now time.Time)) *Handle {
	if interval <= 0 {
		panic(fmt.Sprintf("scheduler: non-positive interval for task %q", name))
	}
	return s.schedule(name, s.Now().Add(interval), interval, fn)
}

// After schedules fn once, d from now
func (s *Scheduler) After(name string, d time.Duration, fn func(now time.Time)) *Handle {
	if d < 0 {
		d = 0
	}
	return s.schedule(name, s.Now().Add(d), 0, fn)
}

// At schedules fn once at an absolute deadline
func (s *Scheduler) At(name string, deadline time.Time, fn func(now time.Time)) *Handle {
	return s.schedule(name, deadline, 0, fn)
}

func (s *Scheduler) schedule(name string, deadline time.Time, interval time.Duration, fn func(now time.Time)) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	h := &Handle{id: s.nextID, name: name, sched: s}
	if s.closed {
		h.cancelled.Store(true)
		return h
	}

	t := &task{
		handle:   h,
		fn:       fn,
		interval: interval,
		deadline: deadline,
		seq:      s.seq(),
		runs:     s.statusReg.Ints.Get("task." + name + ".runs"),
	}
	s.tasks[h.id] = t
	heap.Push(&s.queue, t)
	s.statQueued.Store(int64(len(s.queue)))

	if t.index == 0 {
		s.signal()
	}
	return h
}

// seq must be called with mu held
func (s *Scheduler) seq() uint64 {
	s.nextSeq++
	return s.nextSeq
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return
	}
	delete(s.tasks, id)
	if t.index >= 0 {
		heap.Remove(&s.queue, t.index)
	}
	s.statQueued.Store(int64(len(s.queue)))
}

// Pending returns the number of queued tasks
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// NextDeadline returns the earliest queued deadline
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].deadline, true
}

// RunDue executes every task whose deadline is at or before now and returns the number run
// catchUpLimit > 0 re-anchors periodic tasks lagging more than that many intervals; 0 replays every missed tick
func (s *Scheduler) RunDue(now time.Time, catchUpLimit int) int {
	ran := 0
	for {
		s.mu.Lock()
		if s.closed || len(s.queue) == 0 || s.queue[0].deadline.After(now) {
			s.mu.Unlock()
			return ran
		}
		t := heap.Pop(&s.queue).(*task)
		s.mu.Unlock()

		if s.run(t, now) {
			ran++
		}

		s.mu.Lock()
		if t.interval > 0 && !t.handle.cancelled.Load() && !s.closed {
			next := t.deadline.Add(t.interval)
			if catchUpLimit > 0 && now.Sub(next) > time.Duration(catchUpLimit)*t.interval {
				next = now.Add(t.interval)
			}
			t.deadline = next
			t.seq = s.seq()
			heap.Push(&s.queue, t)
		} else {
			delete(s.tasks, t.handle.id)
		}
		s.statQueued.Store(int64(len(s.queue)))
		s.mu.Unlock()
	}
}

// run executes one callback under the execution lock
func (s *Scheduler) run(t *task, now time.Time) bool {
	s.execMu.Lock()
	defer s.execMu.Unlock()

	if t.handle.cancelled.Load() {
		return false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.current = t.deadline
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.current = time.Time{}
		s.mu.Unlock()
	}()

	t.fn(t.deadline)
	if s.afterRun != nil {
		s.afterRun()
	}

	t.runs.Add(1)
	s.statTicks.Add(1)
	s.statLag.Max(float64(now.Sub(t.deadline)) / float64(time.Millisecond))
	return true
}

// RunSafe runs fn under the execution lock so it never interleaves with a callback
// Returns false without running fn once the scheduler is stopped
// Must not be called from inside a callback
func (s *Scheduler) RunSafe(fn func(now time.Time)) bool {
	s.execMu.Lock()
	defer s.execMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	now := s.clock.Now()
	s.current = now
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.current = time.Time{}
		s.mu.Unlock()
	}()

	fn(now)
	if s.afterRun != nil {
		s.afterRun()
	}
	return true
}

// Wake forces the real-time loop to re-evaluate deadlines, used after Resume
func (s *Scheduler) Wake() {
	s.signal()
}

// Start begins the real-time loop
func (s *Scheduler) Start() {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	if s.running.CompareAndSwap(false, true) {
		s.wg.Add(1)
		core.Go(s.loop)
	}
}

// Stop halts the loop, cancels every task and closes the scheduler
// Waits for an in-flight callback; must not be called from inside a callback
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.running.CompareAndSwap(true, false) {
			close(s.stopChan)
			s.wg.Wait()
		}

		s.execMu.Lock()
		defer s.execMu.Unlock()

		s.mu.Lock()
		defer s.mu.Unlock()

		s.closed = true
		for _, t := range s.tasks {
			t.handle.cancelled.Store(true)
		}
		s.tasks = make(map[uint64]*task)
		s.queue = nil
		s.statQueued.Store(0)
	})
}

// Closed reports whether Stop has run
func (s *Scheduler) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// loop sleeps until the earliest deadline and runs due tasks, pause aware without busy-wait
func (s *Scheduler) loop() {
	defer s.wg.Done()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		default:
		}

		s.RunDue(s.clock.Now(), s.catchUpLimit)

		sleep := s.idlePoll
		if p, ok := s.clock.(pauser); !ok || !p.IsPaused() {
			if next, ok := s.NextDeadline(); ok {
				sleep = next.Sub(s.clock.Now())
				if sleep < 0 {
					sleep = 0
				}
			}
		}

		timer.Reset(sleep)
		select {
		case <-timer.C:
		case <-s.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-s.stopChan:
			return
		}
	}
}

// taskHeap orders tasks by deadline, then submission sequence
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
