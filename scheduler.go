package maskedit

import (
	"context"
	"sort"
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60 Hz display refresh.
const DefaultFrameInterval = time.Second / 60

// ChannelState is the scheduling state of one channel.
type ChannelState int

const (
	// Idle: nothing pending, next Schedule requests a frame.
	Idle ChannelState = iota

	// Scheduled: payloads queued, waiting for the next frame flush.
	Scheduled

	// Flushed: the channel's callback is being delivered the batch.
	// Payloads scheduled in this window land in the following frame.
	Flushed
)

// flushable is the scheduler's view of a channel.
type flushable interface {
	flush()
	pending() bool
}

// Scheduler coalesces high-frequency updates into at most one delivery per
// channel per display frame. Channels queue payloads as events arrive;
// RunFrame flushes every scheduled channel once, handing each registered
// callback its whole batch in a single call.
//
// The scheduler is cooperative: it performs no work until its owner drives
// it, either by calling RunFrame from its own loop (a UI tick) or by
// running Run on a ticker. Scheduling from other goroutines is safe;
// flushing is single-threaded by construction.
type Scheduler struct {
	mu       sync.Mutex
	channels []flushable
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) register(c flushable) {
	s.mu.Lock()
	s.channels = append(s.channels, c)
	s.mu.Unlock()
}

// RunFrame flushes every channel with pending payloads. This is one
// logical display frame; callers invoke it from their frame tick.
func (s *Scheduler) RunFrame() {
	s.mu.Lock()
	channels := make([]flushable, len(s.channels))
	copy(channels, s.channels)
	s.mu.Unlock()

	for _, c := range channels {
		c.flush()
	}
}

// Pending reports whether any channel has payloads waiting for a frame.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.channels {
		if c.pending() {
			return true
		}
	}
	return false
}

// Run drives RunFrame on a ticker until ctx is done. An interval of 0
// uses DefaultFrameInterval. Most frontends drive frames from their own
// event loop instead; Run exists for headless hosts.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.RunFrame()
		}
	}
}

// Channel is one named scheduling channel carrying payloads of type T.
// Its state machine is Idle -> Scheduled -> Flushed -> Idle. Payloads are
// never dropped and never delivered more than once; there is no
// cancellation, a flush simply delivers whatever is pending.
type Channel[T any] struct {
	name string
	fn   func([]T)
	less func(a, b T) bool

	mu    sync.Mutex
	queue []T
	state ChannelState
}

// NewChannel registers a channel on the scheduler. fn receives each frame's
// full batch in one call.
func NewChannel[T any](s *Scheduler, name string, fn func([]T)) *Channel[T] {
	c := &Channel[T]{name: name, fn: fn}
	s.register(c)
	return c
}

// SortBatch installs a batch ordering applied before delivery. The sort is
// stable, so payloads comparing equal keep arrival order.
func (c *Channel[T]) SortBatch(less func(a, b T) bool) {
	c.less = less
}

// Name returns the channel name.
func (c *Channel[T]) Name() string { return c.name }

// State returns the current scheduling state.
func (c *Channel[T]) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Schedule queues a payload for the next frame. Safe for concurrent use.
func (c *Channel[T]) Schedule(payload T) {
	c.mu.Lock()
	c.queue = append(c.queue, payload)
	if c.state == Idle {
		c.state = Scheduled
	}
	c.mu.Unlock()
}

// Len returns the number of queued payloads.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

func (c *Channel[T]) pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Scheduled
}

// flush delivers the pending batch. The callback runs outside the channel
// lock so it may schedule follow-up payloads; those land in the next frame.
func (c *Channel[T]) flush() {
	c.mu.Lock()
	if c.state != Scheduled {
		c.mu.Unlock()
		return
	}
	batch := c.queue
	c.queue = nil
	c.state = Flushed
	c.mu.Unlock()

	if c.less != nil {
		sort.SliceStable(batch, func(i, j int) bool { return c.less(batch[i], batch[j]) })
	}
	if len(batch) > 0 && c.fn != nil {
		Logger().Debug("maskedit: channel flush", "channel", c.name, "batch", len(batch))
		c.fn(batch)
	}

	c.mu.Lock()
	if len(c.queue) > 0 {
		c.state = Scheduled
	} else {
		c.state = Idle
	}
	c.mu.Unlock()
}
