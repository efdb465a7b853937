package vrr

import (
	"sync"
	"time"

	"github.com/gogpu/vrr/internal/reqtable"
	"github.com/gogpu/vrr/internal/workpool"
)

// Debounce defaults. A submission that finds other non-thumbnail
// requests already pending delays its worker task before decoding, so
// a fast-scrolling user expires stale requests instead of flooding the
// pool with decodes nobody will see.
const (
	// DefaultDebounceShort is the delay used when at least one other
	// request is pending.
	DefaultDebounceShort = 10 * time.Millisecond

	// DefaultDebounceLong is the delay used when the pool is busy
	// (more than debounceBusyThreshold other requests pending).
	DefaultDebounceLong = 100 * time.Millisecond

	// debounceBusyThreshold is the pending-count above which the long
	// delay applies.
	debounceBusyThreshold = 5
)

// SchedulerOption configures a Scheduler during creation.
type SchedulerOption func(*schedulerOptions)

type schedulerOptions struct {
	workers       int
	debounceShort time.Duration
	debounceLong  time.Duration
}

func defaultSchedulerOptions() schedulerOptions {
	return schedulerOptions{
		workers:       0, // auto
		debounceShort: DefaultDebounceShort,
		debounceLong:  DefaultDebounceLong,
	}
}

// WithWorkers sets the worker pool size. n <= 0 sizes the pool to
// available hardware parallelism with a minimum of two workers.
func WithWorkers(n int) SchedulerOption {
	return func(o *schedulerOptions) { o.workers = n }
}

// WithDebounce overrides the debounce delays. Useful in tests; the
// defaults match interactive scrolling behavior.
func WithDebounce(short, long time.Duration) SchedulerOption {
	return func(o *schedulerOptions) {
		o.debounceShort = short
		o.debounceLong = long
	}
}

// Scheduler dispatches decode requests to a worker pool, deduplicating
// them through a shared request table and delivering results through a
// channel drained by the interactive goroutine.
//
// The core invariant is at-most-one outstanding decode per distinct
// (reference, resolution) request: a request is tracked from the moment
// it is submitted until it is pruned, and re-submitting a tracked
// request is a no-op regardless of its state.
//
// Submit, Drain, Prune, and Snapshot are safe for concurrent use,
// though the intended shape is a single interactive goroutine calling
// all of them while pool workers run decodes.
type Scheduler struct {
	decode DecodeFunc
	table  *reqtable.Table[Request]
	pool   *workpool.Pool

	results chan Result
	done    chan struct{}
	closeMu sync.Mutex
	closed  bool

	debounceShort time.Duration
	debounceLong  time.Duration
}

// NewScheduler creates a scheduler that decodes requests with the
// given function. The decode function must be safe for concurrent
// calls with different arguments.
func NewScheduler(decode DecodeFunc, opts ...SchedulerOption) *Scheduler {
	o := defaultSchedulerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pool := workpool.New(o.workers)
	Logger().Info("decode pool created", "workers", pool.Workers())

	return &Scheduler{
		decode:        decode,
		table:         reqtable.New[Request](),
		pool:          pool,
		results:       make(chan Result, pool.Workers()*4),
		done:          make(chan struct{}),
		debounceShort: o.debounceShort,
		debounceLong:  o.debounceLong,
	}
}

// Workers returns the size of the decode pool.
func (s *Scheduler) Workers() int { return s.pool.Workers() }

// Submit registers intent to decode req. If req is already tracked
// (pending or loaded) Submit is a no-op, preserving the at-most-one
// outstanding decode invariant. Otherwise the request is inserted as
// pending and a task is enqueued on the worker pool.
//
// Submit never blocks: all decode work, including the debounce delay,
// runs on pool goroutines.
func (s *Scheduler) Submit(req Request) {
	pending, inserted := s.table.InsertIfAbsent(req, func(r Request) bool {
		return r.Resolution != ResolutionThumbnail
	})
	if !inserted {
		return
	}

	if !s.pool.Submit(func() { s.run(req, pending) }) {
		// Pool already closed: drop the entry so the table does not
		// advertise a request that no worker will ever serve.
		s.table.Delete(req)
	}
}

// run executes one decode task on a pool goroutine. pending is the
// submission-time snapshot of other pending non-thumbnail requests.
func (s *Scheduler) run(req Request, pending int) {
	if pending > 0 {
		delay := s.debounceShort
		if pending > debounceBusyThreshold {
			delay = s.debounceLong
		}
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-s.done:
			timer.Stop()
			return
		}
	}

	// Staleness check: the user may have scrolled away during the
	// delay and pruned this request. Decoding it would be wasted work.
	if !s.table.Contains(req) {
		Logger().Debug("stale request dropped", "request", req.String())
		return
	}

	img, err := s.decode(req.Ref, req.Resolution)
	res := Result{Image: img, Err: err}

	select {
	case s.results <- res:
	case <-s.done:
		Logger().Debug("result discarded", "request", req.String())
		return
	}
	s.table.MarkLoaded(req)
}

// Drain returns all results completed since the last call, in
// completion order, without blocking and without touching the request
// table. Failed decodes appear as error results; they are never
// silently dropped.
func (s *Scheduler) Drain() []Result {
	var out []Result
	for {
		select {
		case r := <-s.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Prune removes table entries whose reference is not in keep, except
// entries at the exempt resolution, which survive regardless of
// position. Passing the thumbnail resolution as exempt lets a
// thumbnail pass stay cached indefinitely while higher resolutions are
// pruned against the locality window.
func (s *Scheduler) Prune(keep []ImageRef, exempt Resolution) {
	keepSet := make(map[ImageRef]struct{}, len(keep))
	for _, ref := range keep {
		keepSet[ref] = struct{}{}
	}
	s.table.Retain(func(r Request) bool {
		if r.Resolution == exempt {
			return true
		}
		_, ok := keepSet[r.Ref]
		return ok
	})
}

// Snapshot returns all currently tracked requests, pending and loaded.
// The layer cache prunes against this set so the two tiers never
// disagree about what the locality window considers relevant.
func (s *Scheduler) Snapshot() []Request {
	return s.table.Snapshot()
}

// Tracked returns the number of tracked requests.
func (s *Scheduler) Tracked() int { return s.table.Len() }

// Reset drops every table entry, including thumbnails. In-flight
// decodes fail their staleness check and abort; results already
// buffered remain drainable.
func (s *Scheduler) Reset() {
	s.table.Clear()
}

// Close tears down the scheduler: workers blocked on the debounce
// delay or on result delivery abort, and the pool is drained and
// stopped. Results not yet drained stay buffered. Close is safe to
// call multiple times.
func (s *Scheduler) Close() {
	s.closeMu.Lock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	s.closeMu.Unlock()

	s.pool.Close()
}
