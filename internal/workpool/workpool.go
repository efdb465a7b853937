// Package workpool provides the fixed-size goroutine pool that runs
// decode tasks off the interactive goroutine.
package workpool

import (
	"runtime"
	"sync"
)

// MinWorkers is the lower bound on pool size regardless of detected
// hardware parallelism.
const MinWorkers = 2

// Pool is a fixed-size pool of worker goroutines fed from a single
// unbounded FIFO queue.
//
// Submission never blocks: the queue grows as needed and workers drain
// it in order. The pipeline bounds outstanding work upstream (one task
// per distinct decode request), so the queue cannot grow past the
// number of tracked requests.
//
// Pool is safe for concurrent use and must not be copied after
// creation.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool

	workers int
	wg      sync.WaitGroup
}

// New creates a pool with the given number of workers and starts them.
// If workers <= 0, the pool is sized to available hardware parallelism,
// with a minimum of MinWorkers.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < MinWorkers {
		workers = MinWorkers
	}

	p := &Pool{workers: workers}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

// worker is the main loop for each worker goroutine. It drains the
// queue in FIFO order and exits once the pool is closed and empty.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 && p.closed {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue[0] = nil // the backing array must not pin the task
		p.queue = p.queue[1:]
		p.mu.Unlock()

		task()
	}
}

// Submit enqueues a task for execution. It never blocks the caller.
// Returns false if the pool has been closed; the task is not run in
// that case.
func (p *Pool) Submit(task func()) bool {
	if task == nil {
		return false
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.queue = append(p.queue, task)
	p.mu.Unlock()

	p.cond.Signal()
	return true
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Queued returns the number of tasks waiting to run.
func (p *Pool) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Close stops accepting new tasks, waits for queued and running tasks
// to finish, and then stops all workers. Close is safe to call
// multiple times.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
}
