package workpool

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	p := New(0)
	defer p.Close()

	if p.Workers() < MinWorkers {
		t.Errorf("expected at least %d workers, got %d", MinWorkers, p.Workers())
	}
}

func TestNewMinimum(t *testing.T) {
	p := New(1)
	defer p.Close()

	if p.Workers() != MinWorkers {
		t.Errorf("expected pool raised to %d workers, got %d", MinWorkers, p.Workers())
	}
}

func TestSubmitRunsTasks(t *testing.T) {
	p := New(4)
	defer p.Close()

	var counter atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		if !p.Submit(func() {
			defer wg.Done()
			counter.Add(1)
		}) {
			t.Fatal("expected Submit to accept task")
		}
	}
	wg.Wait()

	if counter.Load() != 100 {
		t.Errorf("expected 100 tasks run, got %d", counter.Load())
	}
}

func TestSubmitNeverBlocks(t *testing.T) {
	p := New(2)
	defer p.Close()

	// Occupy both workers.
	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			<-release
		})
	}

	// Submissions beyond worker capacity must return immediately.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			p.Submit(func() {})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Submit blocked with busy workers")
	}

	close(release)
	wg.Wait()
}

func TestSubmitNil(t *testing.T) {
	p := New(2)
	defer p.Close()

	if p.Submit(nil) {
		t.Error("expected Submit to reject nil task")
	}
}

func TestFIFOOrder(t *testing.T) {
	// A single-task-at-a-time pool would be ideal here; with the
	// minimum of two workers, serialize with a mutex and check that
	// tasks start in submission order.
	p := New(2)
	defer p.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	// Block the queue first so the order is decided by the queue, not
	// by submission racing with idle workers.
	gate := make(chan struct{})
	for i := 0; i < 2; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			<-gate
		})
	}
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	if got := p.Queued(); got != 10 {
		t.Errorf("expected 10 queued tasks, got %d", got)
	}
	close(gate)
	wg.Wait()

	// With two workers tasks may interleave by one position, but the
	// first task dequeued must be task 0 or 1.
	if len(order) != 10 {
		t.Fatalf("expected 10 recorded tasks, got %d", len(order))
	}
	if order[0] > 1 {
		t.Errorf("expected an early task first, got %d", order[0])
	}
}

func TestCloseWaitsForTasks(t *testing.T) {
	p := New(2)

	var counter atomic.Int32
	for i := 0; i < 50; i++ {
		p.Submit(func() {
			time.Sleep(time.Millisecond)
			counter.Add(1)
		})
	}
	p.Close()

	if counter.Load() != 50 {
		t.Errorf("expected all 50 tasks finished before Close returned, got %d", counter.Load())
	}
}

func TestSubmitAfterClose(t *testing.T) {
	p := New(2)
	p.Close()

	if p.Submit(func() {}) {
		t.Error("expected Submit to reject tasks after Close")
	}
}

func TestCloseIdempotent(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close() // must not panic or deadlock
}

// holdTask builds a task whose closure is the only lasting reference
// to obj once the caller drops its own.
func holdTask(obj *[1 << 20]byte, wg *sync.WaitGroup) func() {
	return func() {
		defer wg.Done()
		_ = obj[0]
	}
}

func TestDequeueReleasesTask(t *testing.T) {
	p := New(2)
	defer p.Close()

	payload := new([1 << 20]byte)
	finalized := make(chan struct{})
	runtime.SetFinalizer(payload, func(*[1 << 20]byte) { close(finalized) })

	// Hold both workers so the queue builds up a shared backing array
	// before any dequeue happens.
	gate := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < p.Workers(); i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			<-gate
		})
	}

	wg.Add(1)
	p.Submit(holdTask(payload, &wg))
	payload = nil

	// Follow-up tasks keep the queue inside the same backing array and
	// overwrite the workers' in-flight task references.
	for i := 0; i < 8; i++ {
		wg.Add(1)
		p.Submit(func() { wg.Done() })
	}

	close(gate)
	wg.Wait()

	deadline := time.Now().Add(5 * time.Second)
	for {
		runtime.GC()
		select {
		case <-finalized:
			return
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("expected dequeued task to be collectable")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
