package reqtable

import (
	"sync"
	"testing"
)

func countAll(string) bool { return true }

func TestInsertIfAbsent(t *testing.T) {
	tb := New[string]()

	pending, inserted := tb.InsertIfAbsent("a", countAll)
	if !inserted {
		t.Fatal("expected first insert to succeed")
	}
	if pending != 0 {
		t.Errorf("expected 0 other pending, got %d", pending)
	}

	// Re-inserting a tracked key is a no-op.
	_, inserted = tb.InsertIfAbsent("a", countAll)
	if inserted {
		t.Error("expected duplicate insert to be rejected")
	}
	if tb.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", tb.Len())
	}
}

func TestInsertIfAbsentCountsPending(t *testing.T) {
	tb := New[string]()

	tb.InsertIfAbsent("a", countAll)
	tb.InsertIfAbsent("b", countAll)

	pending, inserted := tb.InsertIfAbsent("c", countAll)
	if !inserted {
		t.Fatal("expected insert to succeed")
	}
	if pending != 2 {
		t.Errorf("expected 2 other pending, got %d", pending)
	}
}

func TestInsertIfAbsentCountFilter(t *testing.T) {
	tb := New[string]()

	tb.InsertIfAbsent("thumb", countAll)
	tb.InsertIfAbsent("full", countAll)

	pending, _ := tb.InsertIfAbsent("next", func(k string) bool {
		return k != "thumb"
	})
	if pending != 1 {
		t.Errorf("expected filtered count 1, got %d", pending)
	}
}

func TestInsertIfAbsentSkipsLoaded(t *testing.T) {
	tb := New[string]()

	tb.InsertIfAbsent("a", countAll)
	tb.MarkLoaded("a")

	pending, _ := tb.InsertIfAbsent("b", countAll)
	if pending != 0 {
		t.Errorf("expected loaded entries not counted, got %d", pending)
	}
}

func TestMarkLoaded(t *testing.T) {
	tb := New[string]()

	if tb.MarkLoaded("missing") {
		t.Error("expected MarkLoaded to fail for untracked key")
	}

	tb.InsertIfAbsent("a", countAll)
	if !tb.MarkLoaded("a") {
		t.Error("expected MarkLoaded to succeed for tracked key")
	}
	// Loaded keys stay tracked.
	if !tb.Contains("a") {
		t.Error("expected loaded key to remain tracked")
	}
}

func TestDelete(t *testing.T) {
	tb := New[string]()

	tb.InsertIfAbsent("a", countAll)
	if !tb.Delete("a") {
		t.Error("expected Delete to return true for tracked key")
	}
	if tb.Contains("a") {
		t.Error("expected key to be gone")
	}
	if tb.Delete("a") {
		t.Error("expected Delete to return false for untracked key")
	}
}

func TestRetain(t *testing.T) {
	tb := New[string]()

	tb.InsertIfAbsent("a", countAll)
	tb.InsertIfAbsent("b", countAll)
	tb.InsertIfAbsent("c", countAll)

	tb.Retain(func(k string) bool { return k == "b" })

	if tb.Len() != 1 {
		t.Fatalf("expected 1 survivor, got %d", tb.Len())
	}
	if !tb.Contains("b") {
		t.Error("expected b to survive")
	}
}

func TestSnapshot(t *testing.T) {
	tb := New[string]()

	tb.InsertIfAbsent("a", countAll)
	tb.InsertIfAbsent("b", countAll)
	tb.MarkLoaded("b")

	snap := tb.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected snapshot of 2 (pending and loaded), got %d", len(snap))
	}
	seen := make(map[string]bool)
	for _, k := range snap {
		seen[k] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("expected snapshot {a b}, got %v", snap)
	}
}

func TestClear(t *testing.T) {
	tb := New[string]()

	tb.InsertIfAbsent("a", countAll)
	tb.InsertIfAbsent("b", countAll)
	tb.Clear()

	if tb.Len() != 0 {
		t.Errorf("expected empty table after Clear, got %d", tb.Len())
	}
}

func TestConcurrentInsert(t *testing.T) {
	tb := New[int]()
	var wg sync.WaitGroup

	// Many goroutines race to insert the same small key set; each key
	// must be tracked exactly once.
	var inserts [8]int
	var mu sync.Mutex
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			n := 0
			for k := 0; k < 100; k++ {
				if _, ok := tb.InsertIfAbsent(k, func(int) bool { return true }); ok {
					n++
				}
			}
			mu.Lock()
			inserts[g] = n
			mu.Unlock()
		}(g)
	}
	wg.Wait()

	total := 0
	for _, n := range inserts {
		total += n
	}
	if total != 100 {
		t.Errorf("expected 100 successful inserts across goroutines, got %d", total)
	}
	if tb.Len() != 100 {
		t.Errorf("expected 100 tracked keys, got %d", tb.Len())
	}
}
