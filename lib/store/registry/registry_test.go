package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cedarkv/cedar/lib/db"
	"github.com/cedarkv/cedar/lib/db/engines/cedar"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	r := New(func() db.KVDB {
		return cedar.NewCedarDB(nil)
	})
	t.Cleanup(func() {
		r.CloseAll()
	})
	return r
}

// TestGetOrCreate tests lazy creation and instance identity
func TestGetOrCreate(t *testing.T) {
	r := newTestRegistry(t)

	if _, ok := r.Get("sessions"); ok {
		t.Fatal("No store should exist before first use")
	}

	first := r.GetOrCreate("sessions")
	second := r.GetOrCreate("sessions")
	if first != second {
		t.Error("Same name must always yield the same instance")
	}

	if st, ok := r.Get("sessions"); !ok || st != first {
		t.Error("Get must return the created instance")
	}
}

// TestIsolation tests that differently named stores do not share data
func TestIsolation(t *testing.T) {
	r := newTestRegistry(t)

	a := r.GetOrCreate("a")
	b := r.GetOrCreate("b")

	if err := a.Put("k", []byte("v"), 0); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	if _, exists, _ := b.Get("k"); exists {
		t.Error("Stores must be isolated from each other")
	}
}

// TestDrop tests store removal
func TestDrop(t *testing.T) {
	r := newTestRegistry(t)

	r.GetOrCreate("tmp")
	if err := r.Drop("tmp"); err != nil {
		t.Fatalf("Drop returned error: %v", err)
	}
	if _, ok := r.Get("tmp"); ok {
		t.Error("Dropped store must not be retrievable")
	}

	// dropping an unknown name is a no-op
	if err := r.Drop("unknown"); err != nil {
		t.Errorf("Dropping an unknown name returned error: %v", err)
	}
}

// TestNames tests listing registered stores
func TestNames(t *testing.T) {
	r := newTestRegistry(t)

	r.GetOrCreate("a")
	r.GetOrCreate("b")

	names := r.Names()
	if len(names) != 2 {
		t.Errorf("Expected 2 names, got %v", names)
	}
}

// TestConcurrentGetOrCreate tests that concurrent first access yields one
// instance per name
func TestConcurrentGetOrCreate(t *testing.T) {
	r := newTestRegistry(t)

	numWorkers := 16
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func(n int) {
			defer wg.Done()
			st := r.GetOrCreate("shared")
			st.Put(fmt.Sprintf("key-%d", n), []byte("v"), 0)
		}(i)
	}
	wg.Wait()

	st := r.GetOrCreate("shared")
	count, err := st.Size()
	if err != nil {
		t.Fatalf("Size returned error: %v", err)
	}
	if count != numWorkers {
		t.Errorf("Expected %d entries in the shared store, got %d", numWorkers, count)
	}
}
