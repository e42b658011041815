package util

import (
	"sort"
	"testing"
	"time"
)

// TestNewExpiryHeap tests the creation of a new ExpiryHeap
func TestNewExpiryHeap(t *testing.T) {
	h := NewExpiryHeap()

	if h == nil {
		t.Fatal("NewExpiryHeap() returned nil")
	}

	if h.Len() != 0 {
		t.Errorf("New heap should be empty, but has length %d", h.Len())
	}

	if _, ok := h.Peek(); ok {
		t.Error("Peek on an empty heap should report no node")
	}

	if _, ok := h.PopMin(); ok {
		t.Error("PopMin on an empty heap should report no node")
	}
}

// TestPushPeek tests that Peek always reports the earliest deadline
func TestPushPeek(t *testing.T) {
	h := NewExpiryHeap()
	base := time.Now()

	h.Push(HeapNode{Key: "b", ExpiresAt: base.Add(200 * time.Millisecond), Version: 1})
	h.Push(HeapNode{Key: "c", ExpiresAt: base.Add(300 * time.Millisecond), Version: 2})
	h.Push(HeapNode{Key: "a", ExpiresAt: base.Add(100 * time.Millisecond), Version: 3})

	if h.Len() != 3 {
		t.Errorf("Heap should have 3 nodes, but has %d", h.Len())
	}

	min, ok := h.Peek()
	if !ok {
		t.Fatal("Peek should find a node")
	}
	if min.Key != "a" {
		t.Errorf("Expected minimum key 'a', got %q", min.Key)
	}

	// Peek must not remove
	if h.Len() != 3 {
		t.Errorf("Peek should not remove nodes, length is %d", h.Len())
	}
}

// TestPushReportsNewMinimum tests the isMin return value of Push
func TestPushReportsNewMinimum(t *testing.T) {
	h := NewExpiryHeap()
	base := time.Now()

	if !h.Push(HeapNode{Key: "a", ExpiresAt: base.Add(time.Second), Version: 1}) {
		t.Error("First push must become the minimum")
	}

	if h.Push(HeapNode{Key: "b", ExpiresAt: base.Add(2 * time.Second), Version: 2}) {
		t.Error("Later deadline should not become the minimum")
	}

	if !h.Push(HeapNode{Key: "c", ExpiresAt: base.Add(500 * time.Millisecond), Version: 3}) {
		t.Error("Earlier deadline should become the minimum")
	}
}

// TestPopOrder tests that nodes pop in deadline order
func TestPopOrder(t *testing.T) {
	h := NewExpiryHeap()
	base := time.Now()

	offsets := []int{500, 100, 400, 200, 300}
	for i, off := range offsets {
		h.Push(HeapNode{
			Key:       "key",
			ExpiresAt: base.Add(time.Duration(off) * time.Millisecond),
			Version:   uint64(i),
		})
	}

	sorted := append([]int(nil), offsets...)
	sort.Ints(sorted)

	for _, want := range sorted {
		node, ok := h.PopMin()
		if !ok {
			t.Fatal("PopMin should find a node")
		}
		got := int(node.ExpiresAt.Sub(base) / time.Millisecond)
		if got != want {
			t.Errorf("Expected deadline offset %dms, got %dms", want, got)
		}
	}

	if h.Len() != 0 {
		t.Errorf("Heap should be empty after popping all nodes, length is %d", h.Len())
	}
}

// TestVersionTieBreak tests that equal deadlines pop in version order
func TestVersionTieBreak(t *testing.T) {
	h := NewExpiryHeap()
	deadline := time.Now().Add(time.Second)

	h.Push(HeapNode{Key: "third", ExpiresAt: deadline, Version: 30})
	h.Push(HeapNode{Key: "first", ExpiresAt: deadline, Version: 10})
	h.Push(HeapNode{Key: "second", ExpiresAt: deadline, Version: 20})

	for _, want := range []string{"first", "second", "third"} {
		node, ok := h.PopMin()
		if !ok {
			t.Fatal("PopMin should find a node")
		}
		if node.Key != want {
			t.Errorf("Expected key %q, got %q", want, node.Key)
		}
	}
}

// TestDuplicateKeys tests that the heap keeps superseded schedules for the
// same key (stale nodes are discarded by the consumer, not by the heap)
func TestDuplicateKeys(t *testing.T) {
	h := NewExpiryHeap()
	base := time.Now()

	h.Push(HeapNode{Key: "k", ExpiresAt: base.Add(100 * time.Millisecond), Version: 1})
	h.Push(HeapNode{Key: "k", ExpiresAt: base.Add(200 * time.Millisecond), Version: 2})

	if h.Len() != 2 {
		t.Errorf("Heap should keep both schedules for the same key, length is %d", h.Len())
	}

	first, _ := h.PopMin()
	second, _ := h.PopMin()
	if first.Version != 1 || second.Version != 2 {
		t.Errorf("Expected versions 1 then 2, got %d then %d", first.Version, second.Version)
	}
}

// TestReset tests that Reset drops all nodes
func TestReset(t *testing.T) {
	h := NewExpiryHeap()
	base := time.Now()

	for i := 0; i < 10; i++ {
		h.Push(HeapNode{Key: "k", ExpiresAt: base, Version: uint64(i)})
	}

	h.Reset()

	if h.Len() != 0 {
		t.Errorf("Heap should be empty after Reset, length is %d", h.Len())
	}

	if _, ok := h.Peek(); ok {
		t.Error("Peek after Reset should report no node")
	}

	// the heap must remain usable after Reset
	h.Push(HeapNode{Key: "k", ExpiresAt: base, Version: 100})
	if h.Len() != 1 {
		t.Errorf("Heap should accept nodes after Reset, length is %d", h.Len())
	}
}
