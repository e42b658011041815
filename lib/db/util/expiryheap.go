// Package util
//
// This file provides the priority queue that schedules expiry reclamation.
//
// The heap orders scheduled deletions by deadline so that a background
// sweeper can find the next key due for removal without scanning the whole
// table. Deadlines are tie-broken by version, which keeps the pop order
// deterministic when many keys share a deadline.
//
// Nodes are immutable value records: once pushed they are never mutated or
// removed out-of-band. A node that no longer describes the live entry for its
// key (because the key was overwritten or erased after scheduling) is simply
// popped and discarded by the consumer after a version check. This means the
// heap can hold more nodes than there are scheduled keys; the surplus is the
// documented stale backlog under TTL churn.
//
// Concurrency: the heap itself is not thread-safe. Callers serialize access
// with their own lock, which also keeps the heap lock independent from any
// table lock.
package util

import (
	"container/heap"
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// Node Type
// --------------------------------------------------------------------------

// HeapNode is one scheduled expiry: the key to reclaim, the deadline at which
// it becomes due, and the version of the entry the schedule was created for.
type HeapNode struct {
	Key       string
	ExpiresAt time.Time
	Version   uint64
}

func (n HeapNode) String() string {
	return fmt.Sprintf("{Key: %s, ExpiresAt: %s, Version: %d}", n.Key, n.ExpiresAt, n.Version)
}

// less orders nodes primarily by deadline, tie-broken by version.
func (n HeapNode) less(other HeapNode) bool {
	if !n.ExpiresAt.Equal(other.ExpiresAt) {
		return n.ExpiresAt.Before(other.ExpiresAt)
	}
	return n.Version < other.Version
}

// --------------------------------------------------------------------------
// Heap Implementation
// --------------------------------------------------------------------------

// nodeSlice adapts []HeapNode to heap.Interface.
type nodeSlice []HeapNode

func (s nodeSlice) Len() int            { return len(s) }
func (s nodeSlice) Less(i, j int) bool  { return s[i].less(s[j]) }
func (s nodeSlice) Swap(i, j int)       { s[i], s[j] = s[j], s[i] }
func (s *nodeSlice) Push(x interface{}) { *s = append(*s, x.(HeapNode)) }
func (s *nodeSlice) Pop() interface{} {
	old := *s
	n := len(old)
	node := old[n-1]
	old[n-1] = HeapNode{} // release the key string
	*s = old[:n-1]
	return node
}

// ExpiryHeap is a min-heap of scheduled expiries ordered by
// (deadline, version).
type ExpiryHeap struct {
	nodes nodeSlice
}

// NewExpiryHeap creates an empty expiry schedule.
func NewExpiryHeap() *ExpiryHeap {
	return &ExpiryHeap{nodes: make(nodeSlice, 0)}
}

// Len returns the number of scheduled nodes, including stale ones.
func (h *ExpiryHeap) Len() int { return len(h.nodes) }

// Push adds a node to the schedule. The boolean return value indicates
// whether the node became the new minimum, i.e. whether it carries the
// earliest pending deadline.
func (h *ExpiryHeap) Push(node HeapNode) (isMin bool) {
	heap.Push(&h.nodes, node)
	min := h.nodes[0]
	return min.Version == node.Version && min.ExpiresAt.Equal(node.ExpiresAt)
}

// Peek returns the node with the earliest deadline without removing it.
func (h *ExpiryHeap) Peek() (HeapNode, bool) {
	if len(h.nodes) == 0 {
		return HeapNode{}, false
	}
	return h.nodes[0], true
}

// PopMin removes and returns the node with the earliest deadline.
func (h *ExpiryHeap) PopMin() (HeapNode, bool) {
	if len(h.nodes) == 0 {
		return HeapNode{}, false
	}
	return heap.Pop(&h.nodes).(HeapNode), true
}

// Reset drops all scheduled nodes.
func (h *ExpiryHeap) Reset() {
	h.nodes = make(nodeSlice, 0)
}
