// Package cedar implements a concurrent, TTL-aware, prefix-searchable
// in-memory key-value database (KVDB) with background expiry reclamation.
// It provides a complete implementation of the db.KVDB interface with a focus
// on thread safety and predictable expiry behavior.
//
// The package focuses on:
//   - An ordered table so prefix scans are contiguous range queries
//   - Time-based entry management with lazy and eager expiry
//   - A single background sweeper that reclaims expired entries without
//     impacting reads
//   - Per-instance operational metrics
//
// Key Components:
//
//   - cedarImpl: The central database structure implementing db.KVDB. It
//     coordinates the ordered table, the expiry heap and the sweeper, and
//     provides the public API for key-value operations.
//
//   - Entry: The core structure for storing values and metadata. Each entry
//     contains the byte value, an optional absolute expiry deadline and the
//     version drawn at its most recent Put. At most one entry exists per key.
//
//   - Expiry Heap: A min-heap of (deadline, version, key) schedules. One node
//     is pushed per TTL-bearing Put and consumed exactly once by the sweeper;
//     nodes are never mutated or removed out-of-band.
//
// Internal Mechanisms:
//
//   - Version Counter: A process-wide atomic counter stamped on every Put.
//     It provides the strict total order used to decide whether a popped heap
//     node still describes the live entry for its key. A node is authoritative
//     only if the live entry has an expiry that is due and carries exactly the
//     node's version; any mismatch (later Put, Erase, non-expiring overwrite)
//     makes the node stale and it is discarded silently. Stale nodes can
//     accumulate under heavy TTL churn on the same keys; this backlog is
//     unbounded by design and observable through GetInfo and the metrics set.
//
//   - Locking Discipline: The table is guarded by a reader/writer lock so
//     concurrent reads proceed in parallel; the heap is guarded by an
//     independent mutex. The two locks are never held at the same time: the
//     sweeper always releases the heap lock before touching the table, which
//     rules out lock-order inversion with any operation path.
//
//   - Lazy Expiry: A Get that encounters an expired entry releases its read
//     lock, re-acquires the write lock and deletes the entry only if it is
//     still expired under the fresh snapshot. This guards against a concurrent
//     Put that refreshed the key in between.
//
//   - Eager Sweep: The sweeper sleeps until the earliest pending deadline (or
//     up to the configured sweep interval when the heap is empty) and is woken
//     early whenever a Put schedules a sooner deadline. Expired entries
//     therefore disappear eventually even if they are never read again.
//
//   - Monotonic Time: All expiry comparisons use a monotonic clock reading,
//     never wall-clock time, so clock adjustments cannot revive or prematurely
//     expire entries.
package cedar
