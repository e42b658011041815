// Package db provides a standardized interface for TTL-aware key-value
// database implementations. It defines a KVDB interface that allows for
// consistent interaction with various database backends while abstracting
// implementation details.
//
// The package focuses on:
//   - A unified interface for key-value operations with optional expiry
//   - Ordered prefix range scans over the key space
//   - Feature discovery through capability flags
//   - Comprehensive metadata reporting
//
// Key Components:
//
//   - KVDB Interface: The core interface that all database implementations must
//     satisfy. It provides methods for basic operations (Put, Get, Erase),
//     ordered queries (PrefixGet), maintenance operations (Size, Clear, Close)
//     and metadata retrieval (GetInfo).
//
//   - Feature Flags: The Feature type defines capability flags that
//     implementations can advertise through the SupportsFeature method. This
//     allows clients to discover supported operations at runtime.
//
//   - Implementation Identifiers: The Implementation type provides string
//     constants for different database backends (currently "cedar").
//
//   - Database Information: The DatabaseInfo structure provides standardized
//     reporting on database state, including size statistics, implementation
//     type, and implementation-specific metadata. Note: For most
//     implementations all size statistics will be estimated since a precise
//     calculation can be expensive.
//
// Note on Time-Based Operations:
//   - Every Put draws the next value from a process-wide monotonic version
//     counter. The version is used internally to decide whether a scheduled
//     expiry still describes the live entry; it is never exposed to callers.
//   - A ttl greater than zero makes the entry expire once the ttl has elapsed
//     relative to a monotonic clock reading taken at Put time. Wall-clock time
//     is never used for expiry comparisons, so clock adjustments cannot revive
//     or prematurely kill entries.
//   - Read operations must never return an entry whose ttl has elapsed, even
//     if the entry is still physically present pending reclamation. This
//     separation between logical state (expired) and physical state (still
//     resident) allows implementations to use efficient background reclamation
//     strategies without compromising the consistency guarantees of the
//     interface.
//
// Note on Expiry Reclamation:
//   - Implementations advertising FeatureSweep run a background sweeper that
//     eventually removes expired entries even if they are never read again.
//   - Size may transiently include expired-but-unswept entries; Get and
//     PrefixGet never surface them.
//
// Related Packages:
//
// The engines/cedar package (github.com/cedarkv/cedar/lib/db/engines/cedar)
// provides the reference implementation of the KVDB interface: an ordered
// in-memory table with a time-indexed expiry heap and a dedicated background
// sweeper coordinated through a wake channel.
//
// The util package (github.com/cedarkv/cedar/lib/db/util) provides
// complementary tools for KVDB implementations:
//   - Clock: A monotonic time source abstraction with a manual variant for tests
//   - ExpiryHeap: A min-heap over (deadline, version, key) expiry schedules
//   - SizeHistogram: Utilities for analyzing data size distributions
//
// The testing package (github.com/cedarkv/cedar/lib/db/testing) provides
// standardized tests and benchmarks for database implementations that satisfy
// the db.KVDB interface.
//   - RunKVDBTests: Runs a standardized test suite to validate implementations
//   - RunKVDBBenchmarks: Provides performance benchmarks for comparing implementations
package db
