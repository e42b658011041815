// Package util provides utility components for
// database implementations that satisfy the db.KVDB interface.
//
// The package contains:
//   - clock: A monotonic time source abstraction (Clock) with a system-backed
//     implementation and a ManualClock for deterministic expiry tests
//   - expiryheap: A min-heap over (deadline, version, key) records used to
//     schedule background expiry reclamation
//   - statistics: A SizeHistogram for tracking data size distribution
//
// This package is particularly useful for:
//   - Database developers implementing the KVDB interface
//   - Implementation of expiry scheduling or other priority queue systems
//   - Monitoring systems that need to track database size metrics
//
// Each component is designed to work with any implementation of the db.KVDB
// interface, allowing for consistent behavior across different storage
// backends.
package util
