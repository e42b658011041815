// Package testing provides standardized tests and benchmarks for database
// implementations that satisfy the db.KVDB interface.
//
//   - RunKVDBTests: Runs a standardized test suite to validate implementations,
//     covering basic operations, expiry semantics (lazy and background),
//     ordered prefix scans, and concurrent access.
//   - RunKVDBBenchmarks: Provides performance benchmarks for comparing
//     implementations across write, read, scan and mixed workloads.
//
// Both entry points take a DBFactory so every test case runs against a fresh
// instance. Tests that rely on a feature the implementation does not
// advertise are skipped rather than failed.
package testing
