// Package lstore implements a local, in-memory, single-process key-value store
// based on the store.IStore interface. It provides a thin wrapper around any
// db.KVDB implementation with feature validation on every operation. Data is
// stored entirely in memory and is not persisted between process restarts.
//
// Key Features:
//   - Pure in-memory storage without persistence
//   - Direct integration with db.KVDB implementations
//   - Feature detection to handle unsupported operations gracefully
//   - Thread-safe operations for concurrent access
//
// Implementation Details:
//
//   - Feature Detection: Before executing operations, the store checks if the underlying
//     db.KVDB implementation supports the requested feature through the SupportsFeature
//     method. Unsupported operations return appropriate error codes rather than failing
//     silently or producing undefined behavior. A Put with a positive ttl additionally
//     requires the backend to support TTL scheduling.
//
//   - Composition Architecture: The store follows a composition pattern where the
//     store.DBFactory factory function injects the underlying db.KVDB implementation.
//     This allows the store to work with any db.KVDB-compatible engine without modification.
//
// Thread Safety:
//
//	All operations in the local store are thread-safe. The underlying db.KVDB
//	implementation is expected to provide its own thread safety guarantees for
//	the actual storage operations.
//
// Usage Example:
//
//	// Create a store with a cedar database backend
//	factory := func() db.KVDB { return cedar.NewCedarDB(nil) }
//	st := lstore.NewLocalStore(factory)
//	defer st.Close()
//
//	// Store a value with 5-minute expiry
//	err := st.Put("session:123", sessionData, 5*time.Minute)
//
//	// Retrieve the value
//	value, exists, err := st.Get("session:123")
//
//	// List all sessions in key order
//	pairs, err := st.PrefixGet("session:", 0)
//
// Suitable Use Cases:
//
//	The local store is ideal for:
//	- Ephemeral data that doesn't need to survive process restarts
//	- Single-process applications
//	- Testing and development environments
//	- Runtime caching and session storage within a single process
//
// Performance Considerations:
//
//	The local store adds minimal overhead to the underlying db.KVDB implementation.
//	The primary additional cost is the feature bitmask check per operation, which
//	has negligible impact compared to the actual storage operations.
package lstore
