// Package store provides a high-level interface for key-value storage
// operations with TTL-based expiry, ordered prefix scans and unified error
// handling. It serves as an abstraction layer over the lower-level db.KVDB
// implementations, adding feature validation and standardized error reporting.
//
// The package focuses on:
//   - A unified interface (IStore) for key-value operations across different backends
//   - Pluggable storage backend architecture through DBFactory pattern
//
// Key Components:
//
//   - IStore Interface: The core abstraction defining operations for interacting with
//     a key-value store. All implementations share this common interface, allowing
//     applications to switch between different storage backends without code changes.
//     The interface methods return custom Error types that provide detailed information
//     about operation results.
//
//   - Error System: A structured error reporting mechanism using typed error codes
//     and descriptive messages. This system allows applications to make informed
//     decisions based on specific error conditions rather than generic errors.
//
//   - DBFactory: A function type that abstracts the creation of underlying db.KVDB
//     instances, providing dependency injection and flexible configuration of
//     storage backends.
//
// Implementations:
//
//	The package includes one implementation of the IStore interface:
//
//	- Local Store (lstore): A simple, non-distributed implementation that directly
//	  utilizes a db.KVDB instance. It validates every operation against the feature
//	  set the backend advertises before dispatching it. This implementation is
//	  suitable for single-process applications.
//	  Available in the "github.com/cedarkv/cedar/lib/store/lstore" package.
//
//	The sibling registry package manages named store instances for processes
//	that host several independent stores side by side.
//
// This interface-driven approach allows applications to:
//   - Switch between storage backends depending on deployment requirements
//   - Handle errors in a consistent and type-safe manner across implementations
//   - Abstract storage implementation details from application logic
package store
