// Package registry manages named store.IStore instances within a single
// process. Stores are created lazily on first access and share one
// store.DBFactory, so every store runs on the same database engine
// configuration while keeping its data fully isolated.
//
// The registry is backed by a concurrent map and is safe for concurrent use
// without external locking. Typical consumers are CLI commands and embedding
// applications that keep several logical keyspaces (sessions, caches,
// feature data) side by side.
package registry
