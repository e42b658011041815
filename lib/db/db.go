package db

import (
	"io"
	"time"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplCedar Implementation = "cedar"
)

// Feature represents database features as bit flags
type Feature uint64

const (
	FeaturePut        Feature = 1 << iota // Support for Put operations
	FeaturePutTTL                         // Support for Put operations with a time-to-live
	FeatureGet                            // Support for Get operations
	FeatureErase                          // Support for Erase operations
	FeaturePrefixScan                     // Support for ordered prefix range scans
	FeatureSize                           // Support for Size operations
	FeatureClear                          // Support for Clear operations
	FeatureSweep                          // Support for background expiry reclamation
	FeatureMetrics                        // Support for exporting operational metrics
)

func (f Feature) String() string {
	switch f {
	case FeaturePut:
		return "Put"
	case FeaturePutTTL:
		return "PutTTL"
	case FeatureGet:
		return "Get"
	case FeatureErase:
		return "Erase"
	case FeaturePrefixScan:
		return "PrefixScan"
	case FeatureSize:
		return "Size"
	case FeatureClear:
		return "Clear"
	case FeatureSweep:
		return "Sweep"
	case FeatureMetrics:
		return "Metrics"
	default:
		return "Unknown"
	}
}

// KV is a single key-value pair as returned by ordered scans.
type KV struct {
	Key   string
	Value []byte
}

type DatabaseInfo struct {
	SizeBytes         int            `json:"size_bytes"`
	DbType            Implementation `json:"db_type"`
	SupportedFeatures []Feature      `json:"supported_features"`
	Metadata          interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// KVDB defines an interface for TTL-aware key-value database implementations.
// It provides methods for basic operations like Put, Get, Erase, ordered
// prefix scans and various utility functions.
// Any implementation of this interface must manage keys in a consistent way.
// Implementations can vary in their feature support, which can be queried
// with SupportsFeature.
type KVDB interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Put inserts or updates an entry with the given key and value.
	// If the key already exists, the old value, expiry and version are
	// overwritten. A ttl greater than zero schedules the entry for removal once
	// the ttl has elapsed; a ttl of zero (or less) means the entry never
	// expires. Overwriting always resets the expiry semantics: a TTL put on a
	// previously non-expiring key adds expiry, a non-TTL put on a previously
	// expiring key removes it.
	Put(key string, value []byte, ttl time.Duration)

	// Erase removes an entry with the specified key.
	// The boolean return value indicates whether an entry was removed.
	// Erasing an absent key is a no-op.
	Erase(key string) (removed bool)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the value for an exact key.
	// The boolean return value indicates whether a live (non-expired) value for
	// the key was found. Implementations must never return an entry whose ttl
	// has elapsed, even if the entry has not been reclaimed yet.
	Get(key string) (value []byte, loaded bool)

	// PrefixGet returns all live entries whose key starts with prefix, in
	// strictly increasing lexicographic key order. Expired entries are skipped.
	// A limit greater than zero caps the number of returned pairs; a limit of
	// zero (or less) means unlimited.
	PrefixGet(prefix string, limit int) (pairs []KV)

	// Size returns the number of entries currently resident in the database.
	// The count may transiently include expired entries that have not yet been
	// reclaimed by the background sweeper.
	Size() (count int)

	// --------------------------------------------------------------------------
	// Maintenance Operations
	// --------------------------------------------------------------------------

	// Clear removes all entries and all pending expiry bookkeeping.
	Clear()

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the database implementation supports the specified feature.
	// Returns true if the feature is supported, false otherwise.
	// Multiple features can be checked at once using bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the database.
	GetInfo() (info DatabaseInfo)

	// Close stops all background work of the database. Entries present at the
	// time of the call are retained but no longer reclaimed.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Optional Interfaces
// --------------------------------------------------------------------------

// MetricsSource is implemented by databases that advertise FeatureMetrics.
// WriteMetrics writes all operational metrics of the database to the given
// writer in Prometheus text exposition format.
type MetricsSource interface {
	WriteMetrics(w io.Writer)
}
