package store

import (
	"fmt"
	"io"
	"time"

	"github.com/cedarkv/cedar/lib/db"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates a new db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory func() db.KVDB

// IStore is the generic interface for interacting with a key–value store.
// All write operations return only an error (nil on success), while read
// operations return the requested data along with an error (nil on success).
// Errors are always of type *Error and carry a RetCode.
type IStore interface {
	// Put inserts or updates a key–value pair. A ttl greater than zero
	// schedules the entry for expiry; zero or less means no expiry.
	// Overwriting always replaces the previous expiry semantics.
	Put(key string, value []byte, ttl time.Duration) (err error)
	// Erase removes a key–value pair. The boolean return value indicates
	// whether an entry was removed; erasing an absent key is not an error.
	Erase(key string) (removed bool, err error)
	// Get returns the value for a key. The boolean return value indicates
	// whether a live (non-expired) value for the key was found.
	Get(key string) (value []byte, loaded bool, err error)
	// PrefixGet returns all live entries whose key starts with prefix, in
	// strictly increasing key order. A limit greater than zero caps the
	// number of returned pairs; zero or less means unlimited.
	PrefixGet(prefix string, limit int) (pairs []db.KV, err error)
	// Size returns the number of entries currently resident in the store.
	Size() (count int, err error)
	// Clear removes all entries from the store.
	Clear() (err error)
	// GetDBInfo returns metadata about the database underlying the store.
	// It is not guaranteed that all fields are filled in or that the information is up-to-date!
	GetDBInfo() (info db.DatabaseInfo, err error)
	// WriteMetrics writes the operational metrics of the underlying database
	// to w in Prometheus text exposition format.
	WriteMetrics(w io.Writer) (err error)
	// Close releases the store and stops all background work of the
	// underlying database.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCUnsupportedOperation:
		errorCode = "UnsupportedOperation"
	case RetCInvalidOperation:
		errorCode = "InvalidOperation"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("KVStoreError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new KVStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by underlying database.
	RetCInvalidOperation                    // 3: Invalid operation.
)
