package internal

import (
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// Entry Type (key-value pair with expiry metadata)
// --------------------------------------------------------------------------

// Entry is one live key of the store. At most one Entry exists per key at any
// time; a Put on an existing key overwrites value, expiry and version in
// place.
type Entry struct {
	Key       string    // The key, also the ordering criterion of the table
	Value     []byte    // Opaque payload
	ExpiresAt time.Time // Absolute expiry deadline; meaningful only if HasExpiry
	Version   uint64    // Version drawn at the most recent Put of this key
	HasExpiry bool      // False means the key never expires
}

func (e *Entry) String() string {
	return fmt.Sprintf("Entry{Key: %s, Version: %d, HasExpiry: %t}", e.Key, e.Version, e.HasExpiry)
}

// Expired reports whether the entry's deadline has passed at the given
// reading. An entry expires exactly at its deadline, not after it.
func (e *Entry) Expired(now time.Time) bool {
	return e.HasExpiry && !now.Before(e.ExpiresAt)
}

// Less orders entries by key. It is the comparison function of the ordered
// table, which makes prefix scans a contiguous range query.
func Less(a, b *Entry) bool {
	return a.Key < b.Key
}
