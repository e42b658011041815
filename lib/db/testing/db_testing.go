package testing

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cedarkv/cedar/lib/db"
)

// DBFactory is a function that creates a new instance of a KVDB implementation
type DBFactory func() db.KVDB

// RunKVDBTests runs a comprehensive test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, factory())
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory())
		})

		t.Run("NoTTLPersistence", func(t *testing.T) {
			testNoTTLPersistence(t, factory())
		})

		t.Run("ExpiryViaGet", func(t *testing.T) {
			testExpiryViaGet(t, factory())
		})

		t.Run("TTLRefresh", func(t *testing.T) {
			testTTLRefresh(t, factory())
		})

		t.Run("BackgroundSweep", func(t *testing.T) {
			testBackgroundSweep(t, factory())
		})

		t.Run("PrefixOrdering", func(t *testing.T) {
			testPrefixOrdering(t, factory())
		})

		t.Run("PrefixLimit", func(t *testing.T) {
			testPrefixLimit(t, factory())
		})

		t.Run("PrefixExcludesExpired", func(t *testing.T) {
			testPrefixExcludesExpired(t, factory())
		})

		t.Run("EraseIdempotent", func(t *testing.T) {
			testEraseIdempotent(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("ManyExpiringKeys", func(t *testing.T) {
			testManyExpiringKeys(t, factory())
		})

		t.Run("ConcurrentAccess", func(t *testing.T) {
			testConcurrentAccess(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the database supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, database db.KVDB, feature db.Feature) {
	if !database.SupportsFeature(feature) {
		t.Skip()
	}
}

// waitForSize polls Size until it reaches want or the deadline elapses.
// Returns the last observed size.
func waitForSize(database db.KVDB, want int, deadline time.Duration) int {
	limit := time.Now().Add(deadline)
	for {
		size := database.Size()
		if size == want || time.Now().After(limit) {
			return size
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testPutGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeatureGet)

	testKey := "test-key"
	testValue := []byte("test-value")

	database.Put(testKey, testValue, 0)

	result, exists := database.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Put", testKey)
	}
	if !bytes.Equal(result, testValue) {
		t.Errorf("Expected value %s, got %s", testValue, result)
	}

	_, exists = database.Get("nonexistent-key")
	if exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}

	// mutating a returned value must not affect the stored value
	retrievedValue, _ := database.Get(testKey)
	retrievedValue[0] = 'X'

	originalValue, _ := database.Get(testKey)
	if bytes.Equal(retrievedValue, originalValue) {
		t.Errorf("Get should return a copy, not a reference to the stored value")
	}
}

func testOverwrite(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeatureGet)

	testKey := "overwrite-key"

	database.Put(testKey, []byte("value1"), 0)
	database.Put(testKey, []byte("value2"), 0)

	result, exists := database.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after overwrite", testKey)
	}
	if !bytes.Equal(result, []byte("value2")) {
		t.Errorf("Expected value2, got %s", result)
	}

	if database.Size() != 1 {
		t.Errorf("Overwriting must not create a second entry, size is %d", database.Size())
	}
}

func testNoTTLPersistence(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeatureGet)

	testKey := "persistent-key"
	testValue := []byte("persistent-value")

	database.Put(testKey, testValue, 0)

	// far longer than any sweep interval
	time.Sleep(500 * time.Millisecond)

	result, exists := database.Get(testKey)
	if !exists {
		t.Errorf("Key without TTL must never expire")
	}
	if !bytes.Equal(result, testValue) {
		t.Errorf("Expected value %s, got %s", testValue, result)
	}
}

func testExpiryViaGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut|db.FeaturePutTTL)
	requireFeature(t, database, db.FeatureGet)

	database.Put("x", []byte("1"), 50*time.Millisecond)

	result, exists := database.Get("x")
	if !exists {
		t.Fatalf("Key should exist immediately after Put with TTL")
	}
	if !bytes.Equal(result, []byte("1")) {
		t.Errorf("Expected value 1, got %s", result)
	}

	time.Sleep(80 * time.Millisecond)

	_, exists = database.Get("x")
	if exists {
		t.Errorf("Key should be expired after its TTL elapsed")
	}
}

func testTTLRefresh(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut|db.FeaturePutTTL)
	requireFeature(t, database, db.FeatureGet)

	// first put would expire at 100ms
	database.Put("k", []byte("v1"), 100*time.Millisecond)

	time.Sleep(50 * time.Millisecond)

	// refresh before the first TTL elapses; only this put governs expiry now
	database.Put("k", []byte("v2"), 400*time.Millisecond)

	// past the first deadline: the superseded schedule must not delete the
	// refreshed entry
	time.Sleep(100 * time.Millisecond)

	result, exists := database.Get("k")
	if !exists {
		t.Fatalf("Refreshed key must survive the superseded TTL")
	}
	if !bytes.Equal(result, []byte("v2")) {
		t.Errorf("Expected v2, got %s", result)
	}

	// past the second deadline
	time.Sleep(400 * time.Millisecond)

	_, exists = database.Get("k")
	if exists {
		t.Errorf("Key should be expired after the refreshed TTL elapsed")
	}
}

func testBackgroundSweep(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut|db.FeaturePutTTL)
	requireFeature(t, database, db.FeatureSize)
	requireFeature(t, database, db.FeatureSweep)

	database.Put("short-lived", []byte("x"), 50*time.Millisecond)

	if database.Size() != 1 {
		t.Fatalf("Expected size 1 after Put, got %d", database.Size())
	}

	// the key must disappear from the resident count without ever being read
	size := waitForSize(database, 0, 3*time.Second)
	if size != 0 {
		t.Errorf("Expected the sweeper to reclaim the expired key, size is %d", size)
	}
}

func testPrefixOrdering(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeaturePrefixScan)

	database.Put("app", []byte("1"), 0)
	database.Put("apple", []byte("2"), 0)
	database.Put("apricot", []byte("3"), 0)
	database.Put("banana", []byte("4"), 0)

	pairs := database.PrefixGet("ap", 0)

	want := []db.KV{
		{Key: "app", Value: []byte("1")},
		{Key: "apple", Value: []byte("2")},
		{Key: "apricot", Value: []byte("3")},
	}

	if len(pairs) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(pairs))
	}
	for i := range want {
		if pairs[i].Key != want[i].Key {
			t.Errorf("Result %d: expected key %s, got %s", i, want[i].Key, pairs[i].Key)
		}
		if !bytes.Equal(pairs[i].Value, want[i].Value) {
			t.Errorf("Result %d: expected value %s, got %s", i, want[i].Value, pairs[i].Value)
		}
	}

	// strictly increasing key order
	for i := 1; i < len(pairs); i++ {
		if pairs[i-1].Key >= pairs[i].Key {
			t.Errorf("Results not in strictly increasing order: %s before %s", pairs[i-1].Key, pairs[i].Key)
		}
	}
}

func testPrefixLimit(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeaturePrefixScan)

	database.Put("app", []byte("1"), 0)
	database.Put("apple", []byte("2"), 0)
	database.Put("apricot", []byte("3"), 0)

	pairs := database.PrefixGet("ap", 2)
	if len(pairs) != 2 {
		t.Errorf("Expected limit to cap results at 2, got %d", len(pairs))
	}

	// the limit selects the lexicographically smallest matches
	if pairs[0].Key != "app" || pairs[1].Key != "apple" {
		t.Errorf("Expected [app apple], got [%s %s]", pairs[0].Key, pairs[1].Key)
	}

	// a limit larger than the result set returns everything
	pairs = database.PrefixGet("ap", 10)
	if len(pairs) != 3 {
		t.Errorf("Expected 3 results with oversized limit, got %d", len(pairs))
	}
}

func testPrefixExcludesExpired(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut|db.FeaturePutTTL)
	requireFeature(t, database, db.FeaturePrefixScan)

	database.Put("session:1", []byte("a"), 0)
	database.Put("session:2", []byte("b"), 40*time.Millisecond)
	database.Put("session:3", []byte("c"), 0)

	time.Sleep(80 * time.Millisecond)

	// session:2 may or may not have been swept yet; either way it must not
	// appear in the scan
	pairs := database.PrefixGet("session:", 0)
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 live results, got %d", len(pairs))
	}
	if pairs[0].Key != "session:1" || pairs[1].Key != "session:3" {
		t.Errorf("Expected [session:1 session:3], got [%s %s]", pairs[0].Key, pairs[1].Key)
	}
}

func testEraseIdempotent(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeatureErase)

	if database.Erase("missing") {
		t.Errorf("Erasing a non-existent key must return false")
	}

	database.Put("k", []byte("v"), 0)

	if !database.Erase("k") {
		t.Errorf("Erasing an existing key must return true")
	}
	if database.Erase("k") {
		t.Errorf("Erasing the same key twice must return false the second time")
	}

	_, exists := database.Get("k")
	if exists {
		t.Errorf("Erased key must not be readable")
	}
}

func testClear(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeatureClear)
	requireFeature(t, database, db.FeatureSize)

	database.Put("a", []byte("1"), 0)
	database.Put("b", []byte("2"), time.Minute)
	database.Put("c", []byte("3"), 0)

	if database.Size() != 3 {
		t.Fatalf("Expected size 3 before Clear, got %d", database.Size())
	}

	database.Clear()

	if database.Size() != 0 {
		t.Errorf("Expected size 0 after Clear, got %d", database.Size())
	}
	if _, exists := database.Get("a"); exists {
		t.Errorf("Cleared key must not be readable")
	}

	// the store must remain usable after Clear
	database.Put("d", []byte("4"), 0)
	if database.Size() != 1 {
		t.Errorf("Expected size 1 after Put following Clear, got %d", database.Size())
	}
}

func testManyExpiringKeys(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut|db.FeaturePutTTL)
	requireFeature(t, database, db.FeatureGet)
	requireFeature(t, database, db.FeatureSize)
	requireFeature(t, database, db.FeatureSweep)

	numExpiring := 500
	numPersistent := 50

	for i := 0; i < numExpiring; i++ {
		key := fmt.Sprintf("expire-key-%d", i)
		value := []byte(fmt.Sprintf("expire-value-%d", i))
		ttl := time.Duration(i%5+1) * 20 * time.Millisecond
		database.Put(key, value, ttl)
	}
	for i := 0; i < numPersistent; i++ {
		key := fmt.Sprintf("keep-key-%d", i)
		database.Put(key, []byte("keep"), 0)
	}

	// all expiring keys must eventually be reclaimed without reads
	size := waitForSize(database, numPersistent, 5*time.Second)
	if size != numPersistent {
		t.Errorf("Expected only the %d persistent keys to survive, size is %d", numPersistent, size)
	}

	// the persistent keys must be untouched
	for i := 0; i < numPersistent; i++ {
		key := fmt.Sprintf("keep-key-%d", i)
		if _, exists := database.Get(key); !exists {
			t.Errorf("Persistent key %s was lost", key)
		}
	}
}

func testConcurrentAccess(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut|db.FeaturePutTTL)
	requireFeature(t, database, db.FeatureGet)
	requireFeature(t, database, db.FeaturePrefixScan)

	numWorkers := 8
	numKeysPerWorker := 200

	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for w := 0; w < numWorkers; w++ {
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < numKeysPerWorker; i++ {
				key := fmt.Sprintf("worker-%d-key-%d", worker, i)
				value := []byte(fmt.Sprintf("value-%d-%d", worker, i))

				database.Put(key, value, 0)

				// interleave reads, scans and short-lived keys
				if got, exists := database.Get(key); !exists || !bytes.Equal(got, value) {
					t.Errorf("Key %s not readable directly after Put", key)
					return
				}
				database.Put(fmt.Sprintf("ttl-%d-%d", worker, i), value, 10*time.Millisecond)
				database.PrefixGet(fmt.Sprintf("worker-%d-", worker), 10)
			}
		}(w)
	}

	wg.Wait()

	// every persistent key must hold its last written value
	for w := 0; w < numWorkers; w++ {
		for i := 0; i < numKeysPerWorker; i++ {
			key := fmt.Sprintf("worker-%d-key-%d", w, i)
			want := []byte(fmt.Sprintf("value-%d-%d", w, i))
			got, exists := database.Get(key)
			if !exists {
				t.Errorf("Key %s missing after concurrent writes", key)
				continue
			}
			if !bytes.Equal(got, want) {
				t.Errorf("Key %s: expected %s, got %s", key, want, got)
			}
		}
	}
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut|db.FeaturePutTTL)
	requireFeature(t, database, db.FeatureGet)
	requireFeature(t, database, db.FeaturePrefixScan)

	// empty key and empty value are valid
	database.Put("", []byte("empty-key"), 0)
	if got, exists := database.Get(""); !exists || !bytes.Equal(got, []byte("empty-key")) {
		t.Errorf("Empty key must be storable")
	}

	database.Put("empty-value", []byte{}, 0)
	if got, exists := database.Get("empty-value"); !exists || len(got) != 0 {
		t.Errorf("Empty value must be storable")
	}

	// negative ttl behaves like no ttl
	database.Put("negative-ttl", []byte("v"), -time.Second)
	time.Sleep(50 * time.Millisecond)
	if _, exists := database.Get("negative-ttl"); !exists {
		t.Errorf("Negative TTL must mean no expiration")
	}

	// the empty prefix matches every key
	pairs := database.PrefixGet("", 0)
	if len(pairs) != 3 {
		t.Errorf("Empty prefix should match all %d keys, got %d", 3, len(pairs))
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i-1].Key >= pairs[i].Key {
			t.Errorf("Empty-prefix scan not sorted: %q before %q", pairs[i-1].Key, pairs[i].Key)
		}
	}

	// a prefix matching nothing returns no results
	if got := database.PrefixGet("zzz", 0); len(got) != 0 {
		t.Errorf("Expected no results for unmatched prefix, got %d", len(got))
	}
}
