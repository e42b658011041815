package testing

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cedarkv/cedar/lib/db"
)

// RunKVDBBenchmarks runs all benchmarks for a key-value database implementation
func RunKVDBBenchmarks(b *testing.B, name string, factory DBFactory) {

	b.Run("Put", func(b *testing.B) {
		benchmarkPut(b, factory())
	})

	b.Run("PutExisting", func(b *testing.B) {
		benchmarkPutExisting(b, factory())
	})

	b.Run("PutLargeValue", func(b *testing.B) {
		benchmarkPutLargeValue(b, factory())
	})

	b.Run("PutWithTTL", func(b *testing.B) {
		benchmarkPutWithTTL(b, factory())
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, factory())
	})

	b.Run("GetWithTTL", func(b *testing.B) {
		benchmarkGetWithTTL(b, factory())
	})

	b.Run("Erase", func(b *testing.B) {
		benchmarkErase(b, factory())
	})

	b.Run("PrefixGet", func(b *testing.B) {
		benchmarkPrefixGet(b, factory())
	})

	b.Run("MixedUsage", func(b *testing.B) {
		benchmarkMixedUsage(b, factory())
	})

	b.Run("MixedUsageWithTTL", func(b *testing.B) {
		benchmarkMixedUsageWithTTL(b, factory())
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Put operation
func benchmarkPut(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut)

	value := []byte("benchmark-value")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var counter atomic.Uint64
		for pb.Next() {
			key := fmt.Sprintf("key-%d", counter.Add(1))
			database.Put(key, value, 0)
		}
	})
}

// Benchmark for Put on an existing key (overwrite path)
func benchmarkPutExisting(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut)

	value := []byte("benchmark-value")
	database.Put("existing-key", value, 0)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			database.Put("existing-key", value, 0)
		}
	})
}

// Benchmark for Put with a large value (1 MB)
func benchmarkPutLargeValue(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut)

	value := make([]byte, 1024*1024)
	rand.Read(value)

	b.ResetTimer()
	var counter atomic.Uint64
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("large-key-%d", counter.Add(1)%100)
		database.Put(key, value, 0)
	}
}

// Benchmark for Put with expiry scheduling
func benchmarkPutWithTTL(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut|db.FeaturePutTTL)

	value := []byte("benchmark-value")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var counter atomic.Uint64
		for pb.Next() {
			key := fmt.Sprintf("ttl-key-%d", counter.Add(1)%1000)
			database.Put(key, value, time.Minute)
		}
	})
}

// Benchmark for Get operation
func benchmarkGet(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut)
	requireFeature(b, database, db.FeatureGet)

	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		database.Put(fmt.Sprintf("key-%d", i), []byte("benchmark-value"), 0)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var counter atomic.Uint64
		for pb.Next() {
			key := fmt.Sprintf("key-%d", counter.Add(1)%uint64(numKeys))
			database.Get(key)
		}
	})
}

// Benchmark for Get on keys that carry an expiry
func benchmarkGetWithTTL(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut|db.FeaturePutTTL)
	requireFeature(b, database, db.FeatureGet)

	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		database.Put(fmt.Sprintf("key-%d", i), []byte("benchmark-value"), time.Hour)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var counter atomic.Uint64
		for pb.Next() {
			key := fmt.Sprintf("key-%d", counter.Add(1)%uint64(numKeys))
			database.Get(key)
		}
	})
}

// Benchmark for Erase operation
func benchmarkErase(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut)
	requireFeature(b, database, db.FeatureErase)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var counter atomic.Uint64
		for pb.Next() {
			key := fmt.Sprintf("erase-key-%d", counter.Add(1)%1000)
			database.Put(key, []byte("v"), 0)
			database.Erase(key)
		}
	})
}

// Benchmark for ordered prefix scans
func benchmarkPrefixGet(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut)
	requireFeature(b, database, db.FeaturePrefixScan)

	numPrefixes := 100
	keysPerPrefix := 100
	for p := 0; p < numPrefixes; p++ {
		for i := 0; i < keysPerPrefix; i++ {
			database.Put(fmt.Sprintf("prefix-%03d/key-%03d", p, i), []byte("benchmark-value"), 0)
		}
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var counter atomic.Uint64
		for pb.Next() {
			prefix := fmt.Sprintf("prefix-%03d/", counter.Add(1)%uint64(numPrefixes))
			database.PrefixGet(prefix, 0)
		}
	})
}

// Benchmark for a realistic mixed workload (90% reads, 10% writes)
func benchmarkMixedUsage(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut)
	requireFeature(b, database, db.FeatureGet)

	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		database.Put(fmt.Sprintf("key-%d", i), []byte("benchmark-value"), 0)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var counter atomic.Uint64
		for pb.Next() {
			n := counter.Add(1)
			key := fmt.Sprintf("key-%d", n%uint64(numKeys))
			if n%10 == 0 {
				database.Put(key, []byte("updated-value"), 0)
			} else {
				database.Get(key)
			}
		}
	})
}

// Benchmark for a mixed workload where all writes schedule an expiry
func benchmarkMixedUsageWithTTL(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut|db.FeaturePutTTL)
	requireFeature(b, database, db.FeatureGet)

	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		database.Put(fmt.Sprintf("key-%d", i), []byte("benchmark-value"), time.Hour)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var counter atomic.Uint64
		for pb.Next() {
			n := counter.Add(1)
			key := fmt.Sprintf("key-%d", n%uint64(numKeys))
			if n%10 == 0 {
				database.Put(key, []byte("updated-value"), time.Hour)
			} else {
				database.Get(key)
			}
		}
	})
}
