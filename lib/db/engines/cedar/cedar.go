package cedar

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/cedarkv/cedar/lib/db"
	"github.com/cedarkv/cedar/lib/db/engines/cedar/internal"
	"github.com/cedarkv/cedar/lib/db/util"
	"github.com/cedarkv/cedar/lib/logging"
	"github.com/google/btree"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for database behavior and structure
const (
	defaultSweepInterval = 200 * time.Millisecond // Safety-net wake-up when the heap is empty
	defaultBTreeDegree   = 32                     // Branching factor of the ordered table
)

var log = logging.GetLogger("db/cedar")

// --------------------------------------------------------------------------
// Core cedar database structure
// --------------------------------------------------------------------------

// cedarImpl implements a TTL-aware, prefix-searchable in-memory database.
// An ordered table holds the live entries; a separate min-heap schedules
// expiry deadlines for a single background sweeper.
type cedarImpl struct {
	clock    util.Clock    // Monotonic time source for all expiry comparisons
	versions atomic.Uint64 // Process-wide version counter, stamped on every Put

	mu    sync.RWMutex                  // Guards the table
	table *btree.BTreeG[*internal.Entry] // Ordered by key, one entry per key

	heapMu sync.Mutex       // Guards the heap, independent of mu
	heap   *util.ExpiryHeap // Pending expiry schedules, may hold stale nodes

	// sweeper coordination
	sweepInterval  time.Duration
	wake           chan struct{} // Buffered(1): Put signals a new earliest deadline
	stop           chan struct{}
	done           chan struct{}
	sweeperRunning atomic.Bool

	stats *engineMetrics
}

// DBOptions configures the cedarImpl behavior during initialization
type DBOptions struct {
	SweepInterval time.Duration // Sweeper wake-up when no deadline is pending (0 = use default: 200ms)
	BTreeDegree   int           // Branching factor of the ordered table (0 = use default)
	Clock         util.Clock    // Time source (nil = monotonic system clock)
}

// DefaultOptions returns the default cedarImpl options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		SweepInterval: defaultSweepInterval,
		BTreeDegree:   defaultBTreeDegree,
		Clock:         util.SystemClock(),
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewCedarDB creates a new cedar instance with the specified options (optional)
// and starts its background sweeper.
//
// Thread-safety: This function is not thread-safe and should only be called
// once per instance during initialization.
func NewCedarDB(opts *DBOptions) db.KVDB {

	// Generate default options if not provided
	if opts == nil {
		opts = DefaultOptions()
	}
	sweepInterval := opts.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}
	degree := opts.BTreeDegree
	if degree <= 1 {
		degree = defaultBTreeDegree
	}
	clock := opts.Clock
	if clock == nil {
		clock = util.SystemClock()
	}

	newDB := &cedarImpl{
		clock:         clock,
		table:         btree.NewG[*internal.Entry](degree, internal.Less),
		heap:          util.NewExpiryHeap(),
		sweepInterval: sweepInterval,
		wake:          make(chan struct{}, 1),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	newDB.stats = newEngineMetrics(newDB)

	// start background expiry reclamation
	newDB.startSweeper()

	log.Infof("cedar store created (sweep interval %s, btree degree %d)", sweepInterval, degree)

	return newDB
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Put inserts or updates an entry with the given key and value.
// If the key already exists, the old value, expiry and version are
// overwritten. A ttl greater than zero schedules the entry for expiry; zero
// or less means the entry never expires.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cedarImpl) Put(key string, value []byte, ttl time.Duration) {
	now := c.clock.Now()
	version := c.versions.Add(1)

	hasTTL := ttl > 0
	var expiresAt time.Time
	if hasTTL {
		expiresAt = now.Add(ttl)
	}

	// Copy value to prevent memory corruption
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	entry := &internal.Entry{
		Key:       key,
		Value:     valueCopy,
		ExpiresAt: expiresAt,
		Version:   version,
		HasExpiry: hasTTL,
	}

	c.mu.Lock()
	c.table.ReplaceOrInsert(entry)
	c.mu.Unlock()

	c.stats.puts.Inc()

	if !hasTTL {
		return
	}

	// schedule the deadline after the table write so the sweeper can never
	// observe a node whose entry does not exist yet
	c.heapMu.Lock()
	isMin := c.heap.Push(util.HeapNode{Key: key, ExpiresAt: expiresAt, Version: version})
	c.heapMu.Unlock()

	// wake the sweeper only when this schedule carries the new earliest deadline
	if isMin {
		c.wakeSweeper()
	}
}

// Erase removes an entry with the specified key.
// Scheduled expiries referencing the key are not removed from the heap; the
// sweeper discards them later via the version check.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cedarImpl) Erase(key string) bool {
	c.mu.Lock()
	_, removed := c.table.Delete(&internal.Entry{Key: key})
	c.mu.Unlock()
	return removed
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get retrieves a value for a key.
// The boolean indicates whether a live (non-expired) value for the key was
// found. An expired entry encountered here is lazily deleted.
// The returned value is a copy of the stored data and therefore safe to use
// and modify.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cedarImpl) Get(key string) ([]byte, bool) {
	now := c.clock.Now()

	c.mu.RLock()
	entry, ok := c.table.Get(&internal.Entry{Key: key})
	if !ok {
		c.mu.RUnlock()
		c.stats.misses.Inc()
		return nil, false
	}
	if entry.Expired(now) {
		// Lazy erase: release the read lock, then conditionally delete under
		// the write lock.
		c.mu.RUnlock()
		c.eraseIfExpired(key, now)
		c.stats.misses.Inc()
		return nil, false
	}

	value := make([]byte, len(entry.Value))
	copy(value, entry.Value)
	c.mu.RUnlock()

	c.stats.hits.Inc()
	return value, true
}

// PrefixGet returns all live entries whose key starts with prefix, in
// strictly increasing key order, capped at limit results (limit <= 0 means
// unlimited). Expired entries are skipped but not deleted: a deletion here
// would invalidate the iteration, so cleanup is left to the sweeper or to a
// later Get.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cedarImpl) PrefixGet(prefix string, limit int) []db.KV {
	now := c.clock.Now()
	upperBound := nextPrefix(prefix)

	var pairs []db.KV
	c.mu.RLock()
	c.table.AscendGreaterOrEqual(&internal.Entry{Key: prefix}, func(entry *internal.Entry) bool {
		if upperBound != "" && entry.Key >= upperBound {
			return false
		}
		if entry.Expired(now) {
			return true
		}

		value := make([]byte, len(entry.Value))
		copy(value, entry.Value)
		pairs = append(pairs, db.KV{Key: entry.Key, Value: value})

		return limit <= 0 || len(pairs) < limit
	})
	c.mu.RUnlock()

	return pairs
}

// Size returns the number of entries currently resident in the table.
// The count may transiently include expired entries the sweeper has not
// reclaimed yet.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cedarImpl) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table.Len()
}

// --------------------------------------------------------------------------
// Maintenance Operations
// --------------------------------------------------------------------------

// Clear removes all entries and all pending expiry schedules.
// The two locks are taken in sequence, never nested.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cedarImpl) Clear() {
	c.mu.Lock()
	c.table.Clear(false)
	c.mu.Unlock()

	c.heapMu.Lock()
	c.heap.Reset()
	c.heapMu.Unlock()

	log.Debug("cleared all entries and pending expiry schedules")
}

// --------------------------------------------------------------------------
// Internal Helpers
// --------------------------------------------------------------------------

// wakeSweeper signals the sweeper without blocking. A pending signal is
// enough: the sweeper re-reads the heap minimum on every wake-up.
func (c *cedarImpl) wakeSweeper() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// eraseIfExpired deletes the entry for key only if it is still expired under
// a freshly acquired exclusive lock. Another goroutine may have refreshed the
// key between the read that observed the expiry and this call; in that case
// nothing happens.
func (c *cedarImpl) eraseIfExpired(key string, now time.Time) {
	c.mu.Lock()
	if entry, ok := c.table.Get(&internal.Entry{Key: key}); ok && entry.Expired(now) {
		c.table.Delete(entry)
		c.mu.Unlock()
		c.stats.lazyExpired.Inc()
		log.Debugf("lazily expired key %q", key)
		return
	}
	c.mu.Unlock()
}

// nextPrefix computes the exclusive upper bound of the key range covered by
// prefix: the prefix with its last non-0xFF byte incremented and everything
// after it truncated. The empty string is returned when no finite bound
// exists (empty prefix or all bytes 0xFF); the scan then runs to the end of
// the table.
func nextPrefix(prefix string) string {
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] != 0xFF {
			bound := []byte(prefix[:i+1])
			bound[i]++
			return string(bound)
		}
	}
	return ""
}

// --------------------------------------------------------------------------
// Background Sweeper
// --------------------------------------------------------------------------

// startSweeper starts the background sweeper.
// If the sweeper is already running, this function does nothing.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cedarImpl) startSweeper() {
	if c.sweeperRunning.CompareAndSwap(false, true) {
		go c.sweeper()
	}
}

// stopSweeper stops the sweeper and waits for it to exit.
// If the sweeper is not running, this function does nothing.
// The sweeper can't be started again after it has been stopped!
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (c *cedarImpl) stopSweeper() {
	if c.sweeperRunning.CompareAndSwap(true, false) {
		close(c.stop)
		<-c.done
	}
}

// sweeper is the main reclamation loop: pop due schedules, validate each
// against the live table state, and delete entries whose schedule is still
// authoritative. When nothing is due it sleeps until the earliest pending
// deadline, or up to the sweep interval while the heap is empty, and is
// woken early whenever a Put schedules a sooner deadline.
//
// WARNING: this method should never be called directly! Use startSweeper()
// and stopSweeper().
func (c *cedarImpl) sweeper() {
	defer close(c.done)

	timer := time.NewTimer(c.sweepInterval)
	defer timer.Stop()

	for {
		wait := c.sweepInterval

		c.heapMu.Lock()
		if node, ok := c.heap.Peek(); ok {
			now := c.clock.Now()
			if !node.ExpiresAt.After(now) {
				c.heap.PopMin()
				// the table lock is taken only after the heap lock is
				// released, so the two are never held together
				c.heapMu.Unlock()
				c.reclaim(node, now)
				continue
			}
			// woken early for a different node, or nothing due yet: sleep
			// until the current minimum
			wait = node.ExpiresAt.Sub(now)
		}
		c.heapMu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-c.stop:
			return
		case <-c.wake:
		case <-timer.C:
		}
	}
}

// reclaim deletes the entry scheduled by node if the schedule is still
// authoritative: the live entry must carry an expiry that is due and hold the
// exact version the schedule was created for. Any mismatch means the schedule
// was superseded by a later Put or an Erase; it is dropped without side
// effects.
func (c *cedarImpl) reclaim(node util.HeapNode, now time.Time) {
	c.mu.Lock()
	entry, ok := c.table.Get(&internal.Entry{Key: node.Key})
	if ok && entry.Expired(now) && entry.Version == node.Version {
		c.table.Delete(entry)
		c.mu.Unlock()
		c.stats.swept.Inc()
		log.Debugf("swept expired key %q (version %d)", node.Key, node.Version)
		return
	}
	c.mu.Unlock()
	c.stats.staleDropped.Inc()
}

// --------------------------------------------------------------------------
// KVDB Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the database
func (c *cedarImpl) GetInfo() db.DatabaseInfo {

	// sample at most this many entries to keep GetInfo cheap on large tables
	maxSamples := 100 * runtime.NumCPU()

	now := c.clock.Now()
	histogram := util.NewSizeHistogram()
	expiredBacklog := 0
	sampled := 0

	c.mu.RLock()
	entries := c.table.Len()
	c.table.Ascend(func(entry *internal.Entry) bool {
		histogram.AddSample(len(entry.Value))

		// expired but not yet reclaimed by the sweeper
		if entry.Expired(now) {
			expiredBacklog++
		}

		sampled++
		return sampled < maxSamples
	})
	c.mu.RUnlock()

	c.heapMu.Lock()
	heapBacklog := c.heap.Len()
	c.heapMu.Unlock()

	// calculate size
	entryOverhead := 64 // version, deadline, flags and key/value headers
	medianSize := histogram.MedianEstimate() + entryOverhead
	avgSize := histogram.AverageSize() + entryOverhead

	// weighted estimate (60% median, 40% average)
	sizeBytes := (medianSize*60 + avgSize*40) / 100

	expiredRatio := 0.0
	if sampled > 0 {
		expiredRatio = float64(expiredBacklog) / float64(sampled)
	}

	// Metadata for this specific database implementation
	meta := &struct {
		VersionCounter  uint64  `json:"version_counter"`
		Entries         int     `json:"entries"`
		HeapBacklog     int     `json:"heap_backlog"`
		ExpiredBacklog  float64 `json:"expired_backlog"`
		SweepIntervalMs int64   `json:"sweep_interval_ms"`
		Info            string  `json:"info"`
	}{
		VersionCounter:  c.versions.Load(),
		Entries:         entries,
		HeapBacklog:     heapBacklog, // may exceed Entries under TTL churn: stale schedules are reclaimed lazily
		ExpiredBacklog:  expiredRatio,
		SweepIntervalMs: c.sweepInterval.Milliseconds(),
		Info:            "All values (including SizeBytes) are estimates and may vary depending on the database state.",
	}

	// features
	supportedFeatures := []db.Feature{
		db.FeaturePut, db.FeaturePutTTL,
		db.FeatureGet, db.FeaturePrefixScan,
		db.FeatureErase, db.FeatureSize, db.FeatureClear,
		db.FeatureSweep, db.FeatureMetrics,
	}

	return db.DatabaseInfo{
		SizeBytes:         sizeBytes,
		DbType:            db.ImplCedar,
		SupportedFeatures: supportedFeatures,
		Metadata:          meta,
	}
}

// SupportsFeature checks if this implementation supports a specific KVDB feature
func (c *cedarImpl) SupportsFeature(feature db.Feature) bool {
	supportedFeatures := db.FeaturePut |
		db.FeaturePutTTL |
		db.FeatureGet |
		db.FeatureErase |
		db.FeaturePrefixScan |
		db.FeatureSize |
		db.FeatureClear |
		db.FeatureSweep |
		db.FeatureMetrics
	return supportedFeatures&feature == feature
}

// Close stops the background sweeper. Entries present at the time of the
// call are retained but no longer reclaimed.
func (c *cedarImpl) Close() error {
	c.stopSweeper()
	return nil
}

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

// engineMetrics holds the per-instance metrics set. Using an own set per
// instance keeps metric names from colliding when multiple stores run in the
// same process.
type engineMetrics struct {
	set *metrics.Set

	puts         *metrics.Counter
	hits         *metrics.Counter
	misses       *metrics.Counter
	lazyExpired  *metrics.Counter
	swept        *metrics.Counter
	staleDropped *metrics.Counter
}

func newEngineMetrics(c *cedarImpl) *engineMetrics {
	set := metrics.NewSet()

	m := &engineMetrics{
		set:          set,
		puts:         set.NewCounter("cedar_puts_total"),
		hits:         set.NewCounter("cedar_get_hits_total"),
		misses:       set.NewCounter("cedar_get_misses_total"),
		lazyExpired:  set.NewCounter("cedar_lazy_expirations_total"),
		swept:        set.NewCounter("cedar_swept_total"),
		staleDropped: set.NewCounter("cedar_stale_nodes_dropped_total"),
	}

	set.NewGauge("cedar_entries", func() float64 {
		return float64(c.Size())
	})
	set.NewGauge("cedar_expiry_heap_len", func() float64 {
		c.heapMu.Lock()
		defer c.heapMu.Unlock()
		return float64(c.heap.Len())
	})

	return m
}

// WriteMetrics writes all metrics of this instance to w in Prometheus text
// exposition format (see db.MetricsSource).
func (c *cedarImpl) WriteMetrics(w io.Writer) {
	c.stats.set.WritePrometheus(w)
}
