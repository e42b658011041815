package cedar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/cedarkv/cedar/lib/db"
	"github.com/cedarkv/cedar/lib/db/util"
)

// newManualDB creates an engine on a manual clock with its background sweeper
// stopped, so tests can drive reclamation deterministically.
func newManualDB(t *testing.T) (*cedarImpl, *util.ManualClock) {
	t.Helper()

	clock := util.NewManualClock()
	c := NewCedarDB(&DBOptions{Clock: clock, SweepInterval: time.Hour}).(*cedarImpl)
	c.stopSweeper()
	return c, clock
}

// popAndReclaim pops the earliest schedule and runs it against the table,
// exactly as the sweeper would.
func popAndReclaim(t *testing.T, c *cedarImpl, now time.Time) {
	t.Helper()

	c.heapMu.Lock()
	node, ok := c.heap.PopMin()
	c.heapMu.Unlock()
	if !ok {
		t.Fatal("Expected a pending schedule on the heap")
	}
	c.reclaim(node, now)
}

// TestNextPrefix tests the exclusive-upper-bound computation for prefix scans
func TestNextPrefix(t *testing.T) {
	cases := []struct {
		prefix string
		want   string
	}{
		{"", ""},
		{"a", "b"},
		{"ab", "ac"},
		{"ap", "aq"},
		{"a\xff", "b"},
		{"a\xffb", "a\xffc"},
		{"\xff", ""},
		{"\xff\xff", ""},
		{"key/\xff\xff", "key0"},
	}

	for _, tc := range cases {
		if got := nextPrefix(tc.prefix); got != tc.want {
			t.Errorf("nextPrefix(%q): expected %q, got %q", tc.prefix, tc.want, got)
		}
	}
}

// TestLazyExpiry tests that an expired entry is removed by the read that
// observes it, independent of the sweeper
func TestLazyExpiry(t *testing.T) {
	c, clock := newManualDB(t)

	c.Put("k", []byte("v"), 100*time.Millisecond)

	if _, exists := c.Get("k"); !exists {
		t.Fatal("Key should exist before its deadline")
	}

	clock.Advance(150 * time.Millisecond)

	if _, exists := c.Get("k"); exists {
		t.Error("Key must be invisible after its deadline")
	}
	if size := c.Size(); size != 0 {
		t.Errorf("Expired entry must be deleted by the read that observed it, size is %d", size)
	}
	if got := c.stats.lazyExpired.Get(); got != 1 {
		t.Errorf("Expected 1 lazy expiration, counter is %d", got)
	}
}

// TestStaleScheduleSupersededByPut tests that a schedule left behind by an
// overwritten put never deletes the refreshed entry
func TestStaleScheduleSupersededByPut(t *testing.T) {
	c, clock := newManualDB(t)

	c.Put("k", []byte("v1"), 100*time.Millisecond)
	clock.Advance(50 * time.Millisecond)
	c.Put("k", []byte("v2"), 300*time.Millisecond)

	// past the first deadline, before the second
	clock.Advance(100 * time.Millisecond)
	popAndReclaim(t, c, clock.Now())

	got, exists := c.Get("k")
	if !exists {
		t.Fatal("Refreshed entry must survive the superseded schedule")
	}
	if !bytes.Equal(got, []byte("v2")) {
		t.Errorf("Expected v2, got %s", got)
	}
	if dropped := c.stats.staleDropped.Get(); dropped != 1 {
		t.Errorf("Expected 1 dropped stale schedule, counter is %d", dropped)
	}

	// past the second deadline the remaining schedule is authoritative
	clock.Advance(250 * time.Millisecond)
	popAndReclaim(t, c, clock.Now())

	if size := c.Size(); size != 0 {
		t.Errorf("Expected the authoritative schedule to delete the entry, size is %d", size)
	}
	if swept := c.stats.swept.Get(); swept != 1 {
		t.Errorf("Expected 1 swept entry, counter is %d", swept)
	}
}

// TestStaleScheduleAfterErase tests that a schedule referencing an erased key
// is discarded without side effects
func TestStaleScheduleAfterErase(t *testing.T) {
	c, clock := newManualDB(t)

	c.Put("k", []byte("v"), 50*time.Millisecond)
	if !c.Erase("k") {
		t.Fatal("Erase should remove the entry")
	}

	clock.Advance(100 * time.Millisecond)
	popAndReclaim(t, c, clock.Now())

	if dropped := c.stats.staleDropped.Get(); dropped != 1 {
		t.Errorf("Expected the orphaned schedule to be dropped, counter is %d", dropped)
	}
}

// TestStaleScheduleAfterNonExpiringOverwrite tests that overwriting with no
// TTL detaches the key from its pending schedule
func TestStaleScheduleAfterNonExpiringOverwrite(t *testing.T) {
	c, clock := newManualDB(t)

	c.Put("k", []byte("v1"), 50*time.Millisecond)
	c.Put("k", []byte("v2"), 0)

	clock.Advance(100 * time.Millisecond)
	popAndReclaim(t, c, clock.Now())

	got, exists := c.Get("k")
	if !exists {
		t.Fatal("Non-expiring overwrite must survive the old schedule")
	}
	if !bytes.Equal(got, []byte("v2")) {
		t.Errorf("Expected v2, got %s", got)
	}
}

// TestRefreshBetweenObservationAndDelete tests the lazy-delete double check:
// a key refreshed between the expired read observation and the exclusive
// delete must not be removed
func TestRefreshBetweenObservationAndDelete(t *testing.T) {
	c, clock := newManualDB(t)

	c.Put("k", []byte("v1"), 100*time.Millisecond)
	clock.Advance(150 * time.Millisecond)

	// simulate the interleaving: the read observed the expiry at now, then a
	// concurrent put refreshed the key before the exclusive delete ran
	observed := clock.Now()
	c.Put("k", []byte("v2"), 0)
	c.eraseIfExpired("k", observed)

	got, exists := c.Get("k")
	if !exists {
		t.Fatal("Refreshed entry must survive the stale lazy delete")
	}
	if !bytes.Equal(got, []byte("v2")) {
		t.Errorf("Expected v2, got %s", got)
	}
}

// TestSweeperWakesForEarlierDeadline tests that a put with a sooner deadline
// interrupts the sweeper's long sleep
func TestSweeperWakesForEarlierDeadline(t *testing.T) {
	database := NewCedarDB(&DBOptions{SweepInterval: 10 * time.Second})
	defer database.Close()

	// the sweeper now sleeps until this deadline, far in the future
	database.Put("slow", []byte("v"), 5*time.Second)

	// this deadline is sooner; without the wake-up it would only be
	// discovered after the slow deadline
	database.Put("fast", []byte("v"), 50*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for database.Size() > 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if size := database.Size(); size != 1 {
		t.Errorf("Expected the sooner deadline to be swept promptly, size is %d", size)
	}
	if _, exists := database.Get("slow"); !exists {
		t.Error("The later key must still be live")
	}
}

// TestPrefixGetUpperBoundEdges tests scans whose prefix has no finite upper
// bound
func TestPrefixGetUpperBoundEdges(t *testing.T) {
	database := NewCedarDB(nil)
	defer database.Close()

	database.Put("a\xff", []byte("1"), 0)
	database.Put("a\xff\xff", []byte("2"), 0)
	database.Put("b", []byte("3"), 0)
	database.Put("\xff\xffx", []byte("4"), 0)

	pairs := database.PrefixGet("a\xff", 0)
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 matches for prefix 'a\\xff', got %d", len(pairs))
	}
	if pairs[0].Key != "a\xff" || pairs[1].Key != "a\xff\xff" {
		t.Errorf("Unexpected keys: [%q %q]", pairs[0].Key, pairs[1].Key)
	}

	// all-0xFF prefix: no finite bound, scan runs to the end of the table
	pairs = database.PrefixGet("\xff\xff", 0)
	if len(pairs) != 1 || pairs[0].Key != "\xff\xffx" {
		t.Errorf("Expected exactly the \\xff-prefixed key, got %d results", len(pairs))
	}
}

// TestCloseIdempotent tests that Close can be called multiple times and that
// foreground operations keep working afterwards
func TestCloseIdempotent(t *testing.T) {
	database := NewCedarDB(nil)

	if err := database.Close(); err != nil {
		t.Errorf("First Close returned error: %v", err)
	}
	if err := database.Close(); err != nil {
		t.Errorf("Second Close returned error: %v", err)
	}

	// foreground operations are not cancelled by shutdown
	database.Put("k", []byte("v"), 0)
	if _, exists := database.Get("k"); !exists {
		t.Error("Put/Get must keep working after Close")
	}
}

// TestGetInfo tests metadata reporting
func TestGetInfo(t *testing.T) {
	database := NewCedarDB(nil)
	defer database.Close()

	database.Put("a", []byte("some-value"), 0)
	database.Put("b", []byte("another-value"), time.Minute)

	info := database.GetInfo()

	if info.DbType != db.ImplCedar {
		t.Errorf("Expected db type %q, got %q", db.ImplCedar, info.DbType)
	}
	if info.SizeBytes <= 0 {
		t.Errorf("Expected a positive size estimate, got %d", info.SizeBytes)
	}
	if info.Metadata == nil {
		t.Error("Expected implementation metadata")
	}

	found := false
	for _, f := range info.SupportedFeatures {
		if f == db.FeaturePrefixScan {
			found = true
		}
	}
	if !found {
		t.Error("Expected FeaturePrefixScan to be advertised")
	}
}

// TestWriteMetrics tests the Prometheus exposition of the metrics set
func TestWriteMetrics(t *testing.T) {
	database := NewCedarDB(nil)
	defer database.Close()

	database.Put("k", []byte("v"), 0)
	database.Get("k")
	database.Get("missing")

	source, ok := database.(db.MetricsSource)
	if !ok {
		t.Fatal("Engine must implement db.MetricsSource")
	}

	var buf bytes.Buffer
	source.WriteMetrics(&buf)
	out := buf.String()

	for _, metric := range []string{
		"cedar_puts_total 1",
		"cedar_get_hits_total 1",
		"cedar_get_misses_total 1",
		"cedar_entries 1",
	} {
		if !strings.Contains(out, metric) {
			t.Errorf("Expected metrics output to contain %q, got:\n%s", metric, out)
		}
	}
}

// TestHeapBacklogUnderChurn tests the documented scaling characteristic:
// repeated TTL puts on one key accumulate schedules until they are popped
func TestHeapBacklogUnderChurn(t *testing.T) {
	c, _ := newManualDB(t)

	for i := 0; i < 100; i++ {
		c.Put("churn", []byte("v"), time.Minute)
	}

	c.heapMu.Lock()
	backlog := c.heap.Len()
	c.heapMu.Unlock()

	if backlog != 100 {
		t.Errorf("Expected 100 pending schedules for the churned key, got %d", backlog)
	}
	if size := c.Size(); size != 1 {
		t.Errorf("Expected a single live entry, size is %d", size)
	}
}
