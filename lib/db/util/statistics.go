// Package util provides testing, benchmarking, and utility tools for KVDB
// implementations. This file implements a specialized size histogram for
// efficient tracking and analysis of data size distributions. The histogram
// uses exponential bucket sizing to cover a wide range of values (bytes to
// gigabytes) with minimal memory overhead.
//
// Key features include:
//   - Efficient memory usage through bucketing
//   - Thread-safe sample addition and querying
//   - Statistical estimators (median, average)
//
// This utility is particularly useful for database implementations that need
// to report on data characteristics without performing expensive full scans.
package util

import (
	"math/bits"
	"sync"
)

// numBuckets covers sizes up to 2^40 bytes; everything larger lands in the
// last bucket.
const numBuckets = 41

// SizeHistogram tracks a distribution of byte sizes in exponential buckets.
// Bucket i holds samples whose size needs i significant bits, so the bucket
// boundaries double: [0], [1], [2,3], [4,7], [8,15], ...
type SizeHistogram struct {
	mu      sync.Mutex
	buckets [numBuckets]int
	count   int
	total   int
}

// NewSizeHistogram creates an empty histogram.
func NewSizeHistogram() *SizeHistogram {
	return &SizeHistogram{}
}

// bucketIndex maps a size to its bucket.
func bucketIndex(size int) int {
	if size < 0 {
		size = 0
	}
	idx := bits.Len(uint(size))
	if idx >= numBuckets {
		idx = numBuckets - 1
	}
	return idx
}

// bucketMidpoint is the representative size for a bucket.
func bucketMidpoint(idx int) int {
	if idx == 0 {
		return 0
	}
	low := 1 << (idx - 1)
	high := (1 << idx) - 1
	return (low + high) / 2
}

// AddSample records one value of the given size in bytes.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (h *SizeHistogram) AddSample(size int) {
	if size < 0 {
		size = 0
	}
	idx := bucketIndex(size)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.buckets[idx]++
	h.count++
	h.total += size
}

// Count returns the number of recorded samples.
func (h *SizeHistogram) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// AverageSize returns the mean sample size in bytes, or 0 for an empty
// histogram.
func (h *SizeHistogram) AverageSize() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		return 0
	}
	return h.total / h.count
}

// MedianEstimate returns an estimate of the median sample size. The estimate
// is the midpoint of the bucket containing the median sample, so the error is
// bounded by the bucket width.
func (h *SizeHistogram) MedianEstimate() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		return 0
	}

	target := h.count / 2
	seen := 0
	for idx, c := range h.buckets {
		seen += c
		if seen > target {
			return bucketMidpoint(idx)
		}
	}
	return bucketMidpoint(numBuckets - 1)
}
