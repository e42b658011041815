package util

import "testing"

// TestSizeHistogramEmpty tests estimator behavior without samples
func TestSizeHistogramEmpty(t *testing.T) {
	h := NewSizeHistogram()

	if h.Count() != 0 {
		t.Errorf("Empty histogram should have 0 samples, has %d", h.Count())
	}
	if h.AverageSize() != 0 {
		t.Errorf("Empty histogram average should be 0, got %d", h.AverageSize())
	}
	if h.MedianEstimate() != 0 {
		t.Errorf("Empty histogram median should be 0, got %d", h.MedianEstimate())
	}
}

// TestSizeHistogramAverage tests the exact average
func TestSizeHistogramAverage(t *testing.T) {
	h := NewSizeHistogram()

	for _, size := range []int{10, 20, 30, 40} {
		h.AddSample(size)
	}

	if h.Count() != 4 {
		t.Errorf("Expected 4 samples, got %d", h.Count())
	}
	if avg := h.AverageSize(); avg != 25 {
		t.Errorf("Expected average 25, got %d", avg)
	}
}

// TestSizeHistogramMedian tests that the median estimate lands in the right
// bucket
func TestSizeHistogramMedian(t *testing.T) {
	h := NewSizeHistogram()

	// 100 small samples, 10 huge ones: the median must stay small
	for i := 0; i < 100; i++ {
		h.AddSample(64)
	}
	for i := 0; i < 10; i++ {
		h.AddSample(1 << 20)
	}

	median := h.MedianEstimate()
	if median < 64 || median > 127 {
		t.Errorf("Median estimate %d outside the bucket of the true median (64)", median)
	}
}

// TestSizeHistogramNegative tests that negative sizes are clamped
func TestSizeHistogramNegative(t *testing.T) {
	h := NewSizeHistogram()
	h.AddSample(-5)

	if h.Count() != 1 {
		t.Errorf("Expected 1 sample, got %d", h.Count())
	}
	if h.MedianEstimate() != 0 {
		t.Errorf("Negative sample should clamp to 0, median is %d", h.MedianEstimate())
	}
}
