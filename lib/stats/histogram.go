package stats

import (
	"math"
	"sync"
)

// ----------------------------------------------------------------------------
// SizeHistogram
// ----------------------------------------------------------------------------

// defaultBoundaries are exponential bucket limits from 16 bytes to 4GB
var defaultBoundaries = []int{
	16, 64, 256, 1024, 4096, // Bytes: 16B to 4KB
	16384, 65536, 262144, 1048576, // KB range: 16KB to 1MB
	4194304, 16777216, 67108864, // MB range: 4MB to 64MB
	268435456, 1073741824, 4294967296, // Above 256MB to 4GB
}

// SizeHistogram tracks the distribution of encoded sizes.
// Sizes are counted per bucket, so memory usage does not grow with the number of samples.
type SizeHistogram struct {
	mutex      sync.RWMutex
	boundaries []int   // upper bucket limits (inclusive)
	buckets    []int64 // one more bucket than boundaries for larger values
	count      int64
	sum        int64
}

// NewSizeHistogram creates a histogram with the default bucket boundaries
func NewSizeHistogram() *SizeHistogram {
	return &SizeHistogram{
		boundaries: defaultBoundaries,
		buckets:    make([]int64, len(defaultBoundaries)+1),
	}
}

// AddSample adds a size sample to the histogram
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) AddSample(size int) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.buckets[h.bucketOf(size)]++
	h.count++
	h.sum += int64(size)
}

// Count returns the total number of samples
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) Count() int64 {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.count
}

// Average returns the exact average size across all samples
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) Average() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if h.count == 0 {
		return 0
	}
	return int(h.sum / h.count)
}

// Percentile returns an estimate for the given percentile (0-100).
// The estimate is the middle of the bucket the percentile falls into.
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) Percentile(percentile int) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if h.count == 0 || percentile < 0 || percentile > 100 {
		return 0
	}

	target := max(int64(math.Ceil(float64(h.count)*float64(percentile)/100.0)), 1)
	var cumulative int64
	for i, count := range h.buckets {
		cumulative += count
		if cumulative >= target {
			return h.estimate(i)
		}
	}

	return int(h.sum / h.count)
}

// Distribution returns the bucket boundaries and the percentage of samples in each bucket.
// The last percentage belongs to the values larger than the last boundary.
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) Distribution() ([]int, []float64) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	percentages := make([]float64, len(h.buckets))
	if h.count == 0 {
		return h.boundaries, percentages
	}
	for i, count := range h.buckets {
		percentages[i] = float64(count) * 100.0 / float64(h.count)
	}
	return h.boundaries, percentages
}

// Reset clears all histogram data
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) Reset() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.count = 0
	h.sum = 0
	clear(h.buckets)
}

// ----------------------------------------------------------------------------
// Helper functions
// ----------------------------------------------------------------------------

func (h *SizeHistogram) bucketOf(size int) int {
	for i, boundary := range h.boundaries {
		if size <= boundary {
			return i
		}
	}
	return len(h.boundaries)
}

// estimate returns a representative size for bucket i
func (h *SizeHistogram) estimate(i int) int {
	switch {
	case i == 0:
		return h.boundaries[0] / 2
	case i < len(h.boundaries):
		return (h.boundaries[i-1] + h.boundaries[i]) / 2
	default:
		return h.boundaries[len(h.boundaries)-1] * 2
	}
}
