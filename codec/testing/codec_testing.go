package testing

import (
	"reflect"
	"sync"
	"testing"

	"github.com/ValentinKolb/binser/codec"
	"github.com/ValentinKolb/binser/codec/common"
)

// CodecFactory is a function that creates a new instance of an ICodec implementation
type CodecFactory func() codec.ICodec

// RunCodecTests runs the conformance test suite for an ICodec implementation.
func RunCodecTests(t *testing.T, name string, factory CodecFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Samples", func(t *testing.T) {
			testSamples(t, factory())
		})

		t.Run("EmptySample", func(t *testing.T) {
			testEmptySample(t, factory())
		})

		t.Run("Values", func(t *testing.T) {
			testValues(t, factory())
		})

		t.Run("CorruptInput", func(t *testing.T) {
			testCorruptInput(t, factory())
		})

		t.Run("Concurrent", func(t *testing.T) {
			testConcurrent(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// roundTripSample encodes and decodes a sample, returning the normalized result
func roundTripSample(t testing.TB, c codec.ICodec, in common.Sample) common.Sample {
	t.Helper()
	data, err := c.Serialize(in)
	if err != nil {
		t.Fatalf("Failed to serialize sample %d: %v", in.ID, err)
	}
	var out common.Sample
	if err := c.Deserialize(data, &out); err != nil {
		t.Fatalf("Failed to deserialize sample %d: %v", in.ID, err)
	}
	out.Normalize()
	return out
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSamples(t *testing.T, c codec.ICodec) {
	for _, valueSize := range []int{1, 64, 4096} {
		for _, in := range common.NewSamples(16, valueSize) {
			out := roundTripSample(t, c, in)
			in.Normalize()
			if !reflect.DeepEqual(in, out) {
				t.Errorf("Sample %d (value size %d) doesn't match after round trip:\nOriginal: %+v\nResult:   %+v",
					in.ID, valueSize, in, out)
			}
		}
	}
}

func testEmptySample(t *testing.T, c codec.ICodec) {
	var in common.Sample
	out := roundTripSample(t, c, in)
	in.Normalize()
	if !reflect.DeepEqual(in, out) {
		t.Errorf("Empty sample doesn't match after round trip:\nResult: %+v", out)
	}
}

func testValues(t *testing.T, c codec.ICodec) {
	// each value is decoded into a new value of the same type
	values := []any{
		int64(-42),
		"plain string",
		[]string{"a", "b", "c"},
		[]int32{1, 2, 3},
		map[string][]int32{"x": {1}, "y": {2, 3}},
		common.Point{X: 1, Y: 2, T: 3},
	}

	for _, in := range values {
		data, err := c.Serialize(in)
		if err != nil {
			t.Errorf("Failed to serialize %T: %v", in, err)
			continue
		}
		out := reflect.New(reflect.TypeOf(in))
		if err := c.Deserialize(data, out.Interface()); err != nil {
			t.Errorf("Failed to deserialize %T: %v", in, err)
			continue
		}
		if !reflect.DeepEqual(in, out.Elem().Interface()) {
			t.Errorf("%T doesn't match after round trip: expected %v, got %v", in, in, out.Elem().Interface())
		}
	}
}

func testCorruptInput(t *testing.T, c codec.ICodec) {
	data, err := c.Serialize(common.NewSample(3, 128))
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}

	var out common.Sample
	if err := c.Deserialize(nil, &out); err == nil {
		t.Error("Expected error for empty input")
	}
	if err := c.Deserialize(data[:len(data)/2], &out); err == nil {
		t.Error("Expected error for truncated input")
	}
}

func testConcurrent(t *testing.T, c codec.ICodec) {
	const goroutines = 8
	const iterations = 50

	var wg sync.WaitGroup
	failures := make(chan string, goroutines)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				in := common.NewSample(g*iterations+i, 32)
				data, err := c.Serialize(in)
				if err != nil {
					failures <- err.Error()
					return
				}
				var out common.Sample
				if err := c.Deserialize(data, &out); err != nil {
					failures <- err.Error()
					return
				}
				in.Normalize()
				out.Normalize()
				if !reflect.DeepEqual(in, out) {
					failures <- "sample mismatch"
					return
				}
			}
		}(g)
	}

	wg.Wait()
	close(failures)
	for failure := range failures {
		t.Errorf("Concurrent round trip failed: %s", failure)
	}
}
