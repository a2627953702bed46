package common

import (
	"fmt"

	"github.com/ValentinKolb/binser/lib/serialize"
)

// --------------------------------------------------------------------------
// Sample payload
// --------------------------------------------------------------------------

// Point is a trivially copyable element
type Point struct {
	X, Y float64
	T    int64
}

// Sample is the payload used by the benchmarks, the file commands and the
// codec conformance tests. It touches every category of the native protocol:
// scalars, strings, trivial and non-trivial vectors, an array, a map, a pair
// and a nested aggregate.
type Sample struct {
	ID     uint64                                    `json:"id"`
	Name   string                                    `json:"name"`
	Tags   map[string]string                         `json:"tags"`
	Points []Point                                   `json:"points"`
	Labels []string                                  `json:"labels"`
	Window [4]int32                                  `json:"window"`
	Range  serialize.Pair[int64, int64]              `json:"range"`
	Value  []byte                                    `json:"value"`
	Owner  Owner                                     `json:"owner"`
	Scores map[string]serialize.Pair[int32, float64] `json:"scores"`
}

// Owner is a nested aggregate
type Owner struct {
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// NewSample creates the i-th deterministic sample with a value of valueSize bytes
func NewSample(i int, valueSize int) Sample {
	value := make([]byte, max(valueSize, 0))
	for j := range value {
		value[j] = byte(i + j)
	}

	points := make([]Point, i%8)
	for j := range points {
		points[j] = Point{X: float64(j) * 0.5, Y: float64(i) * 1.5, T: int64(i*1000 + j)}
	}

	return Sample{
		ID:   uint64(i),
		Name: fmt.Sprintf("sample-%d", i),
		Tags: map[string]string{
			"kind":   "sample",
			"parity": []string{"even", "odd"}[i%2],
		},
		Points: points,
		Labels: []string{"binser", fmt.Sprintf("label-%d", i%3)},
		Window: [4]int32{int32(i), int32(i + 1), int32(i + 2), int32(i + 3)},
		Range:  serialize.MakePair(int64(-i), int64(i)),
		Value:  value,
		Owner:  Owner{Name: fmt.Sprintf("owner-%d", i%5), Admin: i%5 == 0},
		Scores: map[string]serialize.Pair[int32, float64]{
			"latest": serialize.MakePair(int32(i), float64(i)/10),
		},
	}
}

// NewSamples creates n samples, see NewSample
func NewSamples(n int, valueSize int) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = NewSample(i, valueSize)
	}
	return samples
}

// Normalize replaces nil slices and maps by empty ones. Codecs differ in
// whether they keep the difference, normalized samples compare equal with
// reflect.DeepEqual regardless of the codec used.
func (s *Sample) Normalize() {
	if s.Tags == nil {
		s.Tags = map[string]string{}
	}
	if s.Points == nil {
		s.Points = []Point{}
	}
	if s.Labels == nil {
		s.Labels = []string{}
	}
	if s.Value == nil {
		s.Value = []byte{}
	}
	if s.Scores == nil {
		s.Scores = map[string]serialize.Pair[int32, float64]{}
	}
}
