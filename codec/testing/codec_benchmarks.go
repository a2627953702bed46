package testing

import (
	"testing"

	"github.com/ValentinKolb/binser/codec/common"
)

// RunCodecBenchmarks runs the encode and decode benchmarks for an ICodec implementation
func RunCodecBenchmarks(b *testing.B, name string, factory CodecFactory) {
	for _, size := range []struct {
		name      string
		valueSize int
	}{
		{"Small", 16},
		{"Medium", 1024},
		{"Large", 64 * 1024},
	} {
		b.Run(name+"_Serialize_"+size.name, func(b *testing.B) {
			benchmarkSerialize(b, factory, size.valueSize)
		})
		b.Run(name+"_Deserialize_"+size.name, func(b *testing.B) {
			benchmarkDeserialize(b, factory, size.valueSize)
		})
	}
}

func benchmarkSerialize(b *testing.B, factory CodecFactory, valueSize int) {
	c := factory()
	samples := common.NewSamples(64, valueSize)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		data, err := c.Serialize(samples[i%len(samples)])
		if err != nil {
			b.Fatalf("Failed to serialize: %v", err)
		}
		b.SetBytes(int64(len(data)))
	}
}

func benchmarkDeserialize(b *testing.B, factory CodecFactory, valueSize int) {
	c := factory()
	samples := common.NewSamples(64, valueSize)
	encoded := make([][]byte, len(samples))
	for i, s := range samples {
		data, err := c.Serialize(s)
		if err != nil {
			b.Fatalf("Failed to serialize: %v", err)
		}
		encoded[i] = data
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		var out common.Sample
		data := encoded[i%len(encoded)]
		if err := c.Deserialize(data, &out); err != nil {
			b.Fatalf("Failed to deserialize: %v", err)
		}
		b.SetBytes(int64(len(data)))
	}
}
