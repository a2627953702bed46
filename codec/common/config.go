package common

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Codec configuration struct
// --------------------------------------------------------------------------

// Supported codec names
const (
	CodecNative = "native"
	CodecGOB    = "gob"
	CodecJSON   = "json"
	CodecSonic  = "sonic"
)

// Supported compression names
const (
	CompressionNone   = "none"
	CompressionLZ4    = "lz4"
	CompressionSnappy = "snappy"
)

// Codecs lists all codec names in the order they are benchmarked
var Codecs = []string{CodecNative, CodecGOB, CodecJSON, CodecSonic}

// Compressions lists all compression names
var Compressions = []string{CompressionNone, CompressionLZ4, CompressionSnappy}

// CodecConfig selects how values are turned into bytes
type CodecConfig struct {
	// Codec is one of Codecs
	Codec string
	// Compression is one of Compressions, applied to the encoded bytes
	Compression string
	// Metrics enables the process wide codec metrics
	Metrics bool
}

// Name returns a short identifier such as "native+lz4"
func (c CodecConfig) Name() string {
	if c.Compression == "" || c.Compression == CompressionNone {
		return c.Codec
	}
	return c.Codec + "+" + c.Compression
}

// String returns a formatted string representation of the configuration
func (c CodecConfig) String() string {
	var sb strings.Builder
	addSection(&sb, "Codec")
	addField(&sb, "Codec", c.Codec)
	addField(&sb, "Compression", c.Compression)
	addField(&sb, "Metrics", fmt.Sprintf("%t", c.Metrics))
	return sb.String()
}

// --------------------------------------------------------------------------
// Benchmark configuration struct
// --------------------------------------------------------------------------

// BenchConfig holds the parameters of the bench command
type BenchConfig struct {
	// Codecs to benchmark, each combined with every entry of Compressions
	Codecs       []string
	Compressions []string

	// Records is the number of distinct sample payloads cycled through
	Records int
	// ValueSize is the size of the raw byte field of each sample
	ValueSize int
	// Threads is the parallelism of the benchmark loops
	Threads int

	// CSVPath is an optional file to export the results to
	CSVPath string
	// Metrics dumps the collected metrics in Prometheus format after the run
	Metrics bool
}

// Configs returns every codec / compression combination to benchmark
func (c BenchConfig) Configs() []CodecConfig {
	configs := make([]CodecConfig, 0, len(c.Codecs)*len(c.Compressions))
	for _, codec := range c.Codecs {
		for _, compression := range c.Compressions {
			configs = append(configs, CodecConfig{Codec: codec, Compression: compression, Metrics: c.Metrics})
		}
	}
	return configs
}

// String returns a formatted string representation of the configuration
func (c BenchConfig) String() string {
	var sb strings.Builder

	addSection(&sb, "Codecs")
	addField(&sb, "Codecs", strings.Join(c.Codecs, ", "))
	addField(&sb, "Compressions", strings.Join(c.Compressions, ", "))

	addSection(&sb, "Workload")
	addField(&sb, "Records", fmt.Sprintf("%d", c.Records))
	addField(&sb, "Value Size", fmt.Sprintf("%d bytes", c.ValueSize))
	addField(&sb, "Threads", fmt.Sprintf("%d", c.Threads))

	addSection(&sb, "Output")
	addField(&sb, "CSV", c.CSVPath)
	addField(&sb, "Metrics", fmt.Sprintf("%t", c.Metrics))

	return sb.String()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func addSection(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
}

func addField(sb *strings.Builder, name, value string) {
	sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
}
