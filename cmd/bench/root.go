package bench

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/binser/cmd/util"
	"github.com/ValentinKolb/binser/codec"
	"github.com/ValentinKolb/binser/codec/common"
	"github.com/ValentinKolb/binser/lib/stats"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	log = logger.GetLogger("bench")

	benchConfig = &common.BenchConfig{}

	// BenchCmd compares the codecs
	BenchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Compare encode/decode speed and payload size of all codecs",
		Long:    "Encodes and decodes the sample payload with every combination of the configured codecs and compressions. The global --codec and --compression flags are ignored, use --codecs and --compressions instead.",
		PreRunE: processBenchConfig,
		RunE:    run,
	}
)

// percentiles reported for the latency timers
var percentiles = []float64{0.5, 0.95, 0.99}

func init() {
	key := "codecs"
	BenchCmd.Flags().String(key, strings.Join(common.Codecs, ","), util.WrapString("Codecs to benchmark (comma separated)"))
	key = "compressions"
	BenchCmd.Flags().String(key, common.CompressionNone, util.WrapString("Compressions to combine with every codec (comma separated)"))
	key = "records"
	BenchCmd.Flags().Int(key, 100, util.WrapString("Number of distinct sample payloads"))
	key = "value-size"
	BenchCmd.Flags().Int(key, 256, util.WrapString("Size of the raw byte field of each sample (in bytes)"))
	key = "threads"
	BenchCmd.Flags().Int(key, 4, util.WrapString("Number of threads to use for the benchmark"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	benchConfig.Codecs = splitList(viper.GetString("codecs"))
	benchConfig.Compressions = splitList(viper.GetString("compressions"))
	benchConfig.Records = max(viper.GetInt("records"), 1)
	benchConfig.ValueSize = viper.GetInt("value-size")
	benchConfig.Threads = max(viper.GetInt("threads"), 1)
	benchConfig.CSVPath = viper.GetString("csv")
	benchConfig.Metrics = viper.GetBool("metrics")
	return nil
}

// --------------------------------------------------------------------------
// Benchmark
// --------------------------------------------------------------------------

// result holds the measurements of one codec configuration
type result struct {
	name        string
	encode      testing.BenchmarkResult
	decode      testing.BenchmarkResult
	encodeTimer gometrics.Timer
	decodeTimer gometrics.Timer
	sizes       *stats.SizeHistogram
	summary     stats.Summary
}

func run(_ *cobra.Command, _ []string) error {
	fmt.Println("Benchmarking binser codecs")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(benchConfig.String())

	samples := common.NewSamples(benchConfig.Records, benchConfig.ValueSize)
	registry := gometrics.NewRegistry()

	results := make([]result, 0)
	for _, cfg := range benchConfig.Configs() {
		r, err := benchmarkCodec(cfg, samples, registry)
		if err != nil {
			return err
		}
		results = append(results, r)
		printResult(r)
	}

	if benchConfig.CSVPath != "" {
		if err := writeResultsToCSV(benchConfig.CSVPath, results); err != nil {
			return err
		}
		fmt.Printf("\nResults written to %s\n", benchConfig.CSVPath)
	}

	if benchConfig.Metrics {
		fmt.Println()
		common.WriteMetrics(os.Stdout)
	}
	return nil
}

// benchmarkCodec measures encoding and decoding of samples with the codec described by cfg
func benchmarkCodec(cfg common.CodecConfig, samples []common.Sample, registry gometrics.Registry) (result, error) {
	c, err := codec.New(cfg)
	if err != nil {
		return result{}, err
	}

	r := result{
		name:        c.Name(),
		encodeTimer: gometrics.GetOrRegisterTimer(c.Name()+".encode", registry),
		decodeTimer: gometrics.GetOrRegisterTimer(c.Name()+".decode", registry),
		sizes:       stats.NewSizeHistogram(),
	}

	// encode every sample once, to verify the codec and to collect the sizes
	encoded := make([][]byte, len(samples))
	sizes := make([]int, len(samples))
	for i, s := range samples {
		data, err := c.Serialize(s)
		if err != nil {
			return result{}, fmt.Errorf("%s: failed to serialize sample %d: %w", c.Name(), i, err)
		}
		encoded[i] = data
		sizes[i] = len(data)
		r.sizes.AddSample(len(data))
	}
	r.summary = stats.SummarizeSizes(sizes)
	log.Debugf("%s: encoded %d samples, average size %d bytes", c.Name(), len(samples), r.sizes.Average())

	r.encode = testing.Benchmark(func(b *testing.B) {
		b.SetParallelism(benchConfig.Threads)
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			i := 0
			for pb.Next() {
				start := time.Now()
				if _, err := c.Serialize(samples[i%len(samples)]); err != nil {
					log.Errorf("(%s encode) - %v", c.Name(), err)
				}
				r.encodeTimer.UpdateSince(start)
				i++
			}
		})
	})

	r.decode = testing.Benchmark(func(b *testing.B) {
		b.SetParallelism(benchConfig.Threads)
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			i := 0
			for pb.Next() {
				var out common.Sample
				start := time.Now()
				if err := c.Deserialize(encoded[i%len(encoded)], &out); err != nil {
					log.Errorf("(%s decode) - %v", c.Name(), err)
				}
				r.decodeTimer.UpdateSince(start)
				i++
			}
		})
	})

	return r, nil
}

// --------------------------------------------------------------------------
// Output
// --------------------------------------------------------------------------

// opsPerSec converts a benchmark result to operations per second
func opsPerSec(result testing.BenchmarkResult) (nsPerOp float64, ops float64) {
	if result.NsPerOp() == 0 {
		return 0, 0
	}
	nsPerOp = math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	return nsPerOp, 1.0 / (nsPerOp / 1e9)
}

// printResult prints the result of a codec benchmark in a formatted way
func printResult(r result) {
	fmt.Printf("%-16s size avg %6d B  p50 %6d B  max %6.0f B\n",
		r.name, r.sizes.Average(), r.sizes.Percentile(50), r.summary.Max)

	for _, op := range []struct {
		name   string
		result testing.BenchmarkResult
		timer  gometrics.Timer
	}{
		{"encode", r.encode, r.encodeTimer},
		{"decode", r.decode, r.decodeTimer},
	} {
		nsPerOp, ops := opsPerSec(op.result)
		if ops == 0 {
			fmt.Printf("  %-14sskipped\n", op.name)
			continue
		}
		p := op.timer.Percentiles(percentiles)
		fmt.Printf("  %-14s%.0fns/op (%s/op)\t%.0f ops/sec\tp50 %s  p95 %s  p99 %s\n",
			op.name, nsPerOp, time.Duration(nsPerOp), ops,
			time.Duration(p[0]), time.Duration(p[1]), time.Duration(p[2]))
	}
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []result) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Codec", "Operation", "NsPerOp", "DurationPerOp", "OpsPerSec",
		"P50Ns", "P95Ns", "P99Ns",
		"AvgSize", "MinSize", "MaxSize", "StdDevSize",
		"Records", "ValueSize", "Threads",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for _, r := range results {
		for _, op := range []struct {
			name   string
			result testing.BenchmarkResult
			timer  gometrics.Timer
		}{
			{"encode", r.encode, r.encodeTimer},
			{"decode", r.decode, r.decodeTimer},
		} {
			nsPerOp, ops := opsPerSec(op.result)
			p := op.timer.Percentiles(percentiles)

			row := []string{
				r.name,
				op.name,
				fmt.Sprintf("%.0f", nsPerOp),
				time.Duration(nsPerOp).String(),
				fmt.Sprintf("%.0f", ops),
				fmt.Sprintf("%.0f", p[0]),
				fmt.Sprintf("%.0f", p[1]),
				fmt.Sprintf("%.0f", p[2]),
				strconv.Itoa(r.sizes.Average()),
				fmt.Sprintf("%.0f", r.summary.Min),
				fmt.Sprintf("%.0f", r.summary.Max),
				fmt.Sprintf("%.2f", r.summary.StdDeviation),
				strconv.Itoa(benchConfig.Records),
				strconv.Itoa(benchConfig.ValueSize),
				strconv.Itoa(benchConfig.Threads),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write row for %s %s: %v", r.name, op.name, err)
			}
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// splitList splits a comma separated list, dropping empty entries
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
