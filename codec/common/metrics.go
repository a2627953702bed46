package common

import (
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Codec Metrics
// --------------------------------------------------------------------------

// CodecMetrics are the process wide counters of one codec.
// All metrics are labelled with the codec name and exported in Prometheus format.
type CodecMetrics struct {
	encodedBytes   *metrics.Counter
	decodedBytes   *metrics.Counter
	encodeErrors   *metrics.Counter
	decodeErrors   *metrics.Counter
	payloadSize    *metrics.Histogram
	encodeDuration *metrics.Histogram
	decodeDuration *metrics.Histogram
}

// MetricsFor returns the metrics of the codec with the given name.
// Calling it twice with the same name returns metrics backed by the same counters.
func MetricsFor(codec string) *CodecMetrics {
	label := func(name string) string {
		return fmt.Sprintf(`binser_%s{codec=%q}`, name, codec)
	}
	return &CodecMetrics{
		encodedBytes:   metrics.GetOrCreateCounter(label("encoded_bytes_total")),
		decodedBytes:   metrics.GetOrCreateCounter(label("decoded_bytes_total")),
		encodeErrors:   metrics.GetOrCreateCounter(label("encode_errors_total")),
		decodeErrors:   metrics.GetOrCreateCounter(label("decode_errors_total")),
		payloadSize:    metrics.GetOrCreateHistogram(label("payload_size_bytes")),
		encodeDuration: metrics.GetOrCreateHistogram(label("encode_duration_seconds")),
		decodeDuration: metrics.GetOrCreateHistogram(label("decode_duration_seconds")),
	}
}

// ObserveEncode records one encode call that produced n bytes
func (m *CodecMetrics) ObserveEncode(n int, err error, start time.Time) {
	m.encodeDuration.UpdateDuration(start)
	if err != nil {
		m.encodeErrors.Inc()
		return
	}
	m.encodedBytes.Add(n)
	m.payloadSize.Update(float64(n))
}

// ObserveDecode records one decode call that consumed n bytes
func (m *CodecMetrics) ObserveDecode(n int, err error, start time.Time) {
	m.decodeDuration.UpdateDuration(start)
	if err != nil {
		m.decodeErrors.Inc()
		return
	}
	m.decodedBytes.Add(n)
}

// EncodedBytes returns the total number of bytes produced so far
func (m *CodecMetrics) EncodedBytes() uint64 {
	return m.encodedBytes.Get()
}

// EncodeErrors returns the number of failed encode calls
func (m *CodecMetrics) EncodeErrors() uint64 {
	return m.encodeErrors.Get()
}

// DecodeErrors returns the number of failed decode calls
func (m *CodecMetrics) DecodeErrors() uint64 {
	return m.decodeErrors.Get()
}

// WriteMetrics writes all binser metrics in Prometheus text format to w
func WriteMetrics(w io.Writer) {
	metrics.WritePrometheus(w, false)
}
