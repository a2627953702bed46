package codec

import (
	"time"

	"github.com/ValentinKolb/binser/codec/common"
	"github.com/ValentinKolb/binser/codec/compress"
)

// --------------------------------------------------------------------------
// Compression
// --------------------------------------------------------------------------

// WithCompression returns a codec that compresses the output of c
func WithCompression(c ICodec, compressor compress.Compressor) ICodec {
	return &compressedCodecImpl{codec: c, compressor: compressor}
}

type compressedCodecImpl struct {
	codec      ICodec
	compressor compress.Compressor
}

func (c *compressedCodecImpl) Name() string {
	return c.codec.Name() + "+" + c.compressor.Name()
}

func (c *compressedCodecImpl) Serialize(v any) ([]byte, error) {
	raw, err := c.codec.Serialize(v)
	if err != nil {
		return nil, err
	}
	return c.compressor.Compress(raw)
}

func (c *compressedCodecImpl) Deserialize(b []byte, v any) error {
	raw, err := c.compressor.Decompress(b)
	if err != nil {
		return err
	}
	return c.codec.Deserialize(raw, v)
}

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

// WithMetrics returns a codec that records sizes, durations and errors of c
// in the process wide metrics (see common.MetricsFor)
func WithMetrics(c ICodec) ICodec {
	return &meteredCodecImpl{codec: c, metrics: common.MetricsFor(c.Name())}
}

type meteredCodecImpl struct {
	codec   ICodec
	metrics *common.CodecMetrics
}

func (m *meteredCodecImpl) Name() string {
	return m.codec.Name()
}

func (m *meteredCodecImpl) Serialize(v any) ([]byte, error) {
	start := time.Now()
	b, err := m.codec.Serialize(v)
	m.metrics.ObserveEncode(len(b), err, start)
	if err != nil {
		Logger.Warningf("%s: failed to serialize %T: %v", m.codec.Name(), v, err)
	}
	return b, err
}

func (m *meteredCodecImpl) Deserialize(b []byte, v any) error {
	start := time.Now()
	err := m.codec.Deserialize(b, v)
	m.metrics.ObserveDecode(len(b), err, start)
	if err != nil {
		Logger.Warningf("%s: failed to deserialize %T: %v", m.codec.Name(), v, err)
	}
	return err
}
