package codec

import (
	"github.com/ValentinKolb/binser/codec/common"
	"github.com/ValentinKolb/binser/codec/compress"
	"github.com/cockroachdb/errors"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("codec")

// ICodec is the interface for all codecs
type ICodec interface {
	// Name returns the name of the codec, including decorators (e.g. "native+lz4")
	Name() string
	// Serialize encodes v into a new byte slice
	Serialize(v any) ([]byte, error)
	// Deserialize decodes b into v, which must be a non-nil pointer
	Deserialize(b []byte, v any) error
}

// New creates the codec described by cfg, with compression and metrics applied
func New(cfg common.CodecConfig) (ICodec, error) {
	var c ICodec
	switch cfg.Codec {
	case common.CodecNative:
		c = NewNativeCodec()
	case common.CodecGOB:
		c = NewGOBCodec()
	case common.CodecJSON:
		c = NewJSONCodec()
	case common.CodecSonic:
		c = NewSonicCodec()
	default:
		return nil, errors.Newf("invalid codec %s", cfg.Codec)
	}

	compressor, err := compress.New(cfg.Compression)
	if err != nil {
		return nil, err
	}
	if compressor.Name() != common.CompressionNone {
		c = WithCompression(c, compressor)
	}

	if cfg.Metrics {
		c = WithMetrics(c)
	}

	Logger.Debugf("created codec %s", c.Name())
	return c, nil
}
