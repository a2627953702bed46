// Package compress provides the compressors that can be stacked on top of a codec.
//
// Key Components:
//
//   - Compressor: interface shared by all implementations.
//
//   - None: passes the data through unchanged.
//
//   - LZ4: lz4 frame format, streamed into a buffer.BinaryBuffer. Very fast
//     decompression, moderate ratio.
//
//   - Snappy: snappy block format. Fastest compression, the lowest ratio.
//
// Thread Safety:
//
//	All compressors are stateless and safe for concurrent use.
package compress

import (
	"bytes"
	"io"

	"github.com/ValentinKolb/binser/codec/common"
	"github.com/ValentinKolb/binser/lib/buffer"
	"github.com/cockroachdb/errors"
	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// Compressor transforms encoded bytes into a smaller representation and back
type Compressor interface {
	// Name returns the name used in configuration (see common.Compressions)
	Name() string
	// Compress returns the compressed form of src. src is not modified.
	Compress(src []byte) ([]byte, error)
	// Decompress reverses Compress
	Decompress(src []byte) ([]byte, error)
}

// New returns the compressor with the given name. An empty name selects None.
func New(name string) (Compressor, error) {
	switch name {
	case "", common.CompressionNone:
		return None{}, nil
	case common.CompressionLZ4:
		return LZ4{}, nil
	case common.CompressionSnappy:
		return Snappy{}, nil
	default:
		return nil, errors.Newf("invalid compression %s", name)
	}
}

// --------------------------------------------------------------------------
// None
// --------------------------------------------------------------------------

// None does not compress
type None struct{}

func (None) Name() string { return common.CompressionNone }

func (None) Compress(src []byte) ([]byte, error) { return src, nil }

func (None) Decompress(src []byte) ([]byte, error) { return src, nil }

// --------------------------------------------------------------------------
// LZ4
// --------------------------------------------------------------------------

// LZ4 compresses using the lz4 frame format
type LZ4 struct{}

func (LZ4) Name() string { return common.CompressionLZ4 }

func (LZ4) Compress(src []byte) ([]byte, error) {
	out := buffer.New(len(src)/2 + 64)
	w := lz4.NewWriter(out)
	if _, err := w.Write(src); err != nil {
		return nil, errors.Wrap(err, "lz4 compress")
	}
	// Close flushes the last block and writes the end mark
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "lz4 compress")
	}
	return out.ReleaseBuffer(), nil
}

func (LZ4) Decompress(src []byte) ([]byte, error) {
	out := buffer.New(len(src) * 2)
	if _, err := io.Copy(out, lz4.NewReader(bytes.NewReader(src))); err != nil {
		return nil, errors.Wrap(err, "lz4 decompress")
	}
	return out.ReleaseBuffer(), nil
}

// --------------------------------------------------------------------------
// Snappy
// --------------------------------------------------------------------------

// Snappy compresses using the snappy block format
type Snappy struct{}

func (Snappy) Name() string { return common.CompressionSnappy }

func (Snappy) Compress(src []byte) ([]byte, error) {
	return snappy.Encode(nil, src), nil
}

func (Snappy) Decompress(src []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, src)
	if err != nil {
		return nil, errors.Wrap(err, "snappy decompress")
	}
	return out, nil
}
