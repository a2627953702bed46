package codec

import (
	"github.com/ValentinKolb/binser/codec/common"
	"github.com/ValentinKolb/binser/lib/buffer"
	"github.com/ValentinKolb/binser/lib/serialize"
	"github.com/cockroachdb/errors"
)

// ErrTrailingBytes is returned by the native codec if the input is longer than the decoded value
var ErrTrailingBytes = errors.New("trailing bytes after decoded value")

// NewNativeCodec creates a new codec using the binser dispatch protocol
func NewNativeCodec() ICodec {
	return &nativeCodecImpl{}
}

// nativeCodecImpl implements the ICodec interface using lib/serialize
type nativeCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (n nativeCodecImpl) Name() string {
	return common.CodecNative
}

func (n nativeCodecImpl) Serialize(v any) ([]byte, error) {
	b := buffer.New(0)
	if err := serialize.SerializeValue(b, v); err != nil {
		return nil, err
	}
	return b.ReleaseBuffer(), nil
}

func (n nativeCodecImpl) Deserialize(data []byte, v any) error {
	b := buffer.FromBytes(data)
	if err := serialize.DeserializeValue(b, v); err != nil {
		return err
	}
	if left := b.AvailableReadBytes(); left != 0 {
		return errors.Wrapf(ErrTrailingBytes, "%d bytes left after decoding %T", left, v)
	}
	return nil
}
