package codec

import (
	"encoding/json"

	"github.com/ValentinKolb/binser/codec/common"
	"github.com/bytedance/sonic"
)

// NewJSONCodec creates a new codec using encoding/json
func NewJSONCodec() ICodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements the ICodec interface using json encoding
type jsonCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (j jsonCodecImpl) Name() string {
	return common.CodecJSON
}

func (j jsonCodecImpl) Serialize(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (j jsonCodecImpl) Deserialize(b []byte, v any) error {
	return json.Unmarshal(b, v)
}

// NewSonicCodec creates a new codec producing json with bytedance/sonic
func NewSonicCodec() ICodec {
	return &sonicCodecImpl{}
}

// sonicCodecImpl implements the ICodec interface using sonic
type sonicCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (s sonicCodecImpl) Name() string {
	return common.CodecSonic
}

func (s sonicCodecImpl) Serialize(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func (s sonicCodecImpl) Deserialize(b []byte, v any) error {
	return sonic.Unmarshal(b, v)
}
