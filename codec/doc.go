// Package codec puts the native binser protocol behind a common interface next
// to other Go serialization formats, so they can be swapped, stacked with
// compression and compared against each other.
//
// Key Components:
//
//   - ICodec: Core interface that all codec implementations must satisfy.
//
//   - nativeCodecImpl: The binser dispatch protocol (lib/serialize) writing
//     into a lib/buffer.BinaryBuffer. No field names, no type information, the
//     smallest payloads. Both sides must agree on the Go type.
//
//   - gobCodecImpl: Go's gob encoding. Self describing, but the type
//     information makes single values large.
//
//   - jsonCodecImpl: encoding/json, human readable, useful for debugging.
//
//   - sonicCodecImpl: JSON through bytedance/sonic, same output format as
//     jsonCodecImpl with a faster encoder.
//
//   - WithCompression / WithMetrics: decorators compressing the encoded bytes
//     (codec/compress) and recording process metrics (codec/common).
//
//   - WriteArchive / ReadArchive: a self describing file format storing many
//     records together with the codec configuration used to encode them.
//
// Performance Characteristics:
//
//   - Native: fastest for fixed structures and trivially copyable slices, where
//     whole blocks of memory are copied at once.
//
//   - JSON / Sonic: larger payloads, sonic is considerably faster than encoding/json.
//
//   - GOB: large payloads for single values since every message carries its
//     type description.
//
// Thread Safety:
//
//	All codec implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	c, err := codec.New(common.CodecConfig{Codec: common.CodecNative, Compression: common.CompressionLZ4})
//	data, err := c.Serialize(sample)
//	// ... store or send data ...
//	var received common.Sample
//	err = c.Deserialize(data, &received)
package codec
