package serialize

import (
	"github.com/ValentinKolb/binser/lib/buffer"
	"github.com/cockroachdb/errors"
)

// Serializer is implemented by types that write their own binary representation.
// It may be implemented with a value or a pointer receiver.
type Serializer interface {
	// SerializeBinary appends the receiver to b
	SerializeBinary(b *buffer.BinaryBuffer) error
}

// Deserializer is implemented by types that read their own binary representation.
// It must be implemented with a pointer receiver to be able to modify the value.
type Deserializer interface {
	// DeserializeBinary reads the receiver from b, consuming exactly the bytes
	// written by SerializeBinary
	DeserializeBinary(b *buffer.BinaryBuffer) error
}

// EncodeFunc writes in to b. Used with Register.
type EncodeFunc[T any] func(b *buffer.BinaryBuffer, in T) error

// DecodeFunc reads out from b. Used with Register.
type DecodeFunc[T any] func(b *buffer.BinaryBuffer, out *T) error

// MaxFieldCount is the maximum number of fields a struct may have to be
// encoded as an aggregate without an override.
const MaxFieldCount = 10

var (
	// ErrUnsupportedType is returned for types that match no category
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrTooManyFields is returned for structs with more than MaxFieldCount fields and no override
	ErrTooManyFields = errors.New("too many fields for automatic serialization")
	// ErrIncompleteOverride is returned when a type only overrides one direction
	ErrIncompleteOverride = errors.New("type implements only one of SerializeBinary / DeserializeBinary")
	// ErrNilPointer is returned when a decode target is nil or not a pointer
	ErrNilPointer = errors.New("decode target must be a non-nil pointer")
)
