package serialize

import (
	"reflect"

	"github.com/ValentinKolb/binser/lib/buffer"
	"github.com/cockroachdb/errors"
)

// Serialize appends the encoding of in to b.
// If the encoding fails b may contain a partial encoding.
func Serialize[T any](b *buffer.BinaryBuffer, in T) error {
	return encode(b, reflect.ValueOf(&in).Elem())
}

// Deserialize reads a value of type T from b into out.
// See the package documentation for how existing content of out is treated.
func Deserialize[T any](b *buffer.BinaryBuffer, out *T) error {
	if out == nil {
		return errors.Wrapf(ErrNilPointer, "decoding %s", reflect.TypeFor[T]())
	}
	return decode(b, reflect.ValueOf(out).Elem())
}

// SerializeValue is the dynamically typed variant of Serialize.
// The dynamic type of v selects the encoding.
func SerializeValue(b *buffer.BinaryBuffer, v any) error {
	if v == nil {
		return errors.Wrap(ErrUnsupportedType, "cannot serialize untyped nil")
	}
	rv := reflect.New(reflect.TypeOf(v)).Elem()
	rv.Set(reflect.ValueOf(v))
	return encode(b, rv)
}

// DeserializeValue is the dynamically typed variant of Deserialize.
// ptr must be a non-nil pointer; the pointed to type selects the encoding.
func DeserializeValue(b *buffer.BinaryBuffer, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.Wrapf(ErrNilPointer, "got %T", ptr)
	}
	return decode(b, rv.Elem())
}

// Marshal returns the encoding of in as a new byte slice.
func Marshal[T any](in T) ([]byte, error) {
	b := buffer.New(0)
	if err := Serialize(b, in); err != nil {
		return nil, err
	}
	return b.ReleaseBuffer(), nil
}

// Unmarshal decodes data into out. Bytes after the encoding of out are ignored.
func Unmarshal[T any](data []byte, out *T) error {
	return Deserialize(buffer.FromBytes(data), out)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func encode(b *buffer.BinaryBuffer, v reflect.Value) error {
	p, err := planFor(v.Type())
	if err != nil {
		return err
	}
	return p.encode(b, v)
}

func decode(b *buffer.BinaryBuffer, v reflect.Value) error {
	p, err := planFor(v.Type())
	if err != nil {
		return err
	}
	return p.decode(b, v)
}
