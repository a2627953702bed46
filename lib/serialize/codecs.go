package serialize

import (
	"math"
	"reflect"
	"unsafe"

	"github.com/ValentinKolb/binser/lib/buffer"
	"github.com/cockroachdb/errors"
)

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// rawBytes returns the memory of the addressable value v.
func rawBytes(v reflect.Value) []byte {
	size := v.Type().Size()
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(v.Addr().UnsafePointer()), size)
}

func writeCount(b *buffer.BinaryBuffer, n int) {
	buffer.WriteScalar(b, uint64(n))
}

func readCount(b *buffer.BinaryBuffer) (uint64, error) {
	var n uint64
	err := buffer.ReadScalar(b, &n)
	return n, err
}

// readBlockSize reads a count of elements with the given size and checks that
// the resulting block is fully readable before anything is allocated for it.
func readBlockSize(b *buffer.BinaryBuffer, elemSize uintptr) (count int, size int, err error) {
	n, err := readCount(b)
	if err != nil {
		return 0, 0, err
	}
	if n > math.MaxInt {
		return 0, 0, errors.Wrapf(buffer.ErrOutOfBounds, "count %d exceeds the addressable range", n)
	}
	if elemSize > 0 && n > uint64(b.AvailableReadBytes())/uint64(elemSize) {
		return 0, 0, errors.Wrapf(buffer.ErrOutOfBounds, "%d elements of %d bytes exceed the %d readable bytes",
			n, elemSize, b.AvailableReadBytes())
	}
	return int(n), int(n) * int(elemSize), nil
}

// preallocHint bounds the capacity reserved for n decoded elements, since n
// comes from the input and may be corrupt.
func preallocHint(b *buffer.BinaryBuffer, n uint64) int {
	return int(min(n, uint64(b.AvailableReadBytes())))
}

// --------------------------------------------------------------------------
// Scalars and Strings
// --------------------------------------------------------------------------

func encodeScalar(b *buffer.BinaryBuffer, v reflect.Value) error {
	_, _ = b.Write(rawBytes(v))
	return nil
}

func decodeScalar(b *buffer.BinaryBuffer, v reflect.Value) error {
	return b.Read(rawBytes(v))
}

func encodeString(b *buffer.BinaryBuffer, v reflect.Value) error {
	s := v.String()
	writeCount(b, len(s))
	_, _ = b.Write(unsafe.Slice(unsafe.StringData(s), len(s)))
	return nil
}

func decodeString(b *buffer.BinaryBuffer, v reflect.Value) error {
	n, _, err := readBlockSize(b, 1)
	if err != nil {
		return err
	}
	if n == 0 {
		v.SetString("")
		return nil
	}
	data := make([]byte, n)
	if err := b.Read(data); err != nil {
		return err
	}
	// data is not referenced anywhere else
	v.SetString(unsafe.String(unsafe.SliceData(data), n))
	return nil
}

// --------------------------------------------------------------------------
// Slices
// --------------------------------------------------------------------------

// encodeTrivialSlice writes the count and the backing array in one block.
func encodeTrivialSlice(b *buffer.BinaryBuffer, v reflect.Value) error {
	n := v.Len()
	writeCount(b, n)
	if size := n * int(v.Type().Elem().Size()); size > 0 {
		_, _ = b.Write(unsafe.Slice((*byte)(v.UnsafePointer()), size))
	}
	return nil
}

// decodeTrivialSlice replaces the content of v with the decoded elements.
func decodeTrivialSlice(b *buffer.BinaryBuffer, v reflect.Value) error {
	n, size, err := readBlockSize(b, v.Type().Elem().Size())
	if err != nil {
		return err
	}
	s := reflect.MakeSlice(v.Type(), n, n)
	if size > 0 {
		if err := b.Read(unsafe.Slice((*byte)(s.UnsafePointer()), size)); err != nil {
			return err
		}
	}
	v.Set(s)
	return nil
}

func sliceEncoder(elem *plan) encodeFunc {
	return func(b *buffer.BinaryBuffer, v reflect.Value) error {
		n := v.Len()
		writeCount(b, n)
		for i := 0; i < n; i++ {
			if err := elem.encodeValue(b, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
}

// sliceDecoder appends the decoded elements to v.
func sliceDecoder(elem *plan) decodeFunc {
	return func(b *buffer.BinaryBuffer, v reflect.Value) error {
		n, err := readCount(b)
		if err != nil {
			return err
		}

		s := v
		if extra := preallocHint(b, n); s.IsNil() || s.Cap()-s.Len() < extra {
			s = reflect.MakeSlice(v.Type(), v.Len(), v.Len()+extra)
			reflect.Copy(s, v)
		}

		zero := reflect.Zero(v.Type().Elem())
		for i := uint64(0); i < n; i++ {
			s = reflect.Append(s, zero)
			if err := elem.decodeValue(b, s.Index(s.Len()-1)); err != nil {
				return err
			}
		}
		v.Set(s)
		return nil
	}
}

// --------------------------------------------------------------------------
// Arrays
// --------------------------------------------------------------------------

func encodeTrivialArray(b *buffer.BinaryBuffer, v reflect.Value) error {
	writeCount(b, v.Len())
	_, _ = b.Write(rawBytes(v))
	return nil
}

// decodeTrivialArray ignores the stored count, the length is part of the type.
func decodeTrivialArray(b *buffer.BinaryBuffer, v reflect.Value) error {
	if _, err := readCount(b); err != nil {
		return err
	}
	return b.Read(rawBytes(v))
}

func arrayEncoder(elem *plan) encodeFunc {
	return func(b *buffer.BinaryBuffer, v reflect.Value) error {
		writeCount(b, v.Len())
		for i := 0; i < v.Len(); i++ {
			if err := elem.encodeValue(b, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
}

func arrayDecoder(elem *plan) decodeFunc {
	return func(b *buffer.BinaryBuffer, v reflect.Value) error {
		if _, err := readCount(b); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := elem.decodeValue(b, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
}

// --------------------------------------------------------------------------
// Maps
// --------------------------------------------------------------------------

func mapEncoder(key, val *plan) encodeFunc {
	return func(b *buffer.BinaryBuffer, v reflect.Value) error {
		writeCount(b, v.Len())

		// map entries are not addressable, copy them into scratch values
		k := reflect.New(v.Type().Key()).Elem()
		e := reflect.New(v.Type().Elem()).Elem()
		iter := v.MapRange()
		for iter.Next() {
			k.SetIterKey(iter)
			e.SetIterValue(iter)
			if err := key.encodeValue(b, k); err != nil {
				return err
			}
			if err := val.encodeValue(b, e); err != nil {
				return err
			}
		}
		return nil
	}
}

// mapDecoder inserts the decoded entries into v, allocating the map if it is nil.
// Existing entries with the same key are overwritten.
func mapDecoder(key, val *plan) decodeFunc {
	return func(b *buffer.BinaryBuffer, v reflect.Value) error {
		n, err := readCount(b)
		if err != nil {
			return err
		}
		if v.IsNil() {
			v.Set(reflect.MakeMapWithSize(v.Type(), preallocHint(b, n)))
		}

		for i := uint64(0); i < n; i++ {
			k := reflect.New(v.Type().Key()).Elem()
			e := reflect.New(v.Type().Elem()).Elem()
			if err := key.decodeValue(b, k); err != nil {
				return err
			}
			if err := val.decodeValue(b, e); err != nil {
				return err
			}
			v.SetMapIndex(k, e)
		}
		return nil
	}
}

// --------------------------------------------------------------------------
// Aggregates and Pairs
// --------------------------------------------------------------------------

func structEncoder(fields []*plan) encodeFunc {
	return func(b *buffer.BinaryBuffer, v reflect.Value) error {
		for i, f := range fields {
			if err := f.encodeValue(b, v.Field(i)); err != nil {
				return err
			}
		}
		return nil
	}
}

func structDecoder(fields []*plan) decodeFunc {
	return func(b *buffer.BinaryBuffer, v reflect.Value) error {
		for i, f := range fields {
			if err := f.decodeValue(b, v.Field(i)); err != nil {
				return err
			}
		}
		return nil
	}
}
