package buffer

import "unsafe"

// Scalar is the set of types whose in-memory representation fully describes
// their value and can therefore be copied byte for byte.
type Scalar interface {
	~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 |
		~complex64 | ~complex128
}

// WriteScalar writes the unsafe.Sizeof(v) bytes of v's representation in host byte order.
func WriteScalar[T Scalar](b *BinaryBuffer, v T) {
	_, _ = b.Write(unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v)))
}

// ReadScalar reads unsafe.Sizeof(*out) bytes into out.
// On failure out is left untouched and the error wraps ErrOutOfBounds.
func ReadScalar[T Scalar](b *BinaryBuffer, out *T) error {
	return b.Read(unsafe.Slice((*byte)(unsafe.Pointer(out)), unsafe.Sizeof(*out)))
}
