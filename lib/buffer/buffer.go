package buffer

import (
	"github.com/cockroachdb/errors"
)

// DefaultSizeHint is the capacity reserved by New when no hint is given.
const DefaultSizeHint = 1024

// ErrOutOfBounds is returned when a read extends past the write cursor.
var ErrOutOfBounds = errors.New("out of bounds read")

// BinaryBuffer is a resizable byte sequence with independent read and write cursors.
//
// Invariant: 0 <= readPos <= writePos <= len(data) <= cap(data).
// len(data) is the logical capacity of the buffer (see Resize), cap(data) is
// the storage reserved by the Go runtime.
type BinaryBuffer struct {
	data     []byte
	readPos  int
	writePos int
}

// New creates an empty buffer reserving sizeHint bytes of storage.
// The hint has no behavioral effect; a value <= 0 selects DefaultSizeHint.
func New(sizeHint int) *BinaryBuffer {
	if sizeHint <= 0 {
		sizeHint = DefaultSizeHint
	}
	return &BinaryBuffer{
		data: make([]byte, 0, sizeHint),
	}
}

// FromBytes wraps data without copying it. The buffer takes ownership of the
// slice and treats it as fully written: the write cursor starts at len(data)
// and everything is available for reading.
func FromBytes(data []byte) *BinaryBuffer {
	return &BinaryBuffer{
		data:     data,
		writePos: len(data),
	}
}

// --------------------------------------------------------------------------
// Raw Access
// --------------------------------------------------------------------------

// Write appends p to the buffer, growing the storage if needed, and advances
// the write cursor by len(p). It never fails; the error result only exists to
// satisfy io.Writer and is always nil.
func (b *BinaryBuffer) Write(p []byte) (int, error) {
	b.ensureCapacity(len(p))
	copy(b.data[b.writePos:], p)
	b.writePos += len(p)
	return len(p), nil
}

// Read fills p with the next len(p) unread bytes and advances the read cursor.
// If fewer than len(p) bytes are available an error wrapping ErrOutOfBounds
// is returned and neither p nor the cursors are modified.
//
// Unlike io.Reader, Read is all-or-nothing: it never performs a short read.
func (b *BinaryBuffer) Read(p []byte) error {
	if err := b.assertRead(len(p)); err != nil {
		return err
	}
	copy(p, b.data[b.readPos:b.readPos+len(p)])
	b.readPos += len(p)
	return nil
}

// Bytes returns the unread part of the buffer without consuming it.
// The slice aliases the buffer storage and is only valid until the next mutation.
func (b *BinaryBuffer) Bytes() []byte {
	return b.data[b.readPos:b.writePos]
}

// --------------------------------------------------------------------------
// Size Information
// --------------------------------------------------------------------------

// AvailableReadBytes returns the number of bytes that have been written but not yet read.
func (b *BinaryBuffer) AvailableReadBytes() int {
	return b.writePos - b.readPos
}

// AvailableWriteCapacity returns how many bytes can be written before the storage has to grow.
func (b *BinaryBuffer) AvailableWriteCapacity() int {
	return cap(b.data) - b.writePos
}

// Len returns the logical capacity of the buffer, i.e. the size set by the
// last Resize or reached by the last growing Write.
func (b *BinaryBuffer) Len() int {
	return len(b.data)
}

// --------------------------------------------------------------------------
// Storage Management
// --------------------------------------------------------------------------

// Resize sets the capacity of the buffer to n bytes. New space is zero filled.
// Both cursors are clamped to n: shrinking below the write cursor silently
// discards the bytes at and after offset n, even if they were never read.
func (b *BinaryBuffer) Resize(n int) {
	if n < 0 {
		n = 0
	}

	old := len(b.data)
	switch {
	case n <= old:
		b.data = b.data[:n]
	case n <= cap(b.data):
		b.data = b.data[:n]
		clear(b.data[old:n])
	default:
		grown := make([]byte, n)
		copy(grown, b.data)
		b.data = grown
	}

	b.readPos = min(b.readPos, n)
	b.writePos = min(b.writePos, n)
}

// Clear drops all content and resets both cursors. Reserved storage is kept.
func (b *BinaryBuffer) Clear() {
	b.data = b.data[:0]
	b.readPos = 0
	b.writePos = 0
}

// ReleaseBuffer hands the storage to the caller and leaves the buffer empty.
// The returned slice is no longer referenced by the buffer.
func (b *BinaryBuffer) ReleaseBuffer() []byte {
	data := b.data
	b.data = nil
	b.Clear()
	if data == nil {
		return []byte{}
	}
	return data
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// assertRead checks that n more bytes can be read.
func (b *BinaryBuffer) assertRead(n int) error {
	if n < 0 || b.readPos+n > b.writePos {
		return errors.Wrapf(ErrOutOfBounds, "reading %d bytes at offset %d (write cursor at %d)",
			n, b.readPos, b.writePos)
	}
	return nil
}

// ensureCapacity grows the logical capacity so that n more bytes fit after the write cursor.
func (b *BinaryBuffer) ensureCapacity(n int) {
	need := b.writePos + n
	if need <= len(b.data) {
		return
	}
	if need <= cap(b.data) {
		old := len(b.data)
		b.data = b.data[:need]
		clear(b.data[old:need])
		return
	}
	// append picks the amortized growth factor
	b.data = append(b.data, make([]byte, need-len(b.data))...)
}
