// Package buffer provides BinaryBuffer, the in-memory byte store every other
// part of binser reads from and writes to.
//
// A BinaryBuffer owns a contiguous byte slice and tracks two independent
// cursors into it:
//   - the write cursor marks the next free byte; Write appends at this offset
//     and grows the storage when there is not enough room left
//   - the read cursor marks the next unread byte; Read consumes from this offset
//     and never goes past the write cursor
//
// Because the cursors are independent, the same buffer can be filled and
// drained incrementally, with writes and reads interleaved one value at a time.
//
// Key Components:
//
//   - BinaryBuffer: the buffer itself, created with New (empty, with a
//     capacity hint) or FromBytes (wraps an existing byte slice for reading
//     without copying it).
//
//   - WriteScalar / ReadScalar: typed helpers that copy the in-memory
//     representation of a scalar value (integers, floats, complex numbers,
//     booleans) into or out of the buffer.
//
//   - ErrOutOfBounds: the only error the buffer ever reports. It is returned
//     when a read requests more bytes than AvailableReadBytes. The returned
//     error carries the failing offsets and the stack of the failing check
//     (print it with %+v).
//
// Wire Format:
//
//	Scalars are copied byte for byte in the host's native byte order,
//	including any padding of the in-memory representation. Data written on
//	one platform is only guaranteed to read back on a platform with the same
//	byte order and type layout.
//
// Thread Safety:
//
//	A BinaryBuffer has no internal synchronization. It must only be used by a
//	single goroutine at a time; use one buffer per in-flight message or guard
//	it with an external lock.
//
// Usage:
//
//	buf := buffer.New(0)
//	buffer.WriteScalar(buf, uint32(42))
//	_, _ = buf.Write([]byte("payload"))
//
//	var n uint32
//	if err := buffer.ReadScalar(buf, &n); err != nil {
//		// errors.Is(err, buffer.ErrOutOfBounds)
//	}
//
//	data := buf.ReleaseBuffer() // buf is empty again, data is owned by the caller
package buffer
