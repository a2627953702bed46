// Package serialize implements the binser dispatch protocol: it turns Go values
// into bytes in a buffer.BinaryBuffer and back, without per-type boilerplate.
//
// Every type is routed to exactly one encoding strategy (its Category). The
// routing is computed once per type, when the type is first seen, and stored
// as a plan in a concurrent cache. Later calls only execute the plan.
//
// Categories, in priority order:
//
//   - Opaque: the type supplies its own strategy, either through the
//     Serializer / Deserializer methods or through Register. This always wins.
//     Methods promoted from an embedded field do not count, they only cover
//     the embedded part of the value.
//
//   - Pair: Pair[F, S] is written as First then Second, with no prefix.
//
//   - Scalar: trivially copyable types (bool, numbers, and arrays or structs
//     made only of those) are copied byte for byte in host byte order,
//     padding included.
//
//   - String: a uint64 byte count followed by the bytes.
//
//   - Vector: a uint64 element count followed by the elements. Slices of
//     trivially copyable elements are copied in one block, other slices are
//     encoded element by element.
//
//   - Array: like Vector, the count is written for symmetry but ignored when
//     decoding since the length is part of the type.
//
//   - Map: a uint64 entry count followed by key/value pairs in iteration order.
//
//   - Aggregate: any other struct with at most MaxFieldCount exported, named
//     fields. Fields are written in declaration order with no names or count.
//
// Types that fit none of these categories (pointers, interfaces, channels,
// functions, structs with unexported, embedded or too many fields) are rejected
// with ErrUnsupportedType or ErrTooManyFields, unless they provide an override.
//
// Decoding Semantics:
//
//	Trivially copyable slices and strings are replaced by the decoded value.
//	Slices of other elements are appended to, and maps are inserted into, so
//	decoding into a non-empty target keeps its existing content. Decoding
//	into a map with an existing key overwrites that entry.
//
// Thread Safety:
//
//	The plan cache and the override registry are safe for concurrent use.
//	A single BinaryBuffer is not; use one buffer per goroutine.
//
// Usage:
//
//	type Point struct{ X, Y float32 }
//	type Shape struct {
//		Name   string
//		Points []Point
//	}
//
//	buf := buffer.New(0)
//	if err := serialize.Serialize(buf, Shape{Name: "line", Points: []Point{{0, 0}, {1, 1}}}); err != nil {
//		return err
//	}
//
//	var out Shape
//	if err := serialize.Deserialize(buf, &out); err != nil {
//		return err
//	}
//
// Custom Encodings:
//
//	Types own their wire format by implementing both methods:
//
//	func (t *Temperature) SerializeBinary(b *buffer.BinaryBuffer) error { ... }
//	func (t *Temperature) DeserializeBinary(b *buffer.BinaryBuffer) error { ... }
//
//	Types from other packages can be handled with Register:
//
//	serialize.Register(
//		func(b *buffer.BinaryBuffer, in time.Time) error { return serialize.Serialize(b, in.UnixNano()) },
//		func(b *buffer.BinaryBuffer, out *time.Time) error { ... },
//	)
package serialize
