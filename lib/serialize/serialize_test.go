package serialize

import (
	"encoding/binary"
	"math"
	"reflect"
	"testing"

	"github.com/ValentinKolb/binser/lib/buffer"
	"github.com/cockroachdb/errors"
)

// --------------------------------------------------------------------------
// Test Types
// --------------------------------------------------------------------------

// point is trivially copyable
type point struct {
	X, Y float32
}

// padded is trivially copyable despite unexported fields and padding
type padded struct {
	a int8
	b int64
}

type inner struct {
	ID   int32
	Name string
}

// aggregate uses exactly MaxFieldCount fields of every category
type aggregate struct {
	F1  int32
	F2  string
	F3  []int32
	F4  []string
	F5  map[string]int64
	F6  [3]uint8
	F7  inner
	F8  Pair[int32, string]
	F9  []inner
	F10 [2]string
}

// tooBig has one field more than MaxFieldCount
type tooBig struct {
	F1, F2, F3, F4, F5, F6, F7, F8, F9, F10, F11 string
}

// bigAggregate has too many fields but provides its own encoding
type bigAggregate struct {
	F1, F2, F3, F4, F5, F6, F7, F8, F9, F10 int32
	F11                                     string
}

func (a *bigAggregate) SerializeBinary(b *buffer.BinaryBuffer) error {
	if err := Serialize(b, [10]int32{a.F1, a.F2, a.F3, a.F4, a.F5, a.F6, a.F7, a.F8, a.F9, a.F10}); err != nil {
		return err
	}
	return Serialize(b, a.F11)
}

func (a *bigAggregate) DeserializeBinary(b *buffer.BinaryBuffer) error {
	var values [10]int32
	if err := Deserialize(b, &values); err != nil {
		return err
	}
	a.F1, a.F2, a.F3, a.F4, a.F5 = values[0], values[1], values[2], values[3], values[4]
	a.F6, a.F7, a.F8, a.F9, a.F10 = values[5], values[6], values[7], values[8], values[9]
	return Deserialize(b, &a.F11)
}

// nonAggregate has unexported fields and needs a registered override
type nonAggregate struct {
	name string
	hits []int64
}

// celsius encodes itself as a single byte, shifted by 100
type celsius int32

func (c celsius) SerializeBinary(b *buffer.BinaryBuffer) error {
	buffer.WriteScalar(b, uint8(c+100))
	return nil
}

func (c *celsius) DeserializeBinary(b *buffer.BinaryBuffer) error {
	var raw uint8
	if err := buffer.ReadScalar(b, &raw); err != nil {
		return err
	}
	*c = celsius(raw) - 100
	return nil
}

// writeOnly only implements one direction
type writeOnly struct{ V int32 }

func (w writeOnly) SerializeBinary(b *buffer.BinaryBuffer) error {
	return Serialize(b, w.V)
}

// tree is a recursive type
type tree struct {
	Value    int32
	Children []tree
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// roundTrip encodes in, decodes it into a zero value and checks that every byte was consumed
func roundTrip[T any](t *testing.T, in T) T {
	t.Helper()
	b := buffer.New(0)
	if err := Serialize(b, in); err != nil {
		t.Fatalf("Failed to serialize %T: %v", in, err)
	}
	var out T
	if err := Deserialize(b, &out); err != nil {
		t.Fatalf("Failed to deserialize %T: %v", in, err)
	}
	if n := b.AvailableReadBytes(); n != 0 {
		t.Errorf("%d bytes left after decoding %T", n, in)
	}
	return out
}

func checkRoundTrip[T any](t *testing.T, in T) {
	t.Helper()
	if out := roundTrip(t, in); !reflect.DeepEqual(in, out) {
		t.Errorf("Round trip of %T mismatch:\nexpected: %+v\ngot:      %+v", in, in, out)
	}
}

func sampleAggregate() aggregate {
	return aggregate{
		F1:  -42,
		F2:  "aggregate",
		F3:  []int32{1, 2, 3},
		F4:  []string{"a", "", "ccc"},
		F5:  map[string]int64{"one": 1, "minus": -1},
		F6:  [3]uint8{7, 8, 9},
		F7:  inner{ID: 5, Name: "inner"},
		F8:  MakePair(int32(9), "nine"),
		F9:  []inner{{ID: 1, Name: "x"}, {ID: 2, Name: "y"}},
		F10: [2]string{"left", "right"},
	}
}

// --------------------------------------------------------------------------
// Round Trip Tests
// --------------------------------------------------------------------------

// TestPrimitives round trips every scalar kind, including limits
func TestPrimitives(t *testing.T) {
	checkRoundTrip(t, true)
	checkRoundTrip(t, false)
	checkRoundTrip(t, int8(math.MinInt8))
	checkRoundTrip(t, int16(math.MaxInt16))
	checkRoundTrip(t, int32(-123456))
	checkRoundTrip(t, int64(math.MinInt64))
	checkRoundTrip(t, uint8(math.MaxUint8))
	checkRoundTrip(t, uint16(65000))
	checkRoundTrip(t, uint32(math.MaxUint32))
	checkRoundTrip(t, uint64(math.MaxUint64))
	checkRoundTrip(t, int(-1))
	checkRoundTrip(t, uint(1<<40))
	checkRoundTrip(t, float32(3.25))
	checkRoundTrip(t, math.MaxFloat64)
	checkRoundTrip(t, math.Inf(-1))
	checkRoundTrip(t, complex(1.5, -2.5))
	checkRoundTrip(t, celsius(-40))
}

// TestTrivialStructs copies structs and arrays of scalars as raw memory
func TestTrivialStructs(t *testing.T) {
	checkRoundTrip(t, point{X: 1.5, Y: -2})
	checkRoundTrip(t, padded{a: -1, b: math.MaxInt64})
	checkRoundTrip(t, struct{}{})

	b := buffer.New(0)
	if err := Serialize(b, point{}); err != nil {
		t.Fatalf("Failed to serialize point: %v", err)
	}
	if n := b.AvailableReadBytes(); n != 8 {
		t.Errorf("point encoded as %d bytes, want 8", n)
	}
}

// TestContainers round trips strings, slices, arrays and maps
func TestContainers(t *testing.T) {
	checkRoundTrip(t, "hello world")
	checkRoundTrip(t, "unicode: äöü ✓")
	checkRoundTrip(t, []byte{0, 1, 2, 255})
	checkRoundTrip(t, []int32{10, 11, 12})
	checkRoundTrip(t, []point{{1, 2}, {3, 4}})
	checkRoundTrip(t, []string{"a", "bb", "ccc"})
	checkRoundTrip(t, [][]int64{{1}, {2, 3}, {}})
	checkRoundTrip(t, [4]int32{1, 2, 3, 4})
	checkRoundTrip(t, [2][2]float64{{1, 2}, {3, 4}})
	checkRoundTrip(t, [3]string{"x", "", "z"})
	checkRoundTrip(t, map[string]int32{"a": 1, "b": 2, "c": 3})
	checkRoundTrip(t, map[int32][]string{1: {"one"}, 2: {"two", "zwei"}})
	checkRoundTrip(t, map[point]string{{1, 1}: "diagonal"})
}

// TestEmptyContainers round trips containers without elements
func TestEmptyContainers(t *testing.T) {
	checkRoundTrip(t, "")
	checkRoundTrip(t, []int32{})
	checkRoundTrip(t, []string{})
	checkRoundTrip(t, map[string]string{})
	checkRoundTrip(t, [0]int32{})

	// a nil slice is encoded like an empty one
	b := buffer.New(0)
	var empty []string
	if err := Serialize(b, empty); err != nil {
		t.Fatalf("Failed to serialize nil slice: %v", err)
	}
	if n := b.AvailableReadBytes(); n != 8 {
		t.Errorf("nil slice encoded as %d bytes, want 8", n)
	}
}

// TestAggregate round trips a struct with MaxFieldCount fields of all categories
func TestAggregate(t *testing.T) {
	checkRoundTrip(t, sampleAggregate())
	checkRoundTrip(t, []aggregate{sampleAggregate(), sampleAggregate()})
	checkRoundTrip(t, map[string]aggregate{"key": sampleAggregate()})
}

// TestRecursiveType round trips a type that contains itself through a slice
func TestRecursiveType(t *testing.T) {
	checkRoundTrip(t, tree{
		Value: 1,
		Children: []tree{
			{Value: 2, Children: []tree{}},
			{Value: 3, Children: []tree{{Value: 4, Children: []tree{}}}},
		},
	})
}

// TestPairs round trips pairs of trivial and non-trivial types
func TestPairs(t *testing.T) {
	checkRoundTrip(t, MakePair(int32(1), int64(2)))
	checkRoundTrip(t, MakePair("key", []string{"v1", "v2"}))
	checkRoundTrip(t, MakePair(MakePair(uint8(1), "nested"), point{1, 2}))
	checkRoundTrip(t, []Pair[string, int32]{{"a", 1}, {"b", 2}})
}

// --------------------------------------------------------------------------
// Override Tests
// --------------------------------------------------------------------------

// TestMethodOverride uses the methods of a struct with too many fields
func TestMethodOverride(t *testing.T) {
	in := bigAggregate{F1: 1, F2: 2, F3: 3, F4: 4, F5: 5, F6: 6, F7: 7, F8: 8, F9: 9, F10: 10, F11: "eleven"}
	checkRoundTrip(t, in)
	checkRoundTrip(t, []bigAggregate{in, {F11: "second"}})

	// celsius is an int32 but its override writes a single byte
	b := buffer.New(0)
	if err := Serialize(b, []celsius{-40, 0, 100}); err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	if n := b.AvailableReadBytes(); n != 8+3 {
		t.Errorf("[]celsius encoded as %d bytes, want 11", n)
	}
}

// TestRegisterOverride registers functions for a struct with unexported fields
func TestRegisterOverride(t *testing.T) {
	if err := Serialize(buffer.New(0), nonAggregate{}); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("Expected ErrUnsupportedType before registration, got %v", err)
	}

	Register(
		func(b *buffer.BinaryBuffer, in nonAggregate) error {
			return Serialize(b, MakePair(in.name, in.hits))
		},
		func(b *buffer.BinaryBuffer, out *nonAggregate) error {
			var p Pair[string, []int64]
			if err := Deserialize(b, &p); err != nil {
				return err
			}
			out.name, out.hits = p.First, p.Second
			return nil
		},
	)
	t.Cleanup(Unregister[nonAggregate])

	checkRoundTrip(t, nonAggregate{name: "registered", hits: []int64{3, 2, 1}})
	checkRoundTrip(t, map[string]nonAggregate{"k": {name: "v", hits: []int64{}}})
}

// TestRegisterTakesPrecedence replaces the methods of celsius with a registration
func TestRegisterTakesPrecedence(t *testing.T) {
	Register(
		func(b *buffer.BinaryBuffer, in celsius) error { return Serialize(b, int64(in)) },
		func(b *buffer.BinaryBuffer, out *celsius) error {
			var v int64
			err := Deserialize(b, &v)
			*out = celsius(v)
			return err
		},
	)

	b := buffer.New(0)
	if err := Serialize(b, celsius(-300)); err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	if n := b.AvailableReadBytes(); n != 8 {
		t.Errorf("Registered override wrote %d bytes, want 8", n)
	}

	Unregister[celsius]()
	b.Clear()
	if err := Serialize(b, celsius(20)); err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	if n := b.AvailableReadBytes(); n != 1 {
		t.Errorf("Method override wrote %d bytes after Unregister, want 1", n)
	}
}

// TestOverrideInsideTrivialStruct checks that a nested override disables the raw copy
func TestOverrideInsideTrivialStruct(t *testing.T) {
	type reading struct {
		Sensor int32
		Temp   celsius
	}
	if IsTriviallyCopyable[reading]() {
		t.Fatal("Struct with overriding field must not be trivially copyable")
	}
	checkRoundTrip(t, reading{Sensor: 7, Temp: -12})

	b := buffer.New(0)
	if err := Serialize(b, reading{}); err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	if n := b.AvailableReadBytes(); n != 5 {
		t.Errorf("reading encoded as %d bytes, want 5", n)
	}
}

// --------------------------------------------------------------------------
// Decoding Semantics
// --------------------------------------------------------------------------

// TestDecodeAppends checks that non-trivial slices are appended to and maps inserted into
func TestDecodeAppends(t *testing.T) {
	b := buffer.New(0)
	_ = Serialize(b, []string{"c", "d"})
	_ = Serialize(b, map[string]int32{"b": 20, "c": 3})
	_ = Serialize(b, []int32{7, 8})

	strs := []string{"a", "b"}
	if err := Deserialize(b, &strs); err != nil {
		t.Fatalf("Failed to deserialize slice: %v", err)
	}
	if expected := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(strs, expected) {
		t.Errorf("Expected %v, got %v", expected, strs)
	}

	m := map[string]int32{"a": 1, "b": 2}
	if err := Deserialize(b, &m); err != nil {
		t.Fatalf("Failed to deserialize map: %v", err)
	}
	if expected := map[string]int32{"a": 1, "b": 20, "c": 3}; !reflect.DeepEqual(m, expected) {
		t.Errorf("Expected %v, got %v", expected, m)
	}

	// trivial slices are replaced
	ints := []int32{1, 2, 3}
	if err := Deserialize(b, &ints); err != nil {
		t.Fatalf("Failed to deserialize trivial slice: %v", err)
	}
	if expected := []int32{7, 8}; !reflect.DeepEqual(ints, expected) {
		t.Errorf("Expected %v, got %v", expected, ints)
	}
}

// TestArrayCountIgnored checks that the stored array count is not validated
func TestArrayCountIgnored(t *testing.T) {
	b := buffer.New(0)
	buffer.WriteScalar(b, uint64(99))
	for _, v := range []int16{1, 2, 3} {
		buffer.WriteScalar(b, v)
	}

	var out [3]int16
	if err := Deserialize(b, &out); err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	if out != [3]int16{1, 2, 3} {
		t.Errorf("Expected [1 2 3], got %v", out)
	}
}

// --------------------------------------------------------------------------
// Wire Format
// --------------------------------------------------------------------------

// TestWireFormat compares encodings with hand built byte sequences
func TestWireFormat(t *testing.T) {
	count := func(n uint64) []byte { return binary.NativeEndian.AppendUint64(nil, n) }
	concat := func(parts ...[]byte) []byte {
		var out []byte
		for _, p := range parts {
			out = append(out, p...)
		}
		return out
	}

	tests := []struct {
		name     string
		value    any
		expected []byte
	}{
		{"int32", int32(0x01020304), binary.NativeEndian.AppendUint32(nil, 0x01020304)},
		{"bool", true, []byte{1}},
		{"string", "ab", concat(count(2), []byte("ab"))},
		{"empty string", "", count(0)},
		{"trivial slice", []uint16{1, 2}, concat(count(2), binary.NativeEndian.AppendUint16(binary.NativeEndian.AppendUint16(nil, 1), 2))},
		{"string slice", []string{"x"}, concat(count(1), count(1), []byte("x"))},
		{"array", [2]uint8{5, 6}, concat(count(2), []byte{5, 6})},
		{"map", map[uint8]string{1: "a"}, concat(count(1), []byte{1}, count(1), []byte("a"))},
		{"pair", MakePair(uint8(1), uint8(2)), []byte{1, 2}},
		{"aggregate", inner{ID: 1, Name: "n"}, concat(binary.NativeEndian.AppendUint32(nil, 1), count(1), []byte("n"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := buffer.New(0)
			if err := SerializeValue(b, tt.value); err != nil {
				t.Fatalf("Failed to serialize: %v", err)
			}
			if actual := b.Bytes(); !reflect.DeepEqual(actual, tt.expected) {
				t.Errorf("Expected % x, got % x", tt.expected, actual)
			}
		})
	}
}

// --------------------------------------------------------------------------
// Error Handling
// --------------------------------------------------------------------------

// TestUnsupportedTypes checks that types without a category are rejected
func TestUnsupportedTypes(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected error
	}{
		{"pointer", new(int), ErrUnsupportedType},
		{"func", func() {}, ErrUnsupportedType},
		{"chan", make(chan int), ErrUnsupportedType},
		{"slice of pointers", []*int{}, ErrUnsupportedType},
		{"map with func values", map[string]func(){}, ErrUnsupportedType},
		{"unexported fields", nonAggregate{}, ErrUnsupportedType},
		{"nested unsupported", struct{ P *int }{}, ErrUnsupportedType},
		{"too many fields", tooBig{}, ErrTooManyFields},
		{"nested too many fields", []tooBig{}, ErrTooManyFields},
		{"incomplete override", writeOnly{}, ErrIncompleteOverride},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := buffer.New(0)
			if err := SerializeValue(b, tt.value); !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
			if b.AvailableReadBytes() != 0 {
				t.Errorf("Rejected type wrote %d bytes", b.AvailableReadBytes())
			}
		})
	}

	if err := SerializeValue(buffer.New(0), nil); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Expected ErrUnsupportedType for nil, got %v", err)
	}
}

// TestDecodeErrors checks truncated input and invalid targets
func TestDecodeErrors(t *testing.T) {
	encoded, err := Marshal(sampleAggregate())
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	// every truncation must fail cleanly
	for n := 0; n < len(encoded); n++ {
		var out aggregate
		if err := Unmarshal(encoded[:n], &out); !errors.Is(err, buffer.ErrOutOfBounds) {
			t.Fatalf("Truncated to %d bytes: expected ErrOutOfBounds, got %v", n, err)
		}
	}

	var out aggregate
	if err := Unmarshal(encoded, &out); err != nil {
		t.Fatalf("Failed to unmarshal complete input: %v", err)
	}

	if err := Deserialize[int32](buffer.New(0), nil); !errors.Is(err, ErrNilPointer) {
		t.Errorf("Expected ErrNilPointer, got %v", err)
	}
	if err := DeserializeValue(buffer.New(0), int32(1)); !errors.Is(err, ErrNilPointer) {
		t.Errorf("Expected ErrNilPointer for non-pointer, got %v", err)
	}
}

// TestHugeCountRejected checks that a corrupt count fails before allocating
func TestHugeCountRejected(t *testing.T) {
	b := buffer.New(0)
	buffer.WriteScalar(b, uint64(math.MaxUint64))

	var out []int64
	if err := Deserialize(b, &out); !errors.Is(err, buffer.ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}

	b = buffer.New(0)
	buffer.WriteScalar(b, uint64(1<<40))
	var s string
	if err := Deserialize(b, &s); !errors.Is(err, buffer.ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}
}

// TestMarshalUnmarshal uses the byte slice convenience functions
func TestMarshalUnmarshal(t *testing.T) {
	in := map[string][]point{"square": {{0, 0}, {0, 1}, {1, 1}, {1, 0}}}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	var out map[string][]point
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("Expected %v, got %v", in, out)
	}
}
