package serialize

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
)

// Category identifies the encoding strategy a type resolves to.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryOpaque
	CategoryPair
	CategoryScalar
	CategoryString
	CategoryVector
	CategoryArray
	CategoryMap
	CategoryAggregate
)

func (c Category) String() string {
	switch c {
	case CategoryOpaque:
		return "opaque"
	case CategoryPair:
		return "pair"
	case CategoryScalar:
		return "scalar"
	case CategoryString:
		return "string"
	case CategoryVector:
		return "vector"
	case CategoryArray:
		return "array"
	case CategoryMap:
		return "map"
	case CategoryAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

var pairPkgPath = reflect.TypeFor[Pair[int, int]]().PkgPath()

// classify resolves the category of t, without looking at nested types.
// The order of the checks is the priority order of the categories.
func classify(t reflect.Type) (Category, error) {
	if _, ok, err := overrideFor(t); ok {
		if err != nil {
			return CategoryOpaque, errors.Wrapf(err, "%s", t)
		}
		return CategoryOpaque, nil
	}

	if isPair(t) {
		return CategoryPair, nil
	}

	if t.Kind() != reflect.Array && isTrivial(t) {
		return CategoryScalar, nil
	}

	switch t.Kind() {
	case reflect.String:
		return CategoryString, nil
	case reflect.Slice:
		return CategoryVector, nil
	case reflect.Array:
		return CategoryArray, nil
	case reflect.Map:
		return CategoryMap, nil
	case reflect.Struct:
		if err := checkAggregate(t); err != nil {
			return CategoryUnknown, err
		}
		return CategoryAggregate, nil
	default:
		return CategoryUnknown, errors.Wrapf(ErrUnsupportedType, "%s has kind %s", t, t.Kind())
	}
}

// checkAggregate verifies that every field of the struct t can be reached
// and that there are not too many of them.
func checkAggregate(t reflect.Type) error {
	if n := t.NumField(); n > MaxFieldCount {
		return errors.Wrapf(ErrTooManyFields, "%s has %d fields (max %d), implement Serializer and Deserializer or use Register",
			t, n, MaxFieldCount)
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			return errors.Wrapf(ErrUnsupportedType, "%s embeds %s, use Register or name the field",
				t, f.Type)
		}
		if !f.IsExported() {
			return errors.Wrapf(ErrUnsupportedType, "%s has unexported field %q, implement Serializer and Deserializer or use Register",
				t, f.Name)
		}
	}
	return nil
}

// isPair reports whether t is an instantiation of Pair. Structs embedding a
// Pair or defined on top of one are not pairs.
func isPair(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.PkgPath() == pairPkgPath && strings.HasPrefix(t.Name(), "Pair[")
}

// isTrivial reports whether values of t can be copied byte for byte: t is a
// bool or number, or an array or struct consisting only of such types.
// Types with an override and pairs are never trivial, so their strategy is
// also used when they are nested.
func isTrivial(t reflect.Type) bool {
	if hasOverride(t) || isPair(t) {
		return false
	}

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isTrivial(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isTrivial(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// --------------------------------------------------------------------------
// Type Inspection
// --------------------------------------------------------------------------

// CategoryOf returns the category T resolves to. The error is non-nil if T,
// or any type nested in it, cannot be serialized.
func CategoryOf[T any]() (Category, error) {
	return Classify(reflect.TypeFor[T]())
}

// Classify is the reflect.Type based variant of CategoryOf.
func Classify(t reflect.Type) (Category, error) {
	p, err := planFor(t)
	if err != nil {
		return CategoryUnknown, err
	}
	return p.category, nil
}

// IsTriviallyCopyable reports whether T is copied byte for byte, both on its
// own and as the element of a slice or array.
func IsTriviallyCopyable[T any]() bool {
	return isTrivial(reflect.TypeFor[T]())
}

// FieldCount returns the number of fields of the struct T.
// It fails with ErrUnsupportedType if T is not a struct.
func FieldCount[T any]() (int, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return 0, errors.Wrapf(ErrUnsupportedType, "%s is not a struct", t)
	}
	return t.NumField(), nil
}
