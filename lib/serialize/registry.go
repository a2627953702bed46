package serialize

import (
	"reflect"

	"github.com/ValentinKolb/binser/lib/buffer"
	"github.com/puzpuzpuz/xsync/v3"
)

// override is a user supplied encode/decode strategy. Both functions receive
// an addressable value of the overriding type.
type override struct {
	encode func(b *buffer.BinaryBuffer, v reflect.Value) error
	decode func(b *buffer.BinaryBuffer, v reflect.Value) error
}

var (
	registry = xsync.NewMapOf[reflect.Type, override]()

	serializerType   = reflect.TypeFor[Serializer]()
	deserializerType = reflect.TypeFor[Deserializer]()
)

// Register installs encode and decode as the strategy for T. A registration
// takes precedence over SerializeBinary / DeserializeBinary methods of T and over
// every generic category. Registering T again replaces the previous functions.
//
// Register is meant for types that cannot carry methods, e.g. types from other
// packages or structs with unexported fields. It panics if a function is nil.
func Register[T any](encode EncodeFunc[T], decode DecodeFunc[T]) {
	if encode == nil || decode == nil {
		panic("serialize: Register called with nil function")
	}

	t := reflect.TypeFor[T]()
	registry.Store(t, override{
		encode: func(b *buffer.BinaryBuffer, v reflect.Value) error {
			return encode(b, *v.Addr().Interface().(*T))
		},
		decode: func(b *buffer.BinaryBuffer, v reflect.Value) error {
			return decode(b, v.Addr().Interface().(*T))
		},
	})

	// plans of types containing T may have been compiled without the override
	plans.Clear()
	log.Infof("registered override for %s", t)
}

// Unregister removes a registration made with Register. Methods of T apply again.
func Unregister[T any]() {
	t := reflect.TypeFor[T]()
	if _, ok := registry.LoadAndDelete(t); ok {
		plans.Clear()
		log.Infof("removed override for %s", t)
	}
}

// overrideFor looks up the user strategy of t.
// ok reports whether t has any override, err is set if only one direction is provided.
func overrideFor(t reflect.Type) (o override, ok bool, err error) {
	if o, ok := registry.Load(t); ok {
		return o, true, nil
	}

	// methods promoted from an embedded field belong to the embedded type
	if embedsOverride(t) {
		return o, false, nil
	}

	ptr := reflect.PointerTo(t)

	switch {
	case t.Implements(serializerType):
		o.encode = func(b *buffer.BinaryBuffer, v reflect.Value) error {
			return v.Interface().(Serializer).SerializeBinary(b)
		}
	case ptr.Implements(serializerType):
		o.encode = func(b *buffer.BinaryBuffer, v reflect.Value) error {
			return v.Addr().Interface().(Serializer).SerializeBinary(b)
		}
	}

	if ptr.Implements(deserializerType) {
		o.decode = func(b *buffer.BinaryBuffer, v reflect.Value) error {
			return v.Addr().Interface().(Deserializer).DeserializeBinary(b)
		}
	}

	switch {
	case o.encode == nil && o.decode == nil:
		return o, false, nil
	case o.encode == nil || o.decode == nil:
		return o, true, ErrIncompleteOverride
	default:
		return o, true, nil
	}
}

// embedsOverride reports whether an embedded field of the struct t provides
// SerializeBinary or DeserializeBinary. The method set of t then contains the
// promoted methods, which only cover the embedded part of t.
func embedsOverride(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ptr := reflect.PointerTo(f.Type)
		if f.Type.Implements(serializerType) || ptr.Implements(serializerType) ||
			f.Type.Implements(deserializerType) || ptr.Implements(deserializerType) {
			return true
		}
	}
	return false
}

// hasOverride reports whether t has a (possibly incomplete) override.
func hasOverride(t reflect.Type) bool {
	_, ok, _ := overrideFor(t)
	return ok
}
