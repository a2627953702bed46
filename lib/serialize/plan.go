package serialize

import (
	"reflect"

	"github.com/ValentinKolb/binser/lib/buffer"
	"github.com/cockroachdb/errors"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var log = logger.GetLogger("serialize")

type encodeFunc func(b *buffer.BinaryBuffer, v reflect.Value) error
type decodeFunc func(b *buffer.BinaryBuffer, v reflect.Value) error

// plan is the compiled strategy of one type. The value passed to encode and
// decode is always addressable.
type plan struct {
	typ      reflect.Type
	category Category
	encode   encodeFunc
	decode   decodeFunc
	// err is set if the type (or a nested type) cannot be serialized
	err error
	// nested are the plans of the element, key, value or field types
	nested []*plan
}

// plans caches compiled plans, including failed ones
var plans = xsync.NewMapOf[reflect.Type, *plan]()

func (p *plan) encodeValue(b *buffer.BinaryBuffer, v reflect.Value) error {
	if p.err != nil {
		return p.err
	}
	return p.encode(b, v)
}

func (p *plan) decodeValue(b *buffer.BinaryBuffer, v reflect.Value) error {
	if p.err != nil {
		return p.err
	}
	return p.decode(b, v)
}

// planFor returns the cached plan of t, compiling it on first use.
func planFor(t reflect.Type) (*plan, error) {
	if p, ok := plans.Load(t); ok {
		return p, p.err
	}

	compiling := make(map[reflect.Type]*plan)
	p := compile(t, compiling)
	propagateErrors(compiling)

	// nested plans are complete now and can be shared
	for nt, np := range compiling {
		if nt != t {
			plans.LoadOrStore(nt, np)
		}
	}
	p, _ = plans.LoadOrStore(t, p)
	return p, p.err
}

// compile builds the plan of t. compiling holds the plans under construction,
// so a recursive type refers to its own (not yet finished) plan instead of
// recursing forever.
func compile(t reflect.Type, compiling map[reflect.Type]*plan) *plan {
	if p, ok := compiling[t]; ok {
		return p
	}
	if p, ok := plans.Load(t); ok {
		return p
	}

	p := &plan{typ: t}
	compiling[t] = p

	p.category, p.err = classify(t)
	if p.err != nil {
		log.Debugf("cannot serialize %s: %v", t, p.err)
		return p
	}

	switch p.category {
	case CategoryOpaque:
		o, _, _ := overrideFor(t)
		p.encode, p.decode = o.encode, o.decode
	case CategoryScalar:
		p.encode, p.decode = encodeScalar, decodeScalar
	case CategoryString:
		p.encode, p.decode = encodeString, decodeString
	case CategoryVector:
		if isTrivial(t.Elem()) {
			p.encode, p.decode = encodeTrivialSlice, decodeTrivialSlice
			break
		}
		elem := compile(t.Elem(), compiling)
		p.nested = []*plan{elem}
		p.err = nestedErr(t, elem)
		p.encode, p.decode = sliceEncoder(elem), sliceDecoder(elem)
	case CategoryArray:
		if isTrivial(t.Elem()) {
			p.encode, p.decode = encodeTrivialArray, decodeTrivialArray
			break
		}
		elem := compile(t.Elem(), compiling)
		p.nested = []*plan{elem}
		p.err = nestedErr(t, elem)
		p.encode, p.decode = arrayEncoder(elem), arrayDecoder(elem)
	case CategoryMap:
		key := compile(t.Key(), compiling)
		val := compile(t.Elem(), compiling)
		p.nested = []*plan{key, val}
		p.err = errors.CombineErrors(nestedErr(t, key), nestedErr(t, val))
		p.encode, p.decode = mapEncoder(key, val), mapDecoder(key, val)
	case CategoryPair, CategoryAggregate:
		fields := make([]*plan, t.NumField())
		for i := range fields {
			fields[i] = compile(t.Field(i).Type, compiling)
			if p.err == nil {
				p.err = nestedErr(t, fields[i])
			}
		}
		p.nested = fields
		p.encode, p.decode = structEncoder(fields), structDecoder(fields)
	}

	log.Debugf("compiled %s plan for %s", p.category, t)
	return p
}

// propagateErrors marks every plan that depends on a failed plan as failed.
// Plans on a cycle are finished before the plans they refer to, so their own
// nestedErr check can miss a failure further down the cycle.
func propagateErrors(compiling map[reflect.Type]*plan) {
	for changed := true; changed; {
		changed = false
		for _, p := range compiling {
			if p.err != nil {
				continue
			}
			for _, n := range p.nested {
				if n.err != nil {
					p.err = nestedErr(p.typ, n)
					changed = true
					break
				}
			}
		}
	}
}

// nestedErr wraps the error of a nested plan with the enclosing type.
// Plans still under construction have no error yet, propagateErrors catches
// up on them once the whole type is compiled.
func nestedErr(outer reflect.Type, inner *plan) error {
	if inner.err == nil {
		return nil
	}
	return errors.Wrapf(inner.err, "in %s", outer)
}
