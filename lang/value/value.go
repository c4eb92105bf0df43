package value

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"math"
	"slices"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

// The variant set is closed. Every switch over Kind in this module lists each
// of these explicitly.
const (
	KindUndefined Kind = iota // undefined
	KindNull                  // null
	KindBool                  // boolean
	KindNumber                // number
	KindString                // string
	KindList                  // array
	KindObject                // object
	KindFunc                  // function
	KindOmit                  // omit
)

// Callable is implemented by values that can be invoked from an expression,
// such as closures produced by arrow functions.
type Callable interface {
	Call(args ...Value) (Value, error)
	String() string
}

// Value is a dynamically-typed query value.
//
// The zero Value is undefined. Values are immutable once constructed: list
// and object payloads are never modified in place by the engine, so they may
// be shared freely between goroutines.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	list []Value
	obj  *Object
	fn   Callable
}

// Predefined singletons.
var (
	Undefined = Value{}
	Null      = Value{kind: KindNull}
	True      = Value{kind: KindBool, b: true}
	False     = Value{kind: KindBool}
	Omit      = Value{kind: KindOmit}
)

// Bool returns a boolean value.
func Bool(b bool) Value {
	if b {
		return True
	}

	return False
}

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int returns a numeric value from an integer.
func Int(n int) Value { return Number(float64(n)) }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a list value holding elems. The slice is retained, not copied.
func List(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}

	return Value{kind: KindList, list: elems}
}

// FromObject returns an object value. A nil object is treated as empty.
func FromObject(o *Object) Value {
	if o == nil {
		o = NewObject()
	}

	return Value{kind: KindObject, obj: o}
}

// Func returns a callable value.
func Func(fn Callable) Value { return Value{kind: KindFunc, fn: fn} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Is reports whether v holds kind k.
func (v Value) Is(k Kind) bool { return v.kind == k }

// IsNullish reports whether v is null, undefined, or the omit sentinel.
func (v Value) IsNullish() bool {
	switch v.kind {
	case KindUndefined, KindNull, KindOmit:
		return true
	case KindBool, KindNumber, KindString, KindList, KindObject, KindFunc:
		return false
	default:
		return false
	}
}

// AsBool returns the boolean payload and whether v is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the numeric payload and whether v is a number.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string payload and whether v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsList returns the list payload and whether v is a list.
// Callers must not modify the returned slice.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsObject returns the object payload and whether v is an object.
// Callers must not modify the returned object.
func (v Value) AsObject() (*Object, bool) { return v.obj, v.kind == KindObject }

// AsFunc returns the callable payload and whether v is callable.
func (v Value) AsFunc() (Callable, bool) { return v.fn, v.kind == KindFunc }

// AsIndex returns v as an integer index when v is a finite number.
// Fractional parts are truncated toward zero.
func (v Value) AsIndex() (int, bool) {
	if v.kind != KindNumber || math.IsNaN(v.n) || math.IsInf(v.n, 0) {
		return 0, false
	}

	return int(v.n), true
}

// Len returns the element count of a list, the key count of an object, or
// the rune count of a string. It returns -1 for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindObject:
		return v.obj.Len()
	case KindString:
		return len([]rune(v.s))
	case KindUndefined, KindNull, KindBool, KindNumber, KindFunc, KindOmit:
		return -1
	default:
		return -1
	}
}

// Get returns the member key of an object, or undefined when v is not an
// object or has no such key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Undefined, false
	}

	return v.obj.Get(key)
}

// Index returns element i of a list. Negative indices count from the end.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList {
		return Undefined, false
	}

	if i < 0 {
		i += len(v.list)
	}

	if i < 0 || i >= len(v.list) {
		return Undefined, false
	}

	return v.list[i], true
}

// DropOmit returns elems without any omit sentinels. The input slice is
// returned unchanged when it holds none.
func DropOmit(elems []Value) []Value {
	if !slices.ContainsFunc(elems, isOmit) {
		return elems
	}

	return slices.DeleteFunc(slices.Clone(elems), isOmit)
}

func isOmit(v Value) bool { return v.kind == KindOmit }
