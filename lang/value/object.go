package value

import (
	"iter"
	"slices"
)

// Object is a string-keyed map that remembers insertion order.
//
// Objects are built with [NewObject] and [Object.Set] and then treated as
// immutable. Operations that derive a new object start from [Object.Clone].
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject returns an empty object with room for size members.
func NewObject(size ...int) *Object {
	n := 0
	if len(size) > 0 {
		n = size[0]
	}

	return &Object{
		keys: make([]string, 0, n),
		vals: make(map[string]Value, n),
	}
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}

	return len(o.keys)
}

// Get returns the member stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Undefined, false
	}

	v, ok := o.vals[key]

	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)

	return ok
}

// Set stores v under key. A new key is appended to the key order; an
// existing key keeps its position.
func (o *Object) Set(key string, v Value) *Object {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.vals[key] = v

	return o
}

// Delete removes key if present.
func (o *Object) Delete(key string) *Object {
	if _, ok := o.vals[key]; !ok {
		return o
	}

	delete(o.vals, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })

	return o
}

// Keys returns the member names in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}

	return slices.Clone(o.keys)
}

// Values returns the member values in insertion order.
func (o *Object) Values() []Value {
	if o == nil {
		return nil
	}

	out := make([]Value, len(o.keys))
	for i, k := range o.keys {
		out[i] = o.vals[k]
	}

	return out
}

// All returns an iterator over the members in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}

		for _, k := range o.keys {
			if !yield(k, o.vals[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy that can be modified independently.
func (o *Object) Clone() *Object {
	c := NewObject(o.Len())
	for k, v := range o.All() {
		c.Set(k, v)
	}

	return c
}
