package value

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"time"
)

// FromNative converts a Go value produced by a decoder into a Value.
//
// Go maps carry no key order, so their members are sorted by key. Decoders
// that know the document order build objects directly instead.
func FromNative(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null
	case Value:
		return t
	case *Object:
		return FromObject(t)
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case json.Number:
		return Number(parseNumber(string(t)))
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case time.Time:
		return String(t.Format(time.RFC3339Nano))
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = FromNative(e)
		}

		return List(elems...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		obj := NewObject(len(keys))
		for _, k := range keys {
			obj.Set(k, FromNative(t[k]))
		}

		return FromObject(obj)
	}

	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null
		}

		return FromNative(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.String:
		return String(rv.String())
	case reflect.Slice, reflect.Array:
		elems := make([]Value, rv.Len())
		for i := range elems {
			elems[i] = FromNative(rv.Index(i).Interface())
		}

		return List(elems...)
	case reflect.Map:
		native := make(map[string]any, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			native[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}

		return FromNative(native)
	default:
		if s, ok := rv.Interface().(fmt.Stringer); ok {
			return String(s.String())
		}

		return String(fmt.Sprint(rv.Interface()))
	}
}

// ToNative converts v into plain Go values: nil, bool, float64, string,
// []any and map[string]any. Ordering of object members is lost.
func ToNative(v Value) any {
	switch v.kind {
	case KindUndefined, KindNull, KindFunc, KindOmit:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = ToNative(e)
		}

		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for k, e := range v.obj.All() {
			out[k] = ToNative(e)
		}

		return out
	default:
		return nil
	}
}
