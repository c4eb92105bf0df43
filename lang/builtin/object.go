package builtin

import (
	"github.com/ardnew/onels/lang/value"
)

var objectDefs = []*Def{
	{Name: "keys", Usage: "keys()", Description: "Object keys, or list indices", Impl: fnKeys},
	{Name: "vals", Usage: "vals()", Description: "Object values, or list elements", Impl: fnVals},
	{Name: "pick", Usage: "pick(keys...)", Description: "Object with only the named keys", Impl: fnPick},
	{Name: "omit", Usage: "omit(keys...)", Description: "Object without the named keys", Impl: fnOmit},
	{Name: "merge", Usage: "merge(objects...)", Description: "Shallow merge, later keys win", Impl: fnMerge},
	{Name: "deepMerge", Usage: "deepMerge(objects...)", Description: "Recursive merge of nested objects", Impl: fnDeepMerge},
	{Name: "fromPairs", Usage: "fromPairs()", Description: "Object from [key, value] pairs", Impl: fnFromPairs},
	{Name: "toPairs", Usage: "toPairs()", Description: "[key, value] pairs of an object", Impl: fnToPairs},
	{Name: "has", Usage: "has(key)", Description: "Whether a key or index is present", Impl: fnHas},
	{Name: "invert", Usage: "invert()", Description: "Object with keys and values swapped", Impl: fnInvert},
}

func fnKeys(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	if obj, ok := in.AsObject(); ok {
		keys := obj.Keys()

		out := make([]value.Value, len(keys))
		for i, k := range keys {
			out[i] = value.String(k)
		}

		return value.List(out...), nil
	}

	if list, ok := in.AsList(); ok {
		out := make([]value.Value, len(list))
		for i := range list {
			out[i] = value.Int(i)
		}

		return value.List(out...), nil
	}

	return emptyList, nil
}

func fnVals(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	if obj, ok := in.AsObject(); ok {
		return value.List(obj.Values()...), nil
	}

	if in.Is(value.KindList) {
		return in, nil
	}

	return emptyList, nil
}

// keyArgs collects key names from the arguments. A list argument
// contributes each of its elements.
func keyArgs(args []value.Value) []string {
	var keys []string

	for _, a := range args {
		if list, ok := a.AsList(); ok {
			for _, k := range list {
				keys = append(keys, value.ToString(k))
			}

			continue
		}

		keys = append(keys, value.ToString(a))
	}

	return keys
}

func fnPick(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	obj, ok := in.AsObject()
	if !ok {
		return emptyObject(), nil
	}

	out := value.NewObject()

	for _, k := range keyArgs(args) {
		if v, ok := obj.Get(k); ok {
			out.Set(k, v)
		}
	}

	return value.FromObject(out), nil
}

func fnOmit(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	obj, ok := in.AsObject()
	if !ok {
		return emptyObject(), nil
	}

	out := obj.Clone()
	for _, k := range keyArgs(args) {
		out.Delete(k)
	}

	return value.FromObject(out), nil
}

func mergeShallow(a, b value.Value) value.Value {
	ao, _ := a.AsObject()
	bo, _ := b.AsObject()

	out := ao.Clone()
	for k, v := range bo.All() {
		out.Set(k, v)
	}

	return value.FromObject(out)
}

func mergeDeep(a, b value.Value) value.Value {
	ao, _ := a.AsObject()
	bo, _ := b.AsObject()

	out := ao.Clone()

	for k, v := range bo.All() {
		if prev, ok := out.Get(k); ok && prev.Is(value.KindObject) && v.Is(value.KindObject) {
			v = mergeDeep(prev, v)
		}

		out.Set(k, v)
	}

	return value.FromObject(out)
}

// merged folds objects with merge. Without arguments a list input supplies
// the objects; otherwise the input is merged with each argument in turn.
// Non-object operands are skipped.
func merged(in value.Value, args []value.Value, merge func(a, b value.Value) value.Value) value.Value {
	operands := args

	if len(args) == 0 {
		list, ok := in.AsList()
		if !ok {
			return emptyObject()
		}

		operands = list
	} else {
		if !in.Is(value.KindObject) {
			return emptyObject()
		}

		operands = append([]value.Value{in}, args...)
	}

	acc := emptyObject()

	for _, v := range operands {
		if v.Is(value.KindObject) {
			acc = merge(acc, v)
		}
	}

	return acc
}

func fnMerge(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	return merged(in, args, mergeShallow), nil
}

func fnDeepMerge(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	return merged(in, args, mergeDeep), nil
}

func fnFromPairs(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return emptyObject(), nil
	}

	out := value.NewObject(len(list))

	for _, item := range list {
		pair, ok := item.AsList()
		if !ok || len(pair) == 0 {
			continue
		}

		v := value.Undefined
		if len(pair) > 1 {
			v = pair[1]
		}

		out.Set(value.ToString(pair[0]), v)
	}

	return value.FromObject(out), nil
}

func fnToPairs(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	obj, ok := in.AsObject()
	if !ok {
		return emptyList, nil
	}

	out := make([]value.Value, 0, obj.Len())
	for k, v := range obj.All() {
		out = append(out, value.List(value.String(k), v))
	}

	return value.List(out...), nil
}

func fnHas(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	key := arg(args, 0)

	if obj, ok := in.AsObject(); ok {
		return value.Bool(obj.Has(value.ToString(key))), nil
	}

	if list, ok := in.AsList(); ok {
		i, ok := key.AsIndex()

		return value.Bool(ok && i >= 0 && i < len(list)), nil
	}

	return value.False, nil
}

func fnInvert(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	obj, ok := in.AsObject()
	if !ok {
		return emptyObject(), nil
	}

	out := value.NewObject(obj.Len())
	for k, v := range obj.All() {
		out.Set(value.ToString(v), value.String(k))
	}

	return value.FromObject(out), nil
}
