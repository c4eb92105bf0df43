package builtin

import (
	"log/slog"
	"math"
	"slices"

	"github.com/ardnew/onels/lang/value"
)

// maxRange bounds the length of a generated sequence.
const maxRange = 1 << 24

var listDefs = []*Def{
	{Name: "head", Usage: "head()", Description: "First element, or undefined", Impl: fnHead},
	{Name: "last", Usage: "last()", Description: "Last element, or undefined", Impl: fnLast},
	{Name: "tail", Usage: "tail()", Description: "All elements but the first", Impl: fnTail},
	{Name: "take", Usage: "take(n)", Description: "First n elements", Impl: fnTake},
	{Name: "drop", Usage: "drop(n)", Description: "All elements after the first n", Impl: fnDrop},
	{Name: "uniq", Usage: "uniq()", Description: "Elements with duplicates removed", Impl: fnUniq},
	{Name: "uniqBy", Usage: "uniqBy(f)", Description: "Elements with duplicate keys removed", Impl: fnUniqBy},
	{Name: "flatten", Usage: "flatten(depth?)", Description: "Nested lists flattened", Impl: fnFlatten},
	{Name: "rev", Usage: "rev()", Description: "Elements (or characters) reversed", Impl: fnRev},
	{Name: "chunk", Usage: "chunk(size)", Description: "Elements split into groups of size", Impl: fnChunk},
	{Name: "zip", Usage: "zip(lists...)", Description: "Lists combined element-wise", Impl: fnZip},
	{Name: "compact", Usage: "compact()", Description: "Falsy elements removed", Impl: fnCompact},
	{Name: "pluck", Usage: "pluck(key)", Description: "Member key of each element", Impl: fnPluck},
	{Name: "groupBy", Usage: "groupBy(f)", Description: "Elements bucketed by key", Impl: fnGroupBy},
	{Name: "countBy", Usage: "countBy(f)", Description: "Element counts by key", Impl: fnCountBy},
	{Name: "sortBy", Usage: "sortBy(f)", Description: "Elements stably sorted by key", Impl: fnSortBy},
	{Name: "partition", Usage: "partition(f)", Description: "[matching, non-matching] elements", Impl: fnPartition},
	{Name: "sum", Usage: "sum()", Description: "Sum of numeric elements", Impl: fnSum},
	{Name: "mean", Usage: "mean()", Description: "Arithmetic mean of numeric elements", Impl: fnMean},
	{Name: "min", Usage: "min()", Description: "Smallest element", Impl: fnMin},
	{Name: "max", Usage: "max()", Description: "Largest element", Impl: fnMax},
	{Name: "add", Usage: "add()", Description: "Elements combined with +, lists concatenated, objects merged", Impl: fnAdd},
	{Name: "count", Usage: "count()", Description: "Number of elements, keys or characters", Impl: fnCount},
	{Name: "any", Usage: "any(f?)", Description: "Whether any element matches", Impl: fnAny},
	{Name: "all", Usage: "all(f?)", Description: "Whether every element matches", Impl: fnAll},
	{Name: "range", Usage: "range(end) range(start, end, step?)", Description: "Half-open arithmetic sequence", Impl: fnRange},
}

func fnHead(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	v, _ := in.Index(0)

	return v, nil
}

func fnLast(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	v, _ := in.Index(-1)

	return v, nil
}

func fnTail(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok || len(list) == 0 {
		return emptyList, nil
	}

	return value.List(list[1:]...), nil
}

func clamp(n, lo, hi int) int { return max(lo, min(n, hi)) }

func fnTake(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return emptyList, nil
	}

	n := clamp(intArg(args, 0, 1), 0, len(list))

	return value.List(list[:n]...), nil
}

func fnDrop(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return emptyList, nil
	}

	n := clamp(intArg(args, 0, 1), 0, len(list))

	return value.List(list[n:]...), nil
}

// uniqueBy keeps the first element of each run of equal keys.
func uniqueBy(list []value.Value, key func(value.Value) (value.Value, error)) (value.Value, error) {
	out := make([]value.Value, 0, len(list))
	seen := make([]value.Value, 0, len(list))

	for _, item := range list {
		k, err := key(item)
		if err != nil {
			return value.Undefined, err
		}

		if slices.ContainsFunc(seen, func(s value.Value) bool { return value.StrictEqual(s, k) }) {
			continue
		}

		seen = append(seen, k)
		out = append(out, item)
	}

	return value.List(out...), nil
}

func fnUniq(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return emptyList, nil
	}

	return uniqueBy(list, func(v value.Value) (value.Value, error) { return v, nil })
}

func fnUniqBy(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return emptyList, nil
	}

	f := arg(args, 0)

	return uniqueBy(list, func(v value.Value) (value.Value, error) { return apply(f, v) })
}

func flatten(list []value.Value, depth int, out []value.Value) []value.Value {
	for _, item := range list {
		if inner, ok := item.AsList(); ok && depth != 0 {
			out = flatten(inner, depth-1, out)
		} else {
			out = append(out, item)
		}
	}

	return out
}

// fnFlatten flattens fully, or depth levels when given.
func fnFlatten(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return emptyList, nil
	}

	depth := intArg(args, 0, -1)
	if depth < 0 {
		depth = -1
	}

	return value.List(flatten(list, depth, nil)...), nil
}

func fnRev(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	if s, ok := in.AsString(); ok {
		r := []rune(s)
		slices.Reverse(r)

		return value.String(string(r)), nil
	}

	list, ok := in.AsList()
	if !ok {
		return emptyList, nil
	}

	out := slices.Clone(list)
	slices.Reverse(out)

	return value.List(out...), nil
}

func fnChunk(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	size := intArg(args, 0, 1)

	if !ok || size <= 0 {
		return emptyList, nil
	}

	out := make([]value.Value, 0, (len(list)+size-1)/size)
	for c := range slices.Chunk(list, size) {
		out = append(out, value.List(c...))
	}

	return value.List(out...), nil
}

// fnZip zips the input list with the argument lists, or, without
// arguments, the lists held by the input. The result is as long as the
// longest list; missing elements are undefined.
func fnZip(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	var lists [][]value.Value

	if len(args) == 0 {
		outer, ok := in.AsList()
		if !ok {
			return emptyList, nil
		}

		for _, v := range outer {
			if l, ok := v.AsList(); ok {
				lists = append(lists, l)
			}
		}
	} else {
		for _, v := range append([]value.Value{in}, args...) {
			if l, ok := v.AsList(); ok {
				lists = append(lists, l)
			}
		}
	}

	n := 0
	for _, l := range lists {
		n = max(n, len(l))
	}

	out := make([]value.Value, n)
	for i := range out {
		row := make([]value.Value, len(lists))
		for j, l := range lists {
			if i < len(l) {
				row[j] = l[i]
			}
		}

		out[i] = value.List(row...)
	}

	return value.List(out...), nil
}

func fnCompact(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return emptyList, nil
	}

	return value.List(slices.DeleteFunc(slices.Clone(list), func(v value.Value) bool {
		return !value.Truthy(v)
	})...), nil
}

func fnPluck(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return emptyList, nil
	}

	key := value.ToString(arg(args, 0))

	out := make([]value.Value, len(list))
	for i, item := range list {
		out[i], _ = item.Get(key)
	}

	return value.List(out...), nil
}

// buckets groups list by String(f(item)), keeping first-seen key order.
func buckets(list []value.Value, f value.Value) ([]string, map[string][]value.Value, error) {
	var keys []string

	groups := map[string][]value.Value{}

	for _, item := range list {
		k, err := apply(f, item)
		if err != nil {
			return nil, nil, err
		}

		key := value.ToString(k)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}

		groups[key] = append(groups[key], item)
	}

	return keys, groups, nil
}

func fnGroupBy(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return emptyObject(), nil
	}

	keys, groups, err := buckets(list, arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}

	obj := value.NewObject(len(keys))
	for _, k := range keys {
		obj.Set(k, value.List(groups[k]...))
	}

	return value.FromObject(obj), nil
}

func fnCountBy(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return emptyObject(), nil
	}

	keys, groups, err := buckets(list, arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}

	obj := value.NewObject(len(keys))
	for _, k := range keys {
		obj.Set(k, value.Int(len(groups[k])))
	}

	return value.FromObject(obj), nil
}

func fnSortBy(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return emptyList, nil
	}

	type keyed struct {
		key, item value.Value
	}

	f := arg(args, 0)

	items := make([]keyed, len(list))
	for i, item := range list {
		k, err := apply(f, item)
		if err != nil {
			return value.Undefined, err
		}

		items[i] = keyed{key: k, item: item}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case value.Less(a.key, b.key):
			return -1
		case value.Less(b.key, a.key):
			return 1
		default:
			return 0
		}
	})

	out := make([]value.Value, len(items))
	for i, it := range items {
		out[i] = it.item
	}

	return value.List(out...), nil
}

func fnPartition(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return value.List(emptyList, emptyList), nil
	}

	var yes, no []value.Value

	for _, item := range list {
		ok, err := truthy(arg(args, 0), item)
		if err != nil {
			return value.Undefined, err
		}

		if ok {
			yes = append(yes, item)
		} else {
			no = append(no, item)
		}
	}

	return value.List(value.List(yes...), value.List(no...)), nil
}

// numbers returns the numeric elements of in.
func numbers(in value.Value) []float64 {
	list, _ := in.AsList()

	var out []float64

	for _, v := range list {
		if n, ok := v.AsNumber(); ok {
			out = append(out, n)
		}
	}

	return out
}

func fnSum(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	total := 0.0
	for _, n := range numbers(in) {
		total += n
	}

	return value.Number(total), nil
}

func fnMean(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	nums := numbers(in)
	if len(nums) == 0 {
		return value.Number(0), nil
	}

	total := 0.0
	for _, n := range nums {
		total += n
	}

	return value.Number(total / float64(len(nums))), nil
}

func extreme(in value.Value, better func(a, b value.Value) bool) value.Value {
	list, _ := in.AsList()
	if len(list) == 0 {
		return value.Undefined
	}

	best := list[0]
	for _, v := range list[1:] {
		if better(v, best) {
			best = v
		}
	}

	return best
}

func fnMin(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	return extreme(in, value.Less), nil
}

func fnMax(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	return extreme(in, func(a, b value.Value) bool { return value.Less(b, a) }), nil
}

// fnAdd folds the elements: lists concatenate, objects merge, everything
// else combines with +. Nullish elements are skipped.
func fnAdd(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	list, _ := in.AsList()

	acc := value.Undefined

	for _, v := range list {
		switch {
		case v.IsNullish():
			continue
		case acc.Is(value.KindUndefined):
			acc = v
		case acc.Is(value.KindList) && v.Is(value.KindList):
			a, _ := acc.AsList()
			b, _ := v.AsList()
			acc = value.List(slices.Concat(a, b)...)
		case acc.Is(value.KindObject) && v.Is(value.KindObject):
			acc = mergeShallow(acc, v)
		default:
			acc = value.Add(acc, v)
		}
	}

	if acc.Is(value.KindUndefined) {
		return value.Null, nil
	}

	return acc, nil
}

func fnCount(_ *Context, in value.Value, _ []value.Value) (value.Value, error) {
	return value.Int(max(in.Len(), 0)), nil
}

func fnAny(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()

	for _, item := range list {
		ok, err := truthy(arg(args, 0), item)
		if err != nil || ok {
			return value.Bool(ok), err
		}
	}

	return value.False, nil
}

func fnAll(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	list, ok := in.AsList()
	if !ok {
		return value.False, nil
	}

	for _, item := range list {
		ok, err := truthy(arg(args, 0), item)
		if err != nil || !ok {
			return value.False, err
		}
	}

	return value.True, nil
}

// fnRange generates [start, end) by step. The input is ignored. A sequence
// longer than maxRange is an error rather than a silently empty list.
func fnRange(_ *Context, _ value.Value, args []value.Value) (value.Value, error) {
	start, end, step := 0.0, 0.0, 1.0

	switch len(args) {
	case 0:
		return emptyList, nil
	case 1:
		end = value.ToNumber(args[0])
	default:
		start, end = value.ToNumber(args[0]), value.ToNumber(args[1])
		if len(args) > 2 {
			step = value.ToNumber(args[2])
		}
	}

	n := math.Ceil((end - start) / step)
	if math.IsNaN(n) || n <= 0 {
		return emptyList, nil
	}

	if n > maxRange {
		return value.Undefined, ErrRangeLimit.With(
			slog.Float64("length", n),
			slog.Int("max", maxRange),
		)
	}

	out := make([]value.Value, int(n))
	for i := range out {
		out[i] = value.Number(start + float64(i)*step)
	}

	return value.List(out...), nil
}
