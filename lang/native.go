package lang

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/onels/lang/value"
	"github.com/ardnew/onels/pkg"
)

// Native method failures. They reach callers wrapped in a
// [MethodExecutionError].
var (
	errNoMethod    = pkg.NewError("no such method")
	errNotFunc     = pkg.NewError("argument is not a function")
	errEmptyReduce = pkg.NewError("reduce of empty list with no initial value")
	errRange       = pkg.NewError("argument out of range")
)

// maxRepeat bounds the length of strings built by repeat and padding.
const maxRepeat = 1 << 24

// method is a native operation of a value kind.
type method func(in value.Value, args []value.Value) (value.Value, error)

var listMethods = map[string]method{
	"map":         listMap,
	"filter":      listFilter,
	"reduce":      listReduce,
	"find":        listFind,
	"findIndex":   listFindIndex,
	"some":        listSome,
	"every":       listEvery,
	"sort":        listSort,
	"slice":       listSlice,
	"join":        listJoin,
	"includes":    listIncludes,
	"indexOf":     listIndexOf,
	"lastIndexOf": listLastIndexOf,
	"concat":      listConcat,
	"reverse":     listReverse,
	"flat":        listFlat,
	"flatMap":     listFlatMap,
	"at":          listAt,
	"push":        listPush,
	"pop":         listPop,
	"shift":       listShift,
	"unshift":     listUnshift,
}

var stringMethods = map[string]method{
	"toUpperCase": strMap(strings.ToUpper),
	"toLowerCase": strMap(strings.ToLower),
	"trim":        strMap(strings.TrimSpace),
	"trimStart":   strMap(func(s string) string { return strings.TrimLeftFunc(s, unicode.IsSpace) }),
	"trimEnd":     strMap(func(s string) string { return strings.TrimRightFunc(s, unicode.IsSpace) }),
	"split":       strSplit,
	"replace":     strReplace(1),
	"replaceAll":  strReplace(-1),
	"startsWith":  strTest(strings.HasPrefix),
	"endsWith":    strTest(strings.HasSuffix),
	"includes":    strTest(strings.Contains),
	"indexOf":     strIndex(strings.Index),
	"lastIndexOf": strIndex(strings.LastIndex),
	"slice":       strSlice,
	"substring":   strSubstring,
	"padStart":    strPad(true),
	"padEnd":      strPad(false),
	"repeat":      strRepeat,
	"charAt":      strCharAt,
	"at":          strAt,
	"concat":      strConcat,
}

var numberMethods = map[string]method{
	"toFixed":  numToFixed,
	"toString": numToString,
}

// Methods returns the sorted names of the native methods a value of kind k
// responds to. Every non-nullish kind has toString.
func Methods(k value.Kind) []string {
	var table map[string]method

	switch k {
	case value.KindList:
		table = listMethods
	case value.KindString:
		table = stringMethods
	case value.KindNumber:
		table = numberMethods
	case value.KindUndefined, value.KindNull, value.KindOmit:
		return nil
	case value.KindBool, value.KindObject, value.KindFunc:
	}

	names := []string{"toString"}
	for name := range table {
		if name != "toString" {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return names
}

// callNative invokes the native method name of in.
func callNative(name string, in value.Value, args []value.Value) (value.Value, error) {
	var table map[string]method

	switch in.Kind() {
	case value.KindList:
		table = listMethods
	case value.KindString:
		table = stringMethods
	case value.KindNumber:
		table = numberMethods
	case value.KindUndefined, value.KindNull, value.KindBool, value.KindObject,
		value.KindFunc, value.KindOmit:
	}

	if m, ok := table[name]; ok {
		return m(in, args)
	}

	if name == "toString" && !in.IsNullish() {
		return value.String(value.ToString(in)), nil
	}

	return value.Undefined, errNoMethod.Wrap(errors.New(value.TypeName(in)))
}

// argAt returns args[i], or undefined when absent.
func argAt(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}

	return value.Undefined
}

// indexAt returns args[i] as an integer, or def when absent or not a
// finite number.
func indexAt(args []value.Value, i, def int) int {
	if n, ok := argAt(args, i).AsIndex(); ok {
		return n
	}

	return def
}

func funcAt(args []value.Value, i int) (value.Callable, error) {
	if fn, ok := argAt(args, i).AsFunc(); ok {
		return fn, nil
	}

	return nil, errNotFunc
}

// each calls fn with (item, index, list) for every element of list until
// stop reports true for a result.
func each(list []value.Value, fn value.Callable, stop func(i int, v value.Value) bool) error {
	self := value.List(list...)

	for i, item := range list {
		v, err := fn.Call(item, value.Int(i), self)
		if err != nil {
			return err
		}

		if stop(i, v) {
			return nil
		}
	}

	return nil
}

func listMap(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()

	fn, err := funcAt(args, 0)
	if err != nil {
		return value.Undefined, err
	}

	out := make([]value.Value, 0, len(list))

	err = each(list, fn, func(_ int, v value.Value) bool {
		if !v.Is(value.KindOmit) {
			out = append(out, v)
		}

		return false
	})
	if err != nil {
		return value.Undefined, err
	}

	return value.List(out...), nil
}

func listFilter(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()

	fn, err := funcAt(args, 0)
	if err != nil {
		return value.Undefined, err
	}

	out := []value.Value{}

	err = each(list, fn, func(i int, v value.Value) bool {
		if value.Truthy(v) && !list[i].Is(value.KindOmit) {
			out = append(out, list[i])
		}

		return false
	})
	if err != nil {
		return value.Undefined, err
	}

	return value.List(out...), nil
}

func listReduce(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()

	fn, err := funcAt(args, 0)
	if err != nil {
		return value.Undefined, err
	}

	var acc value.Value

	start := 0

	if len(args) > 1 {
		acc = args[1]
	} else {
		if len(list) == 0 {
			return value.Undefined, errEmptyReduce
		}

		acc, start = list[0], 1
	}

	self := value.List(list...)

	for i := start; i < len(list); i++ {
		if acc, err = fn.Call(acc, list[i], value.Int(i), self); err != nil {
			return value.Undefined, err
		}
	}

	return acc, nil
}

// search returns the index of the first element satisfying the callback
// in args[0], or -1.
func search(in value.Value, args []value.Value) (int, error) {
	list, _ := in.AsList()

	fn, err := funcAt(args, 0)
	if err != nil {
		return -1, err
	}

	found := -1

	err = each(list, fn, func(i int, v value.Value) bool {
		if value.Truthy(v) {
			found = i
		}

		return found >= 0
	})

	return found, err
}

func listFind(in value.Value, args []value.Value) (value.Value, error) {
	i, err := search(in, args)
	if err != nil || i < 0 {
		return value.Undefined, err
	}

	v, _ := in.Index(i)

	return v, nil
}

func listFindIndex(in value.Value, args []value.Value) (value.Value, error) {
	i, err := search(in, args)
	if err != nil {
		return value.Undefined, err
	}

	return value.Int(i), nil
}

func listSome(in value.Value, args []value.Value) (value.Value, error) {
	i, err := search(in, args)
	if err != nil {
		return value.Undefined, err
	}

	return value.Bool(i >= 0), nil
}

func listEvery(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()

	fn, err := funcAt(args, 0)
	if err != nil {
		return value.Undefined, err
	}

	all := true

	err = each(list, fn, func(_ int, v value.Value) bool {
		all = value.Truthy(v)

		return !all
	})
	if err != nil {
		return value.Undefined, err
	}

	return value.Bool(all), nil
}

// compareDefault orders elements by their string form, with undefined
// last.
func compareDefault(a, b value.Value) int {
	au, bu := a.Is(value.KindUndefined), b.Is(value.KindUndefined)

	switch {
	case au && bu:
		return 0
	case au:
		return 1
	case bu:
		return -1
	}

	return strings.Compare(value.ToString(a), value.ToString(b))
}

func listSort(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()
	out := slices.Clone(list)

	if argAt(args, 0).Is(value.KindUndefined) {
		slices.SortStableFunc(out, compareDefault)

		return value.List(out...), nil
	}

	fn, err := funcAt(args, 0)
	if err != nil {
		return value.Undefined, err
	}

	var cmpErr error

	slices.SortStableFunc(out, func(a, b value.Value) int {
		if cmpErr != nil {
			return 0
		}

		v, err := fn.Call(a, b)
		if err != nil {
			cmpErr = err

			return 0
		}

		switch n := value.ToNumber(v); {
		case n < 0:
			return -1
		case n > 0:
			return 1
		default:
			return 0
		}
	})

	if cmpErr != nil {
		return value.Undefined, cmpErr
	}

	return value.List(out...), nil
}

func listSlice(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()
	lo, hi := span(indexAt(args, 0, 0), indexAt(args, 1, len(list)), len(list))

	return value.List(slices.Clone(list[lo:hi])...), nil
}

func listJoin(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()

	sep := ","
	if s := argAt(args, 0); !s.Is(value.KindUndefined) {
		sep = value.ToString(s)
	}

	parts := make([]string, len(list))
	for i, e := range list {
		if !e.IsNullish() {
			parts[i] = value.ToString(e)
		}
	}

	return value.String(strings.Join(parts, sep)), nil
}

func listIncludes(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()
	x := argAt(args, 0)

	return value.Bool(slices.ContainsFunc(list, func(e value.Value) bool {
		return value.StrictEqual(e, x)
	})), nil
}

func listIndexOf(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()
	x := argAt(args, 0)

	return value.Int(slices.IndexFunc(list, func(e value.Value) bool {
		return value.StrictEqual(e, x)
	})), nil
}

func listLastIndexOf(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()
	x := argAt(args, 0)

	for i := len(list) - 1; i >= 0; i-- {
		if value.StrictEqual(list[i], x) {
			return value.Int(i), nil
		}
	}

	return value.Int(-1), nil
}

func listConcat(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()
	out := slices.Clone(list)

	for _, a := range args {
		if more, ok := a.AsList(); ok {
			out = append(out, more...)
		} else {
			out = append(out, a)
		}
	}

	return value.List(out...), nil
}

func listReverse(in value.Value, _ []value.Value) (value.Value, error) {
	list, _ := in.AsList()
	out := slices.Clone(list)
	slices.Reverse(out)

	return value.List(out...), nil
}

// flat appends the elements of list to out, descending into nested lists
// up to depth levels.
func flat(list []value.Value, depth int, out []value.Value) []value.Value {
	for _, e := range list {
		if sub, ok := e.AsList(); ok && depth > 0 {
			out = flat(sub, depth-1, out)
		} else {
			out = append(out, e)
		}
	}

	return out
}

func listFlat(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()

	return value.List(flat(list, indexAt(args, 0, 1), []value.Value{})...), nil
}

func listFlatMap(in value.Value, args []value.Value) (value.Value, error) {
	mapped, err := listMap(in, args)
	if err != nil {
		return value.Undefined, err
	}

	list, _ := mapped.AsList()

	return value.List(flat(list, 1, []value.Value{})...), nil
}

func listAt(in value.Value, args []value.Value) (value.Value, error) {
	v, _ := in.Index(indexAt(args, 0, 0))

	return v, nil
}

// push and unshift return the extended list. pop and shift return the
// element they remove; the input list is never modified.
func listPush(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()

	return value.List(slices.Concat(list, args)...), nil
}

func listPop(in value.Value, _ []value.Value) (value.Value, error) {
	v, _ := in.Index(-1)

	return v, nil
}

func listShift(in value.Value, _ []value.Value) (value.Value, error) {
	v, _ := in.Index(0)

	return v, nil
}

func listUnshift(in value.Value, args []value.Value) (value.Value, error) {
	list, _ := in.AsList()

	return value.List(slices.Concat(args, list)...), nil
}

func strMap(f func(string) string) method {
	return func(in value.Value, _ []value.Value) (value.Value, error) {
		s, _ := in.AsString()

		return value.String(f(s)), nil
	}
}

func strTest(f func(s, sub string) bool) method {
	return func(in value.Value, args []value.Value) (value.Value, error) {
		s, _ := in.AsString()

		return value.Bool(f(s, value.ToString(argAt(args, 0)))), nil
	}
}

// strIndex reports rune offsets rather than byte offsets.
func strIndex(f func(s, sub string) int) method {
	return func(in value.Value, args []value.Value) (value.Value, error) {
		s, _ := in.AsString()

		i := f(s, value.ToString(argAt(args, 0)))
		if i < 0 {
			return value.Int(-1), nil
		}

		return value.Int(utf8.RuneCountInString(s[:i])), nil
	}
}

func strSplit(in value.Value, args []value.Value) (value.Value, error) {
	s, _ := in.AsString()

	sep := argAt(args, 0)
	if sep.Is(value.KindUndefined) {
		return value.List(in), nil
	}

	parts := strings.Split(s, value.ToString(sep))
	if n, ok := argAt(args, 1).AsIndex(); ok && n >= 0 && n < len(parts) {
		parts = parts[:n]
	}

	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.String(p)
	}

	return value.List(out...), nil
}

func strReplace(n int) method {
	return func(in value.Value, args []value.Value) (value.Value, error) {
		s, _ := in.AsString()

		return value.String(strings.Replace(s,
			value.ToString(argAt(args, 0)), value.ToString(argAt(args, 1)), n)), nil
	}
}

func strSlice(in value.Value, args []value.Value) (value.Value, error) {
	s, _ := in.AsString()
	r := []rune(s)
	lo, hi := span(indexAt(args, 0, 0), indexAt(args, 1, len(r)), len(r))

	return value.String(string(r[lo:hi])), nil
}

func strSubstring(in value.Value, args []value.Value) (value.Value, error) {
	s, _ := in.AsString()
	r := []rune(s)

	clamp := func(i int) int { return min(max(i, 0), len(r)) }

	lo, hi := clamp(indexAt(args, 0, 0)), clamp(indexAt(args, 1, len(r)))
	if lo > hi {
		lo, hi = hi, lo
	}

	return value.String(string(r[lo:hi])), nil
}

func strPad(start bool) method {
	return func(in value.Value, args []value.Value) (value.Value, error) {
		s, _ := in.AsString()

		width := indexAt(args, 0, 0)
		if width > maxRepeat {
			return value.Undefined, errRange
		}

		pad := " "
		if p := argAt(args, 1); !p.Is(value.KindUndefined) {
			pad = value.ToString(p)
		}

		n := width - utf8.RuneCountInString(s)
		if n <= 0 || pad == "" {
			return in, nil
		}

		fill := []rune(strings.Repeat(pad, n/utf8.RuneCountInString(pad)+1))[:n]

		if start {
			return value.String(string(fill) + s), nil
		}

		return value.String(s + string(fill)), nil
	}
}

func strRepeat(in value.Value, args []value.Value) (value.Value, error) {
	s, _ := in.AsString()

	n := indexAt(args, 0, 0)
	if n < 0 || (n > 0 && len(s) > maxRepeat/n) {
		return value.Undefined, errRange
	}

	return value.String(strings.Repeat(s, n)), nil
}

func strCharAt(in value.Value, args []value.Value) (value.Value, error) {
	s, _ := in.AsString()
	r := []rune(s)

	i := indexAt(args, 0, 0)
	if i < 0 || i >= len(r) {
		return value.String(""), nil
	}

	return value.String(string(r[i])), nil
}

func strAt(in value.Value, args []value.Value) (value.Value, error) {
	s, _ := in.AsString()
	r := []rune(s)

	i := indexAt(args, 0, 0)
	if i < 0 {
		i += len(r)
	}

	if i < 0 || i >= len(r) {
		return value.Undefined, nil
	}

	return value.String(string(r[i])), nil
}

func strConcat(in value.Value, args []value.Value) (value.Value, error) {
	s, _ := in.AsString()

	var sb strings.Builder

	sb.WriteString(s)

	for _, a := range args {
		sb.WriteString(value.ToString(a))
	}

	return value.String(sb.String()), nil
}

func numToFixed(in value.Value, args []value.Value) (value.Value, error) {
	n, _ := in.AsNumber()

	digits := indexAt(args, 0, 0)
	if digits < 0 || digits > 100 {
		return value.Undefined, errRange
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return value.String(value.FormatNumber(n)), nil
	}

	return value.String(strconv.FormatFloat(n, 'f', digits, 64)), nil
}

func numToString(in value.Value, args []value.Value) (value.Value, error) {
	n, _ := in.AsNumber()

	radix := indexAt(args, 0, 10)
	if radix < 2 || radix > 36 {
		return value.Undefined, errRange
	}

	if radix == 10 || n != math.Trunc(n) || math.Abs(n) >= 1<<53 {
		return value.String(value.FormatNumber(n)), nil
	}

	return value.String(strconv.FormatInt(int64(n), radix)), nil
}
