package builtin

import (
	"errors"
	"math"
	"testing"

	"github.com/ardnew/onels/lang/value"
)

// callable adapts a Go function for use as a callback argument.
type callable func(args ...value.Value) (value.Value, error)

func (f callable) Call(args ...value.Value) (value.Value, error) { return f(args...) }

func (callable) String() string { return "<fn>" }

func fn(f func(v value.Value) value.Value) value.Value {
	return value.Func(callable(func(args ...value.Value) (value.Value, error) {
		if len(args) == 0 {
			return f(value.Undefined), nil
		}

		return f(args[0]), nil
	}))
}

func js(t *testing.T, s string) value.Value {
	t.Helper()

	if s == "undefined" {
		return value.Undefined
	}

	v, err := value.ParseJSON(s)
	if err != nil {
		t.Fatalf("invalid test JSON %q: %v", s, err)
	}

	return v
}

func show(v value.Value) string {
	if v.Is(value.KindUndefined) {
		return "undefined"
	}

	if v.Is(value.KindOmit) {
		return "omit"
	}

	return string(value.JSON(v, ""))
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name  string
		fn    string
		input string
		args  []string
		want  string
	}{
		{"head", "head", `[1,2,3]`, nil, `1`},
		{"head empty", "head", `[]`, nil, `undefined`},
		{"last", "last", `[1,2,3]`, nil, `3`},
		{"tail", "tail", `[1,2,3]`, nil, `[2,3]`},
		{"take", "take", `[1,2,3]`, []string{`2`}, `[1,2]`},
		{"take clamps high", "take", `[1,2,3]`, []string{`10`}, `[1,2,3]`},
		{"take clamps low", "take", `[1,2,3]`, []string{`-1`}, `[]`},
		{"drop", "drop", `[1,2,3]`, []string{`1`}, `[2,3]`},
		{"drop clamps", "drop", `[1,2,3]`, []string{`5`}, `[]`},
		{"uniq", "uniq", `[1,2,1,3,2]`, nil, `[1,2,3]`},
		{"uniq structural", "uniq", `[{"a":1},{"a":1}]`, nil, `[{"a":1}]`},
		{"uniqBy", "uniqBy", `[{"k":1,"v":"a"},{"k":1,"v":"b"}]`, []string{`"k"`}, `[{"k":1,"v":"a"}]`},
		{"flatten", "flatten", `[1,[2,[3,[4]]]]`, nil, `[1,2,3,4]`},
		{"flatten depth", "flatten", `[1,[2,[3,[4]]]]`, []string{`1`}, `[1,2,[3,[4]]]`},
		{"rev", "rev", `[1,2,3]`, nil, `[3,2,1]`},
		{"rev string", "rev", `"abc"`, nil, `"cba"`},
		{"chunk", "chunk", `[1,2,3,4,5]`, []string{`2`}, `[[1,2],[3,4],[5]]`},
		{"zip input", "zip", `[[1,2],["a","b"]]`, nil, `[[1,"a"],[2,"b"]]`},
		{"zip args", "zip", `[1,2]`, []string{`[3,4]`}, `[[1,3],[2,4]]`},
		{"zip pads", "zip", `[[1,2],["a"]]`, nil, `[[1,"a"],[2,null]]`},
		{"compact", "compact", `[0,1,false,"",null,"a"]`, nil, `[1,"a"]`},
		{"pluck", "pluck", `[{"n":"a"},{"n":"b"}]`, []string{`"n"`}, `["a","b"]`},
		{
			"groupBy", "groupBy",
			`[{"t":"x","v":1},{"t":"y","v":2},{"t":"x","v":3}]`, []string{`"t"`},
			`{"x":[{"t":"x","v":1},{"t":"x","v":3}],"y":[{"t":"y","v":2}]}`,
		},
		{"countBy", "countBy", `[{"t":"x"},{"t":"y"},{"t":"x"}]`, []string{`"t"`}, `{"x":2,"y":1}`},
		{"sortBy", "sortBy", `[{"a":3},{"a":1},{"a":2}]`, []string{`"a"`}, `[{"a":1},{"a":2},{"a":3}]`},
		{
			"sortBy stable", "sortBy",
			`[{"a":1,"i":0},{"a":0,"i":1},{"a":1,"i":2}]`, []string{`"a"`},
			`[{"a":0,"i":1},{"a":1,"i":0},{"a":1,"i":2}]`,
		},
		{"sum", "sum", `[1,2,"x",3]`, nil, `6`},
		{"mean", "mean", `[1,2,3,4]`, nil, `2.5`},
		{"min", "min", `[3,1,2]`, nil, `1`},
		{"max", "max", `[3,1,2]`, nil, `3`},
		{"min empty", "min", `[]`, nil, `undefined`},
		{"add numbers", "add", `[1,2,3]`, nil, `6`},
		{"add lists", "add", `[[1],[2]]`, nil, `[1,2]`},
		{"add objects", "add", `[{"a":1},{"b":2}]`, nil, `{"a":1,"b":2}`},
		{"add strings", "add", `["a","b"]`, nil, `"ab"`},
		{"count list", "count", `[1,2]`, nil, `2`},
		{"count object", "count", `{"a":1}`, nil, `1`},
		{"count string", "count", `"abc"`, nil, `3`},
		{"count number", "count", `5`, nil, `0`},
		{"any", "any", `[0,0,1]`, nil, `true`},
		{"all", "all", `[1,1,0]`, nil, `false`},
		{"all empty", "all", `[]`, nil, `true`},
		{"range end", "range", `null`, []string{`3`}, `[0,1,2]`},
		{"range step", "range", `null`, []string{`1`, `7`, `2`}, `[1,3,5]`},
		{"range descending", "range", `null`, []string{`5`, `0`, `-2`}, `[5,3,1]`},
		{"range zero step", "range", `null`, []string{`0`, `1`, `0`}, `[]`},
		{"range fractional", "range", `null`, []string{`0`, `1`, `0.25`}, `[0,0.25,0.5,0.75]`},

		{"keys", "keys", `{"b":1,"a":2}`, nil, `["b","a"]`},
		{"keys of list", "keys", `[5,6]`, nil, `[0,1]`},
		{"vals", "vals", `{"a":1,"b":2}`, nil, `[1,2]`},
		{"pick list", "pick", `{"a":1,"b":2,"c":3}`, []string{`["a","c"]`}, `{"a":1,"c":3}`},
		{"pick varargs", "pick", `{"a":1,"b":2,"c":3}`, []string{`"b"`, `"z"`}, `{"b":2}`},
		{"omit", "omit", `{"a":1,"b":2}`, []string{`"a"`}, `{"b":2}`},
		{"merge", "merge", `{"a":1}`, []string{`{"b":2}`, `{"a":3}`}, `{"a":3,"b":2}`},
		{"merge list", "merge", `[{"a":1},{"b":2}]`, nil, `{"a":1,"b":2}`},
		{"deepMerge", "deepMerge", `{"a":{"x":1,"y":2}}`, []string{`{"a":{"y":3}}`}, `{"a":{"x":1,"y":3}}`},
		{"deepMerge later wins", "deepMerge", `{"a":{"x":1}}`, []string{`{"a":5}`}, `{"a":5}`},
		{"fromPairs", "fromPairs", `[["a",1],["b",2]]`, nil, `{"a":1,"b":2}`},
		{"toPairs", "toPairs", `{"a":1,"b":2}`, nil, `[["a",1],["b",2]]`},
		{"has key", "has", `{"a":1}`, []string{`"a"`}, `true`},
		{"has index", "has", `[1]`, []string{`1`}, `false`},
		{"invert", "invert", `{"a":"x","b":"y"}`, nil, `{"x":"a","y":"b"}`},

		{"type", "type", `[]`, nil, `"array"`},
		{"type null", "type", `null`, nil, `"null"`},
		{"not", "not", `0`, nil, `true`},
		{"isEmpty", "isEmpty", `{}`, nil, `true`},
		{"isEmpty string", "isEmpty", `"a"`, nil, `false`},
		{"isNil", "isNil", `null`, nil, `true`},
		{"default", "default", `null`, []string{`7`}, `7`},
		{"default present", "default", `1`, []string{`7`}, `1`},
		{"tostring", "tostring", `{"a":[1]}`, nil, `"{\"a\":[1]}"`},
		{"tostring number", "tostring", `1.5`, nil, `"1.5"`},
		{"tonumber", "tonumber", `"42"`, nil, `42`},
		{"tonumber invalid", "tonumber", `"abc"`, nil, `undefined`},
		{"tojson", "tojson", `[1,"a"]`, nil, `"[1,\"a\"]"`},
		{"fromjson", "fromjson", `"{\"a\":1}"`, nil, `{"a":1}`},
		{"fromjson invalid", "fromjson", `"{"`, nil, `undefined`},

		{"path", "path", `null`, []string{`"a.b[0].c"`}, `["a","b",0,"c"]`},
		{"path input", "path", `".x[1][2]"`, nil, `["x",1,2]`},
		{"paths", "paths", `{"a":[1],"b":2}`, nil, `[["a"],["a",0],["b"]]`},
		{"getpath", "getpath", `{"a":{"b":{"c":42}}}`, []string{`["a","b","c"]`}, `42`},
		{"getpath missing", "getpath", `{"a":1}`, []string{`["x","y"]`}, `undefined`},
		{"getpath index", "getpath", `{"a":[1,2]}`, []string{`["a",-1]`}, `2`},
		{"setpath", "setpath", `{"a":{"b":{"c":42}}}`, []string{`["a","b"]`, `99`}, `{"a":{"b":99}}`},
		{"setpath creates", "setpath", `{}`, []string{`["a","b"]`, `1`}, `{"a":{"b":1}}`},
		{"setpath extends", "setpath", `[1]`, []string{`[3]`, `4`}, `[1,null,null,4]`},
		{"delpath", "delpath", `{"a":{"b":1,"c":2}}`, []string{`["a","b"]`}, `{"a":{"c":2}}`},
		{"delpath index", "delpath", `[1,2,3]`, []string{`[1]`}, `[1,3]`},
		{"delpath missing", "delpath", `{"a":1}`, []string{`["b","c"]`}, `{"a":1}`},

		{"select true", "select", `5`, []string{`true`}, `5`},
		{"empty", "empty", `5`, nil, `undefined`},
		{"debug", "debug", `5`, nil, `5`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := make([]value.Value, len(tt.args))
			for i, a := range tt.args {
				args[i] = js(t, a)
			}

			got, err := Call(nil, tt.fn, js(t, tt.input), args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.fn == "empty" {
				if !got.Is(value.KindOmit) {
					t.Errorf("expected omit, got %s", show(got))
				}

				return
			}

			want := js(t, tt.want)
			if show(want) != show(got) {
				t.Errorf("expected %s, got %s", show(want), show(got))
			}
		})
	}
}

func TestBuiltins_Callbacks(t *testing.T) {
	gt2 := fn(func(v value.Value) value.Value { return value.Bool(value.ToNumber(v) > 2) })
	neg := fn(func(v value.Value) value.Value { return value.Number(-value.ToNumber(v)) })
	parity := fn(func(v value.Value) value.Value {
		if int(value.ToNumber(v))%2 == 0 {
			return value.String("even")
		}

		return value.String("odd")
	})

	tests := []struct {
		name  string
		fn    string
		input string
		arg   value.Value
		want  string
	}{
		{"partition", "partition", `[1,2,3,4]`, gt2, `[[3,4],[1,2]]`},
		{"sortBy function", "sortBy", `[1,3,2]`, neg, `[3,2,1]`},
		{"groupBy function", "groupBy", `[1,2,3]`, parity, `{"odd":[1,3],"even":[2]}`},
		{"countBy function", "countBy", `[1,2,3]`, parity, `{"odd":2,"even":1}`},
		{"uniqBy function", "uniqBy", `[1,2,3,4]`, parity, `[1,2]`},
		{"any function", "any", `[1,2,3]`, gt2, `true`},
		{"all function", "all", `[1,2,3]`, gt2, `false`},
		{"paths predicate", "paths", `{"a":1,"b":{"c":3}}`, gt2, `[["b","c"]]`},
		{"select function", "select", `3`, gt2, `3`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Call(nil, tt.fn, js(t, tt.input), tt.arg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if want := js(t, tt.want); show(want) != show(got) {
				t.Errorf("expected %s, got %s", show(want), show(got))
			}
		})
	}

	got, err := Call(nil, "select", value.Int(1), gt2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.Is(value.KindOmit) {
		t.Errorf("expected omit from a failing select, got %s", show(got))
	}
}

func TestBuiltins_CallbackError(t *testing.T) {
	boom := errors.New("boom")
	failing := value.Func(callable(func(...value.Value) (value.Value, error) {
		return value.Undefined, boom
	}))

	for _, name := range []string{"sortBy", "groupBy", "uniqBy", "partition", "any", "all", "select"} {
		t.Run(name, func(t *testing.T) {
			_, err := Call(nil, name, js(t, `[1]`), failing)
			if !errors.Is(err, boom) {
				t.Errorf("expected callback error, got %v", err)
			}
		})
	}
}

// TestBuiltins_Totality calls every builtin with inputs and arguments of
// the wrong shape. Only the error builtin may fail.
func TestBuiltins_Totality(t *testing.T) {
	inputs := []string{`"not a list"`, `42`, `null`, `undefined`, `true`, `{}`, `[]`, `{"a":[1,{"b":null}]}`}
	argSets := [][]string{nil, {`"x"`}, {`{}`, `[]`}, {`null`, `null`, `null`}}

	for _, name := range Names() {
		if name == Pipe || name == Compose || name == "error" {
			continue
		}

		for _, input := range inputs {
			for _, set := range argSets {
				args := make([]value.Value, len(set))
				for i, a := range set {
					args[i] = js(t, a)
				}

				if _, err := Call(nil, name, js(t, input), args...); err != nil {
					t.Errorf("%s(%v) on %s: unexpected error: %v", name, set, input, err)
				}
			}
		}
	}
}

func TestRange_Limit(t *testing.T) {
	tests := []struct {
		name string
		args []value.Value
	}{
		{"end", []value.Value{value.Number(maxRange + 1)}},
		{"tiny step", []value.Value{value.Int(0), value.Int(1), value.Number(1e-9)}},
		{"infinite", []value.Value{value.Number(math.Inf(1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Call(nil, "range", value.Null, tt.args...)
			if !errors.Is(err, ErrRangeLimit) {
				t.Errorf("expected error %v got %v", ErrRangeLimit, err)
			}
		})
	}

	got, err := Call(nil, "range", value.Null, value.Number(maxRange))
	if err != nil {
		t.Fatalf("unexpected error at the limit: %v", err)
	}

	if list, _ := got.AsList(); len(list) != maxRange {
		t.Errorf("expected %d elements, got %d", maxRange, len(list))
	}

	got, err = Call(nil, "range", value.Null, value.Number(math.Inf(-1)))
	if err != nil || show(got) != "[]" {
		t.Errorf("expected [] for a negative infinite end, got %s, %v", show(got), err)
	}
}

func TestBuiltins_EmptyShapes(t *testing.T) {
	tests := []struct {
		fn    string
		input string
		args  []string
		want  string
	}{
		{"sum", `"not a list"`, nil, `0`},
		{"mean", `"not a list"`, nil, `0`},
		{"count", `null`, nil, `0`},
		{"pick", `"not a map"`, []string{`["a"]`}, `{}`},
		{"omit", `3`, []string{`"a"`}, `{}`},
		{"merge", `3`, []string{`{"a":1}`}, `{}`},
		{"groupBy", `"x"`, nil, `{}`},
		{"keys", `3`, nil, `[]`},
		{"toPairs", `[1]`, nil, `[]`},
		{"fromPairs", `{}`, nil, `{}`},
		{"take", `{}`, []string{`2`}, `[]`},
		{"sortBy", `"abc"`, nil, `[]`},
		{"flatten", `1`, nil, `[]`},
		{"partition", `1`, nil, `[[],[]]`},
		{"head", `"abc"`, nil, `undefined`},
		{"min", `{}`, nil, `undefined`},
		{"getpath", `1`, []string{`["a"]`}, `undefined`},
		{"range", `null`, nil, `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			args := make([]value.Value, len(tt.args))
			for i, a := range tt.args {
				args[i] = js(t, a)
			}

			got, err := Call(nil, tt.fn, js(t, tt.input), args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if want := js(t, tt.want); show(want) != show(got) {
				t.Errorf("expected %s, got %s", show(want), show(got))
			}
		})
	}
}

func TestSetPath_CopyOnWrite(t *testing.T) {
	input := js(t, `{"a":{"b":{"c":42}}}`)
	before := show(input)

	got, err := Call(nil, "setpath", input, js(t, `["a","b"]`), value.Int(99))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if show(input) != before {
		t.Errorf("input modified: expected %s, got %s", before, show(input))
	}

	if v, _ := Call(nil, "getpath", got, js(t, `["a","b"]`)); !value.StrictEqual(v, value.Int(99)) {
		t.Errorf("expected a.b == 99, got %s", show(v))
	}

	if _, err := Call(nil, "delpath", input, js(t, `["a"]`)); err != nil || show(input) != before {
		t.Errorf("delpath modified its input: %s", show(input))
	}
}

func TestError(t *testing.T) {
	_, err := Call(nil, "error", value.Null, value.String("bad input"))

	var userErr *UserError
	if !errors.As(err, &userErr) {
		t.Fatalf("expected *UserError, got %T", err)
	}

	if userErr.Message != "bad input" {
		t.Errorf("expected message %q, got %q", "bad input", userErr.Message)
	}

	if !errors.Is(err, ErrUser) {
		t.Errorf("expected ErrUser, got %v", err)
	}

	_, err = Call(nil, "error", js(t, `{"code":1}`))
	if err == nil || err.Error() != `{"code":1}` {
		t.Errorf("expected JSON message, got %v", err)
	}
}

func TestDebug_Sink(t *testing.T) {
	var (
		label string
		seen  value.Value
	)

	ctx := &Context{Debug: func(l string, v value.Value) { label, seen = l, v }}

	got, err := Call(ctx, "debug", value.Int(3), value.String("here"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if label != "here" || !value.StrictEqual(seen, value.Int(3)) || !value.StrictEqual(got, value.Int(3)) {
		t.Errorf("expected (here, 3) passed through, got (%s, %s) -> %s", label, show(seen), show(got))
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("head"); !ok {
		t.Error("expected head to be registered")
	}

	for _, name := range []string{Pipe, Compose, "map", "nope"} {
		if _, ok := Lookup(name); ok {
			t.Errorf("expected %q not to be callable", name)
		}
	}

	_, err := Call(nil, "nope", value.Null)
	if !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}

	if n := len(Docs()); n != len(Names()) || n < 50 {
		t.Errorf("expected at least 50 documented builtins, got %d", n)
	}
}
