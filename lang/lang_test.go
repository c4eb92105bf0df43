package lang

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/onels/lang/builtin"
	"github.com/ardnew/onels/lang/syntax"
	"github.com/ardnew/onels/lang/value"
)

func js(t testing.TB, s string) value.Value {
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

	return string(value.JSON(v, ""))
}

type evalCase struct {
	name  string
	input string
	expr  string
	want  string
}

func runCases(t *testing.T, tests []evalCase, opts ...Option) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr, js(t, tt.input), opts...)
			if err != nil {
				t.Fatalf("unexpected error evaluating %q: %v", tt.expr, err)
			}

			if diff := cmp.Diff(tt.want, show(got)); diff != "" {
				t.Errorf("%q: result mismatch (-want +got):\n%s", tt.expr, diff)
			}
		})
	}
}

func TestEvaluate_Scenarios(t *testing.T) {
	runCases(t, []evalCase{
		{
			"filter then map", `[1,2,3,4,5]`,
			`.filter(x => x > 2).map(x => x * 2)`, `[6,8,10]`,
		},
		{
			"shortcut methods",
			`{"users":[{"name":"Alice","age":30},{"name":"Bob","age":20}]}`,
			`.users.flt(x => x.age > 25).mp(x => x.name)`, `["Alice"]`,
		},
		{"object keys", `{"a":1,"b":2,"c":3}`, `.{keys}`, `["a","b","c"]`},
		{"negative index", `["first","second","third"]`, `.[-1]`, `"third"`},
		{"getpath", `{"a":{"b":{"c":42}}}`, `getpath(["a","b","c"])`, `42`},
		{"setpath", `{"a":{"b":{"c":42}}}`, `setpath(["a","b"], 99)`, `{"a":{"b":99}}`},
	})
}

// Array methods do not apply to objects, so filtering the users of a root
// object has to select the list first.
func TestEvaluate_MethodOnObject(t *testing.T) {
	input := js(t, `{"users":[{"name":"Alice","age":30},{"name":"Bob","age":20}]}`)

	_, err := Evaluate(`.flt(x => x.age > 25).mp(x => x.name)`, input)
	if !errors.Is(err, ErrMethodExecution) {
		t.Fatalf("expected error %v got %v", ErrMethodExecution, err)
	}

	if !errors.Is(err, errNoMethod) {
		t.Errorf("expected error %v got %v", errNoMethod, err)
	}

	got, err := Evaluate(`.users.flt(x => x.age > 25).mp(x => x.name)`, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(`["Alice"]`, show(got)); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluate_SetPathLeavesInput(t *testing.T) {
	input := js(t, `{"a":{"b":{"c":42}}}`)
	before := show(input)

	got, err := Evaluate(`setpath(["a","b"], 99)`, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if after := show(input); after != before {
		t.Errorf("expected input %s, got %s", before, after)
	}

	if v, _ := Evaluate(`.a.b`, got); !value.StrictEqual(v, value.Int(99)) {
		t.Errorf("expected a.b == 99, got %s", show(v))
	}
}

func TestEvaluate_Access(t *testing.T) {
	runCases(t, []evalCase{
		{"identity", `{"a":1}`, `.`, `{"a":1}`},
		{"empty expression", `[1]`, ``, `[1]`},
		{"nested", `{"a":{"b":1}}`, `.a.b`, `1`},
		{"missing", `{"a":1}`, `.b`, `undefined`},
		{"non-object target", `{"a":1}`, `.a.b`, `undefined`},
		{"quoted name", `{"key with space":1}`, `."key with space"`, `1`},
		{"index then member", `{"users":[{"name":"a"}]}`, `.users[0].name`, `"a"`},
		{"index out of range", `[1,2]`, `.[5]`, `undefined`},
		{"index non-list", `{"a":1}`, `.[0]`, `undefined`},
		{"string key", `{"a":1}`, `.["a"]`, `1`},
		{"slice", `[1,2,3,4]`, `.[1:3]`, `[2,3]`},
		{"slice tail", `[1,2,3,4]`, `.[-2:]`, `[3,4]`},
		{"slice head", `[1,2,3,4]`, `.[:-1]`, `[1,2,3]`},
		{"slice clamps", `[1,2,3]`, `.[-10:]`, `[1,2,3]`},
		{"slice inverted", `[1,2,3]`, `.[2:1]`, `[]`},
		{"slice string", `{"name":"Alice"}`, `.name[0:2]`, `"Al"`},
		{"slice non-list", `{"a":1}`, `.[0:1]`, `undefined`},
		{"spread object", `{"a":1,"b":2}`, `.[]`, `[1,2]`},
		{"spread list", `[1,2]`, `.[]`, `[1,2]`},
		{"values", `{"a":1,"b":2}`, `.{values}`, `[1,2]`},
		{"entries", `{"a":1}`, `.{entries}`, `[["a",1]]`},
		{"length of list", `[1,2,3]`, `.{length}`, `3`},
		{"length shortcut", `{"a":1,"b":2}`, `.len`, `2`},
		{"keys of list", `[1]`, `.{keys}`, `undefined`},
		{"descent", `{"a":[1]}`, `..`, `[{"a":[1]},[1],1]`},
		{"descent scalar", `5`, `..`, `[5]`},
		{"descent member", `{"name":"a","kids":[{"name":"b"}]}`, `..name`, `["a","b"]`},
	})
}

func TestEvaluate_NegativeIndex(t *testing.T) {
	list := js(t, `[10,20,30,40]`)

	for k := 1; k <= 4; k++ {
		neg, err := Evaluate(".[-"+value.FormatNumber(float64(k))+"]", list)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		pos, _ := list.Index(4 - k)
		if !value.StrictEqual(neg, pos) {
			t.Errorf("index -%d: expected %s, got %s", k, show(pos), show(neg))
		}
	}
}

func TestEvaluate_Operators(t *testing.T) {
	runCases(t, []evalCase{
		{"precedence", `null`, `1 + 2 * 3`, `7`},
		{"grouping", `null`, `(1 + 2) * 3`, `9`},
		{"concat", `null`, `"a" + 1`, `"a1"`},
		{"modulo", `null`, `10 % 3`, `1`},
		{"division", `null`, `7 / 2`, `3.5`},
		{"loose equal", `null`, `1 == "1"`, `true`},
		{"strict equal", `null`, `1 === "1"`, `false`},
		{"nullish loose", `null`, `null == undefined`, `true`},
		{"nullish strict", `null`, `null === undefined`, `false`},
		{"not equal", `null`, `1 != 2`, `true`},
		{"structural", `null`, `[1,2] === [1,2]`, `true`},
		{"greater equal", `null`, `2 >= 2`, `true`},
		{"string order", `null`, `"b" > "a"`, `true`},
		{"not", `null`, `!0`, `true`},
		{"negate", `{"a":3}`, `-(.a)`, `-3`},
		{"and yields right", `{"a":1,"b":"x"}`, `.a && .b`, `"x"`},
		{"and yields left", `{"a":0,"b":"x"}`, `.a && .b`, `0`},
		{"or yields right", `{"a":0,"b":"y"}`, `.a || .b`, `"y"`},
		{"or yields left", `{"a":"z","b":"y"}`, `.a || .b`, `"z"`},
		{"operands see current value", `{"a":2,"b":3}`, `.a * .b`, `6`},
	})
}

func TestEvaluate_Coalesce(t *testing.T) {
	runCases(t, []evalCase{
		{"missing", `{}`, `.x ?? 5`, `5`},
		{"null", `{"x":null}`, `.x ?? 5`, `5`},
		{"zero kept", `{"x":0}`, `.x ?? 5`, `0`},
		{"chained", `{}`, `.x ?? .y ?? 3`, `3`},
	})

	t.Run("right side is lazy", func(t *testing.T) {
		got, err := Evaluate(`1 ?? error("evaluated")`, value.Null)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !value.StrictEqual(got, value.Int(1)) {
			t.Errorf("expected 1, got %s", show(got))
		}

		_, err = Evaluate(`null ?? error("evaluated")`, value.Null)
		if !errors.Is(err, builtin.ErrUser) {
			t.Errorf("expected user error, got %v", err)
		}
	})
}

func TestEvaluate_Closures(t *testing.T) {
	runCases(t, []evalCase{
		{"implicit member", `[{"k":10}]`, `.map(x => .k)`, `[10]`},
		{"index argument", `["a","b"]`, `.map((x, i) => i)`, `[0,1]`},
		{"captures outer", `[{"k":10,"ys":[1,2]}]`, `.map(x => x.ys.map(y => y + x.k))`, `[[11,12]]`},
		{"inner parameter shadows outer", `[{"k":10,"ys":[1,2]}]`, `.map(x => x.ys.map(x => x + 1))`, `[[2,3]]`},
		{"unbound name reads inner value", `[{"k":10,"ys":[{"k":1}]}]`, `.map(x => x.ys.map(y => k))`, `[[1]]`},
		{"reduce", `[1,2,3]`, `.reduce((a, b) => a + b, 0)`, `6`},
		{"reduce no seed", `[1,2,3]`, `.reduce((a, b) => a * b)`, `6`},
		{
			"implicit parameter", `[{"name":"a","age":40},{"name":"b","age":20}]`,
			`.filter(.age > 30).map(.name)`, `["a"]`,
		},
		{
			"implicit logical", `[{"active":true,"verified":true},{"active":true,"verified":false}]`,
			`.filter(.active && .verified).{length}`, `1`,
		},
		{"select in map", `[{"age":30},{"age":20}]`, `.map(x => select(x.age > 25))`, `[{"age":30}]`},
		{"implicit select", `[{"age":30},{"age":20}]`, `.map(x => select(.age > 25))`, `[{"age":30}]`},
		{"builtin with callback", `[{"t":"a"},{"t":"b"},{"t":"a"}]`, `.countBy(.t)`, `{"a":2,"b":1}`},
		{"builtin with name", `[{"n":2},{"n":1}]`, `.sortBy("n").pluck("n")`, `[1,2]`},
	})
}

func TestEvaluate_Control(t *testing.T) {
	runCases(t, []evalCase{
		{"pipe", `{"a":{"b":5}}`, `pipe(.a, .b)`, `5`},
		{"pipe on target", `{"a":{"b":5}}`, `.a.pipe(.b)`, `5`},
		{"pipe arrow", `{"a":{"b":5}}`, `pipe(.a, x => x.b + 1)`, `6`},
		{"compose", `{"a":{"b":5}}`, `compose(.b, .a)`, `5`},
		{"top-level omit", `1`, `select(false)`, `undefined`},
		{"empty", `1`, `empty()`, `undefined`},
		{"default", `{"a":null,"b":2}`, `.a.default(7)`, `7`},
		{"args see current value", `{"a":{"v":null},"d":9}`, `.a.v.default(.d)`, `9`},
		{"pipe sees target", `{"items":{"d":3},"d":9}`, `.items.pipe(.d)`, `3`},
	})
}

func TestEvaluate_Native(t *testing.T) {
	runCases(t, []evalCase{
		{"upper", `{"name":"Alice"}`, `.name.toUpperCase()`, `"ALICE"`},
		{"upper shortcut", `{"name":"Alice"}`, `.name.uc()`, `"ALICE"`},
		{"split", `"a,b,c"`, `.split(",")`, `["a","b","c"]`},
		{"split limit", `"a,b,c"`, `.split(",", 2)`, `["a","b"]`},
		{"trim", `"  a  "`, `.trim()`, `"a"`},
		{"replace", `"aaa"`, `.replace("a", "b")`, `"baa"`},
		{"replaceAll", `"aaa"`, `.replaceAll("a", "b")`, `"bbb"`},
		{"padStart", `"7"`, `.padStart(3, "0")`, `"007"`},
		{"padEnd", `"ab"`, `.padEnd(5, "xy")`, `"abxyx"`},
		{"string slice", `"hello"`, `.slice(-3)`, `"llo"`},
		{"substring swaps", `"hello"`, `.substring(3, 1)`, `"el"`},
		{"indexOf runes", `"héllo"`, `.indexOf("l")`, `2`},
		{"startsWith", `"hello"`, `.startsWith("he")`, `true`},
		{"repeat", `"ab"`, `.repeat(2)`, `"abab"`},
		{"charAt", `"abc"`, `.charAt(5)`, `""`},
		{"string at", `"abc"`, `.at(-1)`, `"c"`},
		{"toFixed", `3.14159`, `.toFixed(2)`, `"3.14"`},
		{"radix", `5`, `.toString(2)`, `"101"`},
		{"bool toString", `true`, `.toString()`, `"true"`},

		{"sort default", `[10,9,1]`, `.sort()`, `[1,10,9]`},
		{"sort comparator", `[10,9,1]`, `.sort((a, b) => a - b)`, `[1,9,10]`},
		{"join", `[1,null,"a"]`, `.join("-")`, `"1--a"`},
		{"join default", `[1,2]`, `.join()`, `"1,2"`},
		{"find", `[1,2,3]`, `.find(x => x > 1)`, `2`},
		{"find none", `[1,2,3]`, `.find(x => x > 5)`, `undefined`},
		{"findIndex", `[1,2,3]`, `.findIndex(x => x > 5)`, `-1`},
		{"some", `[1,2,3]`, `.some(x => x > 2)`, `true`},
		{"every", `[1,2,3]`, `.every(x => x > 1)`, `false`},
		{"includes", `[1,2,3]`, `.includes(2)`, `true`},
		{"indexOf", `[1,2,3]`, `.indexOf(3)`, `2`},
		{"lastIndexOf", `[1,2,1]`, `.lastIndexOf(1)`, `2`},
		{"flat", `[1,[2,[3]]]`, `.flat()`, `[1,2,[3]]`},
		{"flatMap", `[{"v":[1,2]},{"v":[3]}]`, `.flatMap(x => x.v)`, `[1,2,3]`},
		{"list slice", `[1,2,3,4]`, `.slice(1, -1)`, `[2,3]`},
		{"list at", `[1,2,3]`, `.at(-1)`, `3`},
		{"push", `[1,2,3]`, `.push(4)`, `[1,2,3,4]`},
		{"pop", `[1,2,3]`, `.pop()`, `3`},
		{"shift", `[1,2,3]`, `.shift()`, `1`},
		{"unshift", `[2]`, `.unshift(0, 1)`, `[0,1,2]`},
		{"concat", `[1,2]`, `.concat([3], 4)`, `[1,2,3,4]`},
		{"reverse", `[1,2,3]`, `.reverse()`, `[3,2,1]`},
		{"list toString", `[1,[2,3]]`, `.toString()`, `"1,2,3"`},
	})
}

func TestEvaluate_MethodErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expr   string
		method string
	}{
		{"unknown method", `[1]`, `.foo()`, "foo"},
		{"no methods on null", `null`, `.toString()`, "toString"},
		{"callback not a function", `[1]`, `.map(1)`, "map"},
		{"empty reduce", `[]`, `.reduce((a, b) => a + b)`, "reduce"},
		{"bad repeat", `"a"`, `.repeat(-1)`, "repeat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.expr, js(t, tt.input))

			var me *MethodExecutionError
			if !errors.As(err, &me) {
				t.Fatalf("expected method execution error, got %v", err)
			}

			if me.Method != tt.method {
				t.Errorf("expected method %q, got %q", tt.method, me.Method)
			}

			if !errors.Is(err, ErrMethodExecution) {
				t.Errorf("expected errors.Is(err, ErrMethodExecution)")
			}
		})
	}

	t.Run("callback error keeps cause", func(t *testing.T) {
		_, err := Evaluate(`.map(x => error("bad"))`, js(t, `[1]`))

		var ue *builtin.UserError
		if !errors.As(err, &ue) || ue.Message != "bad" {
			t.Fatalf("expected user error %q, got %v", "bad", err)
		}

		var me *MethodExecutionError
		if !errors.As(err, &me) || me.Method != "map" {
			t.Errorf("expected map failure, got %v", err)
		}
	})

	t.Run("innermost method reported", func(t *testing.T) {
		_, err := Evaluate(`.map(x => x.foo())`, js(t, `[[1]]`))

		var me *MethodExecutionError
		if !errors.As(err, &me) || me.Method != "foo" {
			t.Errorf("expected foo failure, got %v", err)
		}
	})
}

func TestEvaluate_Strict(t *testing.T) {
	tests := []struct {
		name  string
		input string
		expr  string
		prop  string
		pos   int
	}{
		{"missing key", `{"a":1}`, `.missing`, "missing", 1},
		{"non-object", `[1]`, `.a`, "a", 1},
		{"nested", `{"a":{}}`, `.a.b`, "b", 3},
		{"inside closure", `[{}]`, `.map(x => x.k)`, "k", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.expr, js(t, tt.input), WithStrict(true))

			var ue *UndefinedPropertyError
			if !errors.As(err, &ue) {
				t.Fatalf("expected undefined property error, got %v", err)
			}

			if ue.Property != tt.prop || ue.Pos != tt.pos {
				t.Errorf("expected %q at %d, got %q at %d", tt.prop, tt.pos, ue.Property, ue.Pos)
			}

			if !errors.Is(err, ErrUndefinedProperty) {
				t.Errorf("expected errors.Is(err, ErrUndefinedProperty)")
			}
		})
	}

	runCases(t, []evalCase{
		{"present", `{"a":1}`, `.a`, `1`},
		{"optional chain", `{"a":null}`, `.a?.b`, `undefined`},
		{"optional suffix", `{"a":1}`, `.a.b?`, `undefined`},
		{"coalesce after optional", `{}`, `.a? ?? 2`, `2`},
		{"parameter", `[1]`, `.map(x => x)`, `[1]`},
	}, WithStrict(true))
}

func TestEvaluate_Optional(t *testing.T) {
	runCases(t, []evalCase{
		{"null receiver", `{"a":null}`, `.a?.b`, `undefined`},
		{"present", `{"a":{"b":1}}`, `.a?.b`, `1`},
		{"method failure", `[1]`, `.foo()?`, `undefined`},
		{"user error", `1`, `error("x")?`, `undefined`},
	})
}

func TestEvaluate_Debug(t *testing.T) {
	var (
		label string
		seen  value.Value
	)

	got, err := Evaluate(`.a.debug("here").b`, js(t, `{"a":{"b":1}}`),
		WithDebug(func(l string, v value.Value) { label, seen = l, v }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if label != "here" || show(seen) != `{"b":1}` || show(got) != `1` {
		t.Errorf("expected here {\"b\":1} 1, got %s %s %s", label, show(seen), show(got))
	}

	if _, err := Evaluate(`debug()`, value.Null); err != nil {
		t.Errorf("expected no error without a sink, got %v", err)
	}
}

func TestCompile(t *testing.T) {
	ClearCache()

	p, err := Compile(`.mp(x => x)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Source() != `.mp(x => x)` {
		t.Errorf("expected source %q, got %q", `.mp(x => x)`, p.Source())
	}

	if p.Expanded() != `.map(x => x)` {
		t.Errorf("expected expanded %q, got %q", `.map(x => x)`, p.Expanded())
	}

	if p.String() != `map(x => .x)` {
		t.Errorf("expected canonical %q, got %q", `map(x => .x)`, p.String())
	}

	if q, _ := Compile(`.mp(x => x)`); q != p {
		t.Errorf("expected cached program")
	}

	ClearCache()

	if q, _ := Compile(`.mp(x => x)`); q == p {
		t.Errorf("expected fresh program after ClearCache")
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile(`.filter(`)

	var pe *syntax.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("expected parse error, got %v", err)
	}

	_, err = Compile(`.a @ b`)

	var le *syntax.LexError
	if !errors.As(err, &le) || le.Char != '@' {
		t.Errorf("expected lex error on '@', got %v", err)
	}

	if _, err := Evaluate(`.a @ b`, value.Null); !errors.Is(err, syntax.ErrLex) {
		t.Errorf("expected errors.Is(err, ErrLex), got %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("expected MustCompile to panic")
		}
	}()

	MustCompile(`.[`)
}

func TestProgram_Concurrent(t *testing.T) {
	p := MustCompile(`.filter(x => x % 2 == 0).map(x => x * 10).reduce((a, b) => a + b, 0)`)
	input := js(t, `[1,2,3,4,5,6]`)

	var wg sync.WaitGroup

	errs := make(chan string, 16)

	for range 16 {
		wg.Go(func() {
			got, err := p.Run(input)
			if err != nil || show(got) != "120" {
				errs <- show(got)
			}
		})
	}

	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("expected 120, got %s", got)
	}
}

func TestMethods(t *testing.T) {
	if got := Methods(value.KindNumber); !slices.Equal(got, []string{"toFixed", "toString"}) {
		t.Errorf("expected number methods, got %v", got)
	}

	if got := Methods(value.KindObject); !slices.Equal(got, []string{"toString"}) {
		t.Errorf("expected only toString for objects, got %v", got)
	}

	if got := Methods(value.KindNull); got != nil {
		t.Errorf("expected no methods for null, got %v", got)
	}

	list := Methods(value.KindList)
	for _, name := range []string{"map", "filter", "reduce", "toString"} {
		if !slices.Contains(list, name) {
			t.Errorf("expected list method %q in %v", name, list)
		}
	}

	if !slices.IsSorted(list) {
		t.Errorf("expected sorted names, got %v", list)
	}
}
