package lang

import (
	"maps"
	"slices"

	"github.com/ardnew/onels/lang/builtin"
	"github.com/ardnew/onels/lang/syntax"
	"github.com/ardnew/onels/lang/value"
)

// evaluator walks a syntax tree. One is created per run; it holds only the
// run's options.
type evaluator struct {
	strict bool
	ctx    *builtin.Context
}

// scope binds closure parameter names. The top level has a nil scope.
type scope map[string]value.Value

// eval evaluates n against the current value cur.
func (e *evaluator) eval(n syntax.Node, cur value.Value, sc scope) (value.Value, error) {
	switch n := n.(type) {
	case *syntax.Root:
		if n.Expr == nil {
			return cur, nil
		}

		return e.eval(n.Expr, cur, sc)

	case *syntax.PropertyAccess:
		return e.property(n, cur, sc)

	case *syntax.IndexAccess:
		return e.index(n, cur, sc)

	case *syntax.SliceAccess:
		return e.slice(n, cur, sc)

	case *syntax.ArraySpread:
		target, err := e.target(n.Object, cur, sc)
		if err != nil {
			return value.Undefined, err
		}

		return spread(target), nil

	case *syntax.MethodCall:
		return e.call(n, cur, sc)

	case *syntax.ObjectOperation:
		target, err := e.target(n.Object, cur, sc)
		if err != nil {
			return value.Undefined, err
		}

		return objectOperation(n.Op, target), nil

	case *syntax.Literal:
		return n.Value, nil

	case *syntax.ArrowFunction:
		return value.Func(&closure{eval: e, fn: n, scope: sc, cur: cur}), nil

	case *syntax.RecursiveDescent:
		target, err := e.target(n.Object, cur, sc)
		if err != nil {
			return value.Undefined, err
		}

		return value.List(descend(target, nil)...), nil

	case *syntax.OptionalAccess:
		v, err := e.eval(n.Expr, cur, sc)
		if err != nil {
			return value.Undefined, nil //nolint:nilerr
		}

		return v, nil

	case *syntax.NullCoalescing:
		left, err := e.eval(n.Left, cur, sc)
		if err != nil {
			return value.Undefined, err
		}

		if !left.IsNullish() {
			return left, nil
		}

		return e.eval(n.Right, cur, sc)

	default:
		return value.Undefined, nil
	}
}

// target evaluates the receiver of a postfix operation. A nil receiver is
// the current value.
func (e *evaluator) target(obj syntax.Node, cur value.Value, sc scope) (value.Value, error) {
	if obj == nil {
		return cur, nil
	}

	return e.eval(obj, cur, sc)
}

func (e *evaluator) property(n *syntax.PropertyAccess, cur value.Value, sc scope) (value.Value, error) {
	if n.Object == nil {
		if v, ok := sc[n.Property]; ok {
			return v, nil
		}
	}

	target, err := e.target(n.Object, cur, sc)
	if err != nil {
		return value.Undefined, err
	}

	// ..name collects the member from every descendant that has it.
	if _, ok := n.Object.(*syntax.RecursiveDescent); ok {
		list, _ := target.AsList()
		out := []value.Value{}

		for _, v := range list {
			if m, ok := v.Get(n.Property); ok {
				out = append(out, m)
			}
		}

		return value.List(out...), nil
	}

	v, ok := target.Get(n.Property)
	if !ok && e.strict {
		return value.Undefined, &UndefinedPropertyError{Property: n.Property, Pos: n.Pos}
	}

	return v, nil
}

func (e *evaluator) index(n *syntax.IndexAccess, cur value.Value, sc scope) (value.Value, error) {
	target, err := e.target(n.Object, cur, sc)
	if err != nil {
		return value.Undefined, err
	}

	idx, err := e.eval(n.Index, cur, sc)
	if err != nil {
		return value.Undefined, err
	}

	if key, ok := idx.AsString(); ok {
		v, _ := target.Get(key)

		return v, nil
	}

	i, ok := idx.AsIndex()
	if !ok {
		return value.Undefined, nil
	}

	v, _ := target.Index(i)

	return v, nil
}

func (e *evaluator) slice(n *syntax.SliceAccess, cur value.Value, sc scope) (value.Value, error) {
	target, err := e.target(n.Object, cur, sc)
	if err != nil {
		return value.Undefined, err
	}

	bound := func(b syntax.Node, def int) (int, error) {
		if b == nil {
			return def, nil
		}

		v, err := e.eval(b, cur, sc)
		if err != nil {
			return 0, err
		}

		if i, ok := v.AsIndex(); ok {
			return i, nil
		}

		return def, nil
	}

	size := target.Len()
	if size < 0 || target.Is(value.KindObject) {
		return value.Undefined, nil
	}

	start, err := bound(n.Start, 0)
	if err != nil {
		return value.Undefined, err
	}

	end, err := bound(n.End, size)
	if err != nil {
		return value.Undefined, err
	}

	lo, hi := span(start, end, size)

	if s, ok := target.AsString(); ok {
		return value.String(string([]rune(s)[lo:hi])), nil
	}

	list, _ := target.AsList()

	return value.List(list[lo:hi]...), nil
}

// span resolves slice bounds against a sequence of length size. Negative
// bounds count from the end; the result is clamped and never inverted.
func span(start, end, size int) (lo, hi int) {
	rel := func(i int) int {
		if i < 0 {
			i += size
		}

		return min(max(i, 0), size)
	}

	lo, hi = rel(start), rel(end)

	return lo, max(lo, hi)
}

// spread returns the elements of a list or the values of an object.
func spread(v value.Value) value.Value {
	if list, ok := v.AsList(); ok {
		return value.List(value.DropOmit(list)...)
	}

	if obj, ok := v.AsObject(); ok {
		return value.List(obj.Values()...)
	}

	return value.Undefined
}

func objectOperation(op syntax.ObjectOp, v value.Value) value.Value {
	if list, ok := v.AsList(); ok && op == syntax.ObjectLength {
		return value.Int(len(list))
	}

	obj, ok := v.AsObject()
	if !ok {
		return value.Undefined
	}

	switch op {
	case syntax.ObjectKeys:
		keys := obj.Keys()
		out := make([]value.Value, len(keys))

		for i, k := range keys {
			out[i] = value.String(k)
		}

		return value.List(out...)
	case syntax.ObjectValues:
		return value.List(obj.Values()...)
	case syntax.ObjectEntries:
		out := make([]value.Value, 0, obj.Len())
		for k, e := range obj.All() {
			out = append(out, value.List(value.String(k), e))
		}

		return value.List(out...)
	case syntax.ObjectLength:
		return value.Int(obj.Len())
	default:
		return value.Undefined
	}
}

// descend appends v and all of its descendants to out, pre-order.
func descend(v value.Value, out []value.Value) []value.Value {
	out = append(out, v)

	if list, ok := v.AsList(); ok {
		for _, e := range list {
			out = descend(e, out)
		}
	}

	if obj, ok := v.AsObject(); ok {
		for _, e := range obj.All() {
			out = descend(e, out)
		}
	}

	return out
}

// call dispatches a method call: pipe and compose first, then builtins,
// then operators, then native methods of the target.
func (e *evaluator) call(n *syntax.MethodCall, cur value.Value, sc scope) (value.Value, error) {
	switch {
	case n.Op == syntax.OpNone && n.Method == builtin.Pipe:
		return e.fold(n.Object, n.Args, cur, sc)

	case n.Op == syntax.OpNone && n.Method == builtin.Compose:
		steps := slices.Clone(n.Args)
		slices.Reverse(steps)

		return e.fold(n.Object, steps, cur, sc)

	case n.Op != syntax.OpNone:
		return e.operator(n, cur, sc)
	}

	target, err := e.target(n.Object, cur, sc)
	if err != nil {
		return value.Undefined, err
	}

	args, err := e.args(n.Args, cur, sc)
	if err != nil {
		return value.Undefined, err
	}

	if def, ok := builtin.Lookup(n.Method); ok {
		return def.Impl(e.ctx, target, args)
	}

	v, err := callNative(n.Method, target, args)
	if err != nil {
		return value.Undefined, methodError(n.Method, err)
	}

	return v, nil
}

// args evaluates call arguments against the current value, like operator
// operands. Arrow functions become closures.
func (e *evaluator) args(nodes []syntax.Node, cur value.Value, sc scope) ([]value.Value, error) {
	out := make([]value.Value, len(nodes))

	for i, a := range nodes {
		v, err := e.eval(a, cur, sc)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

// fold threads the target through each step in turn. A step that is an
// arrow function is called with the running value. Folding stops at the
// omit sentinel.
func (e *evaluator) fold(obj syntax.Node, steps []syntax.Node, cur value.Value, sc scope) (value.Value, error) {
	acc, err := e.target(obj, cur, sc)
	if err != nil {
		return value.Undefined, err
	}

	for _, step := range steps {
		if acc.Is(value.KindOmit) {
			break
		}

		v, err := e.eval(step, acc, sc)
		if err != nil {
			return value.Undefined, err
		}

		if _, ok := step.(*syntax.ArrowFunction); ok {
			fn, _ := v.AsFunc()

			if v, err = fn.Call(acc); err != nil {
				return value.Undefined, err
			}
		}

		acc = v
	}

	return acc, nil
}

// closure is the runtime form of an arrow function. It captures the scope
// and current value of the site that created it.
type closure struct {
	eval  *evaluator
	fn    *syntax.ArrowFunction
	scope scope
	cur   value.Value
}

// Call binds args to the parameters positionally and evaluates the body.
// Inside the body the current value is the first argument.
func (c *closure) Call(args ...value.Value) (value.Value, error) {
	sc := make(scope, len(c.scope)+len(c.fn.Params))
	maps.Copy(sc, c.scope)

	for i, p := range c.fn.Params {
		sc[p] = value.Undefined
		if i < len(args) {
			sc[p] = args[i]
		}
	}

	cur := c.cur
	if len(args) > 0 {
		cur = args[0]
	}

	return c.eval.eval(c.fn.Body, cur, sc)
}

func (c *closure) String() string { return c.fn.String() }
