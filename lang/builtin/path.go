package builtin

import (
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/onels/lang/value"
)

var pathDefs = []*Def{
	{Name: "path", Usage: `path("a.b[0]")`, Description: "Path vector parsed from dotted notation", Impl: fnPath},
	{Name: "paths", Usage: "paths(f?)", Description: "Path vectors of every descendant", Impl: fnPaths},
	{Name: "getpath", Usage: "getpath(path)", Description: "Value at a path, or undefined", Impl: fnGetPath},
	{Name: "setpath", Usage: "setpath(path, v)", Description: "Copy with the value at a path replaced", Impl: fnSetPath},
	{Name: "delpath", Usage: "delpath(path)", Description: "Copy with the value at a path removed", Impl: fnDelPath},
}

// pathArg returns a path vector argument. A string is parsed as dotted
// notation.
func pathArg(v value.Value) ([]value.Value, bool) {
	if list, ok := v.AsList(); ok {
		return list, true
	}

	if s, ok := v.AsString(); ok {
		return parsePath(s), true
	}

	return nil, false
}

// parsePath splits "a.b[0].c" into ["a", "b", 0, "c"]. A leading dot is
// optional.
func parsePath(s string) []value.Value {
	out := []value.Value{}

	for _, seg := range strings.Split(strings.TrimPrefix(s, "."), ".") {
		name, rest, _ := strings.Cut(seg, "[")
		if name != "" {
			out = append(out, value.String(name))
		}

		for rest != "" {
			idx, tail, _ := strings.Cut(rest, "]")

			if n, err := strconv.Atoi(idx); err == nil {
				out = append(out, value.Int(n))
			} else if idx = strings.Trim(idx, `"'`); idx != "" {
				out = append(out, value.String(idx))
			}

			rest = strings.TrimPrefix(tail, "[")
		}
	}

	return out
}

func fnPath(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	src := in
	if len(args) > 0 {
		src = args[0]
	}

	s, ok := src.AsString()
	if !ok {
		return emptyList, nil
	}

	return value.List(parsePath(s)...), nil
}

// walk calls fn for every descendant of v in pre-order, with the path
// leading to it.
func walk(v value.Value, prefix []value.Value, fn func(path []value.Value, v value.Value) error) error {
	if list, ok := v.AsList(); ok {
		for i, e := range list {
			p := slices.Concat(prefix, []value.Value{value.Int(i)})
			if err := fn(p, e); err != nil {
				return err
			}

			if err := walk(e, p, fn); err != nil {
				return err
			}
		}
	}

	if obj, ok := v.AsObject(); ok {
		for k, e := range obj.All() {
			p := slices.Concat(prefix, []value.Value{value.String(k)})
			if err := fn(p, e); err != nil {
				return err
			}

			if err := walk(e, p, fn); err != nil {
				return err
			}
		}
	}

	return nil
}

func fnPaths(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	out := []value.Value{}

	err := walk(in, nil, func(path []value.Value, v value.Value) error {
		if len(args) > 0 {
			ok, err := truthy(args[0], v)
			if err != nil || !ok {
				return err
			}
		}

		out = append(out, value.List(path...))

		return nil
	})
	if err != nil {
		return value.Undefined, err
	}

	return value.List(out...), nil
}

// step returns the child of cur selected by key.
func step(cur, key value.Value) (value.Value, bool) {
	if key.Is(value.KindNumber) {
		i, ok := key.AsIndex()
		if !ok {
			return value.Undefined, false
		}

		return cur.Index(i)
	}

	return cur.Get(value.ToString(key))
}

func fnGetPath(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	path, ok := pathArg(arg(args, 0))
	if !ok {
		return value.Undefined, nil
	}

	cur := in

	for _, key := range path {
		if cur, ok = step(cur, key); !ok {
			return value.Undefined, nil
		}
	}

	return cur, nil
}

// setAt returns a copy of cur with the value at path replaced by v.
// Missing containers are created: lists for numeric keys, objects
// otherwise. Extending a list leaves undefined holes.
func setAt(cur value.Value, path []value.Value, v value.Value) value.Value {
	if len(path) == 0 {
		return v
	}

	key := path[0]

	if key.Is(value.KindNumber) {
		i, ok := key.AsIndex()
		if !ok {
			return cur
		}

		list, _ := cur.AsList()
		if i < 0 {
			if i += len(list); i < 0 {
				return cur
			}
		}

		if i >= maxRange {
			return cur
		}

		out := make([]value.Value, max(len(list), i+1))
		copy(out, list)
		out[i] = setAt(out[i], path[1:], v)

		return value.List(out...)
	}

	name := value.ToString(key)

	obj := value.NewObject()
	if o, ok := cur.AsObject(); ok {
		obj = o.Clone()
	}

	prev, _ := obj.Get(name)
	obj.Set(name, setAt(prev, path[1:], v))

	return value.FromObject(obj)
}

func fnSetPath(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	path, ok := pathArg(arg(args, 0))
	if !ok {
		return in, nil
	}

	return setAt(in, path, arg(args, 1)), nil
}

// delAt returns a copy of cur without the value at path. Missing paths
// leave cur unchanged.
func delAt(cur value.Value, path []value.Value) value.Value {
	if len(path) == 0 {
		return value.Null
	}

	child, ok := step(cur, path[0])
	if !ok {
		return cur
	}

	if list, ok := cur.AsList(); ok {
		i, _ := path[0].AsIndex()
		if i < 0 {
			i += len(list)
		}

		out := slices.Clone(list)
		if len(path) == 1 {
			out = slices.Delete(out, i, i+1)
		} else {
			out[i] = delAt(child, path[1:])
		}

		return value.List(out...)
	}

	obj, _ := cur.AsObject()
	out := obj.Clone()
	name := value.ToString(path[0])

	if len(path) == 1 {
		out.Delete(name)
	} else {
		out.Set(name, delAt(child, path[1:]))
	}

	return value.FromObject(out)
}

func fnDelPath(_ *Context, in value.Value, args []value.Value) (value.Value, error) {
	path, ok := pathArg(arg(args, 0))
	if !ok {
		return in, nil
	}

	return delAt(in, path), nil
}
