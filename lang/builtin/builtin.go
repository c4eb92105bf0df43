package builtin

import (
	"cmp"
	"errors"
	"log/slog"
	"slices"

	"github.com/ardnew/onels/lang/value"
)

// Context carries per-evaluation state into builtins.
type Context struct {
	// Debug receives the values passed through the debug builtin. A nil
	// Debug discards them.
	Debug func(label string, v value.Value)
}

// Impl is the implementation of a builtin. in is the value the builtin is
// applied to; args are the evaluated call arguments, with arrow functions
// passed as callable values.
type Impl func(ctx *Context, in value.Value, args []value.Value) (value.Value, error)

// Def describes a builtin.
type Def struct {
	Name        string
	Usage       string
	Description string
	Impl        Impl
}

// Group names a family of builtins for display.
type Group string

// Builtin families.
const (
	GroupList    Group = "list"
	GroupObject  Group = "object"
	GroupMisc    Group = "misc"
	GroupPath    Group = "path"
	GroupControl Group = "control"
)

// Doc is the display form of a builtin.
type Doc struct {
	Name        string
	Usage       string
	Description string
	Group       Group
}

// Names of the builtins whose arguments the evaluator folds itself, before
// ordinary builtin dispatch.
const (
	Pipe    = "pipe"
	Compose = "compose"
)

var registry = map[string]*Def{}

var docs []Doc

func register(group Group, defs ...*Def) {
	for _, d := range defs {
		registry[d.Name] = d
		docs = append(docs, Doc{
			Name:        d.Name,
			Usage:       d.Usage,
			Description: d.Description,
			Group:       group,
		})
	}
}

func init() {
	register(GroupList, listDefs...)
	register(GroupObject, objectDefs...)
	register(GroupMisc, miscDefs...)
	register(GroupPath, pathDefs...)
	register(GroupControl, controlDefs...)

	docs = append(docs,
		Doc{
			Name:        Pipe,
			Usage:       "pipe(f, g, ...)",
			Description: "Evaluate each expression against the result of the previous one",
			Group:       GroupControl,
		},
		Doc{
			Name:        Compose,
			Usage:       "compose(f, g, ...)",
			Description: "Like pipe, right to left",
			Group:       GroupControl,
		},
	)
}

// Lookup returns the builtin named name. The evaluator-level builtins
// [Pipe] and [Compose] are not returned.
func Lookup(name string) (*Def, bool) {
	d, ok := registry[name]

	return d, ok
}

// Call invokes the builtin named name.
func Call(ctx *Context, name string, in value.Value, args ...value.Value) (value.Value, error) {
	d, ok := Lookup(name)
	if !ok {
		return value.Undefined, ErrUnknown.Wrap(errors.New(name)).
			With(slog.String("name", name))
	}

	if ctx == nil {
		ctx = &Context{}
	}

	return d.Impl(ctx, in, args)
}

// Docs returns the documentation of every builtin, sorted by group and
// name.
func Docs() []Doc {
	out := slices.Clone(docs)

	slices.SortFunc(out, func(a, b Doc) int {
		if c := cmp.Compare(a.Group, b.Group); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return out
}

// Names returns the names of every builtin, sorted.
func Names() []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Name
	}

	slices.Sort(out)

	return out
}

// arg returns args[i], or undefined when absent.
func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}

	return value.Undefined
}

// intArg returns args[i] as an integer, or def when absent or not a number.
func intArg(args []value.Value, i, def int) int {
	if n, ok := arg(args, i).AsIndex(); ok {
		return n
	}

	return def
}

// apply evaluates a key function against item. A callable is called with
// the item; a string reads that member of the item; anything else yields
// the item itself.
func apply(f, item value.Value, rest ...value.Value) (value.Value, error) {
	if fn, ok := f.AsFunc(); ok {
		return fn.Call(append([]value.Value{item}, rest...)...)
	}

	if key, ok := f.AsString(); ok {
		v, _ := item.Get(key)

		return v, nil
	}

	return item, nil
}

// truthy evaluates a predicate against item. An absent predicate tests
// the item itself.
func truthy(pred, item value.Value) (bool, error) {
	if pred.Is(value.KindUndefined) {
		return value.Truthy(item), nil
	}

	v, err := apply(pred, item)
	if err != nil {
		return false, err
	}

	return value.Truthy(v), nil
}

var emptyList = value.List()

func emptyObject() value.Value { return value.FromObject(value.NewObject()) }
