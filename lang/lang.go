package lang

import (
	"sync"

	"github.com/ardnew/onels/lang/builtin"
	"github.com/ardnew/onels/lang/shortcut"
	"github.com/ardnew/onels/lang/syntax"
	"github.com/ardnew/onels/lang/value"
)

// Program is a compiled expression. It holds no evaluation state and may be
// run concurrently against different inputs.
type Program struct {
	source   string
	expanded string
	root     *syntax.Root
}

// Source returns the expression as it was written.
func (p *Program) Source() string { return p.source }

// Expanded returns the expression after shortcut expansion.
func (p *Program) Expanded() string { return p.expanded }

// String returns the canonical form of the parsed expression.
func (p *Program) String() string { return p.root.String() }

// AST returns the root of the parsed expression.
func (p *Program) AST() *syntax.Root { return p.root }

// Run evaluates the program against input.
//
// A result of the omit sentinel is reported as undefined.
func (p *Program) Run(input value.Value, opts ...Option) (value.Value, error) {
	o := applyOptions(opts...)

	e := &evaluator{
		strict: o.strict,
		ctx:    &builtin.Context{Debug: o.debug},
	}

	v, err := e.eval(p.root, input, nil)
	if err != nil {
		return value.Undefined, err
	}

	if v.Is(value.KindOmit) {
		return value.Undefined, nil
	}

	return v, nil
}

// entry memoizes the compilation of one source expression.
type entry struct {
	once sync.Once
	prog *Program
	err  error
}

// cache maps source text to its *entry.
var cache sync.Map

// Compile expands shortcuts in expr and parses the result. Compiled
// programs are cached by source text.
func Compile(expr string) (*Program, error) {
	v, _ := cache.LoadOrStore(expr, new(entry))

	ent, ok := v.(*entry)
	if !ok {
		return compile(expr)
	}

	ent.once.Do(func() {
		ent.prog, ent.err = compile(expr)
	})

	return ent.prog, ent.err
}

func compile(expr string) (*Program, error) {
	expanded := shortcut.Expand(expr)

	root, err := syntax.Parse(expanded)
	if err != nil {
		return nil, err
	}

	return &Program{source: expr, expanded: expanded, root: root}, nil
}

// MustCompile is like [Compile] but panics on error.
func MustCompile(expr string) *Program {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}

	return p
}

// ClearCache removes all compiled programs.
func ClearCache() {
	cache.Clear()
}

// Evaluate compiles expr and runs it against input.
func Evaluate(expr string, input value.Value, opts ...Option) (value.Value, error) {
	p, err := Compile(expr)
	if err != nil {
		return value.Undefined, err
	}

	return p.Run(input, opts...)
}
