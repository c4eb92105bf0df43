package shortcut

import (
	"slices"
	"strconv"
	"strings"
)

// expansion rewrites implicit-form callback arguments in one pass over the
// pieces. Each group is handled when it closes, so inner calls are rewritten
// before the arguments that contain them, and a group's bare dots are
// handed to its parent instead of being scanned again. Rewrites are
// recorded as insertions and applied when the text is joined.
type expansion struct {
	ps    []piece
	match []int
	// arrow marks "(" groups holding an arrow at their top level, including
	// the arrows this pass inserts. Their dots belong to that arrow.
	arrow []bool
	// dots holds the bare dots inside each group that are still free.
	dots []dotList
	// free indexes the positions of identifiers that are not member names.
	free map[string][]int
	// head and param hold the parameter inserted before a piece, as the
	// start of an arrow function or as the receiver of a bare dot.
	head, param []string
}

type dot struct {
	pos  int
	next *dot
}

// dotList is a singly linked list so that a group's dots join its
// parent's in constant time.
type dotList struct {
	first, last *dot
	// compared counts the dots right after a logical or comparison operator.
	compared int
}

func (l *dotList) push(pos int, compared bool) {
	d := &dot{pos: pos}
	if l.last == nil {
		l.first = d
	} else {
		l.last.next = d
	}

	l.last = d

	if compared {
		l.compared++
	}
}

func (l *dotList) concat(m dotList) {
	if m.first == nil {
		return
	}

	if l.last == nil {
		l.first = m.first
	} else {
		l.last.next = m.first
	}

	l.last = m.last
	l.compared += m.compared
}

func expandImplicit(ps []piece) string {
	e := &expansion{
		ps:    ps,
		match: make([]int, len(ps)),
		arrow: make([]bool, len(ps)),
		dots:  make([]dotList, len(ps)),
		free:  map[string][]int{},
		head:  make([]string, len(ps)),
		param: make([]string, len(ps)),
	}

	var stack []int

	for i, p := range ps {
		e.match[i] = -1

		switch {
		case opens(p):
			stack = append(stack, i)
		case closes(p):
			if n := len(stack); n > 0 {
				open := stack[n-1]
				stack = stack[:n-1]
				e.match[open] = i
				e.group(open, i)
			}
		case p.kind == pieceIdent && !keywords[p.text]:
			if k := prevSignificant(ps, i); k < 0 || !ps[k].is(".") {
				e.free[p.text] = append(e.free[p.text], i)
			}
		}
	}

	// Unclosed groups run to the end of input, innermost first.
	for n := len(stack) - 1; n >= 0; n-- {
		e.match[stack[n]] = len(ps)
		e.group(stack[n], len(ps))
	}

	return e.String()
}

// group walks the top level of the group [open, end). The arguments of a
// callback call are rewritten; the dots left free are kept for the parent.
func (e *expansion) group(open, end int) {
	callback := false
	if e.ps[open].is("(") {
		k := prevSignificant(e.ps, open)
		callback = k >= 0 && e.ps[k].kind == pieceIdent && callbacks[e.ps[k].text]
	}

	var (
		all, arg dotList
		arrow    bool
	)

	a := open + 1

	for i := a; i <= end; i++ {
		if i == end || (callback && e.ps[i].is(",")) {
			if callback && !arrow && e.triggers(a, i, arg) {
				e.rewrite(open, a, i, arg)
			} else {
				all.concat(arg)
			}

			a, arg, arrow = i+1, dotList{}, false

			continue
		}

		switch p := e.ps[i]; {
		case p.arrow():
			arrow = true
			e.arrow[open] = true
		case opens(p):
			if !(p.is("(") && e.arrow[i]) {
				arg.concat(e.dots[i])
			}

			// An unclosed group ends this argument with its parent.
			i = min(e.match[i], end-1)
		case isBare(e.ps, i):
			k := prevSignificant(e.ps, i)
			arg.push(i, k >= 0 && e.ps[k].comparison())
		}
	}

	e.dots[open] = all
}

// triggers reports whether the argument [a, b) is in implicit form: it
// begins with a bare property (after any opening parens or unary
// operators), or a bare property follows a logical or comparison operator.
func (e *expansion) triggers(a, b int, dots dotList) bool {
	if dots.first == nil {
		return false
	}

	if dots.compared > 0 {
		return true
	}

	first := a
	for first < b {
		p := e.ps[first]
		if p.is("(") && e.arrow[first] {
			return false
		}

		if p.kind != pieceSpace && !p.is("(") && !p.is("!") && !p.is("-") {
			break
		}

		first++
	}

	return first < b && isBare(e.ps, first)
}

// rewrite turns the argument [a, b) of the call at open into an arrow
// function whose parameter receives every dot in dots.
func (e *expansion) rewrite(open, a, b int, dots dotList) {
	lead := a
	if lead < b && e.ps[lead].kind == pieceSpace {
		lead++
	}

	name := e.name(a, b)
	e.head[lead] = name

	for d := dots.first; d != nil; d = d.next {
		e.param[d.pos] = name
	}

	e.arrow[open] = true
}

// name returns the first parameter name that no free identifier in [a, b)
// already uses.
func (e *expansion) name(a, b int) string {
	for n := 0; ; n++ {
		name := candidate(n)

		at := e.free[name]
		if i, _ := slices.BinarySearch(at, a); i == len(at) || at[i] >= b {
			return name
		}
	}
}

func candidate(n int) string {
	switch n {
	case 0:
		return Param
	case 1:
		return "y"
	case 2:
		return "z"
	}

	return Param + strconv.Itoa(n-2)
}

func (e *expansion) String() string {
	var sb strings.Builder

	for i, p := range e.ps {
		if e.head[i] != "" {
			sb.WriteString(e.head[i] + " => ")
		}

		sb.WriteString(e.param[i])
		sb.WriteString(p.text)
	}

	return sb.String()
}
