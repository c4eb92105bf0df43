// Package lang evaluates query expressions against values.
//
// An expression is first rewritten by the shortcut layer, then parsed into
// a syntax tree, then walked against the input value. The walk is purely
// functional: inputs are never modified and a compiled [Program] may be run
// from many goroutines at once.
//
// # Evaluation
//
// Every expression is evaluated against a current value, which is the
// input at the top level:
//
//	.users[0].name        property and index access
//	.users[-2:]           slicing; negative bounds count from the end
//	.users.filter(x => x.age > 30).map(x => x.name)
//	.{keys}               keys, values, entries or length of an object
//	..                    the value and all of its descendants
//	.a?.b ?? "none"       optional access and null coalescing
//
// Method calls dispatch in a fixed order. pipe and compose thread the
// target through their arguments. A name found in the builtin library is
// called with the target and the evaluated arguments. Operators apply
// JavaScript coercion. Any other name is a native method of the target,
// such as map, join or toUpperCase; failures there are reported as a
// [MethodExecutionError].
//
// Call arguments are evaluated against the current value, like operator
// operands, so .a.v.default(.d) falls back to the d member beside a. pipe
// and compose instead thread the call's target through their arguments.
//
// # Closures
//
// Arrow functions are closures over the parameters in scope where they are
// written. Inside the body, a bare name resolves to a parameter when one is
// bound with that name, and otherwise to a member of the first argument:
//
//	.filter(x => x.age > 30)   explicit parameter
//	.filter(x => .age > 30)    same, through the first argument
//
// # Strict mode
//
// By default a missing property reads as undefined. With [WithStrict] it is
// an [UndefinedPropertyError]. Optional access (?. and a trailing ?) turns
// any error raised by the expression it wraps into undefined.
package lang
