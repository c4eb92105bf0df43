// Package builtin implements the global functions of the query language.
//
// Every builtin is a pure function of its input value and its evaluated
// arguments. Builtins are total: an input of the wrong shape yields the
// empty value of the expected result ([] or {} or 0, or undefined) instead
// of an error. The error builtin is the only one that fails on purpose;
// errors raised by callback arguments propagate unchanged.
//
// Builtins that take a function argument (sortBy, groupBy, ...) also
// accept a member name string as shorthand for x => x[name].
package builtin
