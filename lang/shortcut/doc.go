// Package shortcut rewrites terse query expressions into canonical form and
// back.
//
// Two tables drive the rewrite. Method shortcuts abbreviate member names and
// object operations (".mp" for ".map", ".kys" for ".{keys}"). Builtin-call
// shortcuts abbreviate global function names in call position ("hd()" for
// "head()"). Both tables are fixed at process start and never change.
//
// The rewrite is purely textual and total: [Expand] and [Shorten] never
// fail, and text they do not recognize passes through unchanged.
package shortcut
