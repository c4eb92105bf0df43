// Package value defines the dynamically-typed values queried by the
// expression engine.
//
// A [Value] holds exactly one of a closed set of kinds: undefined, null,
// boolean, number, string, list, object, function or the omit sentinel.
// Objects keep their members in insertion order. Conversions and
// comparisons follow JavaScript semantics so that expressions behave the way
// their syntax suggests:
//
//	value.LooseEqual(value.Number(1), value.String("1"))  // true
//	value.StrictEqual(value.Number(1), value.String("1")) // false
//	value.ToString(value.List(value.Int(1), value.Int(2))) // "1,2"
package value
